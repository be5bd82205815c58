package domain

import "fmt"

// Item is a single catalog entry. Tags is the only input to the vector space.
type Item struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Category string `json:"category" yaml:"category"`
	Tags     string `json:"tags" yaml:"tags"`
}

// Catalog is an ordered, read-only collection of items with unique ids and names.
type Catalog struct {
	items  []Item
	byID   map[string]int
	byName map[string]int
}

// NewCatalog builds a catalog, rejecting duplicate ids or names.
func NewCatalog(items []Item) (*Catalog, error) {
	c := &Catalog{
		items:  make([]Item, len(items)),
		byID:   make(map[string]int, len(items)),
		byName: make(map[string]int, len(items)),
	}
	copy(c.items, items)

	for i, it := range c.items {
		if it.ID == "" {
			return nil, fmt.Errorf("item at position %d has no id", i)
		}
		if _, dup := c.byID[it.ID]; dup {
			return nil, fmt.Errorf("%w: id %q", ErrDuplicateItem, it.ID)
		}
		c.byID[it.ID] = i
		if it.Name == "" {
			continue
		}
		if _, dup := c.byName[it.Name]; dup {
			return nil, fmt.Errorf("%w: name %q", ErrDuplicateItem, it.Name)
		}
		c.byName[it.Name] = i
	}

	return c, nil
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Item returns the item at position i.
func (c *Catalog) Item(i int) Item {
	return c.items[i]
}

// Items returns a copy of the items in catalog order.
func (c *Catalog) Items() []Item {
	if c == nil {
		return nil
	}
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Lookup resolves a key by identifier first, then by display name.
func (c *Catalog) Lookup(key string) (int, bool) {
	if c == nil {
		return 0, false
	}
	if i, ok := c.byID[key]; ok {
		return i, true
	}
	i, ok := c.byName[key]
	return i, ok
}

// Documents returns the tag text of every item in catalog order.
func (c *Catalog) Documents() []string {
	docs := make([]string, c.Len())
	for i := range docs {
		docs[i] = c.items[i].Tags
	}
	return docs
}

// Selection is a set of item keys (ids or names) chosen by the caller.
type Selection []string

// Recommendation is one ranked result.
type Recommendation struct {
	ItemID   string  `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Category string  `json:"category" yaml:"category"`
	Tags     string  `json:"-" yaml:"-"`
	Score    float64 `json:"similarity" yaml:"similarity"`
}
