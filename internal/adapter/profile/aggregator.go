// Package profile turns a user's selection into a single query document.
package profile

import (
	"strings"

	"recsys/internal/domain"
)

// Profile is the synthetic query built from a selection.
type Profile struct {
	// Query is the selected items' tag texts joined by a single space.
	Query string

	// Indices are the catalog positions of the selected items, duplicates removed,
	// in selection order.
	Indices []int
}

// Empty reports whether no item was selected.
func (p Profile) Empty() bool {
	return len(p.Indices) == 0
}

// Aggregator resolves selections against a catalog.
type Aggregator struct {
	separator string
}

// NewAggregator creates an aggregator that joins tag texts with a single space.
func NewAggregator() *Aggregator {
	return &Aggregator{separator: " "}
}

// Aggregate resolves every key in selection and concatenates the tag texts.
// The first key that does not resolve fails the call with *domain.UnknownItemError.
func (a *Aggregator) Aggregate(catalog *domain.Catalog, selection domain.Selection) (Profile, error) {
	if len(selection) == 0 {
		return Profile{}, nil
	}

	seen := make(map[int]struct{}, len(selection))
	indices := make([]int, 0, len(selection))
	parts := make([]string, 0, len(selection))

	for _, key := range selection {
		idx, ok := catalog.Lookup(key)
		if !ok {
			return Profile{}, &domain.UnknownItemError{Key: key}
		}
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		indices = append(indices, idx)
		parts = append(parts, catalog.Item(idx).Tags)
	}

	return Profile{
		Query:   strings.Join(parts, a.separator),
		Indices: indices,
	}, nil
}
