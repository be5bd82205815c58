// Package memstore holds a process-wide catalog snapshot in memory.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"recsys/internal/domain"
	"recsys/internal/port"
)

// Snapshot loads a catalog from its source exactly once and serves the same
// read-only catalog to every caller afterwards. A failed load is remembered
// and returned on every call.
type Snapshot struct {
	source port.CatalogSource

	once    sync.Once
	mu      sync.RWMutex
	catalog *domain.Catalog
	err     error
}

var _ port.CatalogSource = (*Snapshot)(nil)

func NewSnapshot(source port.CatalogSource) *Snapshot {
	return &Snapshot{source: source}
}

// NewStaticSnapshot wraps an already-loaded catalog.
func NewStaticSnapshot(c *domain.Catalog) *Snapshot {
	s := &Snapshot{catalog: c}
	s.once.Do(func() {})
	return s
}

// Get returns the catalog, loading it on first use.
func (s *Snapshot) Get(ctx context.Context) (*domain.Catalog, error) {
	s.once.Do(func() {
		c, err := s.source.Load(ctx)
		s.mu.Lock()
		defer s.mu.Unlock()
		if err != nil {
			s.err = fmt.Errorf("failed to load catalog: %w", err)
			return
		}
		s.catalog = c
	})

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog, s.err
}

// Load implements port.CatalogSource.
func (s *Snapshot) Load(ctx context.Context) (*domain.Catalog, error) {
	return s.Get(ctx)
}

// Loaded reports whether the catalog has been loaded successfully.
func (s *Snapshot) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog != nil
}
