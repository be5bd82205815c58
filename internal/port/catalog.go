package port

import (
	"context"

	"recsys/internal/domain"
)

// CatalogSource supplies an already-validated catalog.
type CatalogSource interface {
	Load(ctx context.Context) (*domain.Catalog, error)
}

// CatalogStore persists catalog snapshots.
type CatalogStore interface {
	CatalogSource

	// ReplaceItems swaps the stored snapshot for items, preserving their order.
	ReplaceItems(ctx context.Context, items []domain.Item) error

	// Count returns the number of stored items.
	Count() (int, error)

	Close() error
}
