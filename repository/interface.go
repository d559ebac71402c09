package repository

import (
	"context"

	"storefront-service/models"
)

// CatalogRepository defines the catalog storage operations used by the
// catalog service. Plain Go types only, so adapters can be swapped and
// tests can use in-memory fakes.
type CatalogRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	// GetByID returns nil, nil when no product has the id.
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetByCategory(ctx context.Context, category string) ([]models.Product, error)
	// ReplaceAll clears the store and inserts every product. Individual
	// insert failures are tolerated; completion of the bulk write is the
	// success signal.
	ReplaceAll(ctx context.Context, products []models.Product) error
	// EnsureIndexes bootstraps the schema on first run.
	EnsureIndexes(ctx context.Context) error
}
