package services

import (
	"context"

	"github.com/google/uuid"

	"brickstore-service/internal/models"
)

// ProductStore is the persistence contract the variant engine needs from the
// product repository. SaveProduct must compare-and-swap on Product.Version
// and return ErrVersionConflict from the repository on a lost race.
type ProductStore interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	SaveProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

// StockLookup answers the two read-only questions the lock resolver asks of
// the stock-entry collection.
type StockLookup interface {
	// HasEntriesForProduct reports whether any stock entry exists for the
	// product, bound to a combination or not.
	HasEntriesForProduct(ctx context.Context, productID uuid.UUID) (bool, error)
	// LockedCombinationIDs returns the distinct combination ids referenced
	// by the product's stock entries.
	LockedCombinationIDs(ctx context.Context, productID uuid.UUID) ([]string, error)
}

// FileStore abstracts stored upload references. Remove is idempotent and
// best-effort; callers log failures and move on.
type FileStore interface {
	Remove(path string) error
}
