package repository

import (
	"context"

	"armario-outfits/models"
	"armario-outfits/outfit"
)

// CatalogRepositoryInterface defines the catalog reads used outside the engine
type CatalogRepositoryInterface interface {
	outfit.Catalog
	GetByIDs(ctx context.Context, ids []int64) ([]models.CatalogItem, error)
	VariantsByProduct(ctx context.Context, productIDs []int64) (map[int64][]models.Variant, error)
}

// SessionRepositoryInterface defines the contract for shuffle-session storage
type SessionRepositoryInterface interface {
	// Load returns the product ids already shown in the session
	Load(ctx context.Context, sessionID string) ([]int64, error)
	// Append adds ids to the session and refreshes its expiry
	Append(ctx context.Context, sessionID string, ids []int64) error
}
