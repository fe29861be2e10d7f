package service

import (
	"context"

	"armario-outfits/models"
)

// OutfitServiceInterface defines the contract for outfit composition
type OutfitServiceInterface interface {
	Compose(ctx context.Context, req models.OutfitRequest) (*models.OutfitResponse, error)
}

// LookboardServiceInterface defines the contract for look board rendering
type LookboardServiceInterface interface {
	Render(ctx context.Context, productIDs []int64) ([]byte, error)
}
