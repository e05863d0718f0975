package usecase

import (
	"context"

	"cafe/internal/domain/entity"

	"github.com/google/uuid"
)

// FavoriteUsecase defines the operations on the authenticated user's favorite
// products.
type FavoriteUsecase interface {
	// ListFavorites returns the user's favorite products.
	ListFavorites(ctx context.Context, userID uuid.UUID) ([]*entity.Product, error)

	// AddFavorite marks a product as favorite. Adding twice is a no-op.
	AddFavorite(ctx context.Context, userID uuid.UUID, productID uuid.UUID) error

	// RemoveFavorite unmarks a favorite product.
	RemoveFavorite(ctx context.Context, userID uuid.UUID, productID uuid.UUID) error
}
