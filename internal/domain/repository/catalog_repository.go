package repository

import (
	"context"
	"errors"

	"cafe/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific lookup errors for catalog entities.
var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrImageNotFound    = errors.New("image not found")
)

// CategoryRepository defines the standard operations for category persistence.
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	List(ctx context.Context) ([]*entity.Category, error)
	Create(ctx context.Context, category *entity.Category) error
	Update(ctx context.Context, category *entity.Category) error

	// Delete removes a category. Products referencing it block the delete at
	// the database level (restrict), surfacing as a foreign-key error.
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductRepository defines the standard operations for product persistence.
type ProductRepository interface {
	// FindByID retrieves a product with its images preloaded.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// List retrieves all products with images, optionally filtered to
	// available ones only.
	List(ctx context.Context, onlyAvailable bool) ([]*entity.Product, error)

	Create(ctx context.Context, product *entity.Product) error
	Update(ctx context.Context, product *entity.Product) error

	// Delete removes a product and, through the cascade, its images. Backing
	// files are the caller's concern; see ImageRepository.
	Delete(ctx context.Context, id uuid.UUID) error

	// RemoveFromAllFavorites detaches the product from every user's favorite
	// set, keeping the reverse side of the association consistent on delete.
	RemoveFromAllFavorites(ctx context.Context, productID uuid.UUID) error
}

// ImageRepository defines the standard operations for image persistence.
type ImageRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Image, error)
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]*entity.Image, error)
	Create(ctx context.Context, image *entity.Image) error
	Delete(ctx context.Context, id uuid.UUID) error
}
