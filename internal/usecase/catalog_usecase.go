package usecase

import (
	"context"
	"io"

	"cafe/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// CategoryInput defines the data for creating or renaming a category.
type CategoryInput struct {
	Name string
}

// ProductInput defines the data for creating or updating a product.
type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Available   bool
	CategoryID  uuid.UUID
}

// UploadImageInput carries an uploaded image file destined for a product.
type UploadImageInput struct {
	ProductID   uuid.UUID
	Alt         *string
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// CatalogUsecase defines the menu management operations. Reads are public;
// writes are restricted to administrators by the delivery layer.
type CatalogUsecase interface {
	ListCategories(ctx context.Context) ([]*entity.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	CreateCategory(ctx context.Context, input CategoryInput) (*entity.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) (*entity.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	// ListProducts returns the menu. Customers see available products only;
	// admins pass onlyAvailable=false to see everything.
	ListProducts(ctx context.Context, onlyAvailable bool) ([]*entity.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	CreateProduct(ctx context.Context, input ProductInput) (*entity.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*entity.Product, error)

	// DeleteProduct removes a product, its images with their backing files,
	// and the product's presence in every favorite list.
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	// UploadImage validates, stores and attaches an image file to a product.
	UploadImage(ctx context.Context, input UploadImageInput) (*entity.Image, error)

	// DeleteImage removes an image row together with its backing file.
	DeleteImage(ctx context.Context, id uuid.UUID) error
}
