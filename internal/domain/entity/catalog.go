// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products on the menu. It carries nothing but a name.
type Category struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Product is a menu item. It belongs to exactly one category and owns its
// images: deleting the product deletes the images and their backing files.
type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	Price       float64 // Non-negative unit price.
	Available   bool    // Unavailable products stay visible but cannot be ordered.
	CategoryID  uuid.UUID
	Images      []Image
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Image is a picture attached to a product. URL points at the stored file;
// removing the image must also remove that file.
type Image struct {
	ID        uuid.UUID
	URL       string
	Alt       *string // Optional alternative text.
	ProductID uuid.UUID
	CreatedAt time.Time
}
