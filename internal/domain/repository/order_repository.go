package repository

import (
	"context"
	"errors"

	"cafe/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrOrderNotFound is a domain-specific error returned when an order is not found.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepository defines the standard operations for order persistence.
// An order and its lines are one aggregate: creates persist header and lines
// atomically, updates replace the line collection (orphan removal).
type OrderRepository interface {
	// FindByID retrieves a single order with its lines.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	// FindByOwner retrieves all orders owned by a user, newest first.
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Order, error)

	// List retrieves all orders, newest first.
	List(ctx context.Context) ([]*entity.Order, error)

	// Create persists an order together with all its lines.
	Create(ctx context.Context, order *entity.Order) error

	// Update modifies an order header and reconciles its line collection.
	Update(ctx context.Context, order *entity.Order) error

	// Delete removes an order and, through the cascade, its lines.
	Delete(ctx context.Context, id uuid.UUID) error
}
