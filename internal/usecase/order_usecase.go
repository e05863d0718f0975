package usecase

import (
	"context"
	"time"

	"cafe/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// OrderLineInput defines one product position on a new order.
type OrderLineInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// CreateOrderInput defines the data required to place an order. Owner, status
// and creation time are assigned by the server, never taken from the client.
type CreateOrderInput struct {
	PickupDate time.Time
	Lines      []OrderLineInput
}

// OrderUsecase defines the order lifecycle operations.
type OrderUsecase interface {
	// CreateOrder places a pending order for the authenticated user. The
	// pickup date must fall within the configured window starting tomorrow.
	CreateOrder(ctx context.Context, ownerID uuid.UUID, input CreateOrderInput) (*entity.Order, error)

	// GetOrder returns one order. Owners see their own orders, admins see all.
	GetOrder(ctx context.Context, actor Actor, orderID uuid.UUID) (*entity.Order, error)

	// ListMyOrders returns the authenticated user's orders, newest first.
	ListMyOrders(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error)

	// ListOrders returns all orders, newest first. Admin only.
	ListOrders(ctx context.Context) ([]*entity.Order, error)

	// UpdateOrderStatus sets an order's status and publishes a status change
	// event. Admin only; any transition between valid statuses is accepted.
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status entity.OrderStatus) (*entity.Order, error)

	// DeleteOrder removes an order entirely. Admin only.
	DeleteOrder(ctx context.Context, orderID uuid.UUID) error

	// GetPickupQR renders the PNG QR code the customer shows at pickup.
	// Owners get their own orders' codes, admins any.
	GetPickupQR(ctx context.Context, actor Actor, orderID uuid.UUID) ([]byte, error)
}
