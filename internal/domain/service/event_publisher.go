package service

import (
	"context"
)

// OrderStatusEvent is emitted whenever an order's status changes after
// creation: admin updates and cascade cancellations alike.
type OrderStatusEvent struct {
	RequestID string `json:"request_id,omitempty"` // For distributed tracing
	OrderID   string `json:"order_id"`
	OwnerID   string `json:"owner_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	ChangedAt string `json:"changed_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishOrderStatusEvent publishes an order status change for async consumers.
	PublishOrderStatusEvent(ctx context.Context, event *OrderStatusEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
