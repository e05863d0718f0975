// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	// OrderStatusPending is the initial state of every new order.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusReady means the order is prepared and waiting for pickup.
	OrderStatusReady OrderStatus = "ready"
	// OrderStatusCollected means the customer picked the order up. Terminal.
	OrderStatusCollected OrderStatus = "collected"
	// OrderStatusRefused means the shop declined the order. Terminal.
	OrderStatusRefused OrderStatus = "refused"
	// OrderStatusCancelled means the order was cancelled. Terminal.
	OrderStatusCancelled OrderStatus = "cancelled"
)

// String returns the string representation of the OrderStatus.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid checks if the OrderStatus is a valid value.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusReady, OrderStatusCollected, OrderStatusRefused, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further business-driven transition happens
// automatically from this status.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusCollected, OrderStatusRefused, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// Order is the central aggregate: a pickup order owned by one user, holding
// an ordered list of lines. The owner is assigned once at creation and never
// changes; CreatedAt is immutable after creation.
type Order struct {
	ID         uuid.UUID
	OwnerID    uuid.UUID
	CreatedAt  time.Time
	PickupDate time.Time // Calendar date the customer will collect the order.
	Status     OrderStatus
	Lines      []OrderLine
	UpdatedAt  time.Time
}

// OrderLine is one product position on an order. The unit price is a snapshot
// captured at order time and never tracks later product price changes.
type OrderLine struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int // Positive; defaults to 1.
	UnitPrice float64
}

// AddLine appends a line to the order. The order is the owning side of the
// relationship; the line's back-reference is kept consistent here rather than
// through mirrored setters on both entities.
func (o *Order) AddLine(line OrderLine) {
	if line.Quantity <= 0 {
		line.Quantity = 1
	}
	line.OrderID = o.ID
	o.Lines = append(o.Lines, line)
}

// RemoveLine removes the line with the given ID from the order. Removal from
// the collection is what deletes the line (orphan removal).
func (o *Order) RemoveLine(lineID uuid.UUID) {
	for i, l := range o.Lines {
		if l.ID == lineID {
			o.Lines = append(o.Lines[:i], o.Lines[i+1:]...)

			return
		}
	}
}

// Total returns the sum of quantity times unit price over all lines.
func (o *Order) Total() float64 {
	var total float64
	for _, l := range o.Lines {
		total += float64(l.Quantity) * l.UnitPrice
	}

	return total
}

// IsTerminal reports whether the order reached a terminal status.
func (o *Order) IsTerminal() bool {
	return o.Status.IsTerminal()
}

// CancelIfNotTerminal cancels the order unless it already reached a terminal
// status. Idempotent; returns true when the status actually changed. Used by
// the account soft-deletion cascade, never invoked by clients directly.
func (o *Order) CancelIfNotTerminal() bool {
	if o.IsTerminal() {
		return false
	}
	o.Status = OrderStatusCancelled

	return true
}
