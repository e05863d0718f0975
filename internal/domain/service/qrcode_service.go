package service

import (
	"github.com/google/uuid"
)

// QRCodeService defines the interface for order pickup QR codes. The customer
// shows the code at the counter; the shop scans it to pull up the order.
type QRCodeService interface {
	// GeneratePickupQR generates a PNG QR code identifying an order pickup.
	GeneratePickupQR(orderID uuid.UUID) ([]byte, error)

	// ParsePickupQR parses QR code data and returns the order ID.
	ParsePickupQR(qrData string) (uuid.UUID, error)
}
