package qrcode

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQRCodeService_GeneratePickupQR(t *testing.T) {
	svc := NewQRCodeService(256, "M")

	png, err := svc.GeneratePickupQR(uuid.New())
	require.NoError(t, err)
	require.NotEmpty(t, png)

	// PNG magic bytes
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func TestQRCodeService_ParsePickupQR(t *testing.T) {
	svc := NewQRCodeService(256, "M")
	orderID := uuid.New()

	payload, err := json.Marshal(QRCodeData{OrderID: orderID.String(), Type: "pickup"})
	require.NoError(t, err)

	parsed, err := svc.ParsePickupQR(string(payload))
	require.NoError(t, err)
	assert.Equal(t, orderID, parsed)
}

func TestQRCodeService_ParsePickupQR_RejectsWrongType(t *testing.T) {
	svc := NewQRCodeService(256, "M")

	payload, err := json.Marshal(QRCodeData{OrderID: uuid.NewString(), Type: "subscription"})
	require.NoError(t, err)

	_, err = svc.ParsePickupQR(string(payload))
	assert.Error(t, err)
}

func TestQRCodeService_ParsePickupQR_RejectsGarbage(t *testing.T) {
	svc := NewQRCodeService(256, "M")

	_, err := svc.ParsePickupQR("not json")
	assert.Error(t, err)
}
