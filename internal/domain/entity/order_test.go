package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status   OrderStatus
		terminal bool
	}{
		{OrderStatusPending, false},
		{OrderStatusReady, false},
		{OrderStatusCollected, true},
		{OrderStatusRefused, true},
		{OrderStatusCancelled, true},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			assert.Equal(t, tt.terminal, tt.status.IsTerminal())
		})
	}
}

func TestOrder_CancelIfNotTerminal(t *testing.T) {
	order := &Order{Status: OrderStatusPending}

	changed := order.CancelIfNotTerminal()

	require.True(t, changed)
	assert.Equal(t, OrderStatusCancelled, order.Status)

	// Second call is a no-op on the now-terminal order.
	changed = order.CancelIfNotTerminal()

	assert.False(t, changed)
	assert.Equal(t, OrderStatusCancelled, order.Status)
}

func TestOrder_CancelIfNotTerminal_TerminalUnchanged(t *testing.T) {
	for _, status := range []OrderStatus{OrderStatusCollected, OrderStatusRefused} {
		order := &Order{Status: status}

		changed := order.CancelIfNotTerminal()

		assert.False(t, changed)
		assert.Equal(t, status, order.Status)
	}
}

func TestOrder_AddLine_DefaultsAndOwnership(t *testing.T) {
	order := &Order{ID: uuid.New()}

	order.AddLine(OrderLine{ProductID: uuid.New(), UnitPrice: 3.5})

	require.Len(t, order.Lines, 1)
	assert.Equal(t, 1, order.Lines[0].Quantity)
	assert.Equal(t, order.ID, order.Lines[0].OrderID)
}

func TestOrder_RemoveLine(t *testing.T) {
	order := &Order{ID: uuid.New()}
	lineID := uuid.New()
	order.AddLine(OrderLine{ID: lineID, ProductID: uuid.New(), Quantity: 2, UnitPrice: 2})
	order.AddLine(OrderLine{ID: uuid.New(), ProductID: uuid.New(), Quantity: 1, UnitPrice: 4})

	order.RemoveLine(lineID)

	require.Len(t, order.Lines, 1)
	assert.NotEqual(t, lineID, order.Lines[0].ID)
}

func TestOrder_Total(t *testing.T) {
	order := &Order{ID: uuid.New()}
	order.AddLine(OrderLine{ProductID: uuid.New(), Quantity: 2, UnitPrice: 3.5})
	order.AddLine(OrderLine{ProductID: uuid.New(), Quantity: 1, UnitPrice: 1.2})

	assert.InDelta(t, 8.2, order.Total(), 0.0001)
}

func TestUser_EffectiveRoles_AlwaysIncludesBaseRole(t *testing.T) {
	user := &User{}

	assert.Equal(t, Roles{RoleUser}, user.EffectiveRoles())

	admin := &User{Roles: Roles{RoleAdmin}}

	roles := admin.EffectiveRoles()
	assert.Contains(t, roles, RoleAdmin)
	assert.Contains(t, roles, RoleUser)
	assert.Len(t, roles, 2)
}

func TestUser_Favorites(t *testing.T) {
	user := &User{}
	productID := uuid.New()

	user.AddFavorite(productID)
	user.AddFavorite(productID) // no duplicate

	require.Len(t, user.Favorites, 1)
	assert.True(t, user.HasFavorite(productID))

	user.RemoveFavorite(productID)

	assert.Empty(t, user.Favorites)
}

func TestUser_SoftDelete(t *testing.T) {
	now := time.Date(2026, 2, 18, 9, 44, 26, 0, time.UTC)
	whatsapp := "+33612345678"
	user := &User{
		ID:        uuid.New(),
		Email:     "marie@example.com",
		FirstName: "Marie",
		LastName:  "Dupont",
		Whatsapp:  &whatsapp,
		Status:    AccountStatusActive,
		Favorites: []uuid.UUID{uuid.New()},
	}

	changed := user.SoftDelete(now)

	require.True(t, changed)
	assert.True(t, user.IsDeleted())
	assert.Equal(t, AccountStatusDeleted, user.Status)
	require.NotNil(t, user.DeletedAt)
	assert.Equal(t, now, *user.DeletedAt)
	assert.Empty(t, user.Favorites)
	assert.Equal(t, AnonymizedName, user.FirstName)
	assert.Equal(t, AnonymizedName, user.LastName)
	assert.Nil(t, user.Whatsapp)
	assert.Equal(t, "deleted+"+user.ID.String()+"+20260218094426@example.invalid", user.Email)
}

func TestUser_SoftDelete_Idempotent(t *testing.T) {
	user := &User{ID: uuid.New(), Email: "marie@example.com", Status: AccountStatusActive}

	require.True(t, user.SoftDelete(time.Now()))
	emailAfterFirst := user.Email

	changed := user.SoftDelete(time.Now().Add(time.Hour))

	assert.False(t, changed)
	assert.Equal(t, emailAfterFirst, user.Email)
}
