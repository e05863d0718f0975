package impl

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafe/internal/domain/entity"
	domainerrors "cafe/internal/domain/errors"
	"cafe/internal/usecase"
)

func newTestOrderService(store *fakeStore, publisher *fakePublisher, now time.Time) *orderService {
	return &orderService{
		txManager:        &fakeTxManager{store: store},
		qrcodeService:    fakeQRCodeService{},
		eventPublisher:   publisher,
		logger:           discardLogger(),
		pickupWindowDays: 7,
		now:              func() time.Time { return now },
	}
}

func seedProduct(store *fakeStore, name string, price float64, available bool) *entity.Product {
	product := &entity.Product{
		ID:        uuid.New(),
		Name:      name,
		Price:     price,
		Available: available,
	}
	store.products[product.ID] = product

	return product
}

func TestOrderService_CreateOrder_ServerAssignedFields(t *testing.T) {
	store := newFakeStore()
	product := seedProduct(store, "Espresso", 2.50, true)
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	svc := newTestOrderService(store, &fakePublisher{}, now)
	ownerID := uuid.New()

	order, err := svc.CreateOrder(context.Background(), ownerID, usecase.CreateOrderInput{
		PickupDate: now.AddDate(0, 0, 2),
		Lines:      []usecase.OrderLineInput{{ProductID: product.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	assert.Equal(t, ownerID, order.OwnerID)
	assert.Equal(t, entity.OrderStatusPending, order.Status)
	require.Len(t, order.Lines, 1)
	assert.Equal(t, 3, order.Lines[0].Quantity)
	assert.InDelta(t, 2.50, order.Lines[0].UnitPrice, 1e-9)
	assert.InDelta(t, 7.50, order.Total(), 1e-9)
}

func TestOrderService_CreateOrder_DefaultsQuantityToOne(t *testing.T) {
	store := newFakeStore()
	product := seedProduct(store, "Latte", 3.80, true)
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	svc := newTestOrderService(store, &fakePublisher{}, now)

	order, err := svc.CreateOrder(context.Background(), uuid.New(), usecase.CreateOrderInput{
		PickupDate: now.AddDate(0, 0, 1),
		Lines:      []usecase.OrderLineInput{{ProductID: product.ID}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, order.Lines[0].Quantity)
}

func TestOrderService_CreateOrder_PickupWindow(t *testing.T) {
	now := time.Date(2026, 9, 1, 23, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		pickup  time.Time
		wantErr error
	}{
		{name: "missing date", pickup: time.Time{}, wantErr: domainerrors.ErrPickupDateMissing},
		{name: "today is too early", pickup: now, wantErr: domainerrors.ErrPickupDateTooEarly},
		{name: "yesterday is too early", pickup: now.AddDate(0, 0, -1), wantErr: domainerrors.ErrPickupDateTooEarly},
		{name: "tomorrow is the first valid day", pickup: now.AddDate(0, 0, 1)},
		{name: "last day of the window", pickup: now.AddDate(0, 0, 7)},
		{name: "one past the window", pickup: now.AddDate(0, 0, 8), wantErr: domainerrors.ErrPickupDateTooLate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			product := seedProduct(store, "Mocha", 4.20, true)
			svc := newTestOrderService(store, &fakePublisher{}, now)

			_, err := svc.CreateOrder(context.Background(), uuid.New(), usecase.CreateOrderInput{
				PickupDate: tt.pickup,
				Lines:      []usecase.OrderLineInput{{ProductID: product.ID}},
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOrderService_CreateOrder_RejectsEmptyAndUnavailable(t *testing.T) {
	store := newFakeStore()
	unavailable := seedProduct(store, "Seasonal", 5.00, false)
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	svc := newTestOrderService(store, &fakePublisher{}, now)

	_, err := svc.CreateOrder(context.Background(), uuid.New(), usecase.CreateOrderInput{
		PickupDate: now.AddDate(0, 0, 1),
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	_, err = svc.CreateOrder(context.Background(), uuid.New(), usecase.CreateOrderInput{
		PickupDate: now.AddDate(0, 0, 1),
		Lines:      []usecase.OrderLineInput{{ProductID: unavailable.ID}},
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	_, err = svc.CreateOrder(context.Background(), uuid.New(), usecase.CreateOrderInput{
		PickupDate: now.AddDate(0, 0, 1),
		Lines:      []usecase.OrderLineInput{{ProductID: uuid.New()}},
	})
	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)
}

func TestOrderService_GetOrder_Authorization(t *testing.T) {
	store := newFakeStore()
	owner := uuid.New()
	order := &entity.Order{ID: uuid.New(), OwnerID: owner, Status: entity.OrderStatusPending}
	store.orders[order.ID] = order
	svc := newTestOrderService(store, &fakePublisher{}, time.Now())

	got, err := svc.GetOrder(context.Background(), usecase.Actor{ID: owner}, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = svc.GetOrder(context.Background(), usecase.Actor{ID: uuid.New()}, order.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	admin := usecase.Actor{ID: uuid.New(), Roles: entity.Roles{entity.RoleAdmin}}
	_, err = svc.GetOrder(context.Background(), admin, order.ID)
	assert.NoError(t, err)

	_, err = svc.GetOrder(context.Background(), admin, uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrOrderNotFound)
}

func TestOrderService_ListMyOrders_NewestFirst(t *testing.T) {
	store := newFakeStore()
	owner := uuid.New()
	base := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		order := &entity.Order{
			ID:        uuid.New(),
			OwnerID:   owner,
			Status:    entity.OrderStatusPending,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		store.orders[order.ID] = order
	}
	otherOrder := &entity.Order{ID: uuid.New(), OwnerID: uuid.New(), CreatedAt: base.Add(10 * time.Hour)}
	store.orders[otherOrder.ID] = otherOrder

	svc := newTestOrderService(store, &fakePublisher{}, time.Now())

	orders, err := svc.ListMyOrders(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	for i := 1; i < len(orders); i++ {
		assert.True(t, orders[i-1].CreatedAt.After(orders[i].CreatedAt))
	}
}

func TestOrderService_UpdateOrderStatus_PublishesEvent(t *testing.T) {
	store := newFakeStore()
	order := &entity.Order{ID: uuid.New(), OwnerID: uuid.New(), Status: entity.OrderStatusPending}
	store.orders[order.ID] = order
	publisher := &fakePublisher{}
	svc := newTestOrderService(store, publisher, time.Now())

	updated, err := svc.UpdateOrderStatus(context.Background(), order.ID, entity.OrderStatusReady)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusReady, updated.Status)

	events := publisher.published()
	require.Len(t, events, 1)
	assert.Equal(t, "pending", events[0].OldStatus)
	assert.Equal(t, "ready", events[0].NewStatus)
	assert.Equal(t, order.ID.String(), events[0].OrderID)
}

func TestOrderService_UpdateOrderStatus_AdminMayLeaveTerminal(t *testing.T) {
	store := newFakeStore()
	order := &entity.Order{ID: uuid.New(), OwnerID: uuid.New(), Status: entity.OrderStatusCollected}
	store.orders[order.ID] = order
	svc := newTestOrderService(store, &fakePublisher{}, time.Now())

	updated, err := svc.UpdateOrderStatus(context.Background(), order.ID, entity.OrderStatusPending)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPending, updated.Status)
}

func TestOrderService_UpdateOrderStatus_SameStatusNoEvent(t *testing.T) {
	store := newFakeStore()
	order := &entity.Order{ID: uuid.New(), OwnerID: uuid.New(), Status: entity.OrderStatusReady}
	store.orders[order.ID] = order
	publisher := &fakePublisher{}
	svc := newTestOrderService(store, publisher, time.Now())

	_, err := svc.UpdateOrderStatus(context.Background(), order.ID, entity.OrderStatusReady)
	require.NoError(t, err)
	assert.Empty(t, publisher.published())
}

func TestOrderService_UpdateOrderStatus_RejectsUnknownStatus(t *testing.T) {
	svc := newTestOrderService(newFakeStore(), &fakePublisher{}, time.Now())

	_, err := svc.UpdateOrderStatus(context.Background(), uuid.New(), entity.OrderStatus("shipped"))
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestOrderService_GetPickupQR(t *testing.T) {
	store := newFakeStore()
	owner := uuid.New()
	order := &entity.Order{ID: uuid.New(), OwnerID: owner, Status: entity.OrderStatusReady}
	store.orders[order.ID] = order
	svc := newTestOrderService(store, &fakePublisher{}, time.Now())

	png, err := svc.GetPickupQR(context.Background(), usecase.Actor{ID: owner}, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "qr:"+order.ID.String(), string(png))

	_, err = svc.GetPickupQR(context.Background(), usecase.Actor{ID: uuid.New()}, order.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestOrderService_DeleteOrder(t *testing.T) {
	store := newFakeStore()
	order := &entity.Order{ID: uuid.New(), OwnerID: uuid.New(), Status: entity.OrderStatusPending}
	store.orders[order.ID] = order
	svc := newTestOrderService(store, &fakePublisher{}, time.Now())

	require.NoError(t, svc.DeleteOrder(context.Background(), order.ID))
	assert.NotContains(t, store.orders, order.ID)

	err := svc.DeleteOrder(context.Background(), order.ID)
	assert.ErrorIs(t, err, domainerrors.ErrOrderNotFound)
}
