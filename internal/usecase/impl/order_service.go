package impl

import (
	"context"
	"log/slog"
	"time"

	"cafe/config"
	"cafe/internal/domain/entity"
	domainerrors "cafe/internal/domain/errors"
	"cafe/internal/domain/repository"
	"cafe/internal/domain/service"
	"cafe/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// orderService implements the OrderUsecase interface.
type orderService struct {
	txManager        repository.TransactionManager
	qrcodeService    service.QRCodeService
	eventPublisher   service.EventPublisher
	logger           *slog.Logger
	pickupWindowDays int
	now              func() time.Time
}

// NewOrderService is the constructor for orderService.
func NewOrderService(
	cfg *config.Config,
	txManager repository.TransactionManager,
	qrcodeService service.QRCodeService,
	eventPublisher service.EventPublisher,
	logger *slog.Logger,
) usecase.OrderUsecase {
	return &orderService{
		txManager:        txManager,
		qrcodeService:    qrcodeService,
		eventPublisher:   eventPublisher,
		logger:           logger,
		pickupWindowDays: cfg.Orders.PickupWindowDays,
		now:              time.Now,
	}
}

// truncateToDate drops the time-of-day part, keeping only the calendar date.
func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// validatePickupDate enforces the ordering window: no same-day pickups, and
// nothing further out than the configured number of days.
func (srv *orderService) validatePickupDate(pickupDate time.Time) error {
	if pickupDate.IsZero() {
		return domainerrors.ErrPickupDateMissing
	}

	today := truncateToDate(srv.now())
	pickup := truncateToDate(pickupDate)

	if !pickup.After(today) {
		return domainerrors.ErrPickupDateTooEarly
	}
	if pickup.After(today.AddDate(0, 0, srv.pickupWindowDays)) {
		return domainerrors.ErrPickupDateTooLate
	}

	return nil
}

// CreateOrder places a pending order for the authenticated user. The owner,
// status and creation time are server-assigned; line prices are snapshots of
// the current product prices.
func (srv *orderService) CreateOrder(ctx context.Context, ownerID uuid.UUID, input usecase.CreateOrderInput) (*entity.Order, error) {
	if err := srv.validatePickupDate(input.PickupDate); err != nil {
		return nil, err
	}
	if len(input.Lines) == 0 {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("an order needs at least one line")
	}

	order := &entity.Order{
		OwnerID:    ownerID,
		PickupDate: truncateToDate(input.PickupDate),
		Status:     entity.OrderStatusPending,
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		productRepo := repoFactory.ProductRepo()

		for _, lineInput := range input.Lines {
			product, err := productRepo.FindByID(ctx, lineInput.ProductID)
			if err != nil {
				if errors.Is(err, repository.ErrProductNotFound) {
					return domainerrors.ErrProductNotFound
				}

				return errors.Wrap(err, "failed to load product for order line")
			}
			if !product.Available {
				return domainerrors.ErrValidationFailed.WrapMessage("product is not available")
			}

			order.AddLine(entity.OrderLine{
				ProductID: product.ID,
				Quantity:  lineInput.Quantity,
				UnitPrice: product.Price,
			})
		}

		if err := repoFactory.OrderRepo().Create(ctx, order); err != nil {
			return errors.Wrap(err, "failed to create order")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.logger.Info("Order created",
		"orderID", order.ID, "ownerID", ownerID, "lines", len(order.Lines))

	return order, nil
}

// GetOrder returns one order. Owners see their own orders, admins see all.
func (srv *orderService) GetOrder(ctx context.Context, actor usecase.Actor, orderID uuid.UUID) (*entity.Order, error) {
	order, err := srv.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.OwnerID != actor.ID && !actor.IsAdmin() {
		return nil, domainerrors.ErrForbidden
	}

	return order, nil
}

// ListMyOrders returns the authenticated user's orders, newest first.
func (srv *orderService) ListMyOrders(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error) {
	var orders []*entity.Order

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.OrderRepo().FindByOwner(ctx, userID)
		if err != nil {
			return errors.Wrap(err, "failed to list own orders")
		}
		orders = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	return orders, nil
}

// ListOrders returns all orders, newest first.
func (srv *orderService) ListOrders(ctx context.Context) ([]*entity.Order, error) {
	var orders []*entity.Order

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.OrderRepo().List(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to list orders")
		}
		orders = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	return orders, nil
}

// UpdateOrderStatus sets an order's status. Administrators may move an order
// between any two valid statuses, including out of a terminal one.
func (srv *orderService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status entity.OrderStatus) (*entity.Order, error) {
	if !status.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown order status")
	}

	var order *entity.Order
	var oldStatus entity.OrderStatus

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orderRepo := repoFactory.OrderRepo()

		found, err := orderRepo.FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				return domainerrors.ErrOrderNotFound
			}

			return errors.Wrap(err, "failed to find order")
		}

		oldStatus = found.Status
		found.Status = status

		if err := orderRepo.Update(ctx, found); err != nil {
			return errors.Wrap(err, "failed to update order status")
		}
		order = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	if oldStatus != status {
		event := &service.OrderStatusEvent{
			OrderID:   order.ID.String(),
			OwnerID:   order.OwnerID.String(),
			OldStatus: oldStatus.String(),
			NewStatus: status.String(),
			ChangedAt: srv.now().UTC().Format(time.RFC3339),
		}
		if err := srv.eventPublisher.PublishOrderStatusEvent(ctx, event); err != nil {
			// The update is committed; consumers catch up on the next change.
			srv.logger.Error("Failed to publish order status event",
				"orderID", order.ID, "error", err)
		}
	}

	srv.logger.Info("Order status updated",
		"orderID", orderID, "from", oldStatus, "to", status)

	return order, nil
}

// DeleteOrder removes an order entirely.
func (srv *orderService) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.OrderRepo().Delete(ctx, orderID); err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				return domainerrors.ErrOrderNotFound
			}

			return errors.Wrap(err, "failed to delete order")
		}

		return nil
	})
	if err != nil {
		return err
	}

	srv.logger.Info("Order deleted", "orderID", orderID)

	return nil
}

// GetPickupQR renders the PNG QR code the customer shows at pickup.
func (srv *orderService) GetPickupQR(ctx context.Context, actor usecase.Actor, orderID uuid.UUID) ([]byte, error) {
	order, err := srv.GetOrder(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}

	png, err := srv.qrcodeService.GeneratePickupQR(order.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate pickup QR code")
	}

	return png, nil
}

func (srv *orderService) findOrder(ctx context.Context, orderID uuid.UUID) (*entity.Order, error) {
	var order *entity.Order

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				return domainerrors.ErrOrderNotFound
			}

			return errors.Wrap(err, "failed to find order")
		}
		order = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}
