package postgres

import (
	"context"

	"cafe/internal/domain/entity"
	domainerrors "cafe/internal/domain/errors"
	"cafe/internal/domain/repository"
	"cafe/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// orderRepository implements the domain.OrderRepository interface using GORM.
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

// FindByID retrieves a single order with its lines.
func (repo *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var orderM model.OrderModel
	err := repo.db.WithContext(ctx).
		Preload("Lines").
		First(&orderM, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order by id")
	}

	return toOrderDomain(&orderM), nil
}

// FindByOwner retrieves all orders owned by a user, newest first.
func (repo *orderRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Order, error) {
	var orderModels []*model.OrderModel
	err := repo.db.WithContext(ctx).
		Preload("Lines").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&orderModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders by owner")
	}

	return toOrderDomains(orderModels), nil
}

// List retrieves all orders, newest first.
func (repo *orderRepository) List(ctx context.Context) ([]*entity.Order, error) {
	var orderModels []*model.OrderModel
	err := repo.db.WithContext(ctx).
		Preload("Lines").
		Order("created_at DESC").
		Find(&orderModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	return toOrderDomains(orderModels), nil
}

// Create persists an order together with all its lines. GORM inserts the line
// rows alongside the header; the surrounding transaction makes the pair atomic.
func (repo *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	orderM := fromOrderDomain(order)

	if err := repo.db.WithContext(ctx).Create(orderM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrProductNotFound.WrapMessage("order references a missing product or owner")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required order information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create order")
	}

	// Update the order entity with generated IDs and timestamps
	order.ID = orderM.ID
	order.CreatedAt = orderM.CreatedAt
	order.UpdatedAt = orderM.UpdatedAt
	for i, lineM := range orderM.Lines {
		order.Lines[i].ID = lineM.ID
		order.Lines[i].OrderID = lineM.OrderID
	}

	return nil
}

// Update modifies an order header and reconciles its line collection: lines
// missing from the entity are deleted, the rest are upserted.
func (repo *orderRepository) Update(ctx context.Context, order *entity.Order) error {
	tx := repo.db.WithContext(ctx)

	result := tx.Model(&model.OrderModel{ID: order.ID}).
		Select("Status", "PickupDate").
		Updates(fromOrderDomain(order))
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update order")
	}
	if result.RowsAffected == 0 {
		return repository.ErrOrderNotFound
	}

	// Drop lines that were removed from the aggregate.
	keep := make([]uuid.UUID, 0, len(order.Lines))
	for _, line := range order.Lines {
		if line.ID != uuid.Nil {
			keep = append(keep, line.ID)
		}
	}
	deleteQuery := tx.Where("order_id = ?", order.ID)
	if len(keep) > 0 {
		deleteQuery = deleteQuery.Where("id NOT IN ?", keep)
	}
	if err := deleteQuery.Delete(&model.OrderLineModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete removed order lines")
	}

	// Upsert the remaining lines. Save inserts lines without an ID and updates
	// the rest.
	for i := range order.Lines {
		lineM := fromOrderLineDomain(order.ID, &order.Lines[i])
		if err := tx.Save(lineM).Error; err != nil {
			if isForeignKeyConstraintViolation(err) {
				return domainerrors.ErrProductNotFound.WrapMessage("order line references a missing product")
			}

			return domainerrors.NewDatabaseExecuteError(err, "failed to save order line")
		}
		order.Lines[i].ID = lineM.ID
		order.Lines[i].OrderID = lineM.OrderID
	}

	return nil
}

// Delete removes an order and, through the cascade, its lines.
func (repo *orderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Delete(&model.OrderModel{}, "id = ?", id)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete order")
	}
	if result.RowsAffected == 0 {
		return repository.ErrOrderNotFound
	}

	return nil
}

// toOrderDomain maps a persistence model to the pure domain entity.
func toOrderDomain(orderM *model.OrderModel) *entity.Order {
	lines := make([]entity.OrderLine, 0, len(orderM.Lines))
	for _, lineM := range orderM.Lines {
		lines = append(lines, entity.OrderLine{
			ID:        lineM.ID,
			OrderID:   lineM.OrderID,
			ProductID: lineM.ProductID,
			Quantity:  lineM.Quantity,
			UnitPrice: lineM.UnitPrice,
		})
	}

	return &entity.Order{
		ID:         orderM.ID,
		OwnerID:    orderM.OwnerID,
		CreatedAt:  orderM.CreatedAt,
		PickupDate: orderM.PickupDate,
		Status:     entity.OrderStatus(orderM.Status),
		Lines:      lines,
		UpdatedAt:  orderM.UpdatedAt,
	}
}

func toOrderDomains(orderModels []*model.OrderModel) []*entity.Order {
	orders := make([]*entity.Order, 0, len(orderModels))
	for _, orderM := range orderModels {
		orders = append(orders, toOrderDomain(orderM))
	}

	return orders
}

// fromOrderDomain maps a domain entity to the persistence model, lines
// included.
func fromOrderDomain(order *entity.Order) *model.OrderModel {
	lines := make([]*model.OrderLineModel, 0, len(order.Lines))
	for i := range order.Lines {
		lines = append(lines, fromOrderLineDomain(order.ID, &order.Lines[i]))
	}

	return &model.OrderModel{
		ID:         order.ID,
		OwnerID:    order.OwnerID,
		Status:     order.Status.String(),
		PickupDate: order.PickupDate,
		Lines:      lines,
		CreatedAt:  order.CreatedAt,
		UpdatedAt:  order.UpdatedAt,
	}
}

func fromOrderLineDomain(orderID uuid.UUID, line *entity.OrderLine) *model.OrderLineModel {
	return &model.OrderLineModel{
		ID:        line.ID,
		OrderID:   orderID,
		ProductID: line.ProductID,
		Quantity:  line.Quantity,
		UnitPrice: line.UnitPrice,
	}
}
