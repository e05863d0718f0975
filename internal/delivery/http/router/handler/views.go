package handler

import (
	"time"

	"cafe/internal/domain/entity"

	"github.com/google/uuid"
)

// View models returned to API clients. They decide exactly which entity
// fields go over the wire; the password hash never does.

// UserView is the outward representation of an account.
type UserView struct {
	ID        uuid.UUID   `json:"id"`
	Email     string      `json:"email"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Whatsapp  *string     `json:"whatsapp,omitempty"`
	Roles     []string    `json:"roles"`
	Status    string      `json:"status"`
	Favorites []uuid.UUID `json:"favorites"`
	CreatedAt time.Time   `json:"createdAt"`
}

func toUserView(user *entity.User) *UserView {
	return &UserView{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Whatsapp:  user.Whatsapp,
		Roles:     user.EffectiveRoles().ToStrings(),
		Status:    string(user.Status),
		Favorites: user.Favorites,
		CreatedAt: user.CreatedAt,
	}
}

func toUserViews(users []*entity.User) []*UserView {
	views := make([]*UserView, 0, len(users))
	for _, user := range users {
		views = append(views, toUserView(user))
	}

	return views
}

// CategoryView is the outward representation of a category.
type CategoryView struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

func toCategoryView(category *entity.Category) *CategoryView {
	return &CategoryView{ID: category.ID, Name: category.Name}
}

func toCategoryViews(categories []*entity.Category) []*CategoryView {
	views := make([]*CategoryView, 0, len(categories))
	for _, category := range categories {
		views = append(views, toCategoryView(category))
	}

	return views
}

// ImageView is the outward representation of a product image.
type ImageView struct {
	ID  uuid.UUID `json:"id"`
	URL string    `json:"url"`
	Alt *string   `json:"alt,omitempty"`
}

func toImageView(image *entity.Image) *ImageView {
	return &ImageView{ID: image.ID, URL: image.URL, Alt: image.Alt}
}

// ProductView is the outward representation of a menu item.
type ProductView struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       float64      `json:"price"`
	Available   bool         `json:"available"`
	CategoryID  uuid.UUID    `json:"categoryId"`
	Images      []*ImageView `json:"images"`
}

func toProductView(product *entity.Product) *ProductView {
	images := make([]*ImageView, 0, len(product.Images))
	for i := range product.Images {
		images = append(images, toImageView(&product.Images[i]))
	}

	return &ProductView{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Available:   product.Available,
		CategoryID:  product.CategoryID,
		Images:      images,
	}
}

func toProductViews(products []*entity.Product) []*ProductView {
	views := make([]*ProductView, 0, len(products))
	for _, product := range products {
		views = append(views, toProductView(product))
	}

	return views
}

// OrderLineView is the outward representation of one order line.
type OrderLineView struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unitPrice"`
}

// OrderView is the outward representation of an order.
type OrderView struct {
	ID         uuid.UUID       `json:"id"`
	OwnerID    uuid.UUID       `json:"ownerId"`
	Status     string          `json:"status"`
	PickupDate string          `json:"pickupDate"`
	Lines      []OrderLineView `json:"lines"`
	Total      float64         `json:"total"`
	CreatedAt  time.Time       `json:"createdAt"`
}

func toOrderView(order *entity.Order) *OrderView {
	lines := make([]OrderLineView, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, OrderLineView{
			ID:        line.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}

	return &OrderView{
		ID:         order.ID,
		OwnerID:    order.OwnerID,
		Status:     order.Status.String(),
		PickupDate: order.PickupDate.Format("2006-01-02"),
		Lines:      lines,
		Total:      order.Total(),
		CreatedAt:  order.CreatedAt,
	}
}

func toOrderViews(orders []*entity.Order) []*OrderView {
	views := make([]*OrderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, toOrderView(order))
	}

	return views
}
