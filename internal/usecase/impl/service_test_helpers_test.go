package impl

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"cafe/internal/domain/entity"
	"cafe/internal/domain/repository"
	"cafe/internal/domain/service"

	"github.com/google/uuid"
)

// In-memory fakes standing in for the persistence and infra layers. They keep
// the same contract the real implementations honor, including the
// repository-level not-found errors.

type fakeStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*entity.User
	catalog  map[uuid.UUID]*entity.Category
	products map[uuid.UUID]*entity.Product
	images   map[uuid.UUID]*entity.Image
	orders   map[uuid.UUID]*entity.Order
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[uuid.UUID]*entity.User),
		catalog:  make(map[uuid.UUID]*entity.Category),
		products: make(map[uuid.UUID]*entity.Product),
		images:   make(map[uuid.UUID]*entity.Image),
		orders:   make(map[uuid.UUID]*entity.Order),
	}
}

// fakeTxManager runs the callback directly against the shared store. The
// services under test treat it exactly like the GORM-backed manager.
type fakeTxManager struct {
	store *fakeStore
}

func (m *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(&fakeFactory{store: m.store})
}

type fakeFactory struct {
	store *fakeStore
}

func (f *fakeFactory) UserRepo() repository.UserRepository         { return &fakeUserRepo{store: f.store} }
func (f *fakeFactory) CategoryRepo() repository.CategoryRepository { return &fakeCategoryRepo{store: f.store} }
func (f *fakeFactory) ProductRepo() repository.ProductRepository   { return &fakeProductRepo{store: f.store} }
func (f *fakeFactory) ImageRepo() repository.ImageRepository       { return &fakeImageRepo{store: f.store} }
func (f *fakeFactory) OrderRepo() repository.OrderRepository       { return &fakeOrderRepo{store: f.store} }

func cloneUser(u *entity.User) *entity.User {
	cloned := *u
	cloned.Favorites = append([]uuid.UUID(nil), u.Favorites...)
	cloned.Roles = append(entity.Roles(nil), u.Roles...)

	return &cloned
}

type fakeUserRepo struct {
	store *fakeStore
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user, ok := r.store.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return cloneUser(user), nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, user := range r.store.users {
		if user.Email == email {
			return cloneUser(user), nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) List(_ context.Context) ([]*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	users := make([]*entity.User, 0, len(r.store.users))
	for _, user := range r.store.users {
		users = append(users, cloneUser(user))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })

	return users, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.store.users[user.ID] = cloneUser(user)

	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	r.store.users[user.ID] = cloneUser(user)

	return nil
}

type fakeCategoryRepo struct {
	store *fakeStore
}

func (r *fakeCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Category, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	category, ok := r.store.catalog[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	cloned := *category

	return &cloned, nil
}

func (r *fakeCategoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	categories := make([]*entity.Category, 0, len(r.store.catalog))
	for _, category := range r.store.catalog {
		cloned := *category
		categories = append(categories, &cloned)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })

	return categories, nil
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *entity.Category) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	category.ID = uuid.New()
	cloned := *category
	r.store.catalog[category.ID] = &cloned

	return nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, category *entity.Category) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.catalog[category.ID]; !ok {
		return repository.ErrCategoryNotFound
	}
	cloned := *category
	r.store.catalog[category.ID] = &cloned

	return nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.catalog[id]; !ok {
		return repository.ErrCategoryNotFound
	}
	delete(r.store.catalog, id)

	return nil
}

func cloneProduct(p *entity.Product) *entity.Product {
	cloned := *p
	cloned.Images = append([]entity.Image(nil), p.Images...)

	return &cloned
}

type fakeProductRepo struct {
	store *fakeStore
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	product, ok := r.store.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}

	return cloneProduct(product), nil
}

func (r *fakeProductRepo) List(_ context.Context, onlyAvailable bool) ([]*entity.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	products := make([]*entity.Product, 0, len(r.store.products))
	for _, product := range r.store.products {
		if onlyAvailable && !product.Available {
			continue
		}
		products = append(products, cloneProduct(product))
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })

	return products, nil
}

func (r *fakeProductRepo) Create(_ context.Context, product *entity.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	product.ID = uuid.New()
	r.store.products[product.ID] = cloneProduct(product)

	return nil
}

func (r *fakeProductRepo) Update(_ context.Context, product *entity.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.products[product.ID]; !ok {
		return repository.ErrProductNotFound
	}
	r.store.products[product.ID] = cloneProduct(product)

	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(r.store.products, id)
	for imageID, image := range r.store.images {
		if image.ProductID == id {
			delete(r.store.images, imageID)
		}
	}

	return nil
}

func (r *fakeProductRepo) RemoveFromAllFavorites(_ context.Context, productID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, user := range r.store.users {
		user.RemoveFavorite(productID)
	}

	return nil
}

type fakeImageRepo struct {
	store *fakeStore
}

func (r *fakeImageRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Image, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	image, ok := r.store.images[id]
	if !ok {
		return nil, repository.ErrImageNotFound
	}
	cloned := *image

	return &cloned, nil
}

func (r *fakeImageRepo) FindByProduct(_ context.Context, productID uuid.UUID) ([]*entity.Image, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var images []*entity.Image
	for _, image := range r.store.images {
		if image.ProductID == productID {
			cloned := *image
			images = append(images, &cloned)
		}
	}

	return images, nil
}

func (r *fakeImageRepo) Create(_ context.Context, image *entity.Image) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.products[image.ProductID]; !ok {
		return repository.ErrProductNotFound
	}
	image.ID = uuid.New()
	cloned := *image
	r.store.images[image.ID] = &cloned

	product := r.store.products[image.ProductID]
	product.Images = append(product.Images, cloned)

	return nil
}

func (r *fakeImageRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	image, ok := r.store.images[id]
	if !ok {
		return repository.ErrImageNotFound
	}
	delete(r.store.images, id)

	if product, ok := r.store.products[image.ProductID]; ok {
		for i, img := range product.Images {
			if img.ID == id {
				product.Images = append(product.Images[:i], product.Images[i+1:]...)

				break
			}
		}
	}

	return nil
}

func cloneOrder(o *entity.Order) *entity.Order {
	cloned := *o
	cloned.Lines = append([]entity.OrderLine(nil), o.Lines...)

	return &cloned
}

type fakeOrderRepo struct {
	store *fakeStore
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	order, ok := r.store.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}

	return cloneOrder(order), nil
}

func (r *fakeOrderRepo) FindByOwner(_ context.Context, ownerID uuid.UUID) ([]*entity.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var orders []*entity.Order
	for _, order := range r.store.orders {
		if order.OwnerID == ownerID {
			orders = append(orders, cloneOrder(order))
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })

	return orders, nil
}

func (r *fakeOrderRepo) List(_ context.Context) ([]*entity.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	orders := make([]*entity.Order, 0, len(r.store.orders))
	for _, order := range r.store.orders {
		orders = append(orders, cloneOrder(order))
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })

	return orders, nil
}

func (r *fakeOrderRepo) Create(_ context.Context, order *entity.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	order.ID = uuid.New()
	order.CreatedAt = time.Now()
	for i := range order.Lines {
		order.Lines[i].ID = uuid.New()
		order.Lines[i].OrderID = order.ID
	}
	r.store.orders[order.ID] = cloneOrder(order)

	return nil
}

func (r *fakeOrderRepo) Update(_ context.Context, order *entity.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.orders[order.ID]; !ok {
		return repository.ErrOrderNotFound
	}
	r.store.orders[order.ID] = cloneOrder(order)

	return nil
}

func (r *fakeOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.orders[id]; !ok {
		return repository.ErrOrderNotFound
	}
	delete(r.store.orders, id)

	return nil
}

// fakeHasher prefixes instead of hashing; good enough to verify wiring.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (fakeHasher) Check(password, hash string) bool     { return hash == "hashed:"+password }

type fakeTokenService struct{}

func (fakeTokenService) GenerateAccessToken(userID uuid.UUID, _ []string) (string, error) {
	return "token-for-" + userID.String(), nil
}

func (fakeTokenService) ValidateAccessToken(string) (*service.TokenClaims, error) {
	return nil, nil
}

func (fakeTokenService) AccessTokenDuration() time.Duration { return time.Minute }

// fakePublisher records every published event.
type fakePublisher struct {
	mu     sync.Mutex
	events []*service.OrderStatusEvent
}

func (p *fakePublisher) PublishOrderStatusEvent(_ context.Context, event *service.OrderStatusEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)

	return nil
}

func (p *fakePublisher) Close() error { return nil }

func (p *fakePublisher) published() []*service.OrderStatusEvent {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]*service.OrderStatusEvent(nil), p.events...)
}

// fakeFileStorage records stored keys and deleted paths.
type fakeFileStorage struct {
	mu      sync.Mutex
	stored  map[string]string
	deleted []string
}

func newFakeFileStorage() *fakeFileStorage {
	return &fakeFileStorage{stored: make(map[string]string)}
}

func (s *fakeFileStorage) Store(_ context.Context, key string, _ string, content io.Reader) (string, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	publicPath := "/uploads/" + key
	s.stored[publicPath] = string(data)

	return publicPath, nil
}

func (s *fakeFileStorage) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.stored, path)
	s.deleted = append(s.deleted, path)

	return nil
}

type fakeQRCodeService struct{}

func (fakeQRCodeService) GeneratePickupQR(orderID uuid.UUID) ([]byte, error) {
	return []byte("qr:" + orderID.String()), nil
}

func (fakeQRCodeService) ParsePickupQR(string) (uuid.UUID, error) { return uuid.Nil, nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
