package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"belanja/internal/models"
	"belanja/internal/repositories"
)

// mockStore bundles the repository mocks behind the Store interface.
// Transaction simply runs the callback against the same store, so tests
// observe the exact repository calls a real transaction would issue.
type mockStore struct {
	users     *MockUserRepository
	products  *MockProductRepository
	variants  *MockVariantRepository
	carts     *MockCartRepository
	orders    *MockOrderRepository
	wishlists *MockWishlistRepository
}

func newMockStore() *mockStore {
	return &mockStore{
		users:     new(MockUserRepository),
		products:  new(MockProductRepository),
		variants:  new(MockVariantRepository),
		carts:     new(MockCartRepository),
		orders:    new(MockOrderRepository),
		wishlists: new(MockWishlistRepository),
	}
}

func (s *mockStore) Users() repositories.UserRepository         { return s.users }
func (s *mockStore) Products() repositories.ProductRepository   { return s.products }
func (s *mockStore) Variants() repositories.VariantRepository   { return s.variants }
func (s *mockStore) Carts() repositories.CartRepository         { return s.carts }
func (s *mockStore) Orders() repositories.OrderRepository       { return s.orders }
func (s *mockStore) Wishlists() repositories.WishlistRepository { return s.wishlists }

func (s *mockStore) Transaction(ctx context.Context, fn func(tx repositories.Store) error) error {
	return fn(s)
}

func (s *mockStore) assertExpectations(t mock.TestingT) {
	s.users.AssertExpectations(t)
	s.products.AssertExpectations(t)
	s.variants.AssertExpectations(t)
	s.carts.AssertExpectations(t)
	s.orders.AssertExpectations(t)
	s.wishlists.AssertExpectations(t)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) List(ctx context.Context, filter repositories.ProductFilter) ([]models.Product, int64, error) {
	args := m.Called(ctx, filter)
	var products []models.Product
	if args.Get(0) != nil {
		products = args.Get(0).([]models.Product)
	}
	return products, args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Deactivate(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) SKUExists(ctx context.Context, sku string, excludeID uint) (bool, error) {
	args := m.Called(ctx, sku, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) UpsertCategory(ctx context.Context, name string) (*models.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockProductRepository) SetCategories(ctx context.Context, product *models.Product, categories []models.Category) error {
	args := m.Called(ctx, product, categories)
	return args.Error(0)
}

func (m *MockProductRepository) ReplaceImages(ctx context.Context, productID uint, urls []string) error {
	args := m.Called(ctx, productID, urls)
	return args.Error(0)
}

func (m *MockProductRepository) ReplaceVariants(ctx context.Context, productID uint, variants []models.ProductVariant) error {
	args := m.Called(ctx, productID, variants)
	return args.Error(0)
}

func (m *MockProductRepository) UpdateStock(ctx context.Context, id uint, quantity int) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}

func (m *MockProductRepository) DecrementStock(ctx context.Context, id uint, quantity int) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}

func (m *MockProductRepository) ResyncStock(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockVariantRepository struct {
	mock.Mock
}

func (m *MockVariantRepository) GetByID(ctx context.Context, id uint) (*models.ProductVariant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProductVariant), args.Error(1)
}

func (m *MockVariantRepository) GetForUpdate(ctx context.Context, id uint) (*models.ProductVariant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProductVariant), args.Error(1)
}

func (m *MockVariantRepository) FirstActiveForProduct(ctx context.Context, productID uint) (*models.ProductVariant, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProductVariant), args.Error(1)
}

func (m *MockVariantRepository) Create(ctx context.Context, variant *models.ProductVariant) error {
	args := m.Called(ctx, variant)
	return args.Error(0)
}

func (m *MockVariantRepository) DecrementStock(ctx context.Context, id uint, quantity int) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}

func (m *MockVariantRepository) SKUExists(ctx context.Context, sku string) (bool, error) {
	args := m.Called(ctx, sku)
	return args.Bool(0), args.Error(1)
}

type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) GetByUser(ctx context.Context, userID uint) (*models.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *MockCartRepository) GetBySession(ctx context.Context, sessionToken string) (*models.Cart, error) {
	args := m.Called(ctx, sessionToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *MockCartRepository) Create(ctx context.Context, cart *models.Cart) error {
	args := m.Called(ctx, cart)
	return args.Error(0)
}

func (m *MockCartRepository) AssignToUser(ctx context.Context, cartID, userID uint) error {
	args := m.Called(ctx, cartID, userID)
	return args.Error(0)
}

func (m *MockCartRepository) AddItem(ctx context.Context, item *models.CartItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockCartRepository) UpdateItemQuantity(ctx context.Context, itemID uint, quantity int) error {
	args := m.Called(ctx, itemID, quantity)
	return args.Error(0)
}

func (m *MockCartRepository) RemoveItem(ctx context.Context, itemID uint) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}

func (m *MockCartRepository) ClearItems(ctx context.Context, cartID uint) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

func (m *MockCartRepository) Delete(ctx context.Context, cartID uint) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	args := m.Called(ctx, userID)
	var orders []models.Order
	if args.Get(0) != nil {
		orders = args.Get(0).([]models.Order)
	}
	return orders, args.Error(1)
}

func (m *MockOrderRepository) GetByIDForUser(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	args := m.Called(ctx, userID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) ListAll(ctx context.Context) ([]models.Order, error) {
	args := m.Called(ctx)
	var orders []models.Order
	if args.Get(0) != nil {
		orders = args.Get(0).([]models.Order)
	}
	return orders, args.Error(1)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, orderID uint) (*models.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, orderID uint, status string) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

type MockWishlistRepository struct {
	mock.Mock
}

func (m *MockWishlistRepository) ListByUser(ctx context.Context, userID uint) ([]models.WishlistItem, error) {
	args := m.Called(ctx, userID)
	var items []models.WishlistItem
	if args.Get(0) != nil {
		items = args.Get(0).([]models.WishlistItem)
	}
	return items, args.Error(1)
}

func (m *MockWishlistRepository) Exists(ctx context.Context, userID, productID uint) (bool, error) {
	args := m.Called(ctx, userID, productID)
	return args.Bool(0), args.Error(1)
}

func (m *MockWishlistRepository) Add(ctx context.Context, item *models.WishlistItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockWishlistRepository) Remove(ctx context.Context, userID, productID uint) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

// MockEventPublisher records published events.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(exchange, routingKey string, body []byte) error {
	args := m.Called(exchange, routingKey, body)
	return args.Error(0)
}
