package repositories

import (
	"context"

	"gorm.io/gorm"

	"belanja/internal/models"
)

// Store aggregates the entity repositories and provides the transaction
// scope shared by multi-write operations such as order placement and cart
// merging. Inside Transaction every repository obtained from the passed
// Store is bound to the same database transaction; any returned error rolls
// the whole unit back.
type Store interface {
	Users() UserRepository
	Products() ProductRepository
	Variants() VariantRepository
	Carts() CartRepository
	Orders() OrderRepository
	Wishlists() WishlistRepository

	Transaction(ctx context.Context, fn func(tx Store) error) error
}

// GORMStore is the GORM implementation of Store.
type GORMStore struct {
	db *gorm.DB
}

// NewGORMStore creates a new Store backed by the given GORM handle.
func NewGORMStore(db *gorm.DB) *GORMStore {
	return &GORMStore{db: db}
}

func (s *GORMStore) Users() UserRepository         { return NewGORMUserRepository(s.db) }
func (s *GORMStore) Products() ProductRepository   { return NewGORMProductRepository(s.db) }
func (s *GORMStore) Variants() VariantRepository   { return NewGORMVariantRepository(s.db) }
func (s *GORMStore) Carts() CartRepository         { return NewGORMCartRepository(s.db) }
func (s *GORMStore) Orders() OrderRepository       { return NewGORMOrderRepository(s.db) }
func (s *GORMStore) Wishlists() WishlistRepository { return NewGORMWishlistRepository(s.db) }

// Transaction runs fn inside a single database transaction. fn receives a
// Store bound to that transaction; returning an error rolls everything back.
func (s *GORMStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGORMStore(tx))
	})
}

// Migrate creates or updates the schema for every model in the application.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.ProductImage{},
		&models.ProductVariant{},
		&models.VariantOption{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.WishlistItem{},
	)
}
