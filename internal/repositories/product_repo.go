package repositories

import (
	"context"

	"belanja/internal/models"
)

// ProductFilter narrows product listings. Zero values mean "no filter";
// Page and PageSize fall back to 1 and 10.
type ProductFilter struct {
	Search      string
	Featured    *bool
	IsActive    *bool
	StockStatus string
	Page        int
	PageSize    int
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error)
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Deactivate(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error

	SKUExists(ctx context.Context, sku string, excludeID uint) (bool, error)
	UpsertCategory(ctx context.Context, name string) (*models.Category, error)
	SetCategories(ctx context.Context, product *models.Product, categories []models.Category) error
	ReplaceImages(ctx context.Context, productID uint, urls []string) error
	ReplaceVariants(ctx context.Context, productID uint, variants []models.ProductVariant) error

	UpdateStock(ctx context.Context, id uint, quantity int) error
	// DecrementStock lowers the aggregate stock counter, clamped at zero.
	DecrementStock(ctx context.Context, id uint, quantity int) error
	// ResyncStock recomputes the aggregate stock from the variant sum.
	ResyncStock(ctx context.Context, id uint) error
}
