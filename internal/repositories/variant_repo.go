package repositories

import (
	"context"

	"belanja/internal/models"
)

// VariantRepository defines the interface for product-variant data access.
type VariantRepository interface {
	GetByID(ctx context.Context, id uint) (*models.ProductVariant, error)
	// GetForUpdate reads a variant under a row-level write lock. It must be
	// called inside Store.Transaction so that concurrent stock checks against
	// the same variant serialize.
	GetForUpdate(ctx context.Context, id uint) (*models.ProductVariant, error)
	FirstActiveForProduct(ctx context.Context, productID uint) (*models.ProductVariant, error)
	Create(ctx context.Context, variant *models.ProductVariant) error
	DecrementStock(ctx context.Context, id uint, quantity int) error
	SKUExists(ctx context.Context, sku string) (bool, error)
}
