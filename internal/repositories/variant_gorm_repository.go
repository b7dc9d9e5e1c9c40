package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"belanja/internal/models"
)

// GORMVariantRepository is a GORM implementation of VariantRepository.
type GORMVariantRepository struct {
	db *gorm.DB
}

// NewGORMVariantRepository creates a new instance of GORMVariantRepository.
func NewGORMVariantRepository(db *gorm.DB) *GORMVariantRepository {
	return &GORMVariantRepository{db: db}
}

// GetByID retrieves a variant with its options.
func (r *GORMVariantRepository) GetByID(ctx context.Context, id uint) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	if err := r.db.WithContext(ctx).Preload("Options").First(&variant, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get variant %d: %w", id, err)
	}
	return &variant, nil
}

// GetForUpdate retrieves a variant under SELECT ... FOR UPDATE. Within a
// transaction this blocks a concurrent placement from reading the same
// variant's stock until the first one commits or rolls back. SQLite has no
// row locks; its single-writer transactions give the same guarantee.
func (r *GORMVariantRepository) GetForUpdate(ctx context.Context, id uint) (*models.ProductVariant, error) {
	tx := r.db.WithContext(ctx)
	if r.db.Dialector.Name() != "sqlite" {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var variant models.ProductVariant
	err := tx.First(&variant, "id = ?", id).Error
	if err != nil {
		return nil, fmt.Errorf("failed to lock variant %d: %w", id, err)
	}
	return &variant, nil
}

// FirstActiveForProduct returns the cheapest active variant of a product.
func (r *GORMVariantRepository) FirstActiveForProduct(ctx context.Context, productID uint) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND is_active = ?", productID, true).
		Order("price").
		First(&variant).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get variant for product %d: %w", productID, err)
	}
	return &variant, nil
}

// Create creates a new variant.
func (r *GORMVariantRepository) Create(ctx context.Context, variant *models.ProductVariant) error {
	if err := r.db.WithContext(ctx).Create(variant).Error; err != nil {
		return fmt.Errorf("failed to create variant %s: %w", variant.SKU, err)
	}
	return nil
}

// DecrementStock lowers the variant's stock by the given quantity.
func (r *GORMVariantRepository) DecrementStock(ctx context.Context, id uint, quantity int) error {
	res := r.db.WithContext(ctx).Model(&models.ProductVariant{}).
		Where("id = ?", id).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if res.Error != nil {
		return fmt.Errorf("failed to decrement stock for variant %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("variant %d not found for stock decrement: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// SKUExists reports whether a variant already uses the given SKU.
func (r *GORMVariantRepository) SKUExists(ctx context.Context, sku string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProductVariant{}).
		Where("sku = ?", sku).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check variant SKU %s: %w", sku, err)
	}
	return count > 0, nil
}
