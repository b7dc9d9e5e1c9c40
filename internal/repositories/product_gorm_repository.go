package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"belanja/internal/models"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{db: db}
}

// List retrieves products matching the filter, newest first, with the total
// count before pagination.
func (r *GORMProductRepository) List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR sku LIKE ? OR supplier LIKE ?", pattern, pattern, pattern)
	}
	if filter.Featured != nil {
		query = query.Where("featured = ?", *filter.Featured)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	switch filter.StockStatus {
	case models.StockStatusOut:
		query = query.Where("stock = 0")
	case models.StockStatusLow:
		query = query.Where("stock > 0 AND stock <= min_stock")
	case models.StockStatusIn:
		query = query.Where("stock > min_stock")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 10
	}

	var products []models.Product
	err := query.
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("display_order") }).
		Preload("Categories").
		Preload("Variants.Options").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

// GetByID retrieves a single product with its images, categories and
// variants from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("display_order") }).
		Preload("Categories").
		Preload("Variants.Options").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return &product, nil
}

// Create creates a new product together with its associations.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update persists the scalar fields of an existing product. Associations are
// replaced through the dedicated Replace* methods.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	res := r.db.WithContext(ctx).Model(product).
		Select("name", "description", "base_price", "sku", "stock", "min_stock",
			"supplier", "is_active", "featured").
		Updates(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product %d: %w", product.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %d not found for update: %w", product.ID, gorm.ErrRecordNotFound)
	}
	return nil
}

// Deactivate soft-deletes a product by flipping its active flag.
func (r *GORMProductRepository) Deactivate(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		Update("is_active", false)
	if res.Error != nil {
		return fmt.Errorf("failed to deactivate product %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %d not found for deactivation: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// Delete permanently removes a product and its dependent rows.
func (r *GORMProductRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Preload("Variants").First(&product, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to get product %d for deletion: %w", id, err)
		}
		for i := range product.Variants {
			if err := tx.Where("product_variant_id = ?", product.Variants[i].ID).
				Delete(&models.VariantOption{}).Error; err != nil {
				return fmt.Errorf("failed to delete variant options: %w", err)
			}
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductVariant{}).Error; err != nil {
			return fmt.Errorf("failed to delete variants: %w", err)
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
			return fmt.Errorf("failed to delete images: %w", err)
		}
		if err := tx.Model(&product).Association("Categories").Clear(); err != nil {
			return fmt.Errorf("failed to clear categories: %w", err)
		}
		if err := tx.Delete(&product).Error; err != nil {
			return fmt.Errorf("failed to delete product %d: %w", id, err)
		}
		return nil
	})
}

// SKUExists reports whether another product already uses the given SKU.
func (r *GORMProductRepository) SKUExists(ctx context.Context, sku string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Product{}).Where("sku = ?", sku)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check product SKU %s: %w", sku, err)
	}
	return count > 0, nil
}

// UpsertCategory finds a category by name or creates it.
func (r *GORMProductRepository) UpsertCategory(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).First(&category, "name = ?", name).Error
	if err == nil {
		return &category, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to look up category %s: %w", name, err)
	}
	category = models.Category{Name: name, IsActive: true}
	if err := r.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category %s: %w", name, err)
	}
	return &category, nil
}

// SetCategories replaces the product's category associations.
func (r *GORMProductRepository) SetCategories(ctx context.Context, product *models.Product, categories []models.Category) error {
	if err := r.db.WithContext(ctx).Model(product).Association("Categories").Replace(categories); err != nil {
		return fmt.Errorf("failed to set categories for product %d: %w", product.ID, err)
	}
	return nil
}

// ReplaceImages swaps the product's image set. The first URL becomes the
// primary image.
func (r *GORMProductRepository) ReplaceImages(ctx context.Context, productID uint, urls []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Delete(&models.ProductImage{}).Error; err != nil {
			return fmt.Errorf("failed to delete images for product %d: %w", productID, err)
		}
		for i, url := range urls {
			image := models.ProductImage{
				ProductID:    productID,
				ImageURL:     url,
				IsPrimary:    i == 0,
				DisplayOrder: i,
			}
			if err := tx.Create(&image).Error; err != nil {
				return fmt.Errorf("failed to create image for product %d: %w", productID, err)
			}
		}
		return nil
	})
}

// ReplaceVariants swaps the product's variant set and resyncs the aggregate
// stock counter from the new variant sum.
func (r *GORMProductRepository) ReplaceVariants(ctx context.Context, productID uint, variants []models.ProductVariant) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []models.ProductVariant
		if err := tx.Where("product_id = ?", productID).Find(&existing).Error; err != nil {
			return fmt.Errorf("failed to load variants for product %d: %w", productID, err)
		}
		for i := range existing {
			if err := tx.Where("product_variant_id = ?", existing[i].ID).
				Delete(&models.VariantOption{}).Error; err != nil {
				return fmt.Errorf("failed to delete variant options: %w", err)
			}
		}
		if err := tx.Where("product_id = ?", productID).Delete(&models.ProductVariant{}).Error; err != nil {
			return fmt.Errorf("failed to delete variants for product %d: %w", productID, err)
		}
		for i := range variants {
			variants[i].ID = 0
			variants[i].ProductID = productID
			if err := tx.Create(&variants[i]).Error; err != nil {
				return fmt.Errorf("failed to create variant %s: %w", variants[i].SKU, err)
			}
		}
		return NewGORMProductRepository(tx).ResyncStock(ctx, productID)
	})
}

// UpdateStock sets the aggregate stock counter to an absolute value.
func (r *GORMProductRepository) UpdateStock(ctx context.Context, id uint, quantity int) error {
	res := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		Update("stock", quantity)
	if res.Error != nil {
		return fmt.Errorf("failed to update stock for product %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %d not found for stock update: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// DecrementStock lowers the aggregate stock counter, never below zero.
func (r *GORMProductRepository) DecrementStock(ctx context.Context, id uint, quantity int) error {
	res := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("CASE WHEN stock - ? < 0 THEN 0 ELSE stock - ? END", quantity, quantity))
	if res.Error != nil {
		return fmt.Errorf("failed to decrement stock for product %d: %w", id, res.Error)
	}
	return nil
}

// ResyncStock recomputes the aggregate stock from the sum of variant stocks.
func (r *GORMProductRepository) ResyncStock(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr(
			"(SELECT COALESCE(SUM(stock_quantity), 0) FROM product_variants WHERE product_id = ?)", id)).Error
	if err != nil {
		return fmt.Errorf("failed to resync stock for product %d: %w", id, err)
	}
	return nil
}
