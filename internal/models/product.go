package models

import "time"

// Stock status values returned by StockStatus.
const (
	StockStatusOut = "out-of-stock"
	StockStatusLow = "low-stock"
	StockStatusIn  = "in-stock"
)

// DefaultMinStock is the low-stock threshold used when a product has none set.
const DefaultMinStock = 10

// Product is the parent aggregate for variants, images and category links.
// Stock is a stored aggregate counter; the per-variant StockQuantity is the
// source of truth, and Stock is recomputed from the variant sum whenever
// variants are replaced.
type Product struct {
	ID          uint             `json:"id" gorm:"primaryKey"`
	Name        string           `json:"name" gorm:"type:varchar(255);not null" validate:"required,min=3,max=255"`
	Description string           `json:"description" validate:"omitempty,max=2000"`
	BasePrice   float64          `json:"base_price" validate:"required,gt=0"`
	SKU         *string          `json:"sku" gorm:"uniqueIndex;type:varchar(100)"`
	Stock       int              `json:"stock" validate:"gte=0"`
	MinStock    int              `json:"min_stock" gorm:"default:10"`
	Supplier    string           `json:"supplier" gorm:"type:varchar(255)"`
	IsActive    bool             `json:"is_active" gorm:"default:true"`
	Featured    bool             `json:"featured"`
	Images      []ProductImage   `json:"images" gorm:"constraint:OnDelete:CASCADE"`
	Categories  []Category       `json:"categories" gorm:"many2many:product_categories;constraint:OnDelete:CASCADE"`
	Variants    []ProductVariant `json:"variants" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// ProductImage is a display image attached to a product. The image with
// DisplayOrder zero is the primary one shown in listings and order snapshots.
type ProductImage struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	ProductID    uint      `json:"product_id" gorm:"index"`
	ImageURL     string    `json:"image_url" gorm:"type:varchar(500)"`
	IsPrimary    bool      `json:"is_primary"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

// Category groups products. Categories are upserted by name when products are
// created or updated.
type Category struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;type:varchar(100);not null"`
	Description string    `json:"description"`
	ParentID    *uint     `json:"parent_id"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StockStatus classifies a stock level against a low-stock threshold.
// A threshold of zero or less falls back to DefaultMinStock.
func StockStatus(stock, minStock int) string {
	if minStock <= 0 {
		minStock = DefaultMinStock
	}
	switch {
	case stock == 0:
		return StockStatusOut
	case stock <= minStock:
		return StockStatusLow
	default:
		return StockStatusIn
	}
}

// StockStatus classifies the product's aggregate stock.
func (p *Product) StockStatus() string {
	return StockStatus(p.Stock, p.MinStock)
}

// PrimaryImageURL returns the URL of the primary image, or nil when the
// product has no images.
func (p *Product) PrimaryImageURL() *string {
	for i := range p.Images {
		if p.Images[i].IsPrimary {
			return &p.Images[i].ImageURL
		}
	}
	if len(p.Images) > 0 {
		return &p.Images[0].ImageURL
	}
	return nil
}
