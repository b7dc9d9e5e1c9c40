package models

import "time"

// ProductVariant is the purchasable unit of a product. It carries its own
// price, stock and an optional time-bounded discount.
type ProductVariant struct {
	ID                 uint            `json:"id" gorm:"primaryKey"`
	ProductID          uint            `json:"product_id" gorm:"index"`
	Product            *Product        `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	SKU                string          `json:"sku" gorm:"uniqueIndex;type:varchar(100);not null" validate:"required"`
	Price              float64         `json:"price" validate:"gte=0"`
	StockQuantity      int             `json:"stock_quantity" validate:"gte=0"`
	IsActive           bool            `json:"is_active" gorm:"default:true"`
	DiscountPrice      *float64        `json:"discount_price"`
	DiscountPercentage *float64        `json:"discount_percentage"`
	DiscountStart      *time.Time      `json:"discount_start"`
	DiscountEnd        *time.Time      `json:"discount_end"`
	Options            []VariantOption `json:"options" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time       `json:"created_at"`
}

// VariantOption is a name/value pair describing one axis of a variant,
// e.g. {Name: "Color", Value: "Black"}.
type VariantOption struct {
	ID               uint   `json:"id" gorm:"primaryKey"`
	ProductVariantID uint   `json:"product_variant_id" gorm:"index"`
	Name             string `json:"name" gorm:"type:varchar(50);not null"`
	Value            string `json:"value" gorm:"type:varchar(50);not null"`
}

// OnSaleAt reports whether the variant's discount applies at the given time.
// The discount price must be set and strictly below the base price, and the
// time must fall inside the optional [start, end] window. A missing bound is
// unbounded on that side.
func (v *ProductVariant) OnSaleAt(now time.Time) bool {
	if v.DiscountPrice == nil || *v.DiscountPrice >= v.Price {
		return false
	}
	if v.DiscountStart != nil && now.Before(*v.DiscountStart) {
		return false
	}
	if v.DiscountEnd != nil && now.After(*v.DiscountEnd) {
		return false
	}
	return true
}

// FinalPriceAt resolves the effective price at the given time: the discount
// price while on sale, the base price otherwise.
func (v *ProductVariant) FinalPriceAt(now time.Time) float64 {
	if v.OnSaleAt(now) {
		return *v.DiscountPrice
	}
	return v.Price
}

// StockStatus classifies the variant's own stock against the parent
// product's threshold.
func (v *ProductVariant) StockStatus(minStock int) string {
	return StockStatus(v.StockQuantity, minStock)
}
