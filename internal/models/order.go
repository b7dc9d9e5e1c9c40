package models

import "time"

// Order statuses. An order starts as pending; subsequent transitions are
// admin-driven and restricted to this set.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Shipping and tax parameters for order totals.
const (
	FreeShippingThreshold = 100.0
	FlatShippingFee       = 15.0
	TaxRate               = 0.08
)

// Order is an immutable snapshot created from a cart at placement time.
// Monetary fields and the shipping address are computed and captured once;
// only the status changes afterwards.
type Order struct {
	ID              uint        `json:"id" gorm:"primaryKey"`
	UserID          uint        `json:"user_id" gorm:"index"`
	OrderNumber     string      `json:"order_number" gorm:"uniqueIndex;type:varchar(100);not null"`
	Status          string      `json:"status" gorm:"type:varchar(50);default:pending"`
	PaymentMethod   string      `json:"payment_method" gorm:"type:varchar(50)"`
	Phone           string      `json:"phone" gorm:"type:varchar(20)"`
	ShippingAddress string      `json:"shipping_address" gorm:"type:varchar(500)"`
	Subtotal        float64     `json:"subtotal"`
	ShippingCost    float64     `json:"shipping_cost"`
	Tax             float64     `json:"tax"`
	TotalAmount     float64     `json:"total_amount"`
	Items           []OrderItem `json:"items" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// OrderItem is a frozen copy of a purchased cart line. Display fields are
// copied from the product at order time so later edits never alter history.
type OrderItem struct {
	ID               uint    `json:"id" gorm:"primaryKey"`
	OrderID          uint    `json:"order_id" gorm:"index"`
	ProductVariantID uint    `json:"product_variant_id"`
	ProductName      string  `json:"product_name" gorm:"type:varchar(255)"`
	ProductImage     *string `json:"product_image" gorm:"type:varchar(500)"`
	Quantity         int     `json:"quantity"`
	UnitPrice        float64 `json:"unit_price"`
	TotalPrice       float64 `json:"total_price"`
}

// ValidOrderStatus reports whether s is one of the accepted order statuses.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderTotals derives the shipping cost, tax and grand total from a subtotal.
// Shipping is free above FreeShippingThreshold, otherwise a flat fee; tax is
// a fixed percentage of the subtotal.
func OrderTotals(subtotal float64) (shipping, tax, total float64) {
	shipping = FlatShippingFee
	if subtotal > FreeShippingThreshold {
		shipping = 0
	}
	tax = subtotal * TaxRate
	total = subtotal + shipping + tax
	return shipping, tax, total
}
