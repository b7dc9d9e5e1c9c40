package models

import "time"

// WishlistItem marks a product a user wants to keep an eye on. A user can
// wishlist a product at most once.
type WishlistItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex:idx_wishlist_user_product"`
	ProductID uint      `json:"product_id" gorm:"uniqueIndex:idx_wishlist_user_product"`
	Product   *Product  `json:"product,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	AddedAt   time.Time `json:"added_at" gorm:"autoCreateTime"`
}
