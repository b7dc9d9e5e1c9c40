package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"belanja/internal/models"
)

// GORMWishlistRepository is a GORM implementation of WishlistRepository.
type GORMWishlistRepository struct {
	db *gorm.DB
}

// NewGORMWishlistRepository creates a new instance of GORMWishlistRepository.
func NewGORMWishlistRepository(db *gorm.DB) *GORMWishlistRepository {
	return &GORMWishlistRepository{db: db}
}

// ListByUser retrieves a user's wishlist with product details, newest first.
func (r *GORMWishlistRepository) ListByUser(ctx context.Context, userID uint) ([]models.WishlistItem, error) {
	var items []models.WishlistItem
	err := r.db.WithContext(ctx).
		Preload("Product.Images").
		Where("user_id = ?", userID).
		Order("added_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist for user %d: %w", userID, err)
	}
	return items, nil
}

// Exists reports whether the user already wishlisted the product.
func (r *GORMWishlistRepository) Exists(ctx context.Context, userID, productID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.WishlistItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check wishlist entry: %w", err)
	}
	return count > 0, nil
}

// Add inserts a wishlist entry.
func (r *GORMWishlistRepository) Add(ctx context.Context, item *models.WishlistItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to add wishlist entry: %w", err)
	}
	return nil
}

// Remove deletes a wishlist entry.
func (r *GORMWishlistRepository) Remove(ctx context.Context, userID, productID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.WishlistItem{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove wishlist entry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("wishlist entry not found: %w", gorm.ErrRecordNotFound)
	}
	return nil
}
