package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"belanja/internal/models"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{db: db}
}

func (r *GORMCartRepository) preload(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.ProductVariant").
		Preload("Items.ProductVariant.Options").
		Preload("Items.ProductVariant.Product").
		Preload("Items.ProductVariant.Product.Images")
}

// GetByUser retrieves the cart owned by a user, or nil when none exists.
func (r *GORMCartRepository) GetByUser(ctx context.Context, userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := r.preload(ctx).First(&cart, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cart for user %d: %w", userID, err)
	}
	return &cart, nil
}

// GetBySession retrieves a guest cart by session token, or nil when none
// exists. Carts already re-owned by a user are excluded.
func (r *GORMCartRepository) GetBySession(ctx context.Context, sessionToken string) (*models.Cart, error) {
	var cart models.Cart
	err := r.preload(ctx).First(&cart, "session_token = ? AND user_id IS NULL", sessionToken).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cart for session: %w", err)
	}
	return &cart, nil
}

// Create creates a new cart.
func (r *GORMCartRepository) Create(ctx context.Context, cart *models.Cart) error {
	if err := r.db.WithContext(ctx).Create(cart).Error; err != nil {
		return fmt.Errorf("failed to create cart: %w", err)
	}
	return nil
}

// AssignToUser switches a guest cart to user ownership and clears its
// session token.
func (r *GORMCartRepository) AssignToUser(ctx context.Context, cartID, userID uint) error {
	res := r.db.WithContext(ctx).Model(&models.Cart{}).
		Where("id = ?", cartID).
		Updates(map[string]interface{}{"user_id": userID, "session_token": nil})
	if res.Error != nil {
		return fmt.Errorf("failed to assign cart %d to user %d: %w", cartID, userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart %d not found for assignment: %w", cartID, gorm.ErrRecordNotFound)
	}
	return nil
}

// AddItem inserts a new cart line.
func (r *GORMCartRepository) AddItem(ctx context.Context, item *models.CartItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to add cart item: %w", err)
	}
	return nil
}

// UpdateItemQuantity sets the quantity of an existing cart line.
func (r *GORMCartRepository) UpdateItemQuantity(ctx context.Context, itemID uint, quantity int) error {
	res := r.db.WithContext(ctx).Model(&models.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity)
	if res.Error != nil {
		return fmt.Errorf("failed to update cart item %d: %w", itemID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item %d not found: %w", itemID, gorm.ErrRecordNotFound)
	}
	return nil
}

// RemoveItem deletes a cart line.
func (r *GORMCartRepository) RemoveItem(ctx context.Context, itemID uint) error {
	res := r.db.WithContext(ctx).Delete(&models.CartItem{}, "id = ?", itemID)
	if res.Error != nil {
		return fmt.Errorf("failed to remove cart item %d: %w", itemID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item %d not found: %w", itemID, gorm.ErrRecordNotFound)
	}
	return nil
}

// ClearItems deletes every line of a cart. The cart row itself persists.
func (r *GORMCartRepository) ClearItems(ctx context.Context, cartID uint) error {
	if err := r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart %d: %w", cartID, err)
	}
	return nil
}

// Delete removes a cart row and its items.
func (r *GORMCartRepository) Delete(ctx context.Context, cartID uint) error {
	if err := r.ClearItems(ctx, cartID); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Delete(&models.Cart{}, "id = ?", cartID).Error; err != nil {
		return fmt.Errorf("failed to delete cart %d: %w", cartID, err)
	}
	return nil
}
