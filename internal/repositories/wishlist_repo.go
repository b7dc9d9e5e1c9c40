package repositories

import (
	"context"

	"belanja/internal/models"
)

// WishlistRepository defines the interface for wishlist data access.
type WishlistRepository interface {
	ListByUser(ctx context.Context, userID uint) ([]models.WishlistItem, error)
	Exists(ctx context.Context, userID, productID uint) (bool, error)
	Add(ctx context.Context, item *models.WishlistItem) error
	Remove(ctx context.Context, userID, productID uint) error
}
