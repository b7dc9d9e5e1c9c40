package services

import (
	"context"

	"belanja/internal/models"
	"belanja/internal/repositories"
)

// WishlistService handles business logic for user wishlists.
type WishlistService struct {
	store repositories.Store
}

// NewWishlistService creates a new WishlistService.
func NewWishlistService(store repositories.Store) *WishlistService {
	return &WishlistService{store: store}
}

// ListWishlist retrieves the user's wishlist with product details.
func (s *WishlistService) ListWishlist(ctx context.Context, userID uint) ([]models.WishlistItem, error) {
	return s.store.Wishlists().ListByUser(ctx, userID)
}

// AddToWishlist adds a product to the user's wishlist. Adding a product
// that is already wishlisted is a no-op.
func (s *WishlistService) AddToWishlist(ctx context.Context, userID, productID uint) error {
	if _, err := s.store.Products().GetByID(ctx, productID); err != nil {
		return translateNotFound(err)
	}
	exists, err := s.store.Wishlists().Exists(ctx, userID, productID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.store.Wishlists().Add(ctx, &models.WishlistItem{UserID: userID, ProductID: productID})
}

// RemoveFromWishlist deletes a product from the user's wishlist.
func (s *WishlistService) RemoveFromWishlist(ctx context.Context, userID, productID uint) error {
	return translateNotFound(s.store.Wishlists().Remove(ctx, userID, productID))
}
