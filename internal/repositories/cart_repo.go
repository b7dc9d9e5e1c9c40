package repositories

import (
	"context"

	"belanja/internal/models"
)

// CartRepository defines the interface for cart data access. GetByUser and
// GetBySession return (nil, nil) when no cart exists; carts are created
// lazily by the service layer.
type CartRepository interface {
	GetByUser(ctx context.Context, userID uint) (*models.Cart, error)
	GetBySession(ctx context.Context, sessionToken string) (*models.Cart, error)
	Create(ctx context.Context, cart *models.Cart) error
	// AssignToUser re-owns a guest cart: sets the user id and clears the
	// session token.
	AssignToUser(ctx context.Context, cartID, userID uint) error
	AddItem(ctx context.Context, item *models.CartItem) error
	UpdateItemQuantity(ctx context.Context, itemID uint, quantity int) error
	RemoveItem(ctx context.Context, itemID uint) error
	ClearItems(ctx context.Context, cartID uint) error
	Delete(ctx context.Context, cartID uint) error
}
