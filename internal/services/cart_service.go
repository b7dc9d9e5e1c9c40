package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"belanja/internal/models"
	"belanja/internal/repositories"
)

// CartService handles business logic for shopping carts, both registered
// and guest ones.
type CartService struct {
	store repositories.Store
}

// NewCartService creates a new CartService.
func NewCartService(store repositories.Store) *CartService {
	return &CartService{store: store}
}

// AddToCartInput identifies what to add. Either ProductVariantID or
// ProductID must be set; with only a product id the cheapest active variant
// is used, and a default variant is created when the product has none.
type AddToCartInput struct {
	ProductID        uint
	ProductVariantID uint
	Quantity         int
}

// GetCart returns the owner's cart, creating an empty one on first access.
func (s *CartService) GetCart(ctx context.Context, owner models.CartOwner) (*models.Cart, error) {
	var cart *models.Cart
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		var err error
		cart, err = s.getOrCreate(ctx, tx, owner)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// AddToCart adds a line to the owner's cart. Adding the same variant again
// sums the quantities; the price snapshot of the existing line is kept. New
// lines snapshot the variant's current price.
func (s *CartService) AddToCart(ctx context.Context, owner models.CartOwner, input AddToCartInput) (*models.Cart, error) {
	if input.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive: %w", ErrInvalidInput)
	}
	if input.ProductVariantID == 0 && input.ProductID == 0 {
		return nil, fmt.Errorf("either product id or variant id is required: %w", ErrInvalidInput)
	}

	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		cart, err := s.getOrCreate(ctx, tx, owner)
		if err != nil {
			return err
		}

		variant, err := s.resolveVariant(ctx, tx, input)
		if err != nil {
			return err
		}

		if existing := cart.FindItemByVariant(variant.ID); existing != nil {
			return tx.Carts().UpdateItemQuantity(ctx, existing.ID, existing.Quantity+input.Quantity)
		}
		return tx.Carts().AddItem(ctx, &models.CartItem{
			CartID:           cart.ID,
			ProductVariantID: variant.ID,
			Quantity:         input.Quantity,
			Price:            variant.Price,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.GetCart(ctx, owner)
}

// UpdateItemQuantity sets the quantity of a line in the owner's cart. A
// quantity of zero or less removes the line.
func (s *CartService) UpdateItemQuantity(ctx context.Context, owner models.CartOwner, itemID uint, quantity int) (*models.Cart, error) {
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		cart, err := s.getOrCreate(ctx, tx, owner)
		if err != nil {
			return err
		}
		if !cartContainsItem(cart, itemID) {
			return ErrNotFound
		}
		if quantity <= 0 {
			return tx.Carts().RemoveItem(ctx, itemID)
		}
		return tx.Carts().UpdateItemQuantity(ctx, itemID, quantity)
	})
	if err != nil {
		return nil, err
	}
	return s.GetCart(ctx, owner)
}

// RemoveItem deletes a line from the owner's cart.
func (s *CartService) RemoveItem(ctx context.Context, owner models.CartOwner, itemID uint) (*models.Cart, error) {
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		cart, err := s.getOrCreate(ctx, tx, owner)
		if err != nil {
			return err
		}
		if !cartContainsItem(cart, itemID) {
			return ErrNotFound
		}
		return tx.Carts().RemoveItem(ctx, itemID)
	})
	if err != nil {
		return nil, err
	}
	return s.GetCart(ctx, owner)
}

// ClearCart removes every line from the owner's cart. The cart row stays.
func (s *CartService) ClearCart(ctx context.Context, owner models.CartOwner) error {
	return s.store.Transaction(ctx, func(tx repositories.Store) error {
		cart, err := s.getOrCreate(ctx, tx, owner)
		if err != nil {
			return err
		}
		return tx.Carts().ClearItems(ctx, cart.ID)
	})
}

// MergeCarts folds a guest cart into the now-authenticated user's cart:
// quantities are summed for lines sharing a variant, other lines move over,
// and the guest cart row is deleted. An empty or missing guest cart is a
// no-op. The merge is atomic.
func (s *CartService) MergeCarts(ctx context.Context, userID uint, sessionToken string) error {
	if sessionToken == "" {
		return nil
	}
	return s.store.Transaction(ctx, func(tx repositories.Store) error {
		guest, err := tx.Carts().GetBySession(ctx, sessionToken)
		if err != nil {
			return err
		}
		if guest == nil || guest.IsEmpty() {
			return nil
		}

		userCart, err := s.getOrCreate(ctx, tx, models.RegisteredOwner(userID))
		if err != nil {
			return err
		}

		for i := range guest.Items {
			item := &guest.Items[i]
			if existing := userCart.FindItemByVariant(item.ProductVariantID); existing != nil {
				if err := tx.Carts().UpdateItemQuantity(ctx, existing.ID, existing.Quantity+item.Quantity); err != nil {
					return err
				}
				continue
			}
			moved := models.CartItem{
				CartID:           userCart.ID,
				ProductVariantID: item.ProductVariantID,
				Quantity:         item.Quantity,
				Price:            item.Price,
			}
			if err := tx.Carts().AddItem(ctx, &moved); err != nil {
				return err
			}
		}

		return tx.Carts().Delete(ctx, guest.ID)
	})
}

func (s *CartService) getOrCreate(ctx context.Context, tx repositories.Store, owner models.CartOwner) (*models.Cart, error) {
	if userID, ok := owner.UserID(); ok {
		cart, err := tx.Carts().GetByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		if cart != nil {
			return cart, nil
		}
		cart = &models.Cart{UserID: &userID}
		if err := tx.Carts().Create(ctx, cart); err != nil {
			return nil, err
		}
		return cart, nil
	}

	token, ok := owner.SessionToken()
	if !ok {
		return nil, fmt.Errorf("cart owner has neither user nor session: %w", ErrInvalidInput)
	}
	cart, err := tx.Carts().GetBySession(ctx, token)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		return cart, nil
	}
	cart = &models.Cart{SessionToken: &token}
	if err := tx.Carts().Create(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// resolveVariant picks the variant to add: an explicit variant id wins,
// otherwise the product's cheapest active variant. A product without any
// variant gets a default one built from its own price and stock, mirroring
// how the catalog treats variant-less products.
func (s *CartService) resolveVariant(ctx context.Context, tx repositories.Store, input AddToCartInput) (*models.ProductVariant, error) {
	if input.ProductVariantID != 0 {
		variant, err := tx.Variants().GetByID(ctx, input.ProductVariantID)
		if err != nil {
			return nil, translateNotFound(err)
		}
		return variant, nil
	}

	variant, err := tx.Variants().FirstActiveForProduct(ctx, input.ProductID)
	if err == nil {
		return variant, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	product, err := tx.Products().GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, translateNotFound(err)
	}
	if !product.IsActive {
		return nil, ErrNotFound
	}

	sku := fmt.Sprintf("PROD-%d", product.ID)
	if product.SKU != nil {
		sku = *product.SKU
	}
	fallback := &models.ProductVariant{
		ProductID:     product.ID,
		SKU:           sku + "-DEF",
		Price:         product.BasePrice,
		StockQuantity: product.Stock,
		IsActive:      true,
	}
	if err := tx.Variants().Create(ctx, fallback); err != nil {
		return nil, err
	}
	return fallback, nil
}

func cartContainsItem(cart *models.Cart, itemID uint) bool {
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			return true
		}
	}
	return false
}
