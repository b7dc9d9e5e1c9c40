package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"belanja/internal/models"
)

func TestAddToCart_NewLineSnapshotsPrice(t *testing.T) {
	store := newMockStore()
	service := NewCartService(store)

	userID := uint(7)
	cart := &models.Cart{ID: 5, UserID: &userID}

	store.carts.On("GetByUser", mock.Anything, userID).Return(cart, nil)
	store.variants.On("GetByID", mock.Anything, uint(11)).
		Return(&models.ProductVariant{ID: 11, ProductID: 1, Price: 25.5}, nil)
	store.carts.On("AddItem", mock.Anything, mock.MatchedBy(func(item *models.CartItem) bool {
		return item.CartID == 5 && item.ProductVariantID == 11 &&
			item.Quantity == 3 && item.Price == 25.5
	})).Return(nil)

	_, err := service.AddToCart(context.Background(), models.RegisteredOwner(userID), AddToCartInput{
		ProductVariantID: 11,
		Quantity:         3,
	})

	assert.NoError(t, err)
	store.assertExpectations(t)
}

func TestAddToCart_ExistingLineSumsQuantity(t *testing.T) {
	store := newMockStore()
	service := NewCartService(store)

	userID := uint(7)
	cart := &models.Cart{ID: 5, UserID: &userID, Items: []models.CartItem{
		{ID: 1, CartID: 5, ProductVariantID: 11, Quantity: 2, Price: 20},
	}}

	store.carts.On("GetByUser", mock.Anything, userID).Return(cart, nil)
	store.variants.On("GetByID", mock.Anything, uint(11)).
		Return(&models.ProductVariant{ID: 11, ProductID: 1, Price: 99}, nil)
	store.carts.On("UpdateItemQuantity", mock.Anything, uint(1), 5).Return(nil)

	_, err := service.AddToCart(context.Background(), models.RegisteredOwner(userID), AddToCartInput{
		ProductVariantID: 11,
		Quantity:         3,
	})

	assert.NoError(t, err)
	// The existing line keeps its original price snapshot.
	store.carts.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything)
}

func TestAddToCart_RejectsNonPositiveQuantity(t *testing.T) {
	service := NewCartService(newMockStore())

	_, err := service.AddToCart(context.Background(), models.RegisteredOwner(7), AddToCartInput{
		ProductVariantID: 11,
		Quantity:         0,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAddToCart_CreatesDefaultVariant(t *testing.T) {
	store := newMockStore()
	service := NewCartService(store)

	token := "tok-9"
	cart := &models.Cart{ID: 6, SessionToken: &token}
	sku := "WIDGET"

	store.carts.On("GetBySession", mock.Anything, token).Return(cart, nil)
	store.variants.On("FirstActiveForProduct", mock.Anything, uint(3)).
		Return(nil, gorm.ErrRecordNotFound)
	store.products.On("GetByID", mock.Anything, uint(3)).
		Return(&models.Product{ID: 3, SKU: &sku, BasePrice: 12, Stock: 4, IsActive: true}, nil)
	store.variants.On("Create", mock.Anything, mock.MatchedBy(func(v *models.ProductVariant) bool {
		return v.SKU == "WIDGET-DEF" && v.Price == 12 && v.StockQuantity == 4 && v.IsActive
	})).Return(nil)
	store.carts.On("AddItem", mock.Anything, mock.AnythingOfType("*models.CartItem")).Return(nil)

	_, err := service.AddToCart(context.Background(), models.GuestOwner(token), AddToCartInput{
		ProductID: 3,
		Quantity:  1,
	})

	assert.NoError(t, err)
	store.assertExpectations(t)
}

func TestAddToCart_InactiveProductWithoutVariants(t *testing.T) {
	store := newMockStore()
	service := NewCartService(store)

	token := "tok-9"
	cart := &models.Cart{ID: 6, SessionToken: &token}

	store.carts.On("GetBySession", mock.Anything, token).Return(cart, nil)
	store.variants.On("FirstActiveForProduct", mock.Anything, uint(3)).
		Return(nil, gorm.ErrRecordNotFound)
	store.products.On("GetByID", mock.Anything, uint(3)).
		Return(&models.Product{ID: 3, IsActive: false}, nil)

	_, err := service.AddToCart(context.Background(), models.GuestOwner(token), AddToCartInput{
		ProductID: 3,
		Quantity:  1,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetCart_CreatesLazily(t *testing.T) {
	store := newMockStore()
	service := NewCartService(store)

	store.carts.On("GetByUser", mock.Anything, uint(7)).Return(nil, nil).Once()
	store.carts.On("Create", mock.Anything, mock.MatchedBy(func(c *models.Cart) bool {
		return c.UserID != nil && *c.UserID == 7 && c.SessionToken == nil
	})).Return(nil)

	cart, err := service.GetCart(context.Background(), models.RegisteredOwner(7))
	assert.NoError(t, err)
	assert.NotNil(t, cart)
	store.assertExpectations(t)
}

func TestUpdateItemQuantity_RemovesAtZero(t *testing.T) {
	store := newMockStore()
	service := NewCartService(store)

	userID := uint(7)
	cart := &models.Cart{ID: 5, UserID: &userID, Items: []models.CartItem{
		{ID: 1, CartID: 5, ProductVariantID: 11, Quantity: 2},
	}}

	store.carts.On("GetByUser", mock.Anything, userID).Return(cart, nil)
	store.carts.On("RemoveItem", mock.Anything, uint(1)).Return(nil)

	_, err := service.UpdateItemQuantity(context.Background(), models.RegisteredOwner(userID), 1, 0)
	assert.NoError(t, err)
	store.carts.AssertCalled(t, "RemoveItem", mock.Anything, uint(1))
}

func TestUpdateItemQuantity_RejectsForeignItem(t *testing.T) {
	store := newMockStore()
	service := NewCartService(store)

	userID := uint(7)
	store.carts.On("GetByUser", mock.Anything, userID).
		Return(&models.Cart{ID: 5, UserID: &userID}, nil)

	_, err := service.UpdateItemQuantity(context.Background(), models.RegisteredOwner(userID), 99, 2)
	assert.ErrorIs(t, err, ErrNotFound)
	store.carts.AssertNotCalled(t, "UpdateItemQuantity", mock.Anything, mock.Anything, mock.Anything)
}

func TestMergeCarts(t *testing.T) {
	store := newMockStore()
	service := NewCartService(store)

	userID := uint(7)
	guest := &models.Cart{ID: 9, Items: []models.CartItem{
		{ID: 20, CartID: 9, ProductVariantID: 11, Quantity: 2, Price: 10},
		{ID: 21, CartID: 9, ProductVariantID: 12, Quantity: 1, Price: 30},
	}}
	userCart := &models.Cart{ID: 5, UserID: &userID, Items: []models.CartItem{
		{ID: 1, CartID: 5, ProductVariantID: 11, Quantity: 3, Price: 9},
	}}

	store.carts.On("GetBySession", mock.Anything, "tok-1").Return(guest, nil)
	store.carts.On("GetByUser", mock.Anything, userID).Return(userCart, nil)
	// Shared variant sums quantities, the other line moves over.
	store.carts.On("UpdateItemQuantity", mock.Anything, uint(1), 5).Return(nil)
	store.carts.On("AddItem", mock.Anything, mock.MatchedBy(func(item *models.CartItem) bool {
		return item.CartID == 5 && item.ProductVariantID == 12 &&
			item.Quantity == 1 && item.Price == 30
	})).Return(nil)
	store.carts.On("Delete", mock.Anything, uint(9)).Return(nil)

	err := service.MergeCarts(context.Background(), userID, "tok-1")
	assert.NoError(t, err)
	store.assertExpectations(t)
}

func TestMergeCarts_NoGuestCart(t *testing.T) {
	store := newMockStore()
	service := NewCartService(store)

	store.carts.On("GetBySession", mock.Anything, "tok-1").Return(nil, nil)

	err := service.MergeCarts(context.Background(), 7, "tok-1")
	assert.NoError(t, err)
	store.carts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestMergeCarts_NoSessionToken(t *testing.T) {
	store := newMockStore()
	service := NewCartService(store)

	err := service.MergeCarts(context.Background(), 7, "")
	assert.NoError(t, err)
	store.carts.AssertNotCalled(t, "GetBySession", mock.Anything, mock.Anything)
}
