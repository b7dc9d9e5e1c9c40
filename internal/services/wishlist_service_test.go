package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"belanja/internal/models"
)

func TestAddToWishlist(t *testing.T) {
	store := newMockStore()
	service := NewWishlistService(store)

	store.products.On("GetByID", mock.Anything, uint(3)).
		Return(&models.Product{ID: 3}, nil)
	store.wishlists.On("Exists", mock.Anything, uint(7), uint(3)).Return(false, nil)
	store.wishlists.On("Add", mock.Anything, mock.MatchedBy(func(item *models.WishlistItem) bool {
		return item.UserID == 7 && item.ProductID == 3
	})).Return(nil)

	err := service.AddToWishlist(context.Background(), 7, 3)
	assert.NoError(t, err)
	store.assertExpectations(t)
}

func TestAddToWishlist_AlreadyWishlisted(t *testing.T) {
	store := newMockStore()
	service := NewWishlistService(store)

	store.products.On("GetByID", mock.Anything, uint(3)).
		Return(&models.Product{ID: 3}, nil)
	store.wishlists.On("Exists", mock.Anything, uint(7), uint(3)).Return(true, nil)

	err := service.AddToWishlist(context.Background(), 7, 3)
	assert.NoError(t, err)
	store.wishlists.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestAddToWishlist_UnknownProduct(t *testing.T) {
	store := newMockStore()
	service := NewWishlistService(store)

	store.products.On("GetByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

	err := service.AddToWishlist(context.Background(), 7, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveFromWishlist(t *testing.T) {
	store := newMockStore()
	service := NewWishlistService(store)

	store.wishlists.On("Remove", mock.Anything, uint(7), uint(3)).Return(nil)

	err := service.RemoveFromWishlist(context.Background(), 7, 3)
	assert.NoError(t, err)
	store.assertExpectations(t)
}
