package repositories

import (
	"context"

	"belanja/internal/models"
)

// OrderRepository defines the interface for order data access. Orders and
// their items are immutable after creation except for the status column.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	ListByUser(ctx context.Context, userID uint) ([]models.Order, error)
	GetByIDForUser(ctx context.Context, userID, orderID uint) (*models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	GetByID(ctx context.Context, orderID uint) (*models.Order, error)
	UpdateStatus(ctx context.Context, orderID uint, status string) error
}
