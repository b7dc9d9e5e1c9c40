package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"belanja/internal/models"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

// Create persists the order header and its items in one insert chain.
func (r *GORMOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order %s: %w", order.OrderNumber, err)
	}
	return nil
}

// ListByUser retrieves a user's orders, newest first.
func (r *GORMOrderRepository) ListByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for user %d: %w", userID, err)
	}
	return orders, nil
}

// GetByIDForUser retrieves one order scoped to its owner.
func (r *GORMOrderRepository) GetByIDForUser(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ? AND user_id = ?", orderID, userID).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get order %d for user %d: %w", orderID, userID, err)
	}
	return &order, nil
}

// ListAll retrieves every order, newest first. Admin use only.
func (r *GORMOrderRepository) ListAll(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// GetByID retrieves one order without an owner filter. Admin use only.
func (r *GORMOrderRepository) GetByID(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", orderID).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get order %d: %w", orderID, err)
	}
	return &order, nil
}

// UpdateStatus sets the status of an existing order.
func (r *GORMOrderRepository) UpdateStatus(ctx context.Context, orderID uint, status string) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update status for order %d: %w", orderID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order %d not found for status update: %w", orderID, gorm.ErrRecordNotFound)
	}
	return nil
}
