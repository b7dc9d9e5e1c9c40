package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"belanja/internal/models"
	"belanja/internal/repositories"
	"belanja/pkg/rabbitmq"
)

// EventPublisher publishes domain events to the message broker. A nil
// publisher disables eventing; order placement never fails because of it.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// OrderService handles order placement and order lifecycle queries.
type OrderService struct {
	store  repositories.Store
	events EventPublisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(store repositories.Store, events EventPublisher) *OrderService {
	return &OrderService{store: store, events: events}
}

// PlaceOrderInput carries the order details captured from the request.
type PlaceOrderInput struct {
	PaymentMethod   string
	Phone           string
	ShippingAddress string
}

// PlaceOrder turns the actor's cart into an immutable order. The whole
// sequence runs in one transaction: cart resolution, per-line stock
// validation under row locks, stock decrements at variant and product
// granularity, totals computation from snapshot prices, order persistence
// and cart clearing. Any failure rolls everything back; a partial order is
// never observable.
//
// Cart resolution prefers the user's own cart. When that is missing or
// empty and a guest session token is present, the guest cart is re-owned by
// the user (session token cleared) and used instead.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uint, sessionToken string, input PlaceOrderInput) (*models.Order, error) {
	var placed *models.Order

	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		cart, err := tx.Carts().GetByUser(ctx, userID)
		if err != nil {
			return err
		}
		if (cart == nil || cart.IsEmpty()) && sessionToken != "" {
			guest, err := tx.Carts().GetBySession(ctx, sessionToken)
			if err != nil {
				return err
			}
			if guest != nil && !guest.IsEmpty() {
				if err := tx.Carts().AssignToUser(ctx, guest.ID, userID); err != nil {
					return err
				}
				cart = guest
			}
		}
		if cart == nil || cart.IsEmpty() {
			return ErrEmptyCart
		}

		var subtotal float64
		items := make([]models.OrderItem, 0, len(cart.Items))
		for i := range cart.Items {
			line := &cart.Items[i]

			// Lock the stock row so a concurrent placement against the same
			// variant cannot read pre-decrement stock.
			variant, err := tx.Variants().GetForUpdate(ctx, line.ProductVariantID)
			if err != nil {
				return err
			}
			if variant.StockQuantity < line.Quantity {
				return &InsufficientStockError{
					ProductName: lineProductName(line),
					SKU:         variant.SKU,
					Requested:   line.Quantity,
					Available:   variant.StockQuantity,
				}
			}
			if err := tx.Variants().DecrementStock(ctx, variant.ID, line.Quantity); err != nil {
				return err
			}
			if err := tx.Products().DecrementStock(ctx, variant.ProductID, line.Quantity); err != nil {
				return err
			}

			items = append(items, models.OrderItem{
				ProductVariantID: line.ProductVariantID,
				ProductName:      lineProductName(line),
				ProductImage:     lineProductImage(line),
				Quantity:         line.Quantity,
				UnitPrice:        line.Price,
				TotalPrice:       line.LineTotal(),
			})
			subtotal += line.LineTotal()
		}

		shipping, tax, total := models.OrderTotals(subtotal)

		paymentMethod := input.PaymentMethod
		if paymentMethod == "" {
			paymentMethod = "cash"
		}

		order := &models.Order{
			UserID:          userID,
			OrderNumber:     NewOrderNumber(time.Now()),
			Status:          models.OrderStatusPending,
			PaymentMethod:   paymentMethod,
			Phone:           input.Phone,
			ShippingAddress: input.ShippingAddress,
			Subtotal:        subtotal,
			ShippingCost:    shipping,
			Tax:             tax,
			TotalAmount:     total,
			Items:           items,
		}
		if err := tx.Orders().Create(ctx, order); err != nil {
			return err
		}

		// The cart row survives, emptied.
		if err := tx.Carts().ClearItems(ctx, cart.ID); err != nil {
			return err
		}

		placed = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent("order.created", map[string]interface{}{
		"order_id":     placed.ID,
		"order_number": placed.OrderNumber,
		"user_id":      placed.UserID,
		"status":       placed.Status,
		"total":        placed.TotalAmount,
	})

	return placed, nil
}

// ListOrders retrieves the actor's orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	return s.store.Orders().ListByUser(ctx, userID)
}

// GetOrder retrieves one order scoped to the actor.
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	order, err := s.store.Orders().GetByIDForUser(ctx, userID, orderID)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return order, nil
}

// ListAllOrders retrieves every order. Admin use only.
func (s *OrderService) ListAllOrders(ctx context.Context) ([]models.Order, error) {
	return s.store.Orders().ListAll(ctx)
}

// GetOrderForAdmin retrieves one order without an owner filter.
func (s *OrderService) GetOrderForAdmin(ctx context.Context, orderID uint) (*models.Order, error) {
	order, err := s.store.Orders().GetByID(ctx, orderID)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return order, nil
}

// UpdateOrderStatus sets the status of an existing order. The status is
// restricted to the closed enumeration in models.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID uint, status string) error {
	if !models.ValidOrderStatus(status) {
		return fmt.Errorf("invalid order status %q: %w", status, ErrInvalidInput)
	}
	if err := s.store.Orders().UpdateStatus(ctx, orderID, status); err != nil {
		return translateNotFound(err)
	}

	s.publishEvent("order.status_updated", map[string]interface{}{
		"order_id": orderID,
		"status":   status,
	})
	return nil
}

// NewOrderNumber generates a human-readable, practically collision-free
// order identifier: the date plus a random suffix. The suffix comes from a
// v4 UUID, so no coordination between concurrent placements is needed.
func NewOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", now.UTC().Format("20060102"), suffix)
}

func (s *OrderService) publishEvent(routingKey string, payload map[string]interface{}) {
	if s.events == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", routingKey, err)
		return
	}
	if err := s.events.Publish(rabbitmq.ExchangeOrders, routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", routingKey, err)
	}
}

func lineProductName(line *models.CartItem) string {
	if line.ProductVariant != nil && line.ProductVariant.Product != nil {
		return line.ProductVariant.Product.Name
	}
	return "Unknown Product"
}

func lineProductImage(line *models.CartItem) *string {
	if line.ProductVariant != nil && line.ProductVariant.Product != nil {
		return line.ProductVariant.Product.PrimaryImageURL()
	}
	return nil
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
