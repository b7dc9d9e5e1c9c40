package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"belanja/internal/middleware"
	"belanja/internal/services"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers order routes. Every route requires a logged-in
// user; the admin sub-tree and status changes additionally require the
// admin role.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, requireAuth, requireAdmin fiber.Handler) {
	orderRoutes := router.Group("/orders", requireAuth)
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Get("/", h.HandleListOrders)
	orderRoutes.Get("/admin/all", requireAdmin, h.HandleListAllOrders)
	orderRoutes.Get("/admin/:id", requireAdmin, h.HandleGetOrderForAdmin)
	orderRoutes.Get("/:id", h.HandleGetOrder)
	orderRoutes.Put("/:id/status", requireAdmin, h.HandleUpdateOrderStatus)
}

// CreateOrderRequest represents the request body for order placement.
type CreateOrderRequest struct {
	PaymentMethod   string `json:"payment_method" validate:"omitempty,max=50"`
	Phone           string `json:"phone" validate:"omitempty,max=20"`
	ShippingAddress string `json:"shipping_address" validate:"omitempty,max=500"`
}

// UpdateOrderStatusRequest represents the request body for a status change.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// HandleCreateOrder places an order from the caller's cart. A guest cart
// bound to the request's session token is used when the user cart is empty.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	order, err := h.service.PlaceOrder(c.UserContext(), middleware.UserID(c), existingCartSession(c), services.PlaceOrderInput{
		PaymentMethod:   req.PaymentMethod,
		Phone:           req.Phone,
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleListOrders lists the caller's orders, newest first.
func (h *OrderHandler) HandleListOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListOrders(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(orders)
}

// HandleGetOrder fetches one of the caller's orders.
func (h *OrderHandler) HandleGetOrder(c *fiber.Ctx) error {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid order id",
		})
	}

	order, err := h.service.GetOrder(c.UserContext(), middleware.UserID(c), orderID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// HandleListAllOrders lists every order. Admin only.
func (h *OrderHandler) HandleListAllOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListAllOrders(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(orders)
}

// HandleGetOrderForAdmin fetches any order by id. Admin only.
func (h *OrderHandler) HandleGetOrderForAdmin(c *fiber.Ctx) error {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid order id",
		})
	}

	order, err := h.service.GetOrderForAdmin(c.UserContext(), orderID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// HandleUpdateOrderStatus sets an order's status. Admin only.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid order id",
		})
	}

	var req UpdateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	if err := h.service.UpdateOrderStatus(c.UserContext(), orderID, req.Status); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Order status updated successfully",
	})
}
