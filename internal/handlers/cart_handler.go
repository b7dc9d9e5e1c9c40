package handlers

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"belanja/internal/middleware"
	"belanja/internal/models"
	"belanja/internal/services"
)

// Guest cart session correlation: a header for cross-origin SPA clients and
// a cookie fallback.
const (
	cartSessionHeader = "X-Cart-Session"
	cartSessionCookie = "cart_session"
	cartSessionTTL    = 30 * 24 * time.Hour
)

// CartHandler handles HTTP requests for shopping carts.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the cart routes. Optional auth lets guests shop
// with a session token; merging requires a logged-in user.
func (h *CartHandler) RegisterRoutes(router fiber.Router, optionalAuth, requireAuth fiber.Handler) {
	cartRoutes := router.Group("/cart", optionalAuth)
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/", h.HandleAddToCart)
	cartRoutes.Put("/items/:itemID", h.HandleUpdateItem)
	cartRoutes.Delete("/items/:itemID", h.HandleRemoveItem)
	cartRoutes.Delete("/clear", h.HandleClearCart)
	cartRoutes.Post("/merge", requireAuth, h.HandleMergeCarts)
}

// AddToCartRequest represents the request body for adding a cart line.
type AddToCartRequest struct {
	ProductID        uint `json:"product_id"`
	ProductVariantID uint `json:"product_variant_id"`
	Quantity         int  `json:"quantity" validate:"required,gt=0"`
}

// UpdateCartItemRequest represents the request body for a quantity change.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// HandleGetCart returns the caller's cart, creating an empty one on first
// access.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	cart, err := h.service.GetCart(c.UserContext(), cartOwner(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cart)
}

// HandleAddToCart adds a line to the caller's cart.
func (h *CartHandler) HandleAddToCart(c *fiber.Ctx) error {
	var req AddToCartRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	cart, err := h.service.AddToCart(c.UserContext(), cartOwner(c), services.AddToCartInput{
		ProductID:        req.ProductID,
		ProductVariantID: req.ProductVariantID,
		Quantity:         req.Quantity,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cart)
}

// HandleUpdateItem changes the quantity of a cart line; zero or less
// removes it.
func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	itemID, err := parseIDParam(c, "itemID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid cart item id",
		})
	}

	var req UpdateCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	cart, err := h.service.UpdateItemQuantity(c.UserContext(), cartOwner(c), itemID, req.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cart)
}

// HandleRemoveItem deletes a cart line.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	itemID, err := parseIDParam(c, "itemID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid cart item id",
		})
	}

	cart, err := h.service.RemoveItem(c.UserContext(), cartOwner(c), itemID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cart)
}

// HandleClearCart removes every line from the caller's cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	if err := h.service.ClearCart(c.UserContext(), cartOwner(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Cart cleared"})
}

// HandleMergeCarts folds the request's guest cart into the authenticated
// user's cart.
func (h *CartHandler) HandleMergeCarts(c *fiber.Ctx) error {
	session := existingCartSession(c)
	if session == "" {
		return c.JSON(fiber.Map{"message": "No guest cart to merge"})
	}
	if err := h.service.MergeCarts(c.UserContext(), middleware.UserID(c), session); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Carts merged"})
}

// cartOwner resolves the caller's cart identity: the authenticated user if
// present, otherwise the guest session (minting one on first touch).
func cartOwner(c *fiber.Ctx) models.CartOwner {
	if userID := middleware.UserID(c); userID != 0 {
		return models.RegisteredOwner(userID)
	}
	return models.GuestOwner(ensureCartSession(c))
}

// existingCartSession returns the request's guest session token without
// minting a new one.
func existingCartSession(c *fiber.Ctx) string {
	if token := c.Get(cartSessionHeader); token != "" {
		return token
	}
	return c.Cookies(cartSessionCookie)
}

// ensureCartSession returns the request's guest session token, generating
// one and setting the cookie when the visitor has none yet.
func ensureCartSession(c *fiber.Ctx) string {
	if token := existingCartSession(c); token != "" {
		return token
	}
	token := uuid.NewString()
	c.Cookie(&fiber.Cookie{
		Name:     cartSessionCookie,
		Value:    token,
		Expires:  time.Now().Add(cartSessionTTL),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	return token
}
