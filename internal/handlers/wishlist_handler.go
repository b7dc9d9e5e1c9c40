package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"belanja/internal/middleware"
	"belanja/internal/services"
)

// WishlistHandler handles HTTP requests for a user's wishlist.
type WishlistHandler struct {
	service  *services.WishlistService
	validate *validator.Validate
}

// NewWishlistHandler creates a new WishlistHandler.
func NewWishlistHandler(service *services.WishlistService) *WishlistHandler {
	return &WishlistHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the wishlist routes behind the auth middleware.
func (h *WishlistHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	wishlistRoutes := router.Group("/wishlist", requireAuth)
	wishlistRoutes.Get("/", h.HandleListWishlist)
	wishlistRoutes.Post("/", h.HandleAddToWishlist)
	wishlistRoutes.Delete("/:productID", h.HandleRemoveFromWishlist)
}

// AddToWishlistRequest represents the request body for adding a product to
// the wishlist.
type AddToWishlistRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
}

// HandleListWishlist returns the caller's wishlist, newest first.
func (h *WishlistHandler) HandleListWishlist(c *fiber.Ctx) error {
	items, err := h.service.ListWishlist(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"items": items})
}

// HandleAddToWishlist adds a product to the caller's wishlist. Adding a
// product that is already present succeeds without duplicating it.
func (h *WishlistHandler) HandleAddToWishlist(c *fiber.Ctx) error {
	var req AddToWishlistRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	if err := h.service.AddToWishlist(c.UserContext(), middleware.UserID(c), req.ProductID); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product added to wishlist"})
}

// HandleRemoveFromWishlist removes a product from the caller's wishlist.
func (h *WishlistHandler) HandleRemoveFromWishlist(c *fiber.Ctx) error {
	productID, err := parseIDParam(c, "productID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product id",
		})
	}
	if err := h.service.RemoveFromWishlist(c.UserContext(), middleware.UserID(c), productID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product removed from wishlist"})
}
