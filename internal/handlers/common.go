package handlers

import (
	"errors"
	"log"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"belanja/internal/services"
)

// respondError translates service error kinds into client-visible status
// codes. Anything uncategorized becomes an opaque server error.
func respondError(c *fiber.Ctx, err error) error {
	var stockErr *services.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message":   "Insufficient stock",
			"product":   stockErr.ProductName,
			"sku":       stockErr.SKU,
			"requested": stockErr.Requested,
			"available": stockErr.Available,
		})
	case errors.Is(err, services.ErrEmptyCart):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Cart is empty or not found",
		})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	case errors.Is(err, services.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid credentials",
		})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Not found",
		})
	case errors.Is(err, services.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": err.Error(),
		})
	default:
		log.Printf("Internal error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error",
		})
	}
}

// respondValidationErrors shapes validator errors into a field/tag map.
func respondValidationErrors(c *fiber.Ctx, err error) error {
	messages := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			messages[e.Field()] = "failed on the '" + e.Tag() + "' tag"
		}
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  messages,
	})
}

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id parameter")
	}
	return uint(id), nil
}
