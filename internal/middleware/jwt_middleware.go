package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"belanja/internal/models"
	"belanja/internal/services"
)

// Locals keys populated by the auth middleware.
const (
	LocalUserID   = "user_id"
	LocalUsername = "username"
	LocalRole     = "role"
)

// AuthRequired is a Fiber middleware that rejects requests without a valid
// bearer token. On success the user id, username and role are stored in the
// request Locals.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := bearerToken(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		storeClaims(c, claims)
		return c.Next()
	}
}

// AuthOptional parses a bearer token when one is present but lets
// unauthenticated requests through. Cart routes use it so guests can shop.
func AuthOptional(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tokenString, ok := bearerToken(c); ok {
			if claims, err := authService.ValidateToken(tokenString); err == nil {
				storeClaims(c, claims)
			}
		}
		return c.Next()
	}
}

// AdminRequired allows only users holding the admin role. It must run after
// AuthRequired.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if role, _ := c.Locals(LocalRole).(string); role != models.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Admin access required",
			})
		}
		return c.Next()
	}
}

// UserID returns the authenticated user's id from the request Locals, or
// zero for guests.
func UserID(c *fiber.Ctx) uint {
	id, _ := c.Locals(LocalUserID).(uint)
	return id
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

func storeClaims(c *fiber.Ctx, claims map[string]interface{}) {
	if id, ok := claims["user_id"].(float64); ok {
		c.Locals(LocalUserID, uint(id))
	}
	if username, ok := claims["username"].(string); ok {
		c.Locals(LocalUsername, username)
	}
	if role, ok := claims["role"].(string); ok {
		c.Locals(LocalRole, role)
	}
}
