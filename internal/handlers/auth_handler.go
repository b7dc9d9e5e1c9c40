package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"belanja/internal/models"
	"belanja/internal/services"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	cartService *services.CartService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler. The cart service is used to
// merge a guest cart into the user's cart right after login.
func NewAuthHandler(authService *services.AuthService, cartService *services.CartService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cartService: cartService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}
	if err := h.authService.RegisterUser(c.UserContext(), &user); err != nil {
		log.Printf("Error registering user: %v", err)
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user,
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and issues a JWT token. When the request
// carries a guest cart session, that cart is merged into the user's cart.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	token, err := h.authService.LoginUser(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	if session := existingCartSession(c); session != "" {
		claims, err := h.authService.ValidateToken(token)
		if err == nil {
			if id, ok := claims["user_id"].(float64); ok {
				if err := h.cartService.MergeCarts(c.UserContext(), uint(id), session); err != nil {
					log.Printf("Warning: failed to merge guest cart on login: %v", err)
				}
			}
		}
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
	})
}
