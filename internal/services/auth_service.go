package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"belanja/internal/models"
	"belanja/internal/repositories"
)

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	users      repositories.UserRepository
	jwtSecret  []byte
	tokenDurat time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(users repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		users:      users,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour,
	}
}

// RegisterUser registers a new user, hashes their password, and saves them
// to the database. The role defaults to customer.
func (s *AuthService) RegisterUser(ctx context.Context, user *models.User) error {
	if existing, err := s.users.GetByUsername(ctx, user.Username); err == nil && existing != nil {
		return fmt.Errorf("username %q taken: %w", user.Username, ErrDuplicate)
	}
	if existing, err := s.users.GetByEmail(ctx, user.Email); err == nil && existing != nil {
		return fmt.Errorf("email %q registered: %w", user.Email, ErrDuplicate)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashed)
	if user.Role == "" {
		user.Role = models.RoleCustomer
	}

	if err := s.users.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}
	return nil
}

// LoginUser authenticates a user and returns a signed JWT on success. The
// error never reveals whether the username exists.
func (s *AuthService) LoginUser(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(s.tokenDurat).Unix(),
		"iat":      time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", ErrUnauthorized)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token: %w", ErrUnauthorized)
}
