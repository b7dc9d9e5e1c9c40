package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"belanja/internal/models"
)

func TestRegisterUser(t *testing.T) {
	users := new(MockUserRepository)
	service := NewAuthService(users, "test-secret")

	users.On("GetByUsername", mock.Anything, "alice").Return(nil, gorm.ErrRecordNotFound)
	users.On("GetByEmail", mock.Anything, "alice@example.com").Return(nil, gorm.ErrRecordNotFound)
	users.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)

	user := &models.User{Username: "alice", Email: "alice@example.com", Password: "s3cret"}
	err := service.RegisterUser(context.Background(), user)

	assert.NoError(t, err)
	assert.NotEqual(t, "s3cret", user.Password, "password is stored hashed")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("s3cret")))
	assert.Equal(t, models.RoleCustomer, user.Role, "role defaults to customer")
	users.AssertExpectations(t)
}

func TestRegisterUser_DuplicateUsername(t *testing.T) {
	users := new(MockUserRepository)
	service := NewAuthService(users, "test-secret")

	users.On("GetByUsername", mock.Anything, "alice").
		Return(&models.User{ID: 1, Username: "alice"}, nil)

	err := service.RegisterUser(context.Background(), &models.User{
		Username: "alice", Email: "other@example.com", Password: "pw",
	})
	assert.ErrorIs(t, err, ErrDuplicate)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLoginUser(t *testing.T) {
	users := new(MockUserRepository)
	service := NewAuthService(users, "test-secret")

	hashed, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.DefaultCost)
	assert.NoError(t, err)
	users.On("GetByUsername", mock.Anything, "alice").Return(&models.User{
		ID: 42, Username: "alice", Password: string(hashed), Role: models.RoleAdmin,
	}, nil)

	token, err := service.LoginUser(context.Background(), "alice", "s3cret")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, float64(42), claims["user_id"])
	assert.Equal(t, "alice", claims["username"])
	assert.Equal(t, models.RoleAdmin, claims["role"])
}

func TestLoginUser_WrongPassword(t *testing.T) {
	users := new(MockUserRepository)
	service := NewAuthService(users, "test-secret")

	hashed, _ := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.DefaultCost)
	users.On("GetByUsername", mock.Anything, "alice").Return(&models.User{
		ID: 42, Username: "alice", Password: string(hashed),
	}, nil)

	_, err := service.LoginUser(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLoginUser_UnknownUser(t *testing.T) {
	users := new(MockUserRepository)
	service := NewAuthService(users, "test-secret")

	users.On("GetByUsername", mock.Anything, "nobody").Return(nil, gorm.ErrRecordNotFound)

	_, err := service.LoginUser(context.Background(), "nobody", "pw")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	users := new(MockUserRepository)
	issuer := NewAuthService(users, "secret-a")
	verifier := NewAuthService(users, "secret-b")

	hashed, _ := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.DefaultCost)
	users.On("GetByUsername", mock.Anything, "alice").Return(&models.User{
		ID: 1, Username: "alice", Password: string(hashed),
	}, nil)

	token, err := issuer.LoginUser(context.Background(), "alice", "pw")
	assert.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
