package models

import "time"

// User roles. Role checks in the API compare against these values.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// User represents a registered account of the store.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password  string    `json:"-" gorm:"type:varchar(255)" validate:"required,min=6"`
	Role      string    `json:"role" gorm:"type:varchar(20);default:customer"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
