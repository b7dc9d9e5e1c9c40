package services

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to the API layer. Handlers translate these into
// client-visible status codes.
var (
	// ErrEmptyCart means no non-empty cart was found for either the user or
	// the guest session.
	ErrEmptyCart = errors.New("cart is empty or not found")

	// ErrNotFound means the referenced entity does not exist in the
	// requested scope.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized means the actor identity could not be established.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidInput means the request was structurally valid but
	// semantically unusable.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicate means a uniqueness constraint (username, email, SKU)
	// would be violated.
	ErrDuplicate = errors.New("already exists")
)

// InsufficientStockError reports a cart line whose requested quantity
// exceeds the live variant stock. The whole order placement aborts; there is
// no partial or backorder fallback.
type InsufficientStockError struct {
	ProductName string
	SKU         string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (%s): requested %d, available %d",
		e.ProductName, e.SKU, e.Requested, e.Available)
}
