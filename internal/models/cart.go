package models

import "time"

// Cart holds the items a shopper intends to buy. A cart is owned by exactly
// one identity: a registered user or an anonymous session token, never both.
// Carts are created lazily on first access, emptied after a successful order,
// and guest carts are deleted after being merged into a user cart.
type Cart struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	UserID       *uint      `json:"user_id" gorm:"index"`
	SessionToken *string    `json:"session_token,omitempty" gorm:"index;type:varchar(64)"`
	Items        []CartItem `json:"items" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IsEmpty reports whether the cart has no items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// FindItemByVariant returns the cart line for the given variant, or nil.
func (c *Cart) FindItemByVariant(variantID uint) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductVariantID == variantID {
			return &c.Items[i]
		}
	}
	return nil
}

// CartItem is one line of a cart. Price is a snapshot of the variant's final
// price captured when the line was added; it is not re-priced on read.
type CartItem struct {
	ID               uint            `json:"id" gorm:"primaryKey"`
	CartID           uint            `json:"cart_id" gorm:"index"`
	ProductVariantID uint            `json:"product_variant_id"`
	ProductVariant   *ProductVariant `json:"product_variant,omitempty" gorm:"foreignKey:ProductVariantID"`
	Quantity         int             `json:"quantity" validate:"required,gt=0"`
	Price            float64         `json:"price"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// LineTotal is the snapshot price multiplied by the quantity.
func (i *CartItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

// CartOwner identifies who a cart belongs to: either a registered user or a
// guest session. The two cases are mutually exclusive by construction.
type CartOwner struct {
	userID  uint
	session string
}

// RegisteredOwner identifies a cart by a user id.
func RegisteredOwner(userID uint) CartOwner {
	return CartOwner{userID: userID}
}

// GuestOwner identifies a cart by an anonymous session token.
func GuestOwner(sessionToken string) CartOwner {
	return CartOwner{session: sessionToken}
}

// UserID returns the owning user id when the owner is registered.
func (o CartOwner) UserID() (uint, bool) {
	return o.userID, o.userID != 0
}

// SessionToken returns the session token when the owner is a guest.
func (o CartOwner) SessionToken() (string, bool) {
	return o.session, o.userID == 0 && o.session != ""
}

// IsGuest reports whether the owner is an anonymous session.
func (o CartOwner) IsGuest() bool {
	return o.userID == 0
}
