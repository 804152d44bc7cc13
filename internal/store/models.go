package store

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// CartEntry is a product reference with a desired quantity, embedded in a User record.
type CartEntry struct {
	ProductID uuid.UUID `json:"product"`
	Quantity  int       `json:"quantity"`
}

// User is the persisted user document. CartItems is stored as a JSON array and may be nil.
type User struct {
	ID        uuid.UUID   `db:"id"`
	Name      string      `db:"name"`
	Email     string      `db:"email"`
	Role      string      `db:"role"`
	CartItems []CartEntry `db:"cart_items"`
	CreatedAt time.Time   `db:"created_at"`
	UpdatedAt time.Time   `db:"updated_at"`
}

// IsAdmin reports whether the user may manage the catalog.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Product represents a catalog entry. Price is in cents.
type Product struct {
	ID          uuid.UUID `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Price       int64     `db:"price"`
	Image       string    `db:"image"`
	Category    string    `db:"category"`
	IsFeatured  bool      `db:"is_featured"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// ProductCreateParams holds the fields required to create a product.
type ProductCreateParams struct {
	Name        string
	Description string
	Price       int64
	Image       string
	Category    string
}

// Coupon is a per-user discount code.
type Coupon struct {
	ID                 uuid.UUID `db:"id"`
	Code               string    `db:"code"`
	DiscountPercentage int32     `db:"discount_percentage"`
	ExpirationDate     time.Time `db:"expiration_date"`
	IsActive           bool      `db:"is_active"`
	UserID             uuid.UUID `db:"user_id"`
	CreatedAt          time.Time `db:"created_at"`
}

// Expired reports whether the coupon is past its expiration date at the given time.
func (c *Coupon) Expired(now time.Time) bool {
	return c.ExpirationDate.Before(now)
}
