// Package store provides storage interfaces and their PostgreSQL and in-memory implementations.
package store

import (
	"context"

	"github.com/google/uuid"
)

// ProductStore is an interface for product storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
type ProductStore interface {
	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs returns the products that exist among ids, in store order.
	// Unknown ids are skipped. Returns an empty slice if none exist.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindAll returns all available products.
	FindAll(ctx context.Context) ([]Product, error)

	// FindByCategory returns the products of a category.
	FindByCategory(ctx context.Context, category string) ([]Product, error)

	// FindFeatured returns the products flagged as featured.
	FindFeatured(ctx context.Context) ([]Product, error)

	// Create adds a new, non-featured product.
	Create(ctx context.Context, params ProductCreateParams) (*Product, error)

	// SetFeatured persists the featured flag of a product and returns the updated record.
	// Returns ErrProductNotFound if no product exists with the given ID.
	SetFeatured(ctx context.Context, id uuid.UUID, featured bool) (*Product, error)

	// DeleteByID removes a product and returns the removed record.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id uuid.UUID) (*Product, error)
}

// UserStore persists user documents, including their embedded cart.
type UserStore interface {
	// FindByID returns ErrUserNotFound if no user exists with the given ID.
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// Save writes the full user record, cart included.
	// Returns ErrUserNotFound if the user does not exist.
	Save(ctx context.Context, user *User) error
}

// CouponStore reads and deactivates user coupons.
type CouponStore interface {
	// FindActiveByUser returns the user's active coupon or ErrCouponNotFound.
	FindActiveByUser(ctx context.Context, userID uuid.UUID) (*Coupon, error)

	// FindActiveByCode returns the user's active coupon with the given code or ErrCouponNotFound.
	FindActiveByCode(ctx context.Context, userID uuid.UUID, code string) (*Coupon, error)

	// Deactivate marks the coupon as inactive.
	Deactivate(ctx context.Context, id uuid.UUID) error
}
