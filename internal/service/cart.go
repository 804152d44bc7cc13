package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	apperrors "github.com/abgdnv/storefront/internal/errors"
	"github.com/abgdnv/storefront/internal/store"
	"github.com/google/uuid"
)

// CartService defines the cart operations. The authenticated user is always passed explicitly.
type CartService interface {
	// GetCartView joins the user's cart entries with live product data.
	// Entries whose product no longer exists are skipped. Never returns a nil slice.
	GetCartView(ctx context.Context, user *store.User) ([]CartItemDto, error)

	// AddToCart increments the quantity of an existing entry or appends a new one with quantity 1.
	AddToCart(ctx context.Context, user *store.User, productID string) ([]CartItemDto, error)

	// RemoveAll empties the cart. productID is accepted but does not narrow the removal.
	RemoveAll(ctx context.Context, user *store.User, productID string) ([]CartItemDto, error)

	// UpdateQuantity overwrites the quantity of an entry; zero removes it.
	// Returns ErrProductNotInCart when the cart has no entry for the product.
	UpdateQuantity(ctx context.Context, user *store.User, productID string, quantity int) ([]CartItemDto, error)

	// Summary totals the cart, applying the discount of couponCode when it is not empty.
	Summary(ctx context.Context, user *store.User, couponCode string) (*CartSummaryDto, error)
}

// Cart implements CartService on top of the user and product stores.
// Mutations for one user are serialized and always start from the stored cart.
type Cart struct {
	users    store.UserStore
	products store.ProductStore
	coupons  CouponService
	locks    *keyedMutex
	logger   *slog.Logger
}

func NewCart(users store.UserStore, products store.ProductStore, coupons CouponService, logger *slog.Logger) *Cart {
	return &Cart{
		users:    users,
		products: products,
		coupons:  coupons,
		locks:    newKeyedMutex(),
		logger:   logger.With("component", "cart"),
	}
}

func (s *Cart) GetCartView(ctx context.Context, user *store.User) ([]CartItemDto, error) {
	if user == nil || len(user.CartItems) == 0 {
		return []CartItemDto{}, nil
	}
	ids := make([]uuid.UUID, 0, len(user.CartItems))
	for _, e := range user.CartItems {
		if e.ProductID != uuid.Nil {
			ids = append(ids, e.ProductID)
		}
	}
	if len(ids) == 0 {
		return []CartItemDto{}, nil
	}

	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cart products: %w", err)
	}

	view := make([]CartItemDto, 0, len(products))
	for i := range products {
		view = append(view, CartItemDto{
			ProductDto: toProductDto(&products[i]),
			Quantity:   quantityOf(user.CartItems, products[i].ID),
		})
	}
	return view, nil
}

func (s *Cart) AddToCart(ctx context.Context, user *store.User, productID string) ([]CartItemDto, error) {
	id, err := ParseProductID(productID)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, user, func(entries []store.CartEntry) ([]store.CartEntry, error) {
		if i := entryIndex(entries, id); i >= 0 {
			entries[i].Quantity++
			return entries, nil
		}
		return append(entries, store.CartEntry{ProductID: id, Quantity: 1}), nil
	})
}

func (s *Cart) RemoveAll(ctx context.Context, user *store.User, productID string) ([]CartItemDto, error) {
	if productID != "" {
		s.logger.WarnContext(ctx, "Product id supplied to remove-all, clearing the whole cart anyway", "product_id", productID)
	}
	_, err := s.mutate(ctx, user, func([]store.CartEntry) ([]store.CartEntry, error) {
		return []store.CartEntry{}, nil
	})
	if err != nil {
		return nil, err
	}
	return []CartItemDto{}, nil
}

func (s *Cart) UpdateQuantity(ctx context.Context, user *store.User, productID string, quantity int) ([]CartItemDto, error) {
	id, err := ParseProductID(productID)
	if err != nil {
		return nil, err
	}
	if quantity < 0 {
		return nil, apperrors.ErrInvalidQuantity
	}
	return s.mutate(ctx, user, func(entries []store.CartEntry) ([]store.CartEntry, error) {
		i := entryIndex(entries, id)
		if i < 0 {
			return nil, apperrors.ErrProductNotInCart
		}
		if quantity == 0 {
			return append(entries[:i], entries[i+1:]...), nil
		}
		entries[i].Quantity = quantity
		return entries, nil
	})
}

func (s *Cart) Summary(ctx context.Context, user *store.User, couponCode string) (*CartSummaryDto, error) {
	view, err := s.GetCartView(ctx, user)
	if err != nil {
		return nil, err
	}
	summary := &CartSummaryDto{}
	for _, item := range view {
		summary.Subtotal += item.Price * int64(item.Quantity)
	}
	if couponCode != "" {
		coupon, err := s.coupons.Validate(ctx, user, couponCode)
		if err != nil {
			return nil, err
		}
		summary.Coupon = coupon
		summary.Discount = discount(summary.Subtotal, coupon.DiscountPercentage)
	}
	summary.Total = summary.Subtotal - summary.Discount
	return summary, nil
}

// mutate applies fn to the stored cart of user under the user's lock and persists the result.
// The caller's user value is updated to the new cart.
func (s *Cart) mutate(ctx context.Context, user *store.User, fn func([]store.CartEntry) ([]store.CartEntry, error)) ([]CartItemDto, error) {
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}
	unlock := s.locks.Lock(user.ID)
	defer unlock()

	current, err := s.users.FindByID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart of user %s: %w", user.ID, err)
	}
	entries, err := fn(current.CartItems)
	if err != nil {
		return nil, err
	}
	current.CartItems = entries
	if err := s.users.Save(ctx, current); err != nil {
		return nil, fmt.Errorf("failed to save cart of user %s: %w", user.ID, err)
	}
	user.CartItems = entries
	return s.GetCartView(ctx, current)
}

// ParseQuantity accepts a decoded JSON value holding a non-negative integer.
// Strings, fractions, negatives and null are rejected with ErrInvalidQuantity.
func ParseQuantity(raw any) (int, error) {
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		n, err := strconv.ParseFloat(v.String(), 64)
		if err != nil {
			return 0, apperrors.ErrInvalidQuantity
		}
		f = n
	default:
		return 0, apperrors.ErrInvalidQuantity
	}
	if f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, apperrors.ErrInvalidQuantity
	}
	return int(f), nil
}

func entryIndex(entries []store.CartEntry, id uuid.UUID) int {
	for i := range entries {
		if entries[i].ProductID == id {
			return i
		}
	}
	return -1
}

func quantityOf(entries []store.CartEntry, id uuid.UUID) int {
	if i := entryIndex(entries, id); i >= 0 {
		return entries[i].Quantity
	}
	return 1
}

// discount rounds half up to the nearest cent.
func discount(subtotal int64, percentage int32) int64 {
	return (subtotal*int64(percentage) + 50) / 100
}
