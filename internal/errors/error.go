// Package errors provides the error kinds returned by the storefront services.
// Handlers map kinds to status codes with errors.Is: ErrValidation → 400, ErrNotFound → 404,
// ErrForbidden → 403. Anything else is a store failure and becomes a 500.
package errors

import "errors"

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
)

var (
	ErrMissingProductID = newKind("missing product id", ErrValidation)
	ErrInvalidProductID = newKind("invalid product id", ErrValidation)
	ErrInvalidQuantity  = newKind("quantity must be non-negative", ErrValidation)
	ErrMissingCoupon    = newKind("missing coupon code", ErrValidation)
	ErrInvalidImage     = newKind("invalid image", ErrValidation)

	ErrProductNotFound  = newKind("product not found", ErrNotFound)
	ErrProductNotInCart = newKind("product not in cart", ErrNotFound)
	ErrUserNotFound     = newKind("user not found", ErrNotFound)
	ErrCouponNotFound   = newKind("coupon not found", ErrNotFound)
	ErrCouponExpired    = newKind("coupon expired", ErrNotFound)

	ErrAdminRequired = newKind("admin access required", ErrForbidden)
)

// kindError is a sentinel with its own message that also matches its kind.
type kindError struct {
	msg  string
	kind error
}

func newKind(msg string, kind error) error {
	return &kindError{msg: msg, kind: kind}
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// Message returns the client-facing message of the outermost sentinel wrapped in err.
func Message(err error) (string, bool) {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.msg, true
	}
	return "", false
}
