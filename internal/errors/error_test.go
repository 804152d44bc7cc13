package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKinds(t *testing.T) {
	testCases := []struct {
		err  error
		kind error
		msg  string
	}{
		{ErrMissingProductID, ErrValidation, "missing product id"},
		{ErrInvalidQuantity, ErrValidation, "quantity must be non-negative"},
		{ErrProductNotInCart, ErrNotFound, "product not in cart"},
		{ErrCouponExpired, ErrNotFound, "coupon expired"},
		{ErrAdminRequired, ErrForbidden, "admin access required"},
	}
	for _, tc := range testCases {
		t.Run(tc.msg, func(t *testing.T) {
			wrapped := fmt.Errorf("update cart: %w", tc.err)
			assert.ErrorIs(t, wrapped, tc.kind)
			assert.ErrorIs(t, wrapped, tc.err)
			assert.Equal(t, tc.msg, tc.err.Error())
		})
	}
	assert.False(t, errors.Is(ErrProductNotFound, ErrValidation))
}

func TestMessage(t *testing.T) {
	msg, ok := Message(fmt.Errorf("failed to fetch product by ID 42: %w", ErrProductNotFound))
	assert.True(t, ok)
	assert.Equal(t, "product not found", msg)

	_, ok = Message(errors.New("connection refused"))
	assert.False(t, ok)
}
