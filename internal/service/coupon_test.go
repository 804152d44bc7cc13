package service

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/abgdnv/storefront/internal/errors"
	"github.com/abgdnv/storefront/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Coupons_Validate(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name         string
		code         string
		expiresAt    time.Time
		expectError  error
		stillActive  bool
		expectedCode string
	}{
		{name: "Success", code: "GIFT10", expiresAt: now.Add(time.Hour), stillActive: true, expectedCode: "GIFT10"},
		{name: "Success - surrounding spaces", code: " GIFT10 ", expiresAt: now.Add(time.Hour), stillActive: true, expectedCode: "GIFT10"},
		{name: "Error - missing code", code: "", expiresAt: now.Add(time.Hour), stillActive: true, expectError: apperrors.ErrMissingCoupon},
		{name: "Error - unknown code", code: "OTHER", expiresAt: now.Add(time.Hour), stillActive: true, expectError: apperrors.ErrCouponNotFound},
		{name: "Error - expired coupon is deactivated", code: "GIFT10", expiresAt: now.Add(-time.Hour), stillActive: false, expectError: apperrors.ErrCouponExpired},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			mem := store.NewMemoryStore()
			userID := uuid.New()
			mem.PutUser(store.User{ID: userID})
			mem.PutCoupon(store.Coupon{ID: uuid.New(), Code: "GIFT10", DiscountPercentage: 10, ExpirationDate: tc.expiresAt, IsActive: true, UserID: userID})
			s := NewCoupons(mem.Coupons(), discardLogger())
			s.now = func() time.Time { return now }
			user := &store.User{ID: userID}

			// when
			coupon, err := s.Validate(ctx, user, tc.code)

			// then
			_, activeErr := mem.Coupons().FindActiveByUser(ctx, userID)
			assert.Equal(t, tc.stillActive, activeErr == nil)
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, coupon)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedCode, coupon.Code)
			assert.Equal(t, int32(10), coupon.DiscountPercentage)
		})
	}
}

func Test_Coupons_GetMyCoupon(t *testing.T) {
	// given
	ctx := context.Background()
	mem := store.NewMemoryStore()
	withCoupon, without := uuid.New(), uuid.New()
	mem.PutCoupon(store.Coupon{ID: uuid.New(), Code: "GIFT10", DiscountPercentage: 10, IsActive: true, UserID: withCoupon})
	s := NewCoupons(mem.Coupons(), discardLogger())

	// when
	found, err := s.GetMyCoupon(ctx, &store.User{ID: withCoupon})
	require.NoError(t, err)
	_, missingErr := s.GetMyCoupon(ctx, &store.User{ID: without})

	// then
	assert.Equal(t, "GIFT10", found.Code)
	assert.ErrorIs(t, missingErr, apperrors.ErrCouponNotFound)
}
