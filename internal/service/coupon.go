package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/abgdnv/storefront/internal/errors"
	"github.com/abgdnv/storefront/internal/store"
)

// CouponService defines the coupon operations.
type CouponService interface {
	// GetMyCoupon returns the user's active coupon or ErrCouponNotFound.
	GetMyCoupon(ctx context.Context, user *store.User) (*CouponDto, error)

	// Validate returns the user's active coupon with the given code.
	// An expired coupon is deactivated and reported as ErrCouponExpired.
	Validate(ctx context.Context, user *store.User, code string) (*CouponDto, error)
}

// Coupons implements CouponService.
type Coupons struct {
	coupons store.CouponStore
	logger  *slog.Logger
	now     func() time.Time
}

func NewCoupons(coupons store.CouponStore, logger *slog.Logger) *Coupons {
	return &Coupons{
		coupons: coupons,
		logger:  logger.With("component", "coupons"),
		now:     time.Now,
	}
}

func (s *Coupons) GetMyCoupon(ctx context.Context, user *store.User) (*CouponDto, error) {
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}
	c, err := s.coupons.FindActiveByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch coupon of user %s: %w", user.ID, err)
	}
	return toCouponDto(c), nil
}

func (s *Coupons) Validate(ctx context.Context, user *store.User, code string) (*CouponDto, error) {
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperrors.ErrMissingCoupon
	}
	c, err := s.coupons.FindActiveByCode(ctx, user.ID, code)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch coupon %s: %w", code, err)
	}
	if c.Expired(s.now()) {
		if err := s.coupons.Deactivate(ctx, c.ID); err != nil {
			return nil, fmt.Errorf("failed to deactivate coupon %s: %w", code, err)
		}
		s.logger.InfoContext(ctx, "Expired coupon deactivated", "code", code, "user_id", user.ID)
		return nil, apperrors.ErrCouponExpired
	}
	return toCouponDto(c), nil
}
