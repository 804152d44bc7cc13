package store

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/abgdnv/storefront/internal/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const couponColumns = "id, code, discount_percentage, expiration_date, is_active, user_id, created_at"

type PgCouponStore struct {
	db *pgxpool.Pool
}

func NewPgCouponStore(dbp *pgxpool.Pool) *PgCouponStore {
	return &PgCouponStore{db: dbp}
}

func (p *PgCouponStore) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*Coupon, error) {
	return p.findOne(ctx,
		"SELECT "+couponColumns+" FROM coupons WHERE user_id = $1 AND is_active ORDER BY created_at DESC LIMIT 1",
		userID)
}

func (p *PgCouponStore) FindActiveByCode(ctx context.Context, userID uuid.UUID, code string) (*Coupon, error) {
	return p.findOne(ctx,
		"SELECT "+couponColumns+" FROM coupons WHERE user_id = $1 AND code = $2 AND is_active",
		userID, code)
}

func (p *PgCouponStore) Deactivate(ctx context.Context, id uuid.UUID) error {
	tag, err := p.db.Exec(ctx, "UPDATE coupons SET is_active = FALSE WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deactivate coupon: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCouponNotFound
	}
	return nil
}

func (p *PgCouponStore) findOne(ctx context.Context, query string, args ...any) (*Coupon, error) {
	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find coupon: %w", err)
	}
	coupon, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[Coupon])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCouponNotFound
		}
		return nil, fmt.Errorf("find coupon: %w", err)
	}
	return &coupon, nil
}
