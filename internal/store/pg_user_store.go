package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	apperrors "github.com/abgdnv/storefront/internal/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgUserStore implements UserStore. The cart is kept in the users.cart_items JSONB column.
type PgUserStore struct {
	db *pgxpool.Pool
}

func NewPgUserStore(dbp *pgxpool.Pool) *PgUserStore {
	return &PgUserStore{db: dbp}
}

func (p *PgUserStore) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var (
		user User
		cart []byte
	)
	err := p.db.QueryRow(ctx,
		`SELECT id, name, email, role, cart_items::text, created_at, updated_at FROM users WHERE id = $1`, id).
		Scan(&user.ID, &user.Name, &user.Email, &user.Role, &cart, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	user.CartItems = decodeCart(cart)
	return &user, nil
}

func (p *PgUserStore) Save(ctx context.Context, user *User) error {
	cart, err := encodeCart(user.CartItems)
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	tag, err := p.db.Exec(ctx,
		`UPDATE users SET name = $2, email = $3, role = $4, cart_items = $5::jsonb, updated_at = now() WHERE id = $1`,
		user.ID, user.Name, user.Email, user.Role, string(cart))
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// decodeCart reads the stored cart. NULL or a value that is not a list reads as an empty cart.
// Entries are decoded one by one: an entry without a valid product id or with a quantity below 1
// is skipped and the rest of the cart is kept.
func decodeCart(raw []byte) []CartEntry {
	if len(raw) == 0 {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	var entries []CartEntry
	for _, item := range items {
		var e CartEntry
		if err := json.Unmarshal(item, &e); err != nil {
			continue
		}
		if e.ProductID == uuid.Nil || e.Quantity < 1 {
			continue
		}
		entries = append(entries, e)
	}
	return entries
}

func encodeCart(entries []CartEntry) ([]byte, error) {
	if entries == nil {
		entries = []CartEntry{}
	}
	return json.Marshal(entries)
}
