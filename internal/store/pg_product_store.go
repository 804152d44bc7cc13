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

const productColumns = "id, name, description, price, image, category, is_featured, created_at, updated_at"

// PgProductStore implements ProductStore on top of a PostgreSQL connection pool.
type PgProductStore struct {
	db *pgxpool.Pool
}

// NewPgProductStore creates a new instance of ProductStore using a PostgreSQL connection pool.
func NewPgProductStore(dbp *pgxpool.Pool) *PgProductStore {
	return &PgProductStore{db: dbp}
}

func (p *PgProductStore) FindByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	rows, err := p.db.Query(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	product, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[Product])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return &product, nil
}

func (p *PgProductStore) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}
	return p.list(ctx, "SELECT "+productColumns+" FROM products WHERE id = ANY($1) ORDER BY created_at, id", ids)
}

func (p *PgProductStore) FindAll(ctx context.Context) ([]Product, error) {
	return p.list(ctx, "SELECT "+productColumns+" FROM products ORDER BY created_at, id")
}

func (p *PgProductStore) FindByCategory(ctx context.Context, category string) ([]Product, error) {
	return p.list(ctx, "SELECT "+productColumns+" FROM products WHERE category = $1 ORDER BY created_at, id", category)
}

func (p *PgProductStore) FindFeatured(ctx context.Context) ([]Product, error) {
	return p.list(ctx, "SELECT "+productColumns+" FROM products WHERE is_featured ORDER BY created_at, id")
}

func (p *PgProductStore) Create(ctx context.Context, params ProductCreateParams) (*Product, error) {
	rows, err := p.db.Query(ctx,
		`INSERT INTO products (name, description, price, image, category)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+productColumns,
		params.Name, params.Description, params.Price, params.Image, params.Category)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	product, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[Product])
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return &product, nil
}

func (p *PgProductStore) SetFeatured(ctx context.Context, id uuid.UUID, featured bool) (*Product, error) {
	rows, err := p.db.Query(ctx,
		`UPDATE products SET is_featured = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING `+productColumns,
		id, featured)
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	product, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[Product])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return &product, nil
}

func (p *PgProductStore) DeleteByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	rows, err := p.db.Query(ctx, "DELETE FROM products WHERE id = $1 RETURNING "+productColumns, id)
	if err != nil {
		return nil, fmt.Errorf("delete product: %w", err)
	}
	product, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[Product])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("delete product: %w", err)
	}
	return &product, nil
}

func (p *PgProductStore) list(ctx context.Context, query string, args ...any) ([]Product, error) {
	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	products, err := pgx.CollectRows(rows, pgx.RowToStructByName[Product])
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if products == nil {
		products = []Product{}
	}
	return products, nil
}
