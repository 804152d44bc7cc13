package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/abgdnv/storefront/internal/cache"
	"github.com/abgdnv/storefront/internal/store"
	"github.com/abgdnv/storefront/pkg/config"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "storefront/featured-cache"

// Featured serves the featured products from a cached snapshot and keeps the snapshot
// in line with featured flag changes. Cache failures are logged and fall back to the store.
// Snapshot rebuilds are serialized so an older query result never overwrites a newer one.
type Featured struct {
	mu       sync.Mutex
	products store.ProductStore
	cache    cache.Cache
	key      string
	ttl      time.Duration
	logger   *slog.Logger
	hits     metric.Int64Counter
	misses   metric.Int64Counter
}

func NewFeatured(products store.ProductStore, c cache.Cache, cfg config.CacheConfig, logger *slog.Logger) *Featured {
	logger = logger.With("component", "featured")
	meter := otel.Meter(meterName)
	return &Featured{
		products: products,
		cache:    c,
		key:      cfg.FeaturedKey,
		ttl:      cfg.FeaturedTTL,
		logger:   logger,
		hits:     newCounter(meter, "featured_cache.hits", "Featured snapshot reads served from the cache", logger),
		misses:   newCounter(meter, "featured_cache.misses", "Featured snapshot reads that went to the store", logger),
	}
}

func newCounter(meter metric.Meter, name, description string, logger *slog.Logger) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		logger.Warn("Failed to create counter, metric disabled", "name", name, "error", err)
		return noop.Int64Counter{}
	}
	return c
}

// GetFeatured returns the featured products, reading through the cache.
func (s *Featured) GetFeatured(ctx context.Context) ([]ProductDto, error) {
	raw, err := s.cache.Get(ctx, s.key)
	switch {
	case err == nil:
		var snapshot []ProductDto
		decodeErr := json.Unmarshal([]byte(raw), &snapshot)
		if decodeErr == nil {
			s.hits.Add(ctx, 1)
			if snapshot == nil {
				snapshot = []ProductDto{}
			}
			return snapshot, nil
		}
		s.logger.WarnContext(ctx, "Discarding undecodable featured snapshot", "key", s.key, "error", decodeErr)
	case !errors.Is(err, cache.ErrCacheMiss):
		s.logger.WarnContext(ctx, "Featured cache read failed, falling back to store", "key", s.key, "error", err)
	}
	s.misses.Add(ctx, 1)

	s.mu.Lock()
	defer s.mu.Unlock()
	products, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.write(ctx, products); err != nil {
		s.logger.WarnContext(ctx, "Featured cache write failed", "key", s.key, "error", err)
	}
	return products, nil
}

// ToggleFeatured flips the featured flag of a product, persists it and rebuilds the snapshot.
// Returns the new flag value.
func (s *Featured) ToggleFeatured(ctx context.Context, id uuid.UUID) (bool, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to fetch product by ID %s: %w", id, err)
	}
	updated, err := s.products.SetFeatured(ctx, id, !product.IsFeatured)
	if err != nil {
		return false, fmt.Errorf("failed to update product with ID %s: %w", id, err)
	}
	if err := s.Refresh(ctx); err != nil {
		s.logger.ErrorContext(ctx, "Failed to refresh featured snapshot after toggle", "ID", id, "error", err)
	}
	return updated.IsFeatured, nil
}

// Refresh overwrites the snapshot with the current featured products.
func (s *Featured) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	products, err := s.load(ctx)
	if err != nil {
		return err
	}
	return s.write(ctx, products)
}

func (s *Featured) load(ctx context.Context) ([]ProductDto, error) {
	products, err := s.products.FindFeatured(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch featured products: %w", err)
	}
	return toProductDtos(products), nil
}

func (s *Featured) write(ctx context.Context, products []ProductDto) error {
	raw, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("encode featured snapshot: %w", err)
	}
	return s.cache.Set(ctx, s.key, string(raw), s.ttl)
}
