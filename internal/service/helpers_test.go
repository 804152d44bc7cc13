package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/abgdnv/storefront/internal/cache"
	"github.com/abgdnv/storefront/internal/media"
	"github.com/abgdnv/storefront/internal/store"
	"github.com/abgdnv/storefront/pkg/messaging"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

var errStore = errors.New("store error")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// countingProductStore wraps a ProductStore and counts featured queries.
type countingProductStore struct {
	store.ProductStore
	featuredCalls atomic.Int32
	findByIDsErr  error
}

func (c *countingProductStore) FindFeatured(ctx context.Context) ([]store.Product, error) {
	c.featuredCalls.Add(1)
	return c.ProductStore.FindFeatured(ctx)
}

func (c *countingProductStore) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]store.Product, error) {
	if c.findByIDsErr != nil {
		return nil, c.findByIDsErr
	}
	return c.ProductStore.FindByIDs(ctx, ids)
}

// failingCache fails every call, like a Redis behind an open breaker.
type failingCache struct{}

func (failingCache) Get(context.Context, string) (string, error) {
	return "", errors.New("redis unavailable")
}

func (failingCache) Set(context.Context, string, string, time.Duration) error {
	return errors.New("redis unavailable")
}

// MockPublisher records published events.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event messaging.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockImageStore is a mock implementation of media.ImageStore.
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Upload(ctx context.Context, img *media.Image) (string, error) {
	args := m.Called(ctx, img)
	return args.String(0), args.Error(1)
}

func (m *MockImageStore) Delete(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

type fixture struct {
	mem      *store.MemoryStore
	products *countingProductStore
	cache    cache.Cache
	featured *Featured
	coupons  *Coupons
	cart     *Cart
}

func newFixture(c cache.Cache) *fixture {
	mem := store.NewMemoryStore()
	products := &countingProductStore{ProductStore: mem}
	logger := discardLogger()
	featured := NewFeatured(products, c, featuredConfig, logger)
	coupons := NewCoupons(mem.Coupons(), logger)
	return &fixture{
		mem:      mem,
		products: products,
		cache:    c,
		featured: featured,
		coupons:  coupons,
		cart:     NewCart(mem.Users(), products, coupons, logger),
	}
}

func (f *fixture) addProduct(name string, price int64, featured bool) store.Product {
	p := store.Product{ID: uuid.New(), Name: name, Price: price, Category: "jeans", IsFeatured: featured}
	f.mem.PutProduct(p)
	return p
}

func (f *fixture) addUser(entries ...store.CartEntry) *store.User {
	u := store.User{ID: uuid.New(), Name: "Ann", Role: store.RoleCustomer, CartItems: entries}
	f.mem.PutUser(u)
	return &u
}
