package store

import (
	"context"
	"slices"
	"sync"
	"time"

	apperrors "github.com/abgdnv/storefront/internal/errors"
	"github.com/google/uuid"
)

// MemoryStore implements ProductStore, UserStore and CouponStore in memory.
// Products are returned in insertion order. Records are copied on the way in and out.
type MemoryStore struct {
	mu       sync.RWMutex
	products []Product
	users    map[uuid.UUID]User
	coupons  []Coupon
	now      func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[uuid.UUID]User),
		now:   time.Now,
	}
}

// PutUser inserts or replaces a user record.
func (s *MemoryStore) PutUser(user User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.CartItems = slices.Clone(user.CartItems)
	s.users[user.ID] = user
}

// PutProduct inserts or replaces a product record, keeping its position when it already exists.
func (s *MemoryStore) PutProduct(product Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.productIndex(product.ID); i >= 0 {
		s.products[i] = product
		return
	}
	s.products = append(s.products, product)
}

// PutCoupon inserts a coupon record.
func (s *MemoryStore) PutCoupon(coupon Coupon) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coupons = append(s.coupons, coupon)
}

func (s *MemoryStore) FindByID(_ context.Context, id uuid.UUID) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.productIndex(id)
	if i < 0 {
		return nil, apperrors.ErrProductNotFound
	}
	p := s.products[i]
	return &p, nil
}

func (s *MemoryStore) FindByIDs(_ context.Context, ids []uuid.UUID) ([]Product, error) {
	return s.filter(func(p *Product) bool { return slices.Contains(ids, p.ID) }), nil
}

func (s *MemoryStore) FindAll(_ context.Context) ([]Product, error) {
	return s.filter(func(*Product) bool { return true }), nil
}

func (s *MemoryStore) FindByCategory(_ context.Context, category string) ([]Product, error) {
	return s.filter(func(p *Product) bool { return p.Category == category }), nil
}

func (s *MemoryStore) FindFeatured(_ context.Context) ([]Product, error) {
	return s.filter(func(p *Product) bool { return p.IsFeatured }), nil
}

func (s *MemoryStore) Create(_ context.Context, params ProductCreateParams) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now().UTC()
	product := Product{
		ID:          uuid.New(),
		Name:        params.Name,
		Description: params.Description,
		Price:       params.Price,
		Image:       params.Image,
		Category:    params.Category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.products = append(s.products, product)
	return &product, nil
}

func (s *MemoryStore) SetFeatured(_ context.Context, id uuid.UUID, featured bool) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.productIndex(id)
	if i < 0 {
		return nil, apperrors.ErrProductNotFound
	}
	s.products[i].IsFeatured = featured
	s.products[i].UpdatedAt = s.now().UTC()
	p := s.products[i]
	return &p, nil
}

func (s *MemoryStore) DeleteByID(_ context.Context, id uuid.UUID) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.productIndex(id)
	if i < 0 {
		return nil, apperrors.ErrProductNotFound
	}
	p := s.products[i]
	s.products = slices.Delete(s.products, i, i+1)
	return &p, nil
}

// Users returns a UserStore view of the memory store.
// Product and user lookups share the FindByID name, so users are served through a separate type.
func (s *MemoryStore) Users() UserStore {
	return memoryUsers{s}
}

// Coupons returns a CouponStore view of the memory store.
func (s *MemoryStore) Coupons() CouponStore {
	return memoryCoupons{s}
}

func (s *MemoryStore) productIndex(id uuid.UUID) int {
	return slices.IndexFunc(s.products, func(p Product) bool { return p.ID == id })
}

func (s *MemoryStore) filter(keep func(*Product) bool) []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]Product, 0, len(s.products))
	for i := range s.products {
		if keep(&s.products[i]) {
			list = append(list, s.products[i])
		}
	}
	return list
}

type memoryUsers struct {
	s *MemoryStore
}

func (m memoryUsers) FindByID(_ context.Context, id uuid.UUID) (*User, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	user, ok := m.s.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	user.CartItems = slices.Clone(user.CartItems)
	return &user, nil
}

func (m memoryUsers) Save(_ context.Context, user *User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.users[user.ID]; !ok {
		return apperrors.ErrUserNotFound
	}
	saved := *user
	saved.CartItems = slices.Clone(user.CartItems)
	saved.UpdatedAt = m.s.now().UTC()
	m.s.users[user.ID] = saved
	return nil
}

type memoryCoupons struct {
	s *MemoryStore
}

func (m memoryCoupons) FindActiveByUser(_ context.Context, userID uuid.UUID) (*Coupon, error) {
	return m.find(func(c *Coupon) bool { return c.UserID == userID })
}

func (m memoryCoupons) FindActiveByCode(_ context.Context, userID uuid.UUID, code string) (*Coupon, error) {
	return m.find(func(c *Coupon) bool { return c.UserID == userID && c.Code == code })
}

func (m memoryCoupons) Deactivate(_ context.Context, id uuid.UUID) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for i := range m.s.coupons {
		if m.s.coupons[i].ID == id {
			m.s.coupons[i].IsActive = false
			return nil
		}
	}
	return apperrors.ErrCouponNotFound
}

func (m memoryCoupons) find(match func(*Coupon) bool) (*Coupon, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	for i := len(m.s.coupons) - 1; i >= 0; i-- {
		c := m.s.coupons[i]
		if c.IsActive && match(&c) {
			return &c, nil
		}
	}
	return nil, apperrors.ErrCouponNotFound
}
