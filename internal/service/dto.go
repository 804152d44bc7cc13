// Package service implements the storefront business logic: the cart, the catalog with its
// featured products snapshot, and coupons.
package service

import (
	"time"

	apperrors "github.com/abgdnv/storefront/internal/errors"
	"github.com/abgdnv/storefront/internal/store"
	"github.com/google/uuid"
)

// ProductDto is the client-facing product representation. It is also the shape of the
// cached featured products snapshot.
type ProductDto struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	Image       string    `json:"image"`
	Category    string    `json:"category"`
	IsFeatured  bool      `json:"isFeatured"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CartItemDto is one row of a cart view: the live product fields plus the desired quantity.
type CartItemDto struct {
	ProductDto
	Quantity int `json:"quantity"`
}

// ProductCreateDto represents the data transfer object for creating a new product.
// Image is either a URL or a base64 data URL to be uploaded.
type ProductCreateDto struct {
	Name        string `json:"name"        validate:"required,max=100"`
	Description string `json:"description" validate:"max=2000"`
	Price       int64  `json:"price"       validate:"min=0"`
	Image       string `json:"image"`
	Category    string `json:"category"    validate:"required,max=50"`
}

type CouponDto struct {
	Code               string    `json:"code"`
	DiscountPercentage int32     `json:"discountPercentage"`
	ExpirationDate     time.Time `json:"expirationDate"`
	IsActive           bool      `json:"isActive"`
}

// CartSummaryDto holds cart totals in cents.
type CartSummaryDto struct {
	Subtotal int64      `json:"subtotal"`
	Discount int64      `json:"discount"`
	Total    int64      `json:"total"`
	Coupon   *CouponDto `json:"coupon,omitempty"`
}

// ParseProductID validates a client-supplied product id.
func ParseProductID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, apperrors.ErrMissingProductID
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, apperrors.ErrInvalidProductID
	}
	return id, nil
}

func toProductDto(p *store.Product) ProductDto {
	return ProductDto{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Image:       p.Image,
		Category:    p.Category,
		IsFeatured:  p.IsFeatured,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toProductDtos(products []store.Product) []ProductDto {
	dtos := make([]ProductDto, len(products))
	for i := range products {
		dtos[i] = toProductDto(&products[i])
	}
	return dtos
}

func toCouponDto(c *store.Coupon) *CouponDto {
	return &CouponDto{
		Code:               c.Code,
		DiscountPercentage: c.DiscountPercentage,
		ExpirationDate:     c.ExpirationDate,
		IsActive:           c.IsActive,
	}
}
