package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	apperrors "github.com/abgdnv/storefront/internal/errors"
	"github.com/abgdnv/storefront/internal/media"
	"github.com/abgdnv/storefront/internal/store"
	"github.com/abgdnv/storefront/pkg/messaging"
	"github.com/abgdnv/storefront/pkg/messaging/events"
	"github.com/google/uuid"
)

// ProductService defines the catalog operations.
type ProductService interface {
	// FindAll returns all available products.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]ProductDto, error)

	// FindByCategory returns the products of one category.
	FindByCategory(ctx context.Context, category string) ([]ProductDto, error)

	// FindFeatured returns the featured products from the cached snapshot.
	FindFeatured(ctx context.Context) ([]ProductDto, error)

	// Create adds a new product. A data URL image is uploaded first and replaced by its URL.
	Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error)

	// DeleteByID removes a product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id uuid.UUID) error

	// ToggleFeatured flips the featured flag and returns its new value.
	ToggleFeatured(ctx context.Context, productID string) (bool, error)
}

// Catalog implements ProductService.
type Catalog struct {
	products  store.ProductStore
	featured  *Featured
	images    media.ImageStore
	publisher messaging.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewCatalog(products store.ProductStore, featured *Featured, images media.ImageStore, publisher messaging.Publisher, logger *slog.Logger) *Catalog {
	return &Catalog{
		products:  products,
		featured:  featured,
		images:    images,
		publisher: publisher,
		logger:    logger.With("component", "catalog"),
		now:       time.Now,
	}
}

func (s *Catalog) FindAll(ctx context.Context) ([]ProductDto, error) {
	products, err := s.products.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return toProductDtos(products), nil
}

func (s *Catalog) FindByCategory(ctx context.Context, category string) ([]ProductDto, error) {
	products, err := s.products.FindByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products of category %s: %w", category, err)
	}
	return toProductDtos(products), nil
}

func (s *Catalog) FindFeatured(ctx context.Context) ([]ProductDto, error) {
	return s.featured.GetFeatured(ctx)
}

// Create stores a new product. New products are never featured, so the snapshot is left alone.
func (s *Catalog) Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error) {
	image := product.Image
	img, isDataURL, err := media.ParseDataURL(image)
	if isDataURL {
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidImage, err)
		}
		image, err = s.images.Upload(ctx, img)
		if err != nil {
			return nil, fmt.Errorf("failed to upload product image: %w", err)
		}
	}

	p, err := s.products.Create(ctx, store.ProductCreateParams{
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Image:       image,
		Category:    product.Category,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	dto := toProductDto(p)
	return &dto, nil
}

func (s *Catalog) DeleteByID(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.products.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete product with ID %s: %w", id, err)
	}
	if deleted.Image != "" {
		if err := s.images.Delete(ctx, deleted.Image); err != nil {
			s.logger.WarnContext(ctx, "Failed to delete product image", "ID", id, "error", err)
		}
	}
	if deleted.IsFeatured {
		if err := s.featured.Refresh(ctx); err != nil {
			s.logger.ErrorContext(ctx, "Failed to refresh featured snapshot after delete", "ID", id, "error", err)
		}
	}
	s.publish(ctx, events.ProductDeleted{ProductID: id, DeletedAt: s.now().UTC()})
	return nil
}

func (s *Catalog) ToggleFeatured(ctx context.Context, productID string) (bool, error) {
	id, err := ParseProductID(productID)
	if err != nil {
		return false, err
	}
	featured, err := s.featured.ToggleFeatured(ctx, id)
	if err != nil {
		return false, err
	}
	s.publish(ctx, events.ProductFeaturedToggled{ProductID: id, IsFeatured: featured, ToggledAt: s.now().UTC()})
	return featured, nil
}

func (s *Catalog) publish(ctx context.Context, event messaging.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish event", "subject", event.Subject(), "error", err)
	}
}
