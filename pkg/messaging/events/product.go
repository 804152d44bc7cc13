package events

import (
	"encoding/json"
	"time"

	"github.com/abgdnv/storefront/pkg/messaging"
	"github.com/google/uuid"
)

// ProductFeaturedToggled is emitted after a product's featured flag has been flipped and persisted.
type ProductFeaturedToggled struct {
	ProductID  uuid.UUID `json:"product_id"`
	IsFeatured bool      `json:"is_featured"`
	ToggledAt  time.Time `json:"toggled_at"`
}

func (e ProductFeaturedToggled) Subject() string {
	return messaging.ProductsFeaturedSubject
}

func (e ProductFeaturedToggled) Payload() ([]byte, error) {
	return json.Marshal(e)
}

// ProductDeleted is emitted after a product has been removed from the catalog.
type ProductDeleted struct {
	ProductID uuid.UUID `json:"product_id"`
	DeletedAt time.Time `json:"deleted_at"`
}

func (e ProductDeleted) Subject() string {
	return messaging.ProductsDeletedSubject
}

func (e ProductDeleted) Payload() ([]byte, error) {
	return json.Marshal(e)
}
