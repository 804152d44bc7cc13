package events

import (
	"testing"
	"time"

	"github.com/abgdnv/storefront/pkg/messaging"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductFeaturedToggled(t *testing.T) {
	id := uuid.MustParse("123e4567-e89b-12d3-a456-426614174000")
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	e := ProductFeaturedToggled{ProductID: id, IsFeatured: true, ToggledAt: at}

	payload, err := e.Payload()
	require.NoError(t, err)

	assert.Equal(t, messaging.ProductsFeaturedSubject, e.Subject())
	assert.JSONEq(t, `{"product_id":"123e4567-e89b-12d3-a456-426614174000","is_featured":true,"toggled_at":"2025-01-02T03:04:05Z"}`, string(payload))
}

func TestProductDeleted(t *testing.T) {
	e := ProductDeleted{ProductID: uuid.New(), DeletedAt: time.Now()}
	assert.Equal(t, messaging.ProductsDeletedSubject, e.Subject())
	_, err := e.Payload()
	assert.NoError(t, err)
}
