// Package messaging defines the event publishing contract.
package messaging

import (
	"context"
)

const (
	ProductsFeaturedSubject = "products.featured"
	ProductsDeletedSubject  = "products.deleted"
)

type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
