package events

import (
	"context"
	"time"

	"github.com/mtsdigital/storefront/pkg/enums"
)

// OrderEvent is the message fanned out whenever an order changes.
type OrderEvent struct {
	Type          enums.OrderEventType `json:"type"`
	OrderID       string               `json:"orderId"`
	ProductID     string               `json:"productId,omitempty"`
	ProductName   string               `json:"productName,omitempty"`
	Price         int64                `json:"price,omitempty"`
	PaymentMethod string               `json:"paymentMethod,omitempty"`
	Status        string               `json:"status"`
	TransactionID string               `json:"transactionId,omitempty"`
	Source        string               `json:"source,omitempty"`
	OccurredAt    time.Time            `json:"occurredAt"`
}

// Publisher accepts order events. Implementations must not fail the caller's
// request when delivery fails.
type Publisher interface {
	Publish(ctx context.Context, evt OrderEvent)
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, evt OrderEvent)

func (f PublisherFunc) Publish(ctx context.Context, evt OrderEvent) { f(ctx, evt) }

// Nop discards events.
var Nop Publisher = PublisherFunc(func(context.Context, OrderEvent) {})
