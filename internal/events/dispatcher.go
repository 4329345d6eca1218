package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mtsdigital/storefront/pkg/logger"
	"github.com/mtsdigital/storefront/pkg/messaging"
)

const brokerPublishTimeout = 5 * time.Second

// Dispatcher delivers order events to the broker and the live admin feed.
type Dispatcher struct {
	broker messaging.Publisher
	hub    *Hub
	logg   *logger.Logger
	now    func() time.Time
}

// NewDispatcher wires the broker and hub. Either may be nil.
func NewDispatcher(broker messaging.Publisher, hub *Hub, logg *logger.Logger) *Dispatcher {
	if broker == nil {
		broker = messaging.NopPublisher{}
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Dispatcher{broker: broker, hub: hub, logg: logg, now: time.Now}
}

func (d *Dispatcher) Publish(ctx context.Context, evt OrderEvent) {
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = d.now().UTC()
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		d.logg.Error(ctx, "events.encode_failed", err)
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), brokerPublishTimeout)
	defer cancel()
	if err := d.broker.Publish(pubCtx, string(evt.Type), payload); err != nil {
		logCtx := d.logg.WithFields(ctx, map[string]any{
			"event_type": evt.Type,
			"order_id":   evt.OrderID,
		})
		d.logg.Error(logCtx, "events.publish_failed", err)
	}

	if d.hub != nil {
		d.hub.Broadcast(payload)
	}
}
