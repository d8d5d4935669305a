package rabbit

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/robertarktes/travel-reservations/internal/events"
	"github.com/robertarktes/travel-reservations/internal/observability"
)

// Bridge forwards events from the in-process bus to the broker. Delivery
// stays fire-and-forget: a publish failure is logged and the event is
// gone, matching the no-durability contract of the fan-out.
type Bridge struct {
	pub    *Publisher
	bus    *events.Bus
	logger observability.Logger
}

func NewBridge(pub *Publisher, bus *events.Bus, logger observability.Logger) *Bridge {
	return &Bridge{pub: pub, bus: bus, logger: logger}
}

// Run subscribes to booking events and forwards them until ctx is done.
func (b *Bridge) Run(ctx context.Context) {
	created, cancelCreated := b.bus.Subscribe(events.BookingCreated, 64)
	cancelled, cancelCancelled := b.bus.Subscribe(events.BookingCancelled, 64)
	defer cancelCreated()
	defer cancelCancelled()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-created:
			if !ok {
				return
			}
			b.forward(ctx, ev)
		case ev, ok := <-cancelled:
			if !ok {
				return
			}
			b.forward(ctx, ev)
		}
	}
}

func (b *Bridge) forward(ctx context.Context, ev events.Event) {
	body, err := json.Marshal(ev.Payload)
	if err != nil {
		b.logger.Error("failed to marshal event payload", err)
		return
	}
	msg := amqp.Publishing{
		MessageId:   uuid.New().String(),
		ContentType: "application/json",
		Timestamp:   ev.At,
		Body:        body,
	}
	if err := b.pub.Publish(ctx, ev.Name, msg); err != nil {
		b.logger.WithField("event", ev.Name).Error("failed to publish event", err)
	}
}
