package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"pasar/internal/models"
	"pasar/pkg/rabbitmq"
)

// AMQPDispatcher publishes notification envelopes to the RabbitMQ
// notification queue. The mailer consumes them out of process.
type AMQPDispatcher struct {
	client *rabbitmq.Client
}

// NewAMQPDispatcher creates a new AMQPDispatcher.
func NewAMQPDispatcher(client *rabbitmq.Client) *AMQPDispatcher {
	return &AMQPDispatcher{client: client}
}

// Dispatch marshals the event envelope and publishes it.
func (d *AMQPDispatcher) Dispatch(_ context.Context, kind EventKind, userID string, orders ...models.Order) error {
	envelope := NewEnvelope(kind, userID, orders)
	body, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal %s envelope: %w", kind, err)
	}
	if err := d.client.Publish(body); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", kind, err)
	}
	log.Printf(" [x] Sent %s event for user %s (%d orders)", kind, userID, len(orders))
	return nil
}

// NopDispatcher drops every event. Used when no broker is configured.
type NopDispatcher struct{}

// Dispatch discards the event.
func (NopDispatcher) Dispatch(_ context.Context, _ EventKind, _ string, _ ...models.Order) error {
	return nil
}
