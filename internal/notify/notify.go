// Package notify dispatches order-lifecycle notification events. Dispatch
// is fire-and-forget: callers log failures but never let them flow back
// into order state.
package notify

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"pasar/internal/models"
)

// EventKind identifies the templated message a consumer should send.
type EventKind string

const (
	EventOrderCreated   EventKind = "order.created"
	EventOrderPaid      EventKind = "order.paid"
	EventOrderShipped   EventKind = "order.shipped"
	EventOrderDelivered EventKind = "order.delivered"
	EventOrderRefunded  EventKind = "order.refunded"
	EventDownloadReady  EventKind = "order.download_ready"
)

// OrderRef is the slice of an order a notification consumer needs.
type OrderRef struct {
	OrderID     string          `json:"order_id"`
	ProductID   string          `json:"product_id"`
	PaymentID   string          `json:"payment_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      string          `json:"status"`
}

// Envelope is the wire shape published to the notification queue.
type Envelope struct {
	Kind       EventKind  `json:"kind"`
	UserID     string     `json:"user_id"`
	Orders     []OrderRef `json:"orders"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// Dispatcher sends a templated notification for an order-lifecycle event.
// Implementations must not block on downstream delivery.
type Dispatcher interface {
	Dispatch(ctx context.Context, kind EventKind, userID string, orders ...models.Order) error
}

// NewEnvelope builds the wire envelope for an event.
func NewEnvelope(kind EventKind, userID string, orders []models.Order) Envelope {
	refs := make([]OrderRef, 0, len(orders))
	for i := range orders {
		refs = append(refs, OrderRef{
			OrderID:     orders[i].ID,
			ProductID:   orders[i].ProductID,
			PaymentID:   orders[i].PaymentID,
			TotalAmount: orders[i].TotalAmount,
			Status:      string(orders[i].Status),
		})
	}
	return Envelope{
		Kind:       kind,
		UserID:     userID,
		Orders:     refs,
		OccurredAt: time.Now().UTC(),
	}
}
