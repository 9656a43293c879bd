package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus is the fulfillment state of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderPaid       OrderStatus = "paid"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
	OrderRefunded   OrderStatus = "refunded"
)

// PaymentStatus is the coarser settlement axis, independent of fulfillment.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// statusRank orders the forward fulfillment chain. Terminal states carry no rank.
var statusRank = map[OrderStatus]int{
	OrderPending:    0,
	OrderProcessing: 1,
	OrderPaid:       2,
	OrderCompleted:  3,
}

// Terminal reports whether no further transition is allowed out of s,
// other than the refund override.
func (s OrderStatus) Terminal() bool {
	return s == OrderCompleted || s == OrderCancelled || s == OrderRefunded
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok || s == OrderCancelled || s == OrderRefunded
}

// CanTransition reports whether an order may move from status s to status to.
// Fulfillment moves strictly forward along pending → processing → paid →
// completed. Cancellation is reachable from any non-terminal state. A refund
// overrides everything except an already refunded order.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	if !to.Valid() {
		return false
	}
	switch to {
	case OrderRefunded:
		return s != OrderRefunded
	case OrderCancelled:
		return !s.Terminal()
	default:
		from, ok := statusRank[s]
		if !ok {
			return false
		}
		return statusRank[to] > from
	}
}

// CanTransition reports whether the payment axis may move from s to to.
// The chain pending → paid → refunded is strictly forward.
func (s PaymentStatus) CanTransition(to PaymentStatus) bool {
	switch s {
	case PaymentPending:
		return to == PaymentPaid || to == PaymentRefunded
	case PaymentPaid:
		return to == PaymentRefunded
	default:
		return false
	}
}

// Order is an immutable record of a purchase for a single product line.
// Checkout creates one order per distinct cart line. TotalAmount never
// changes once set; only the status axes move.
type Order struct {
	ID               string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID           string          `json:"user_id" gorm:"index;type:varchar(36)"`
	ProductID        string          `json:"product_id" gorm:"index;type:varchar(36)"`
	Quantity         int             `json:"quantity"`
	TotalAmount      decimal.Decimal `json:"total_amount" gorm:"type:decimal(12,2)"`
	PaymentID        string          `json:"payment_id" gorm:"uniqueIndex;type:varchar(64)"`
	Status           OrderStatus     `json:"status" gorm:"type:varchar(20);index"`
	PaymentStatus    PaymentStatus   `json:"payment_status" gorm:"type:varchar(20)"`
	PaymentMethod    string          `json:"payment_method,omitempty" gorm:"type:varchar(50)"`
	PaymentProcessor string          `json:"payment_processor,omitempty" gorm:"type:varchar(50)"`
	gorm.Model       // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
