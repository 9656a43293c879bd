package models

import (
	"time"

	"gorm.io/gorm"
)

// DownloadLink grants access to a digital product bought in an order.
// Links are released only after the order's payment settles. Expiry policy
// is enforced by the fulfillment side; this service only stores the flag.
type DownloadLink struct {
	ID         string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID    string     `json:"order_id" gorm:"index;type:varchar(36)"`
	Token      string     `json:"token" gorm:"uniqueIndex;type:varchar(64)"`
	Active     bool       `json:"active"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	gorm.Model // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
