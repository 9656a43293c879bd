package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartItem is a single line in a cart. One row exists per distinct product;
// re-adding a product increments Quantity instead of creating a new row.
// UnitPrice is snapshotted when the product is first added and never
// re-derived from the catalog afterwards.
type CartItem struct {
	ID         string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CartID     string          `json:"cart_id" gorm:"index:idx_cart_product,unique;type:varchar(36)"`
	ProductID  string          `json:"product_id" gorm:"index:idx_cart_product,unique;type:varchar(36)"`
	Quantity   int             `json:"quantity" validate:"gte=1"`
	UnitPrice  decimal.Decimal `json:"unit_price" gorm:"type:decimal(12,2)"`
	gorm.Model // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// LineTotal returns Quantity × UnitPrice.
func (i *CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is the per-user collection of intended purchases. Exactly one cart
// exists per user, created on first access. Items are ordered by insertion.
type Cart struct {
	ID         string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID     string          `json:"user_id" gorm:"uniqueIndex;type:varchar(36)"`
	Items      []CartItem      `json:"items" gorm:"foreignKey:CartID;references:ID"`
	TotalPrice decimal.Decimal `json:"total_price" gorm:"type:decimal(12,2)"`
	gorm.Model // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// ItemFor returns the line for the given product, or nil if absent.
func (c *Cart) ItemFor(productID string) *CartItem {
	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			return &c.Items[idx]
		}
	}
	return nil
}

// ComputeTotal returns the sum of all line totals.
func (c *Cart) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for idx := range c.Items {
		total = total.Add(c.Items[idx].LineTotal())
	}
	return total
}
