package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a catalog product offered by a seller.
type Product struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	SellerID    string          `json:"seller_id" gorm:"index;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string          `json:"name" validate:"required,min=3,max=100"`
	Description string          `json:"description" validate:"omitempty,max=500"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(12,2)"`
	Available   bool            `json:"available"`
	Digital     bool            `json:"digital"`
	Stock       int             `json:"stock" validate:"gte=0"`
	gorm.Model  // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// Purchasable reports whether the product can be added to a cart.
// Digital products are not constrained by stock.
func (p *Product) Purchasable() bool {
	if !p.Available || p.Price.IsNegative() {
		return false
	}
	return p.Digital || p.Stock > 0
}
