package repositories

import (
	"context"

	"github.com/shopspring/decimal"

	"pasar/internal/models"
)

// CartRepository defines the interface for cart data access. A user has at
// most one cart; GetOrCreateByUser materializes it on first access.
type CartRepository interface {
	GetOrCreateByUser(ctx context.Context, userID string) (*models.Cart, error)
	SaveItem(ctx context.Context, item *models.CartItem) error
	DeleteItem(ctx context.Context, cartID, productID string) error
	DeleteItems(ctx context.Context, cartID string) error
	UpdateTotal(ctx context.Context, cartID string, total decimal.Decimal) error
}
