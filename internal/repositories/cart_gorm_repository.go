package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pasar/internal/models"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// GetOrCreateByUser fetches the user's cart, creating it on first access.
// The unique index on user_id makes the lazy create race-safe: if two
// requests race, one insert fails and we re-read the winner's row.
func (r *GORMCartRepository) GetOrCreateByUser(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := r.fetch(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get cart for user %s: %w", userID, err)
	}

	fresh := models.Cart{
		ID:         uuid.New().String(),
		UserID:     userID,
		TotalPrice: decimal.Zero,
	}
	if createErr := r.db.WithContext(ctx).Create(&fresh).Error; createErr != nil {
		// Lost the race against a concurrent first access; the row exists now.
		cart, err = r.fetch(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to create cart for user %s: %w", userID, createErr)
		}
		return cart, nil
	}
	return &fresh, nil
}

func (r *GORMCartRepository) fetch(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.created_at ASC")
		}).
		First(&cart, "user_id = ?", userID).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// SaveItem inserts or updates a cart line.
func (r *GORMCartRepository) SaveItem(ctx context.Context, item *models.CartItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return fmt.Errorf("failed to save cart item: %w", err)
	}
	return nil
}

// DeleteItem removes a single line from a cart. The delete is unscoped so
// the unique (cart_id, product_id) index can be reused when the product is
// added again later.
func (r *GORMCartRepository) DeleteItem(ctx context.Context, cartID, productID string) error {
	res := r.db.WithContext(ctx).Unscoped().
		Delete(&models.CartItem{}, "cart_id = ? AND product_id = ?", cartID, productID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item for product %s: %w", productID, ErrNotFound)
	}
	return nil
}

// DeleteItems removes every line from a cart. Deleting an already empty
// cart is not an error.
func (r *GORMCartRepository) DeleteItems(ctx context.Context, cartID string) error {
	res := r.db.WithContext(ctx).Unscoped().
		Delete(&models.CartItem{}, "cart_id = ?", cartID)
	if res.Error != nil {
		return fmt.Errorf("failed to empty cart %s: %w", cartID, res.Error)
	}
	return nil
}

// UpdateTotal persists the recomputed derived total for a cart.
func (r *GORMCartRepository) UpdateTotal(ctx context.Context, cartID string, total decimal.Decimal) error {
	res := r.db.WithContext(ctx).Model(&models.Cart{}).
		Where("id = ?", cartID).
		Update("total_price", total)
	if res.Error != nil {
		return fmt.Errorf("failed to update cart total: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart with ID %s: %w", cartID, ErrNotFound)
	}
	return nil
}
