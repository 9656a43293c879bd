package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pasar/internal/models"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// GetAll retrieves all orders from the database.
func (r *GORMOrderRepository) GetAll(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get all orders: %w", err)
	}
	return orders, nil
}

// GetByID retrieves a single order by its ID from the database.
func (r *GORMOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// ListByUser retrieves all orders belonging to a user, newest first.
func (r *GORMOrderRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for user %s: %w", userID, err)
	}
	return orders, nil
}

// CreateBatch persists a set of orders in a single transaction. If any
// insert fails the whole set is rolled back, so a checkout never leaves a
// partial order set behind.
func (r *GORMOrderRepository) CreateBatch(ctx context.Context, orders []models.Order) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range orders {
			if orders[i].ID == "" {
				orders[i].ID = uuid.New().String()
			}
			if err := tx.Create(&orders[i]).Error; err != nil {
				return fmt.Errorf("failed to create order for product %s: %w", orders[i].ProductID, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create order batch: %w", err)
	}
	return nil
}

// UpdateStatus moves an order to the given status pair. Transition
// validation happens in the service layer; this is a plain write.
func (r *GORMOrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus, payment models.PaymentStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         status,
			"payment_status": payment,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update status for order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
	}
	return nil
}

// CreateDownloadLinks stores download links for a fulfilled digital order.
func (r *GORMOrderRepository) CreateDownloadLinks(ctx context.Context, links []models.DownloadLink) error {
	if len(links) == 0 {
		return nil
	}
	for i := range links {
		if links[i].ID == "" {
			links[i].ID = uuid.New().String()
		}
	}
	if err := r.db.WithContext(ctx).Create(&links).Error; err != nil {
		return fmt.Errorf("failed to create download links: %w", err)
	}
	return nil
}

// ActiveDownloadLinks returns the still-active links for an order.
func (r *GORMOrderRepository) ActiveDownloadLinks(ctx context.Context, orderID string) ([]models.DownloadLink, error) {
	var links []models.DownloadLink
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND active = ?", orderID, true).
		Find(&links).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get download links for order %s: %w", orderID, err)
	}
	return links, nil
}
