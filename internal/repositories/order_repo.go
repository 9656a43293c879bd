package repositories

import (
	"context"

	"pasar/internal/models"
)

// OrderRepository defines the interface for order and download-link data
// access. CreateBatch persists a whole checkout atomically: either every
// order in the set is stored or none is.
type OrderRepository interface {
	GetAll(ctx context.Context) ([]models.Order, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	CreateBatch(ctx context.Context, orders []models.Order) error
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus, payment models.PaymentStatus) error
	CreateDownloadLinks(ctx context.Context, links []models.DownloadLink) error
	ActiveDownloadLinks(ctx context.Context, orderID string) ([]models.DownloadLink, error)
}
