package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"pasar/internal/models"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
type MockOrderRepository struct {
	orders map[string]models.Order
	links  map[string][]models.DownloadLink // keyed by order ID
	mu     sync.RWMutex

	// FailCreateForProduct makes CreateBatch fail when it reaches an order
	// for the given product ID, for exercising all-or-nothing semantics.
	FailCreateForProduct string
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
		links:  make(map[string][]models.DownloadLink),
	}
}

// GetAll returns all orders, newest first like the SQL implementation.
func (r *MockOrderRepository) GetAll(_ context.Context) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		orderList = append(orderList, order)
	}
	sortNewestFirst(orderList)
	return orderList, nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(_ context.Context, id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
	}
	return &order, nil
}

// ListByUser returns all orders belonging to a user.
func (r *MockOrderRepository) ListByUser(_ context.Context, userID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orderList []models.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			orderList = append(orderList, order)
		}
	}
	sortNewestFirst(orderList)
	return orderList, nil
}

// sortNewestFirst matches the created_at DESC ordering of the SQL queries.
// Ties break on ID so the result is deterministic.
func sortNewestFirst(orders []models.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].ID < orders[j].ID
	})
}

// CreateBatch stores a set of orders, all or nothing.
func (r *MockOrderRepository) CreateBatch(_ context.Context, orders []models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range orders {
		if r.FailCreateForProduct != "" && orders[i].ProductID == r.FailCreateForProduct {
			return fmt.Errorf("failed to create order for product %s: storage unavailable", orders[i].ProductID)
		}
	}
	now := time.Now()
	for i := range orders {
		if orders[i].ID == "" {
			orders[i].ID = uuid.New().String()
		}
		if orders[i].CreatedAt.IsZero() {
			orders[i].CreatedAt = now
		}
		orders[i].UpdatedAt = now
		r.orders[orders[i].ID] = orders[i]
	}
	return nil
}

// UpdateStatus updates both status axes of an order.
func (r *MockOrderRepository) UpdateStatus(_ context.Context, id string, status models.OrderStatus, payment models.PaymentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
	}
	order.Status = status
	order.PaymentStatus = payment
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}

// CreateDownloadLinks stores download links for an order.
func (r *MockOrderRepository) CreateDownloadLinks(_ context.Context, links []models.DownloadLink) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range links {
		if links[i].ID == "" {
			links[i].ID = uuid.New().String()
		}
		r.links[links[i].OrderID] = append(r.links[links[i].OrderID], links[i])
	}
	return nil
}

// ActiveDownloadLinks returns the still-active links for an order.
func (r *MockOrderRepository) ActiveDownloadLinks(_ context.Context, orderID string) ([]models.DownloadLink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var active []models.DownloadLink
	for _, link := range r.links[orderID] {
		if link.Active {
			active = append(active, link)
		}
	}
	return active, nil
}
