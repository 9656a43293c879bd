package repositories

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pasar/internal/models"
)

// MockCartRepository is an in-memory implementation of CartRepository.
// Items keep their insertion order, matching the SQL implementation's
// created_at ordering.
type MockCartRepository struct {
	carts map[string]*models.Cart // keyed by user ID
	mu    sync.RWMutex
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{
		carts: make(map[string]*models.Cart),
	}
}

// GetOrCreateByUser fetches the user's cart, creating it on first access.
func (r *MockCartRepository) GetOrCreateByUser(_ context.Context, userID string) (*models.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cart, ok := r.carts[userID]; ok {
		return r.snapshot(cart), nil
	}
	cart := &models.Cart{
		ID:         uuid.New().String(),
		UserID:     userID,
		TotalPrice: decimal.Zero,
	}
	r.carts[userID] = cart
	return r.snapshot(cart), nil
}

// SaveItem inserts or updates a cart line.
func (r *MockCartRepository) SaveItem(_ context.Context, item *models.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	cart, err := r.cartByID(item.CartID)
	if err != nil {
		return err
	}
	for idx := range cart.Items {
		if cart.Items[idx].ProductID == item.ProductID {
			cart.Items[idx] = *item
			return nil
		}
	}
	cart.Items = append(cart.Items, *item)
	return nil
}

// DeleteItem removes a single line from a cart.
func (r *MockCartRepository) DeleteItem(_ context.Context, cartID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, err := r.cartByID(cartID)
	if err != nil {
		return err
	}
	for idx := range cart.Items {
		if cart.Items[idx].ProductID == productID {
			cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
			return nil
		}
	}
	return fmt.Errorf("cart item for product %s: %w", productID, ErrNotFound)
}

// DeleteItems removes every line from a cart.
func (r *MockCartRepository) DeleteItems(_ context.Context, cartID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, err := r.cartByID(cartID)
	if err != nil {
		return err
	}
	cart.Items = nil
	return nil
}

// UpdateTotal persists the recomputed derived total for a cart.
func (r *MockCartRepository) UpdateTotal(_ context.Context, cartID string, total decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, err := r.cartByID(cartID)
	if err != nil {
		return err
	}
	cart.TotalPrice = total
	return nil
}

// cartByID scans for a cart by primary key. Callers must hold the lock.
func (r *MockCartRepository) cartByID(cartID string) (*models.Cart, error) {
	for _, cart := range r.carts {
		if cart.ID == cartID {
			return cart, nil
		}
	}
	return nil, fmt.Errorf("cart with ID %s: %w", cartID, ErrNotFound)
}

// snapshot copies a cart so callers cannot mutate stored state directly.
func (r *MockCartRepository) snapshot(cart *models.Cart) *models.Cart {
	out := *cart
	out.Items = make([]models.CartItem, len(cart.Items))
	copy(out.Items, cart.Items)
	return &out
}
