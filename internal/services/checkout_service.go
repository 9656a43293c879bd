package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pasar/internal/models"
	"pasar/internal/notify"
	"pasar/internal/repositories"
)

// CheckoutService converts a non-empty cart into persisted orders. One
// order is created per distinct cart line, so each product line can be
// fulfilled independently. The whole order set is written atomically:
// either every line becomes an order or none does.
type CheckoutService struct {
	cartRepo   repositories.CartRepository
	orderRepo  repositories.OrderRepository
	dispatcher notify.Dispatcher
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(cartRepo repositories.CartRepository, orderRepo repositories.OrderRepository, dispatcher notify.Dispatcher) *CheckoutService {
	return &CheckoutService{
		cartRepo:   cartRepo,
		orderRepo:  orderRepo,
		dispatcher: dispatcher,
	}
}

// Checkout creates pending orders from the user's cart and empties the
// cart on success. Payment capture happens downstream; every order starts
// with status pending and payment_status pending under a fresh opaque
// payment ID.
func (s *CheckoutService) Checkout(ctx context.Context, userID string) ([]models.Order, error) {
	cart, err := s.cartRepo.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	orders := make([]models.Order, 0, len(cart.Items))
	for idx := range cart.Items {
		item := &cart.Items[idx]
		orders = append(orders, models.Order{
			ID:            uuid.New().String(),
			UserID:        userID,
			ProductID:     item.ProductID,
			Quantity:      item.Quantity,
			TotalAmount:   item.LineTotal(),
			PaymentID:     uuid.New().String(),
			Status:        models.OrderPending,
			PaymentStatus: models.PaymentPending,
		})
	}

	if err := s.orderRepo.CreateBatch(ctx, orders); err != nil {
		return nil, fmt.Errorf("checkout for user %s failed: %w", userID, err)
	}

	if err := s.cartRepo.DeleteItems(ctx, cart.ID); err != nil {
		return orders, fmt.Errorf("orders created but failed to empty cart %s: %w", cart.ID, err)
	}
	if err := s.cartRepo.UpdateTotal(ctx, cart.ID, decimal.Zero); err != nil {
		return orders, fmt.Errorf("orders created but failed to reset cart total: %w", err)
	}

	// Fire-and-forget: a notification failure never unwinds the checkout.
	if err := s.dispatcher.Dispatch(ctx, notify.EventOrderCreated, userID, orders...); err != nil {
		log.Printf("Warning: failed to publish order created event for user %s: %v", userID, err)
	}

	return orders, nil
}
