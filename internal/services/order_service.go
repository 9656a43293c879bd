package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"pasar/internal/models"
	"pasar/internal/notify"
	"pasar/internal/repositories"
)

// OrderService drives the order lifecycle state machine. Transitions are
// triggered by external events (payment capture, shipment, delivery,
// refund) arriving through the API; the service validates each move and
// fires the matching notification. Notification delivery failures are
// logged and never reflected back into order state.
type OrderService struct {
	orderRepo  repositories.OrderRepository
	dispatcher notify.Dispatcher
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, dispatcher notify.Dispatcher) *OrderService {
	return &OrderService{
		orderRepo:  orderRepo,
		dispatcher: dispatcher,
	}
}

// GetAllOrders retrieves all orders.
func (s *OrderService) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	return s.orderRepo.GetAll(ctx)
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

// ListUserOrders retrieves all orders belonging to a user.
func (s *OrderService) ListUserOrders(ctx context.Context, userID string) ([]models.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID)
}

// UpdateOrderStatus moves an order to the given status, deriving the
// payment axis: paid marks the payment captured, refunded overrides both
// axes regardless of prior state. Statuses only move forward; cancelled
// and refunded are terminal.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("unknown order status %q: %w", status, ErrInvalidTransition)
	}
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransition(status) {
		return nil, fmt.Errorf("order %s cannot move from %s to %s: %w", id, order.Status, status, ErrInvalidTransition)
	}

	payment := order.PaymentStatus
	switch status {
	case models.OrderPaid:
		if payment == models.PaymentPending {
			payment = models.PaymentPaid
		}
	case models.OrderRefunded:
		payment = models.PaymentRefunded
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, status, payment); err != nil {
		return nil, err
	}
	order.Status = status
	order.PaymentStatus = payment

	s.notifyForStatus(ctx, order)
	return order, nil
}

// CapturePayment records a successful payment capture. The payment axis
// moves to paid and a pending order advances to processing; an order
// already further along keeps its fulfillment status. Capture is refused
// on cancelled or refunded orders and on an already settled payment.
func (s *OrderService) CapturePayment(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status == models.OrderCancelled || order.Status == models.OrderRefunded {
		return nil, fmt.Errorf("order %s is %s: %w", id, order.Status, ErrInvalidTransition)
	}
	if !order.PaymentStatus.CanTransition(models.PaymentPaid) {
		return nil, fmt.Errorf("order %s payment is %s: %w", id, order.PaymentStatus, ErrInvalidTransition)
	}

	status := order.Status
	if status == models.OrderPending {
		status = models.OrderProcessing
	}
	if err := s.orderRepo.UpdateStatus(ctx, id, status, models.PaymentPaid); err != nil {
		return nil, err
	}
	order.Status = status
	order.PaymentStatus = models.PaymentPaid

	s.dispatch(ctx, notify.EventOrderPaid, order)
	return order, nil
}

// MarkShipped records the shipping milestone. The schema stores no
// distinct shipped status; a pending order is bumped to processing and the
// shipping notification carries the milestone.
func (s *OrderService) MarkShipped(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status.Terminal() {
		return nil, fmt.Errorf("order %s is %s: %w", id, order.Status, ErrInvalidTransition)
	}
	if order.Status == models.OrderPending {
		if err := s.orderRepo.UpdateStatus(ctx, id, models.OrderProcessing, order.PaymentStatus); err != nil {
			return nil, err
		}
		order.Status = models.OrderProcessing
	}

	s.dispatch(ctx, notify.EventOrderShipped, order)
	return order, nil
}

// ReleaseDownloads creates an active download link for a digital order and
// announces it. Links are only released once the payment has settled.
func (s *OrderService) ReleaseDownloads(ctx context.Context, id string) ([]models.DownloadLink, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus != models.PaymentPaid {
		return nil, fmt.Errorf("order %s: %w", id, ErrPaymentNotSettled)
	}

	links := []models.DownloadLink{{
		ID:      uuid.New().String(),
		OrderID: order.ID,
		Token:   uuid.New().String(),
		Active:  true,
	}}
	if err := s.orderRepo.CreateDownloadLinks(ctx, links); err != nil {
		return nil, err
	}

	s.dispatch(ctx, notify.EventDownloadReady, order)
	return links, nil
}

// ActiveDownloads returns the still-active download links for an order.
func (s *OrderService) ActiveDownloads(ctx context.Context, id string) ([]models.DownloadLink, error) {
	return s.orderRepo.ActiveDownloadLinks(ctx, id)
}

// notifyForStatus fires the notification mapped to a newly reached status.
// Processing and cancelled have no templated message of their own.
func (s *OrderService) notifyForStatus(ctx context.Context, order *models.Order) {
	switch order.Status {
	case models.OrderPaid:
		s.dispatch(ctx, notify.EventOrderPaid, order)
	case models.OrderCompleted:
		s.dispatch(ctx, notify.EventOrderDelivered, order)
	case models.OrderRefunded:
		s.dispatch(ctx, notify.EventOrderRefunded, order)
	}
}

func (s *OrderService) dispatch(ctx context.Context, kind notify.EventKind, order *models.Order) {
	if err := s.dispatcher.Dispatch(ctx, kind, order.UserID, *order); err != nil {
		log.Printf("Warning: failed to publish %s event for order %s: %v", kind, order.ID, err)
	}
}
