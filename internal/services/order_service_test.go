package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pasar/internal/models"
	"pasar/internal/notify"
	"pasar/internal/services"
)

// MockOrderRepository is a mock implementation of repositories.OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) GetAll(ctx context.Context) ([]models.Order, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) CreateBatch(ctx context.Context, orders []models.Order) error {
	args := m.Called(ctx, orders)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus, payment models.PaymentStatus) error {
	args := m.Called(ctx, id, status, payment)
	return args.Error(0)
}

func (m *MockOrderRepository) CreateDownloadLinks(ctx context.Context, links []models.DownloadLink) error {
	args := m.Called(ctx, links)
	return args.Error(0)
}

func (m *MockOrderRepository) ActiveDownloadLinks(ctx context.Context, orderID string) ([]models.DownloadLink, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]models.DownloadLink), args.Error(1)
}

func pendingOrder() *models.Order {
	return &models.Order{
		ID:            "order-1",
		UserID:        testUserID,
		ProductID:     "prod-a",
		Quantity:      1,
		TotalAmount:   decimal.NewFromFloat(10.00),
		PaymentID:     "pay-1",
		Status:        models.OrderPending,
		PaymentStatus: models.PaymentPending,
	}
}

func TestOrderService_UpdateOrderStatus_PaymentCapture(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	dispatcher := new(MockDispatcher)
	svc := services.NewOrderService(mockRepo, dispatcher)

	mockRepo.On("GetByID", mock.Anything, "order-1").Return(pendingOrder(), nil).Once()
	mockRepo.On("UpdateStatus", mock.Anything, "order-1", models.OrderPaid, models.PaymentPaid).Return(nil).Once()
	dispatcher.On("Dispatch", mock.Anything, notify.EventOrderPaid, testUserID, mock.Anything).Return(nil).Once()

	order, err := svc.UpdateOrderStatus(context.Background(), "order-1", models.OrderPaid)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPaid, order.Status)
	assert.Equal(t, models.PaymentPaid, order.PaymentStatus)
	mockRepo.AssertExpectations(t)
	dispatcher.AssertExpectations(t)
}

func TestOrderService_UpdateOrderStatus_ProcessingKeepsPaymentPending(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	dispatcher := new(MockDispatcher)
	svc := services.NewOrderService(mockRepo, dispatcher)

	mockRepo.On("GetByID", mock.Anything, "order-1").Return(pendingOrder(), nil).Once()
	mockRepo.On("UpdateStatus", mock.Anything, "order-1", models.OrderProcessing, models.PaymentPending).Return(nil).Once()

	order, err := svc.UpdateOrderStatus(context.Background(), "order-1", models.OrderProcessing)
	require.NoError(t, err)
	assert.Equal(t, models.OrderProcessing, order.Status)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	mockRepo.AssertExpectations(t)
	dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_UpdateOrderStatus_RefundOverridesAnyState(t *testing.T) {
	for _, prior := range []struct {
		status  models.OrderStatus
		payment models.PaymentStatus
	}{
		{models.OrderPending, models.PaymentPending},
		{models.OrderProcessing, models.PaymentPaid},
		{models.OrderPaid, models.PaymentPaid},
		{models.OrderCompleted, models.PaymentPaid},
		{models.OrderCancelled, models.PaymentPending},
	} {
		t.Run(string(prior.status), func(t *testing.T) {
			mockRepo := new(MockOrderRepository)
			dispatcher := new(MockDispatcher)
			svc := services.NewOrderService(mockRepo, dispatcher)

			existing := pendingOrder()
			existing.Status = prior.status
			existing.PaymentStatus = prior.payment

			mockRepo.On("GetByID", mock.Anything, "order-1").Return(existing, nil).Once()
			mockRepo.On("UpdateStatus", mock.Anything, "order-1", models.OrderRefunded, models.PaymentRefunded).Return(nil).Once()
			dispatcher.On("Dispatch", mock.Anything, notify.EventOrderRefunded, testUserID, mock.Anything).Return(nil).Once()

			order, err := svc.UpdateOrderStatus(context.Background(), "order-1", models.OrderRefunded)
			require.NoError(t, err)
			assert.Equal(t, models.OrderRefunded, order.Status)
			assert.Equal(t, models.PaymentRefunded, order.PaymentStatus)
			mockRepo.AssertExpectations(t)
			dispatcher.AssertExpectations(t)
		})
	}
}

func TestOrderService_UpdateOrderStatus_RejectsInvalidMoves(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	dispatcher := new(MockDispatcher)
	svc := services.NewOrderService(mockRepo, dispatcher)

	// Backwards move.
	paid := pendingOrder()
	paid.Status = models.OrderPaid
	paid.PaymentStatus = models.PaymentPaid
	mockRepo.On("GetByID", mock.Anything, "order-1").Return(paid, nil).Once()

	_, err := svc.UpdateOrderStatus(context.Background(), "order-1", models.OrderProcessing)
	assert.ErrorIs(t, err, services.ErrInvalidTransition)

	// Unknown status never hits the repository.
	_, err = svc.UpdateOrderStatus(context.Background(), "order-1", models.OrderStatus("shipped"))
	assert.ErrorIs(t, err, services.ErrInvalidTransition)

	mockRepo.AssertExpectations(t)
	mockRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_CapturePayment(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	dispatcher := new(MockDispatcher)
	svc := services.NewOrderService(mockRepo, dispatcher)

	// A pending order advances to processing with the payment settled.
	mockRepo.On("GetByID", mock.Anything, "order-1").Return(pendingOrder(), nil).Once()
	mockRepo.On("UpdateStatus", mock.Anything, "order-1", models.OrderProcessing, models.PaymentPaid).Return(nil).Once()
	dispatcher.On("Dispatch", mock.Anything, notify.EventOrderPaid, testUserID, mock.Anything).Return(nil).Once()

	order, err := svc.CapturePayment(context.Background(), "order-1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderProcessing, order.Status)
	assert.Equal(t, models.PaymentPaid, order.PaymentStatus)

	// A capture past pending keeps the fulfillment status.
	processing := pendingOrder()
	processing.Status = models.OrderProcessing
	mockRepo.On("GetByID", mock.Anything, "order-1").Return(processing, nil).Once()
	mockRepo.On("UpdateStatus", mock.Anything, "order-1", models.OrderProcessing, models.PaymentPaid).Return(nil).Once()
	dispatcher.On("Dispatch", mock.Anything, notify.EventOrderPaid, testUserID, mock.Anything).Return(nil).Once()

	order, err = svc.CapturePayment(context.Background(), "order-1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderProcessing, order.Status)
	assert.Equal(t, models.PaymentPaid, order.PaymentStatus)

	// A settled payment cannot be captured again.
	settled := pendingOrder()
	settled.Status = models.OrderProcessing
	settled.PaymentStatus = models.PaymentPaid
	mockRepo.On("GetByID", mock.Anything, "order-1").Return(settled, nil).Once()

	_, err = svc.CapturePayment(context.Background(), "order-1")
	assert.ErrorIs(t, err, services.ErrInvalidTransition)

	// Cancelled orders cannot capture.
	cancelled := pendingOrder()
	cancelled.Status = models.OrderCancelled
	mockRepo.On("GetByID", mock.Anything, "order-1").Return(cancelled, nil).Once()

	_, err = svc.CapturePayment(context.Background(), "order-1")
	assert.ErrorIs(t, err, services.ErrInvalidTransition)

	mockRepo.AssertExpectations(t)
	dispatcher.AssertExpectations(t)
}

func TestOrderService_MarkShipped(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	dispatcher := new(MockDispatcher)
	svc := services.NewOrderService(mockRepo, dispatcher)

	// A pending order is bumped to processing and the shipping event fires.
	mockRepo.On("GetByID", mock.Anything, "order-1").Return(pendingOrder(), nil).Once()
	mockRepo.On("UpdateStatus", mock.Anything, "order-1", models.OrderProcessing, models.PaymentPending).Return(nil).Once()
	dispatcher.On("Dispatch", mock.Anything, notify.EventOrderShipped, testUserID, mock.Anything).Return(nil).Once()

	order, err := svc.MarkShipped(context.Background(), "order-1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderProcessing, order.Status)

	// A refunded order cannot ship.
	refunded := pendingOrder()
	refunded.Status = models.OrderRefunded
	mockRepo.On("GetByID", mock.Anything, "order-1").Return(refunded, nil).Once()

	_, err = svc.MarkShipped(context.Background(), "order-1")
	assert.ErrorIs(t, err, services.ErrInvalidTransition)

	mockRepo.AssertExpectations(t)
	dispatcher.AssertExpectations(t)
}

func TestOrderService_ReleaseDownloads(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	dispatcher := new(MockDispatcher)
	svc := services.NewOrderService(mockRepo, dispatcher)

	// Unsettled payment blocks the release.
	mockRepo.On("GetByID", mock.Anything, "order-1").Return(pendingOrder(), nil).Once()

	_, err := svc.ReleaseDownloads(context.Background(), "order-1")
	assert.ErrorIs(t, err, services.ErrPaymentNotSettled)

	// Paid order gets an active link and a download-ready event.
	paid := pendingOrder()
	paid.Status = models.OrderProcessing
	paid.PaymentStatus = models.PaymentPaid
	mockRepo.On("GetByID", mock.Anything, "order-1").Return(paid, nil).Once()
	mockRepo.On("CreateDownloadLinks", mock.Anything, mock.Anything).Return(nil).Once()
	dispatcher.On("Dispatch", mock.Anything, notify.EventDownloadReady, testUserID, mock.Anything).Return(nil).Once()

	links, err := svc.ReleaseDownloads(context.Background(), "order-1")
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.True(t, links[0].Active)
	assert.Equal(t, "order-1", links[0].OrderID)
	assert.NotEmpty(t, links[0].Token)

	mockRepo.AssertExpectations(t)
	dispatcher.AssertExpectations(t)
}
