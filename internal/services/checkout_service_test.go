package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pasar/internal/models"
	"pasar/internal/notify"
	"pasar/internal/repositories"
	"pasar/internal/services"
)

// MockDispatcher is a mock implementation of notify.Dispatcher.
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ctx context.Context, kind notify.EventKind, userID string, orders ...models.Order) error {
	args := m.Called(ctx, kind, userID, orders)
	return args.Error(0)
}

// checkoutFixture wires cart, checkout, and order storage together.
type checkoutFixture struct {
	cartSvc    *services.CartService
	checkout   *services.CheckoutService
	cartRepo   *repositories.MockCartRepository
	orderRepo  *repositories.MockOrderRepository
	dispatcher *MockDispatcher
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	productRepo := repositories.NewMockProductRepository()
	seed := []models.Product{
		{ID: "prod-a", Name: "Gadget", Price: decimal.NewFromFloat(10.00), Available: true, Stock: 10},
		{ID: "prod-b", Name: "Widget", Price: decimal.NewFromFloat(5.00), Available: true, Stock: 10},
	}
	for i := range seed {
		require.NoError(t, productRepo.Create(context.Background(), &seed[i]))
	}

	cartRepo := repositories.NewMockCartRepository()
	orderRepo := repositories.NewMockOrderRepository()
	dispatcher := new(MockDispatcher)
	return &checkoutFixture{
		cartSvc:    services.NewCartService(cartRepo, services.NewProductService(productRepo)),
		checkout:   services.NewCheckoutService(cartRepo, orderRepo, dispatcher),
		cartRepo:   cartRepo,
		orderRepo:  orderRepo,
		dispatcher: dispatcher,
	}
}

func TestCheckoutService_EmptyCart(t *testing.T) {
	f := newCheckoutFixture(t)

	orders, err := f.checkout.Checkout(context.Background(), testUserID)
	assert.ErrorIs(t, err, services.ErrEmptyCart)
	assert.Nil(t, orders)

	stored, err := f.orderRepo.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stored, "failed checkout must create no orders")
}

func TestCheckoutService_CreatesOneOrderPerLine(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	_, err := f.cartSvc.AddProduct(ctx, testUserID, "prod-a", 2)
	require.NoError(t, err)
	_, err = f.cartSvc.AddProduct(ctx, testUserID, "prod-b", 1)
	require.NoError(t, err)

	f.dispatcher.On("Dispatch", mock.Anything, notify.EventOrderCreated, testUserID, mock.Anything).Return(nil).Once()

	orders, err := f.checkout.Checkout(ctx, testUserID)
	require.NoError(t, err)
	require.Len(t, orders, 2, "one order per distinct cart line")

	byProduct := make(map[string]models.Order, len(orders))
	for _, order := range orders {
		assert.Equal(t, testUserID, order.UserID)
		assert.Equal(t, models.OrderPending, order.Status)
		assert.Equal(t, models.PaymentPending, order.PaymentStatus)
		assert.NotEmpty(t, order.PaymentID)
		byProduct[order.ProductID] = order
	}
	assert.True(t, byProduct["prod-a"].TotalAmount.Equal(decimal.NewFromFloat(20.00)))
	assert.True(t, byProduct["prod-b"].TotalAmount.Equal(decimal.NewFromFloat(5.00)))
	assert.NotEqual(t, byProduct["prod-a"].PaymentID, byProduct["prod-b"].PaymentID)

	cart, err := f.cartSvc.GetCart(ctx, testUserID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items, "cart must be emptied on successful checkout")
	assert.True(t, cart.TotalPrice.Equal(decimal.Zero))

	f.dispatcher.AssertExpectations(t)
}

func TestCheckoutService_AllOrNothing(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	_, err := f.cartSvc.AddProduct(ctx, testUserID, "prod-a", 1)
	require.NoError(t, err)
	_, err = f.cartSvc.AddProduct(ctx, testUserID, "prod-b", 1)
	require.NoError(t, err)

	f.orderRepo.FailCreateForProduct = "prod-b"

	orders, err := f.checkout.Checkout(ctx, testUserID)
	assert.Error(t, err)
	assert.Nil(t, orders)

	stored, err := f.orderRepo.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored, "a failing line must roll back the whole order set")

	cart, err := f.cartSvc.GetCart(ctx, testUserID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2, "cart must be untouched when checkout fails")
}

func TestCheckoutService_NotificationFailureDoesNotUnwind(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	_, err := f.cartSvc.AddProduct(ctx, testUserID, "prod-a", 1)
	require.NoError(t, err)

	f.dispatcher.On("Dispatch", mock.Anything, notify.EventOrderCreated, testUserID, mock.Anything).
		Return(fmt.Errorf("broker unavailable")).Once()

	orders, err := f.checkout.Checkout(ctx, testUserID)
	require.NoError(t, err, "notification delivery is fire-and-forget")
	assert.Len(t, orders, 1)

	stored, err := f.orderRepo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
	f.dispatcher.AssertExpectations(t)
}
