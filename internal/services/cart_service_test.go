package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pasar/internal/models"
	"pasar/internal/repositories"
	"pasar/internal/services"
)

const testUserID = "user-123"

// newCartFixture wires a CartService against in-memory repositories with a
// small seeded catalog.
func newCartFixture(t *testing.T) (*services.CartService, *repositories.MockProductRepository) {
	t.Helper()
	productRepo := repositories.NewMockProductRepository()
	seed := []models.Product{
		{ID: "prod-a", Name: "Gadget", Price: decimal.NewFromFloat(10.00), Available: true, Stock: 10},
		{ID: "prod-b", Name: "Widget", Price: decimal.NewFromFloat(5.00), Available: true, Stock: 10},
		{ID: "prod-gone", Name: "Sold Out", Price: decimal.NewFromFloat(9.99), Available: true, Stock: 0},
		{ID: "prod-ebook", Name: "E-Book", Price: decimal.NewFromFloat(3.50), Available: true, Digital: true, Stock: 0},
	}
	for i := range seed {
		require.NoError(t, productRepo.Create(context.Background(), &seed[i]))
	}
	cartRepo := repositories.NewMockCartRepository()
	return services.NewCartService(cartRepo, services.NewProductService(productRepo)), productRepo
}

func TestCartService_AddProduct_AccumulatesQuantityAndKeepsFirstPrice(t *testing.T) {
	svc, productRepo := newCartFixture(t)
	ctx := context.Background()

	item, err := svc.AddProduct(ctx, testUserID, "prod-a", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)
	assert.True(t, item.UnitPrice.Equal(decimal.NewFromFloat(10.00)))

	// Raise the catalog price; existing lines must keep the captured price.
	product, err := productRepo.GetByID(ctx, "prod-a")
	require.NoError(t, err)
	product.Price = decimal.NewFromFloat(99.00)
	require.NoError(t, productRepo.Update(ctx, product))

	item, err = svc.AddProduct(ctx, testUserID, "prod-a", 3)
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity)
	assert.True(t, item.UnitPrice.Equal(decimal.NewFromFloat(10.00)), "unit price must stay at first-add capture")

	cart, err := svc.GetCart(ctx, testUserID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1, "re-adding must not duplicate the line")
	assert.True(t, cart.TotalPrice.Equal(decimal.NewFromFloat(50.00)))
}

func TestCartService_AddProduct_NotPurchasable(t *testing.T) {
	svc, _ := newCartFixture(t)
	ctx := context.Background()

	_, err := svc.AddProduct(ctx, testUserID, "prod-gone", 1)
	assert.ErrorIs(t, err, services.ErrNotPurchasable)

	cart, err := svc.GetCart(ctx, testUserID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items, "failed add must leave the cart unchanged")
	assert.True(t, cart.TotalPrice.Equal(decimal.Zero))
}

func TestCartService_AddProduct_DigitalIgnoresStock(t *testing.T) {
	svc, _ := newCartFixture(t)

	item, err := svc.AddProduct(context.Background(), testUserID, "prod-ebook", 1)
	require.NoError(t, err)
	assert.True(t, item.UnitPrice.Equal(decimal.NewFromFloat(3.50)))
}

func TestCartService_AddProduct_RejectsBadQuantity(t *testing.T) {
	svc, _ := newCartFixture(t)

	_, err := svc.AddProduct(context.Background(), testUserID, "prod-a", 0)
	assert.ErrorIs(t, err, services.ErrInvalidQuantity)
	_, err = svc.AddProduct(context.Background(), testUserID, "prod-a", -4)
	assert.ErrorIs(t, err, services.ErrInvalidQuantity)
}

func TestCartService_TotalTracksMutations(t *testing.T) {
	svc, _ := newCartFixture(t)
	ctx := context.Background()

	_, err := svc.AddProduct(ctx, testUserID, "prod-a", 2)
	require.NoError(t, err)
	_, err = svc.AddProduct(ctx, testUserID, "prod-b", 1)
	require.NoError(t, err)

	cart, err := svc.GetCart(ctx, testUserID)
	require.NoError(t, err)
	assert.True(t, cart.TotalPrice.Equal(decimal.NewFromFloat(25.00)), "2×10.00 + 1×5.00")

	require.NoError(t, svc.RemoveProduct(ctx, testUserID, "prod-a"))

	cart, err = svc.GetCart(ctx, testUserID)
	require.NoError(t, err)
	assert.True(t, cart.TotalPrice.Equal(decimal.NewFromFloat(5.00)))

	require.NoError(t, svc.UpdateQuantity(ctx, testUserID, "prod-b", 4))

	cart, err = svc.GetCart(ctx, testUserID)
	require.NoError(t, err)
	assert.True(t, cart.TotalPrice.Equal(decimal.NewFromFloat(20.00)))
}

func TestCartService_RemoveProduct_MissingLine(t *testing.T) {
	svc, _ := newCartFixture(t)
	ctx := context.Background()

	_, err := svc.AddProduct(ctx, testUserID, "prod-a", 1)
	require.NoError(t, err)

	err = svc.RemoveProduct(ctx, testUserID, "prod-b")
	assert.ErrorIs(t, err, services.ErrItemNotFound)

	cart, err := svc.GetCart(ctx, testUserID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1, "failed remove must leave the cart unchanged")
	assert.True(t, cart.TotalPrice.Equal(decimal.NewFromFloat(10.00)))
}

func TestCartService_UpdateQuantity(t *testing.T) {
	svc, _ := newCartFixture(t)
	ctx := context.Background()

	err := svc.UpdateQuantity(ctx, testUserID, "prod-a", 3)
	assert.ErrorIs(t, err, services.ErrItemNotFound)

	_, err = svc.AddProduct(ctx, testUserID, "prod-a", 1)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.UpdateQuantity(ctx, testUserID, "prod-a", 0), services.ErrInvalidQuantity)
	assert.ErrorIs(t, svc.UpdateQuantity(ctx, testUserID, "prod-a", -1), services.ErrInvalidQuantity)

	require.NoError(t, svc.UpdateQuantity(ctx, testUserID, "prod-a", 7))
	cart, err := svc.GetCart(ctx, testUserID)
	require.NoError(t, err)
	assert.Equal(t, 7, cart.Items[0].Quantity)
	assert.True(t, cart.TotalPrice.Equal(decimal.NewFromFloat(70.00)))
}

func TestCartService_EmptyCart_Idempotent(t *testing.T) {
	svc, _ := newCartFixture(t)
	ctx := context.Background()

	_, err := svc.AddProduct(ctx, testUserID, "prod-a", 2)
	require.NoError(t, err)
	_, err = svc.AddProduct(ctx, testUserID, "prod-b", 1)
	require.NoError(t, err)

	require.NoError(t, svc.EmptyCart(ctx, testUserID))
	require.NoError(t, svc.EmptyCart(ctx, testUserID), "emptying an empty cart is a no-op")

	cart, err := svc.GetCart(ctx, testUserID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.True(t, cart.TotalPrice.Equal(decimal.Zero))
}

func TestCartService_ItemsKeepInsertionOrder(t *testing.T) {
	svc, _ := newCartFixture(t)
	ctx := context.Background()

	_, err := svc.AddProduct(ctx, testUserID, "prod-b", 1)
	require.NoError(t, err)
	_, err = svc.AddProduct(ctx, testUserID, "prod-a", 1)
	require.NoError(t, err)
	_, err = svc.AddProduct(ctx, testUserID, "prod-b", 1)
	require.NoError(t, err)

	cart, err := svc.GetCart(ctx, testUserID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, "prod-b", cart.Items[0].ProductID)
	assert.Equal(t, "prod-a", cart.Items[1].ProductID)
}
