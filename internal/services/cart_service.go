package services

import (
	"context"
	"fmt"

	"pasar/internal/models"
	"pasar/internal/repositories"
)

// CartService mutates a user's cart and keeps the derived total consistent.
// Every mutation recomputes total_price = Σ(quantity × unit_price) before
// returning.
type CartService struct {
	cartRepo repositories.CartRepository
	catalog  Catalog
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, catalog Catalog) *CartService {
	return &CartService{
		cartRepo: cartRepo,
		catalog:  catalog,
	}
}

// GetCart returns the user's cart, creating it on first access.
func (s *CartService) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	return s.cartRepo.GetOrCreateByUser(ctx, userID)
}

// AddProduct puts quantity units of a product into the user's cart. If the
// cart already holds a line for the product its quantity is incremented and
// the unit price captured at first add is kept; otherwise a new line is
// created with the product's current price. Returns the affected line.
func (s *CartService) AddProduct(ctx context.Context, userID, productID string, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !s.catalog.IsPurchasable(product) {
		return nil, fmt.Errorf("product %s: %w", productID, ErrNotPurchasable)
	}

	cart, err := s.cartRepo.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	item := cart.ItemFor(productID)
	if item != nil {
		item.Quantity += quantity
	} else {
		cart.Items = append(cart.Items, models.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  quantity,
			UnitPrice: s.catalog.CurrentPrice(product),
		})
		item = &cart.Items[len(cart.Items)-1]
	}
	if err := s.cartRepo.SaveItem(ctx, item); err != nil {
		return nil, err
	}

	if err := s.recomputeTotal(ctx, cart); err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveProduct deletes the cart line for a product.
func (s *CartService) RemoveProduct(ctx context.Context, userID, productID string) error {
	cart, err := s.cartRepo.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return err
	}
	item := cart.ItemFor(productID)
	if item == nil {
		return fmt.Errorf("product %s: %w", productID, ErrItemNotFound)
	}
	if err := s.cartRepo.DeleteItem(ctx, cart.ID, productID); err != nil {
		return err
	}

	remaining := cart.Items[:0]
	for idx := range cart.Items {
		if cart.Items[idx].ProductID != productID {
			remaining = append(remaining, cart.Items[idx])
		}
	}
	cart.Items = remaining
	return s.recomputeTotal(ctx, cart)
}

// UpdateQuantity sets the quantity of an existing cart line. Quantities
// below 1 are rejected; callers wanting zero should remove the line.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	cart, err := s.cartRepo.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return err
	}
	item := cart.ItemFor(productID)
	if item == nil {
		return fmt.Errorf("product %s: %w", productID, ErrItemNotFound)
	}
	item.Quantity = quantity
	if err := s.cartRepo.SaveItem(ctx, item); err != nil {
		return err
	}
	return s.recomputeTotal(ctx, cart)
}

// EmptyCart deletes all lines and resets the total to zero. Emptying an
// already empty cart is a no-op.
func (s *CartService) EmptyCart(ctx context.Context, userID string) error {
	cart, err := s.cartRepo.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.cartRepo.DeleteItems(ctx, cart.ID); err != nil {
		return err
	}
	cart.Items = nil
	return s.recomputeTotal(ctx, cart)
}

func (s *CartService) recomputeTotal(ctx context.Context, cart *models.Cart) error {
	cart.TotalPrice = cart.ComputeTotal()
	if err := s.cartRepo.UpdateTotal(ctx, cart.ID, cart.TotalPrice); err != nil {
		return fmt.Errorf("failed to persist cart total: %w", err)
	}
	return nil
}
