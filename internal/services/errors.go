package services

import "errors"

// Expected business failures. Handlers translate these into client-facing
// responses with errors.Is; anything else is a storage or programming
// fault and surfaces as a 500.
var (
	// ErrNotPurchasable means the product is unavailable or out of stock.
	ErrNotPurchasable = errors.New("product is not purchasable")

	// ErrItemNotFound means the cart has no line for the given product.
	ErrItemNotFound = errors.New("cart item not found")

	// ErrEmptyCart means checkout was attempted on a cart with no items.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrInvalidQuantity means a quantity below 1 was supplied.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")

	// ErrInvalidTransition means the requested order status change is not
	// allowed by the lifecycle state machine.
	ErrInvalidTransition = errors.New("invalid order status transition")

	// ErrPaymentNotSettled means downloads were requested before the
	// order's payment was captured.
	ErrPaymentNotSettled = errors.New("order payment is not settled")

	// ErrUnknownRole means a role grant named a role that does not exist.
	ErrUnknownRole = errors.New("unknown role")
)
