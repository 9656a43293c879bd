package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"pasar/internal/middleware"
	"pasar/internal/repositories"
	"pasar/internal/services"
)

// CartHandler handles HTTP requests for the authenticated user's cart and
// checkout.
type CartHandler struct {
	cartService     *services.CartService
	checkoutService *services.CheckoutService
	validate        *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cartService *services.CartService, checkoutService *services.CheckoutService) *CartHandler {
	return &CartHandler{
		cartService:     cartService,
		checkoutService: checkoutService,
		validate:        validator.New(),
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Put("/items/:product_id", h.HandleUpdateItem)
	cartRoutes.Delete("/items/:product_id", h.HandleRemoveItem)
	cartRoutes.Delete("/", h.HandleEmptyCart)
	cartRoutes.Post("/checkout", h.HandleCheckout)
}

// HandleGetCart returns the user's cart, creating it on first access.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	cart, err := h.cartService.GetCart(c.UserContext(), middleware.UserID(c))
	if err != nil {
		log.Printf("Error getting cart: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve cart",
			"error":   err.Error(),
		})
	}
	return c.JSON(cart)
}

// AddItemRequest represents the request body for adding a cart line.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"omitempty,gte=1"`
}

// HandleAddItem adds a product to the cart, incrementing the quantity if a
// line for the product already exists.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing add item request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	item, err := h.cartService.AddProduct(c.UserContext(), middleware.UserID(c), req.ProductID, req.Quantity)
	if err != nil {
		return cartErrorResponse(c, err, "Could not add product to cart")
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// UpdateItemRequest represents the request body for changing a line quantity.
type UpdateItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

// HandleUpdateItem sets the quantity of an existing cart line.
func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	var req UpdateItemRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update item request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	err := h.cartService.UpdateQuantity(c.UserContext(), middleware.UserID(c), c.Params("product_id"), req.Quantity)
	if err != nil {
		return cartErrorResponse(c, err, "Could not update cart item")
	}
	return c.JSON(fiber.Map{
		"message": "Cart item updated",
	})
}

// HandleRemoveItem deletes a line from the cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	err := h.cartService.RemoveProduct(c.UserContext(), middleware.UserID(c), c.Params("product_id"))
	if err != nil {
		return cartErrorResponse(c, err, "Could not remove cart item")
	}
	return c.JSON(fiber.Map{
		"message": "Cart item removed",
	})
}

// HandleEmptyCart deletes every line from the cart.
func (h *CartHandler) HandleEmptyCart(c *fiber.Ctx) error {
	if err := h.cartService.EmptyCart(c.UserContext(), middleware.UserID(c)); err != nil {
		return cartErrorResponse(c, err, "Could not empty cart")
	}
	return c.JSON(fiber.Map{
		"message": "Cart emptied",
	})
}

// HandleCheckout converts the cart into pending orders.
func (h *CartHandler) HandleCheckout(c *fiber.Ctx) error {
	orders, err := h.checkoutService.Checkout(c.UserContext(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, services.ErrEmptyCart) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"message": "Cannot check out an empty cart",
			})
		}
		log.Printf("Error during checkout: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Checkout failed",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Checkout successful",
		"orders":  orders,
	})
}

// cartErrorResponse maps expected cart failures onto HTTP statuses.
func cartErrorResponse(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrItemNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "No such item in cart",
			"error":   err.Error(),
		})
	case errors.Is(err, repositories.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Product not found",
			"error":   err.Error(),
		})
	case errors.Is(err, services.ErrNotPurchasable):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "Product is not purchasable",
			"error":   err.Error(),
		})
	case errors.Is(err, services.ErrInvalidQuantity):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Quantity must be at least 1",
		})
	default:
		log.Printf("Cart operation failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": fallback,
			"error":   err.Error(),
		})
	}
}

// validationErrorResponse renders validator errors in the standard shape.
func validationErrorResponse(c *fiber.Ctx, err error) error {
	validationErrors := err.(validator.ValidationErrors)
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}
