package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"pasar/internal/middleware"
	"pasar/internal/models"
	"pasar/internal/policy"
	"pasar/internal/repositories"
	"pasar/internal/services"
)

// OrderHandler handles HTTP requests for orders and their download links.
type OrderHandler struct {
	service *services.OrderService
	policy  *policy.Policy
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, p *policy.Policy) *OrderHandler {
	return &OrderHandler{
		service: service,
		policy:  p,
	}
}

// RegisterRoutes registers the order routes with the Fiber app. Lifecycle
// transitions are capability-gated; reads are scoped to the owning user.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleListOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Get("/:id/downloads", h.HandleGetDownloads)

	manage := middleware.RequireCapability(h.policy, policy.ManageOrders)
	orderRoutes.Patch("/:id/status", manage, h.HandleUpdateOrderStatus)
	orderRoutes.Post("/:id/payment", manage, h.HandleCapturePayment)
	orderRoutes.Post("/:id/shipped", manage, h.HandleMarkShipped)
	orderRoutes.Post("/:id/downloads", manage, h.HandleReleaseDownloads)
}

// HandleListOrders lists the caller's orders, or every order when the
// caller can manage orders.
func (h *OrderHandler) HandleListOrders(c *fiber.Ctx) error {
	var (
		orders []models.Order
		err    error
	)
	role, _ := c.Locals("role").(string)
	if h.policy.HasCapability(role, policy.ManageOrders) {
		orders, err = h.service.GetAllOrders(c.UserContext())
	} else {
		orders, err = h.service.ListUserOrders(c.UserContext(), middleware.UserID(c))
	}
	if err != nil {
		log.Printf("Error listing orders: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.fetchVisibleOrder(c)
	if err != nil {
		return err
	}
	return c.JSON(order)
}

// UpdateStatusRequest represents the request body for a status transition.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// HandleUpdateOrderStatus applies a lifecycle transition to an order.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing request body for status update: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body for status update",
			"error":   err.Error(),
		})
	}
	if req.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Status is required for order status update.",
		})
	}

	order, err := h.service.UpdateOrderStatus(c.UserContext(), c.Params("id"), models.OrderStatus(req.Status))
	if err != nil {
		return orderErrorResponse(c, err, "Could not update order status")
	}
	return c.JSON(order)
}

// HandleCapturePayment records a successful payment capture for an order.
func (h *OrderHandler) HandleCapturePayment(c *fiber.Ctx) error {
	order, err := h.service.CapturePayment(c.UserContext(), c.Params("id"))
	if err != nil {
		return orderErrorResponse(c, err, "Could not capture payment")
	}
	return c.JSON(order)
}

// HandleMarkShipped records the shipping milestone for an order.
func (h *OrderHandler) HandleMarkShipped(c *fiber.Ctx) error {
	order, err := h.service.MarkShipped(c.UserContext(), c.Params("id"))
	if err != nil {
		return orderErrorResponse(c, err, "Could not mark order shipped")
	}
	return c.JSON(order)
}

// HandleReleaseDownloads creates and announces download links for a paid
// digital order.
func (h *OrderHandler) HandleReleaseDownloads(c *fiber.Ctx) error {
	links, err := h.service.ReleaseDownloads(c.UserContext(), c.Params("id"))
	if err != nil {
		return orderErrorResponse(c, err, "Could not release downloads")
	}
	return c.Status(fiber.StatusCreated).JSON(links)
}

// HandleGetDownloads lists the active download links for an order the
// caller may see.
func (h *OrderHandler) HandleGetDownloads(c *fiber.Ctx) error {
	if _, err := h.fetchVisibleOrder(c); err != nil {
		return err
	}
	links, err := h.service.ActiveDownloads(c.UserContext(), c.Params("id"))
	if err != nil {
		log.Printf("Error getting downloads for order %s: %v", c.Params("id"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve download links",
			"error":   err.Error(),
		})
	}
	return c.JSON(links)
}

// fetchVisibleOrder loads an order and enforces that the caller owns it or
// can manage orders. On failure it writes the response and returns the
// written error.
func (h *OrderHandler) fetchVisibleOrder(c *fiber.Ctx) (*models.Order, error) {
	order, err := h.service.GetOrderByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return nil, orderErrorResponse(c, err, "Could not retrieve order")
	}
	role, _ := c.Locals("role").(string)
	if order.UserID != middleware.UserID(c) && !h.policy.HasCapability(role, policy.ManageOrders) {
		return nil, c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Insufficient permissions",
		})
	}
	return order, nil
}

// orderErrorResponse maps expected order failures onto HTTP statuses.
func orderErrorResponse(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Order not found",
			"error":   err.Error(),
		})
	case errors.Is(err, services.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Status transition not allowed",
			"error":   err.Error(),
		})
	case errors.Is(err, services.ErrPaymentNotSettled):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "Order payment is not settled",
			"error":   err.Error(),
		})
	default:
		log.Printf("Order operation failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": fallback,
			"error":   err.Error(),
		})
	}
}
