package handlers

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"pasar/internal/middleware"
	"pasar/internal/policy"
	"pasar/internal/repositories"
	"pasar/internal/services"
)

// UserHandler handles HTTP requests for user administration. Registration
// always creates buyers; role grants happen here, behind the manage-users
// capability.
type UserHandler struct {
	authService *services.AuthService
	policy      *policy.Policy
	validate    *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService, p *policy.Policy) *UserHandler {
	return &UserHandler{
		authService: authService,
		policy:      p,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the user administration routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")

	manage := middleware.RequireCapability(h.policy, policy.ManageUsers)
	userRoutes.Patch("/:id/role", manage, h.HandleSetRole)
}

// SetRoleRequest represents the request body for a role grant.
type SetRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=buyer seller admin"`
}

// HandleSetRole changes a user's role.
func (h *UserHandler) HandleSetRole(c *fiber.Ctx) error {
	var req SetRoleRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing role request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	if err := h.authService.SetUserRole(c.UserContext(), c.Params("id"), req.Role); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "User not found",
				"error":   err.Error(),
			})
		case errors.Is(err, services.ErrUnknownRole):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Unknown role",
				"error":   err.Error(),
			})
		default:
			log.Printf("Error setting role for user %s: %v", c.Params("id"), err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not update user role",
				"error":   err.Error(),
			})
		}
	}
	return c.JSON(fiber.Map{
		"message": "User role updated",
	})
}
