package handlers

import (
	"log"

	"lapak/internal/middleware"
	"lapak/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for user accounts.
type UserHandler struct {
	userService *services.UserService
	validate    *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the user routes. Listing, searching, reading
// others and deleting are admin-only; /me and self-update need auth only.
func (h *UserHandler) RegisterRoutes(router fiber.Router, auth, admin fiber.Handler) {
	userRoutes := router.Group("/users", auth)
	userRoutes.Get("/me", h.HandleGetMe)
	userRoutes.Get("/", admin, h.HandleList)
	userRoutes.Get("/search", admin, h.HandleSearch)
	userRoutes.Get("/:id", admin, h.HandleGetByID)
	userRoutes.Put("/:id", h.HandleUpdate)
	userRoutes.Delete("/:id", admin, h.HandleDelete)
}

// HandleGetMe returns the caller's own account.
func (h *UserHandler) HandleGetMe(c *fiber.Ctx) error {
	user, err := h.userService.GetUserByID(middleware.UserID(c))
	if err != nil {
		return respondError(c, err, "Could not fetch user details")
	}
	return c.JSON(user)
}

// HandleList returns one page of users with pagination metadata.
func (h *UserHandler) HandleList(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	users, total, err := h.userService.ListUsers(page, limit)
	if err != nil {
		return respondError(c, err, "Could not retrieve users")
	}

	totalPages := total / int64(limit)
	if total%int64(limit) != 0 {
		totalPages++
	}
	return c.JSON(fiber.Map{
		"users":       users,
		"totalPages":  totalPages,
		"currentPage": page,
	})
}

// HandleSearch returns users matching the searchTerm query parameter.
func (h *UserHandler) HandleSearch(c *fiber.Ctx) error {
	users, err := h.userService.SearchUsers(c.Query("searchTerm"))
	if err != nil {
		return respondError(c, err, "Could not search users")
	}
	return c.JSON(users)
}

// HandleGetByID returns a single user.
func (h *UserHandler) HandleGetByID(c *fiber.Ctx) error {
	user, err := h.userService.GetUserByID(c.Params("id"))
	if err != nil {
		return respondError(c, err, "Could not fetch user")
	}
	return c.JSON(user)
}

// UpdateUserRequest represents the request body for a user update.
// Absent fields keep their stored values.
type UpdateUserRequest struct {
	Username string `json:"username" validate:"omitempty,min=3,max=100"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"omitempty,min=6"`
}

// HandleUpdate modifies a user. Callers may update themselves;
// administrators may update anyone.
func (h *UserHandler) HandleUpdate(c *fiber.Ctx) error {
	targetID := c.Params("id")
	if targetID != middleware.UserID(c) && !middleware.IsAdmin(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Access denied",
		})
	}

	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing user update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	user, err := h.userService.UpdateUser(targetID, req.Username, req.Email, req.Password)
	if err != nil {
		return respondError(c, err, "Could not update user")
	}
	return c.JSON(user)
}

// HandleDelete deletes a user.
func (h *UserHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.userService.DeleteUser(c.Params("id")); err != nil {
		return respondError(c, err, "Could not delete user")
	}
	return c.JSON(fiber.Map{
		"message": "User deleted",
	})
}
