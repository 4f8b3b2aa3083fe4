package handlers

import (
	"log"

	"lapak/internal/middleware"
	"lapak/internal/models"
	"lapak/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	orderService *services.OrderService
	validate     *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		validate:     validator.New(),
	}
}

// RegisterRoutes registers the order routes. Listing all orders, updating
// and deleting are admin-only; creation and self-listing need auth only.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, auth, admin fiber.Handler) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", auth, admin, h.HandleGetAll)
	orderRoutes.Get("/user", auth, h.HandleGetOwn)
	orderRoutes.Post("/create", auth, h.HandleCreate)
	orderRoutes.Put("/:id", auth, admin, h.HandleUpdate)
	orderRoutes.Delete("/:id", auth, admin, h.HandleDelete)
}

// HandleGetAll retrieves every order in the system.
func (h *OrderHandler) HandleGetAll(c *fiber.Ctx) error {
	orders, err := h.orderService.GetAllOrders()
	if err != nil {
		return respondError(c, err, "Could not retrieve orders")
	}
	return c.JSON(orders)
}

// HandleGetOwn retrieves the caller's own orders.
func (h *OrderHandler) HandleGetOwn(c *fiber.Ctx) error {
	orders, err := h.orderService.GetOrdersByOwner(middleware.UserID(c))
	if err != nil {
		return respondError(c, err, "Could not retrieve orders")
	}
	return c.JSON(orders)
}

// CreateOrderRequest represents the request body for creating an order.
type CreateOrderRequest struct {
	Products []struct {
		ProductID string `json:"productId" validate:"required"`
		Quantity  int    `json:"quantity" validate:"required,gte=1"`
	} `json:"products" validate:"required,min=1,dive"`
}

// HandleCreate creates a new order owned by the caller.
func (h *OrderHandler) HandleCreate(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing order request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	items := make([]models.OrderItem, 0, len(req.Products))
	for _, p := range req.Products {
		items = append(items, models.OrderItem{
			ProductID: p.ProductID,
			Quantity:  p.Quantity,
		})
	}

	order, err := h.orderService.CreateOrder(middleware.UserID(c), items)
	if err != nil {
		return respondError(c, err, "Could not create order")
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// UpdateOrderRequest represents the request body for an order status update.
type UpdateOrderRequest struct {
	Status string `json:"status" validate:"required"`
}

// HandleUpdate transitions an order to a new status.
func (h *OrderHandler) HandleUpdate(c *fiber.Ctx) error {
	var req UpdateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing order update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	order, err := h.orderService.UpdateOrderStatus(c.Params("id"), models.OrderStatus(req.Status))
	if err != nil {
		return respondError(c, err, "Could not update order")
	}
	return c.JSON(order)
}

// HandleDelete deletes an order.
func (h *OrderHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.orderService.DeleteOrder(c.Params("id")); err != nil {
		return respondError(c, err, "Could not delete order")
	}
	return c.JSON(fiber.Map{
		"message": "Order deleted",
	})
}
