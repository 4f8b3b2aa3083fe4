package handlers

import (
	"log"

	"lapak/internal/middleware"
	"lapak/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// BasketHandler handles HTTP requests for the shopping basket.
type BasketHandler struct {
	basketService *services.BasketService
	validate      *validator.Validate
}

// NewBasketHandler creates a new BasketHandler.
func NewBasketHandler(basketService *services.BasketService) *BasketHandler {
	return &BasketHandler{
		basketService: basketService,
		validate:      validator.New(),
	}
}

// RegisterRoutes registers the basket routes. All of them require an
// authenticated caller.
func (h *BasketHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	basketRoutes := router.Group("/basket", auth)
	basketRoutes.Get("/", h.HandleGetBasket)
	basketRoutes.Post("/add", h.HandleAddItem)
	basketRoutes.Delete("/remove/:productId", h.HandleRemoveItem)
}

// HandleGetBasket returns the caller's basket with product details.
func (h *BasketHandler) HandleGetBasket(c *fiber.Ctx) error {
	basket, err := h.basketService.GetBasket(middleware.UserID(c))
	if err != nil {
		return respondError(c, err, "Could not fetch basket")
	}
	return c.JSON(basket)
}

// AddItemRequest represents the request body for adding to the basket.
type AddItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// HandleAddItem adds a quantity of a product to the caller's basket.
func (h *BasketHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing add-to-basket request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	basket, err := h.basketService.AddItem(middleware.UserID(c), req.ProductID, req.Quantity)
	if err != nil {
		return respondError(c, err, "Could not add product to basket")
	}

	return c.JSON(fiber.Map{
		"message": "Product added to basket",
		"basket":  basket,
	})
}

// HandleRemoveItem removes a product line from the caller's basket.
func (h *BasketHandler) HandleRemoveItem(c *fiber.Ctx) error {
	productID := c.Params("productId")

	basket, err := h.basketService.RemoveItem(middleware.UserID(c), productID)
	if err != nil {
		return respondError(c, err, "Could not remove product from basket")
	}

	return c.JSON(fiber.Map{
		"message": "Product removed from basket",
		"basket":  basket,
	})
}
