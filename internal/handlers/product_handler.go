package handlers

import (
	"log"

	"lapak/internal/models"
	"lapak/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the catalog.
type ProductHandler struct {
	productService *services.ProductService
	validate       *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the product routes. Reads are public, writes
// go through the auth and admin gates.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, auth, admin fiber.Handler) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleList)
	productRoutes.Get("/search", h.HandleSearch)
	productRoutes.Post("/create", auth, admin, h.HandleCreate)
	productRoutes.Get("/:id", h.HandleGetByID)
	productRoutes.Put("/:id", auth, admin, h.HandleUpdate)
	productRoutes.Delete("/:id", auth, admin, h.HandleDelete)
}

// HandleList returns one page of the catalog with pagination metadata.
func (h *ProductHandler) HandleList(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	products, total, err := h.productService.ListProducts(page, limit)
	if err != nil {
		return respondError(c, err, "Could not retrieve products")
	}

	totalPages := total / int64(limit)
	if total%int64(limit) != 0 {
		totalPages++
	}
	return c.JSON(fiber.Map{
		"products":      products,
		"totalProducts": total,
		"totalPages":    totalPages,
		"currentPage":   page,
		"perPage":       limit,
	})
}

// HandleSearch returns products matching the searchTerm query parameter.
func (h *ProductHandler) HandleSearch(c *fiber.Ctx) error {
	products, err := h.productService.SearchProducts(c.Query("searchTerm"))
	if err != nil {
		return respondError(c, err, "Could not search products")
	}
	return c.JSON(products)
}

// HandleGetByID returns a single product.
func (h *ProductHandler) HandleGetByID(c *fiber.Ctx) error {
	product, err := h.productService.GetProductByID(c.Params("id"))
	if err != nil {
		return respondError(c, err, "Could not retrieve product")
	}
	return c.JSON(product)
}

// HandleCreate creates a new product.
func (h *ProductHandler) HandleCreate(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		log.Printf("Error parsing product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(product); err != nil {
		return respondValidationErrors(c, err)
	}

	if err := h.productService.CreateProduct(&product); err != nil {
		return respondError(c, err, "Could not create product")
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// UpdateProductRequest represents the request body for a product update.
// Absent fields keep their stored values.
type UpdateProductRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
	Gallery     []string `json:"gallery"`
	Category    string   `json:"category" validate:"omitempty,oneof=Tech Clothing Cars"`
}

// HandleUpdate applies a partial update to an existing product.
func (h *ProductHandler) HandleUpdate(c *fiber.Ctx) error {
	var req UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing product update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	product, err := h.productService.GetProductByID(c.Params("id"))
	if err != nil {
		return respondError(c, err, "Could not retrieve product")
	}

	if req.Name != "" {
		product.Name = req.Name
	}
	if req.Description != "" {
		product.Description = req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.Gallery != nil {
		product.Gallery = req.Gallery
	}
	if req.Category != "" {
		product.Category = req.Category
	}

	if err := h.productService.UpdateProduct(product); err != nil {
		return respondError(c, err, "Could not update product")
	}
	return c.JSON(product)
}

// HandleDelete deletes a product.
func (h *ProductHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.productService.DeleteProduct(c.Params("id")); err != nil {
		return respondError(c, err, "Could not delete product")
	}
	return c.JSON(fiber.Map{
		"message": "Product deleted",
	})
}
