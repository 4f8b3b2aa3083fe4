package repositories

import "lapak/internal/models"

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	List(page, limit int) ([]models.Product, int64, error)
	Search(term string) ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
}
