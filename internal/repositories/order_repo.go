package repositories

import "lapak/internal/models"

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	GetByOwner(ownerID string) ([]models.Order, error)
	Create(order *models.Order) error
	UpdateStatus(id string, status models.OrderStatus) error
	Delete(id string) error
}
