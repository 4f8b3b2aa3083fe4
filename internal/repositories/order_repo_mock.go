package repositories

import (
	"fmt"
	"sync"

	"lapak/internal/apperr"
	"lapak/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
type MockOrderRepository struct {
	orders map[string]models.Order
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
	}
}

// GetAll returns all orders.
func (r *MockOrderRepository) GetAll() ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, 0, len(r.orders))
	for _, o := range r.orders {
		orderList = append(orderList, o)
	}
	return orderList, nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: order with ID %s", apperr.ErrNotFound, id)
	}
	return &order, nil
}

// GetByOwner returns all orders belonging to one user.
func (r *MockOrderRepository) GetByOwner(ownerID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := []models.Order{}
	for _, o := range r.orders {
		if o.OwnerID == ownerID {
			orderList = append(orderList, o)
		}
	}
	return orderList, nil
}

// Create adds a new order.
func (r *MockOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	r.orders[order.ID] = *order
	return nil
}

// UpdateStatus sets the status of an existing order.
func (r *MockOrderRepository) UpdateStatus(id string, status models.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("%w: order with ID %s", apperr.ErrNotFound, id)
	}
	order.Status = status
	r.orders[id] = order
	return nil
}

// Delete removes an order by its ID.
func (r *MockOrderRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("%w: order with ID %s", apperr.ErrNotFound, id)
	}
	delete(r.orders, id)
	return nil
}
