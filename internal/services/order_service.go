package services

import (
	"fmt"
	"log"

	"lapak/internal/apperr"
	"lapak/internal/models"
	"lapak/internal/repositories"
	"lapak/pkg/rabbitmq"
)

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	mqClient    *rabbitmq.Client
}

// NewOrderService creates a new OrderService. mqClient may be nil; order
// events are then skipped.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, mqClient *rabbitmq.Client) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		mqClient:    mqClient,
	}
}

// GetAllOrders retrieves all orders.
func (s *OrderService) GetAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// GetOrdersByOwner retrieves the orders belonging to one user.
func (s *OrderService) GetOrdersByOwner(ownerID string) ([]models.Order, error) {
	return s.orderRepo.GetByOwner(ownerID)
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// CreateOrder creates a new order in the Pending state, owned by ownerID.
// Every item must reference an existing product with sufficient stock.
func (s *OrderService) CreateOrder(ownerID string, items []models.OrderItem) (*models.Order, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: an order needs at least one item", apperr.ErrValidation)
	}

	for _, item := range items {
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity for product %s must be at least 1", apperr.ErrValidation, item.ProductID)
		}
		product, err := s.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, err
		}
		if product.Stock < item.Quantity {
			return nil, fmt.Errorf("%w: insufficient stock for product %s (requested: %d, available: %d)",
				apperr.ErrValidation, product.Name, item.Quantity, product.Stock)
		}
	}

	newOrder := &models.Order{
		OwnerID: ownerID,
		Items:   items,
		Status:  models.StatusPending,
	}
	if err := s.orderRepo.Create(newOrder); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.publishOrderEvent("order.created", newOrder)
	return newOrder, nil
}

// UpdateOrderStatus transitions an order to a new status. Only the
// transitions in the declared table are accepted; terminal states absorb.
func (s *OrderService) UpdateOrderStatus(id string, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: invalid order status: %s", apperr.ErrValidation, status)
	}

	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: cannot transition order from %s to %s",
			apperr.ErrValidation, order.Status, status)
	}

	if err := s.orderRepo.UpdateStatus(id, status); err != nil {
		return nil, fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}
	order.Status = status

	s.publishOrderEvent("order.status_changed", order)
	return order, nil
}

// DeleteOrder deletes an order by its ID.
func (s *OrderService) DeleteOrder(id string) error {
	return s.orderRepo.Delete(id)
}

// publishOrderEvent emits an order event, best effort.
func (s *OrderService) publishOrderEvent(routingKey string, order *models.Order) {
	if s.mqClient == nil {
		log.Println("RabbitMQ client is not initialized. Skipping message publication.")
		return
	}
	payload := map[string]interface{}{
		"orderID": order.ID,
		"ownerID": order.OwnerID,
		"status":  string(order.Status),
	}
	if err := s.mqClient.PublishEvent(routingKey, payload); err != nil {
		log.Printf("Warning: Failed to publish %s event for order %s: %v", routingKey, order.ID, err)
	}
}
