package services_test

import (
	"fmt"
	"testing"

	"lapak/internal/apperr"
	"lapak/internal/models"
	"lapak/internal/repositories"
	"lapak/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockOrderRepository is a mock implementation of repositories.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) GetAll() ([]models.Order, error) {
	args := m.Called()
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByOwner(ownerID string) ([]models.Order, error) {
	args := m.Called(ownerID)
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) Create(order *models.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateStatus(id string, status models.OrderStatus) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func TestOrderService_CreateOrder(t *testing.T) {
	mockOrderRepo := new(MockOrderRepository)
	mockProductRepo := new(MockProductRepository)
	service := services.NewOrderService(mockOrderRepo, mockProductRepo, nil)

	product := &models.Product{ID: "prod-1", Name: "Laptop", Price: 1200.0, Stock: 10}

	// Test successful creation
	mockProductRepo.On("GetByID", "prod-1").Return(product, nil).Once()
	mockOrderRepo.On("Create", mock.AnythingOfType("*models.Order")).Return(nil).Once()

	order, err := service.CreateOrder("user-1", []models.OrderItem{{ProductID: "prod-1", Quantity: 2}})
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, "user-1", order.OwnerID)
	mockOrderRepo.AssertExpectations(t)
	mockProductRepo.AssertExpectations(t)

	// Test insufficient stock
	mockProductRepo.On("GetByID", "prod-1").Return(product, nil).Once()
	_, err = service.CreateOrder("user-1", []models.OrderItem{{ProductID: "prod-1", Quantity: 50}})
	assert.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, err.Error(), "insufficient stock")
	mockProductRepo.AssertExpectations(t)

	// Test unknown product
	mockProductRepo.On("GetByID", "prod-404").
		Return(nil, fmt.Errorf("%w: product with ID prod-404", apperr.ErrNotFound)).Once()
	_, err = service.CreateOrder("user-1", []models.OrderItem{{ProductID: "prod-404", Quantity: 1}})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	mockProductRepo.AssertExpectations(t)

	// Test empty order
	_, err = service.CreateOrder("user-1", nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	// No order may have been persisted for any failed creation.
	mockOrderRepo.AssertNumberOfCalls(t, "Create", 1)
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	mockOrderRepo := new(MockOrderRepository)
	mockProductRepo := new(MockProductRepository)
	service := services.NewOrderService(mockOrderRepo, mockProductRepo, nil)

	// Pending -> Completed is a legal transition.
	mockOrderRepo.On("GetByID", "order-1").
		Return(&models.Order{ID: "order-1", Status: models.StatusPending}, nil).Once()
	mockOrderRepo.On("UpdateStatus", "order-1", models.StatusCompleted).Return(nil).Once()

	order, err := service.UpdateOrderStatus("order-1", models.StatusCompleted)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, order.Status)
	mockOrderRepo.AssertExpectations(t)

	// Pending -> Canceled is a legal transition.
	mockOrderRepo.On("GetByID", "order-2").
		Return(&models.Order{ID: "order-2", Status: models.StatusPending}, nil).Once()
	mockOrderRepo.On("UpdateStatus", "order-2", models.StatusCanceled).Return(nil).Once()

	_, err = service.UpdateOrderStatus("order-2", models.StatusCanceled)
	assert.NoError(t, err)
	mockOrderRepo.AssertExpectations(t)
}

func TestOrderService_RejectsIllegalTransitions(t *testing.T) {
	mockOrderRepo := new(MockOrderRepository)
	mockProductRepo := new(MockProductRepository)
	service := services.NewOrderService(mockOrderRepo, mockProductRepo, nil)

	// Terminal states absorb: no way out of Completed or Canceled.
	mockOrderRepo.On("GetByID", "order-1").
		Return(&models.Order{ID: "order-1", Status: models.StatusCompleted}, nil).Once()
	_, err := service.UpdateOrderStatus("order-1", models.StatusPending)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	mockOrderRepo.On("GetByID", "order-2").
		Return(&models.Order{ID: "order-2", Status: models.StatusCanceled}, nil).Once()
	_, err = service.UpdateOrderStatus("order-2", models.StatusCompleted)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	// Free-form status strings are rejected before touching storage.
	_, err = service.UpdateOrderStatus("order-3", models.OrderStatus("Shipped"))
	assert.ErrorIs(t, err, apperr.ErrValidation)
	mockOrderRepo.AssertNotCalled(t, "GetByID", "order-3")

	// No rejected transition may have been written.
	mockOrderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
}

// Runs the service against the in-memory store to cover the full lifecycle:
// create, owner-scoped listing, status transition read-back, delete.
func TestOrderService_Lifecycle(t *testing.T) {
	orderRepo := repositories.NewMockOrderRepository()
	productRepo := repositories.NewMockProductRepository()
	service := services.NewOrderService(orderRepo, productRepo, nil)

	product := &models.Product{ID: "prod-1", Name: "Laptop", Price: 1200.0, Stock: 10, Category: "Tech"}
	assert.NoError(t, productRepo.Create(product))

	first, err := service.CreateOrder("user-1", []models.OrderItem{{ProductID: "prod-1", Quantity: 2}})
	assert.NoError(t, err)
	_, err = service.CreateOrder("user-1", []models.OrderItem{{ProductID: "prod-1", Quantity: 1}})
	assert.NoError(t, err)
	_, err = service.CreateOrder("user-2", []models.OrderItem{{ProductID: "prod-1", Quantity: 3}})
	assert.NoError(t, err)

	owned, err := service.GetOrdersByOwner("user-1")
	assert.NoError(t, err)
	assert.Len(t, owned, 2)
	for _, o := range owned {
		assert.Equal(t, "user-1", o.OwnerID)
	}

	_, err = service.UpdateOrderStatus(first.ID, models.StatusCompleted)
	assert.NoError(t, err)
	got, err := service.GetOrderByID(first.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)

	assert.NoError(t, service.DeleteOrder(first.ID))
	_, err = service.GetOrderByID(first.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
