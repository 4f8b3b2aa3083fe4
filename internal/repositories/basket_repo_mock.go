package repositories

import (
	"fmt"
	"sync"

	"lapak/internal/apperr"
	"lapak/internal/models"

	"github.com/google/uuid"
)

// MockBasketRepository is an in-memory implementation of BasketRepository.
// It honors the same version-check contract as the GORM implementation so
// the aggregation engine's retry loop can be exercised without a database.
type MockBasketRepository struct {
	baskets map[string]models.Basket // keyed by user ID
	mu      sync.RWMutex
}

// NewMockBasketRepository creates a new instance of MockBasketRepository.
func NewMockBasketRepository() *MockBasketRepository {
	return &MockBasketRepository{
		baskets: make(map[string]models.Basket),
	}
}

func cloneBasket(b models.Basket) models.Basket {
	items := make([]models.BasketItem, len(b.Items))
	copy(items, b.Items)
	b.Items = items
	return b
}

// GetByUserID returns the basket belonging to a user.
func (r *MockBasketRepository) GetByUserID(userID string) (*models.Basket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	basket, ok := r.baskets[userID]
	if !ok {
		return nil, fmt.Errorf("%w: basket for user %s", apperr.ErrNotFound, userID)
	}
	clone := cloneBasket(basket)
	return &clone, nil
}

// GetByUserIDWithProducts behaves like GetByUserID; the mock does not
// resolve product records.
func (r *MockBasketRepository) GetByUserIDWithProducts(userID string) (*models.Basket, error) {
	return r.GetByUserID(userID)
}

// Create adds a new basket.
func (r *MockBasketRepository) Create(basket *models.Basket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if basket.ID == "" {
		basket.ID = uuid.New().String()
	}
	if _, ok := r.baskets[basket.UserID]; ok {
		return fmt.Errorf("%w: basket for user %s already exists", apperr.ErrConflict, basket.UserID)
	}
	r.baskets[basket.UserID] = cloneBasket(*basket)
	return nil
}

// UpdateVersioned writes the basket only if the stored version still
// matches expectedVersion.
func (r *MockBasketRepository) UpdateVersioned(basket *models.Basket, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.baskets[basket.UserID]
	if !ok {
		return fmt.Errorf("%w: basket for user %s", apperr.ErrNotFound, basket.UserID)
	}
	if stored.Version != expectedVersion {
		return fmt.Errorf("%w: basket %s was modified concurrently", apperr.ErrConflict, basket.ID)
	}
	basket.Version = expectedVersion + 1
	r.baskets[basket.UserID] = cloneBasket(*basket)
	return nil
}

// Seed stores a basket directly, bypassing the version check. Test helper.
func (r *MockBasketRepository) Seed(basket models.Basket) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.baskets[basket.UserID] = cloneBasket(basket)
}
