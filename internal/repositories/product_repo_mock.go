package repositories

import (
	"fmt"
	"strings"
	"sync"

	"lapak/internal/apperr"
	"lapak/internal/models"

	"github.com/google/uuid"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
type MockProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

// List returns one page of products plus the total count.
func (r *MockProductRepository) List(page, limit int) ([]models.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		all = append(all, p)
	}
	total := int64(len(all))

	start := (page - 1) * limit
	if start >= len(all) {
		return []models.Product{}, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

// Search returns products whose name, description or category contains the term.
func (r *MockProductRepository) Search(term string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	term = strings.ToLower(term)
	matches := []models.Product{}
	for _, p := range r.products {
		if strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Description), term) ||
			strings.Contains(strings.ToLower(p.Category), term) {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: product with ID %s", apperr.ErrNotFound, id)
	}
	return &product, nil
}

// Create adds a new product.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.products[product.ID]
	if !ok {
		return fmt.Errorf("%w: product with ID %s", apperr.ErrNotFound, product.ID)
	}
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.products[id]
	if !ok {
		return fmt.Errorf("%w: product with ID %s", apperr.ErrNotFound, id)
	}
	delete(r.products, id)
	return nil
}
