package repositories

import "lapak/internal/models"

// BasketRepository defines the interface for basket data access.
//
// UpdateVersioned must persist the basket only if the stored row still
// carries expectedVersion, bump the version on success, and report
// apperr.ErrConflict otherwise. This is the serialization point for the
// basket's read-modify-write cycle.
type BasketRepository interface {
	GetByUserID(userID string) (*models.Basket, error)
	GetByUserIDWithProducts(userID string) (*models.Basket, error)
	Create(basket *models.Basket) error
	UpdateVersioned(basket *models.Basket, expectedVersion int64) error
}
