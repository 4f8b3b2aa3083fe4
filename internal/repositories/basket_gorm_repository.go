package repositories

import (
	"errors"
	"fmt"
	"strings"

	"lapak/internal/apperr"
	"lapak/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMBasketRepository is a GORM implementation of BasketRepository.
type GORMBasketRepository struct {
	db *gorm.DB
}

// NewGORMBasketRepository creates a new instance of GORMBasketRepository.
func NewGORMBasketRepository(db *gorm.DB) *GORMBasketRepository {
	return &GORMBasketRepository{
		db: db,
	}
}

// GetByUserID retrieves the basket belonging to a user.
func (r *GORMBasketRepository) GetByUserID(userID string) (*models.Basket, error) {
	var basket models.Basket
	if err := r.db.Preload("Items").First(&basket, "user_id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: basket for user %s", apperr.ErrNotFound, userID)
		}
		return nil, fmt.Errorf("failed to get basket for user %s: %w", userID, err)
	}
	return &basket, nil
}

// GetByUserIDWithProducts retrieves the basket with each item's product
// record resolved inline for display.
func (r *GORMBasketRepository) GetByUserIDWithProducts(userID string) (*models.Basket, error) {
	var basket models.Basket
	err := r.db.Preload("Items").Preload("Items.Product").First(&basket, "user_id = ?", userID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: basket for user %s", apperr.ErrNotFound, userID)
		}
		return nil, fmt.Errorf("failed to get basket for user %s: %w", userID, err)
	}
	return &basket, nil
}

// Create creates a new basket together with its items. Two requests racing
// to create the same user's first basket both pass the existence check, so
// the loser hits the unique index on user_id; that surfaces as ErrConflict
// so the caller can re-read and merge instead.
func (r *GORMBasketRepository) Create(basket *models.Basket) error {
	if basket.ID == "" {
		basket.ID = uuid.New().String()
	}
	if err := r.db.Create(basket).Error; err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("%w: basket for user %s already exists", apperr.ErrConflict, basket.UserID)
		}
		return fmt.Errorf("failed to create basket: %w", err)
	}
	return nil
}

// isDuplicateKey reports whether err is a unique-constraint violation. GORM
// translates these to ErrDuplicatedKey when opened with TranslateError; the
// raw sqlite and postgres messages are matched as a fallback.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}

// UpdateVersioned writes the basket's items and total conditionally on the
// stored row still having expectedVersion. A concurrent writer that got
// there first makes the condition fail, which surfaces as ErrConflict so
// the caller can re-read and retry.
func (r *GORMBasketRepository) UpdateVersioned(basket *models.Basket, expectedVersion int64) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Basket{}).
			Where("id = ? AND version = ?", basket.ID, expectedVersion).
			Updates(map[string]interface{}{
				"total_price": basket.TotalPrice,
				"version":     expectedVersion + 1,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to update basket %s: %w", basket.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: basket %s was modified concurrently", apperr.ErrConflict, basket.ID)
		}

		// Replace the item rows wholesale; the basket row's version bump
		// above already fences out concurrent writers.
		if err := tx.Where("basket_id = ?", basket.ID).Delete(&models.BasketItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear basket items: %w", err)
		}
		for i := range basket.Items {
			basket.Items[i].ID = 0
			basket.Items[i].BasketID = basket.ID
		}
		if len(basket.Items) > 0 {
			if err := tx.Create(&basket.Items).Error; err != nil {
				return fmt.Errorf("failed to write basket items: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	basket.Version = expectedVersion + 1
	return nil
}
