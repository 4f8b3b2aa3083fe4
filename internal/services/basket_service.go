package services

import (
	"errors"
	"fmt"
	"log"
	"math"

	"lapak/internal/apperr"
	"lapak/internal/models"
	"lapak/internal/repositories"
	"lapak/pkg/rabbitmq"
)

// maxBasketRetries bounds the read-merge-write retry loop. Each retry
// means another writer won the version race, so contention beyond this
// is surfaced to the caller instead of spinning.
const maxBasketRetries = 3

// BasketService implements the basket aggregation engine: find-or-create
// the user's basket, merge quantities by product, keep line totals priced
// from the current catalog and the total equal to the sum of line totals.
type BasketService struct {
	basketRepo  repositories.BasketRepository
	productRepo repositories.ProductRepository
	userRepo    repositories.UserRepository
	mqClient    *rabbitmq.Client
}

// NewBasketService creates a new BasketService. mqClient may be nil; basket
// events are then skipped.
func NewBasketService(
	basketRepo repositories.BasketRepository,
	productRepo repositories.ProductRepository,
	userRepo repositories.UserRepository,
	mqClient *rabbitmq.Client,
) *BasketService {
	return &BasketService{
		basketRepo:  basketRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		mqClient:    mqClient,
	}
}

// recomputeTotal sums the line totals, rejecting any that is not a finite
// non-negative number. A bad line total must abort the mutation rather
// than persist a corrupt total.
func recomputeTotal(items []models.BasketItem) (float64, error) {
	var total float64
	for _, item := range items {
		if math.IsNaN(item.LineTotal) || math.IsInf(item.LineTotal, 0) || item.LineTotal < 0 {
			return 0, fmt.Errorf("%w: line total for product %s is not a finite non-negative number",
				apperr.ErrInvariant, item.ProductID)
		}
		total += item.LineTotal
	}
	if math.IsNaN(total) || math.IsInf(total, 0) {
		return 0, fmt.Errorf("%w: total price is invalid", apperr.ErrInvariant)
	}
	return total, nil
}

// AddItem adds quantity units of a product to the user's basket, creating
// the basket if the user has none and merging with an existing line
// otherwise. The merged line is re-priced from the current product record,
// not from whatever price it was added at. Either the returned basket
// satisfies the total-price invariant or no state change is observable.
func (s *BasketService) AddItem(userID, productID string, quantity int) (*models.Basket, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be a positive number", apperr.ErrValidation)
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	// NaN fails the > 0 comparison, so this also rejects NaN prices.
	if !(product.Price > 0) || math.IsInf(product.Price, 0) {
		return nil, fmt.Errorf("%w: product %s has an invalid price", apperr.ErrValidation, productID)
	}

	for attempt := 0; attempt < maxBasketRetries; attempt++ {
		basket, err := s.basketRepo.GetByUserID(userID)
		if errors.Is(err, apperr.ErrNotFound) {
			created, createErr := s.createBasket(user, product, quantity)
			if errors.Is(createErr, apperr.ErrConflict) {
				// Another request created the basket first; merge into it.
				continue
			}
			if createErr != nil {
				return nil, createErr
			}
			s.publishBasketUpdated(created)
			return created, nil
		}
		if err != nil {
			return nil, err
		}

		merged := false
		for i := range basket.Items {
			if basket.Items[i].ProductID == productID {
				basket.Items[i].Quantity += quantity
				basket.Items[i].LineTotal = product.Price * float64(basket.Items[i].Quantity)
				merged = true
				break
			}
		}
		if !merged {
			basket.Items = append(basket.Items, models.BasketItem{
				BasketID:  basket.ID,
				ProductID: productID,
				Quantity:  quantity,
				LineTotal: product.Price * float64(quantity),
			})
		}

		total, err := recomputeTotal(basket.Items)
		if err != nil {
			return nil, err
		}
		basket.TotalPrice = total

		err = s.basketRepo.UpdateVersioned(basket, basket.Version)
		if errors.Is(err, apperr.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		s.publishBasketUpdated(basket)
		return basket, nil
	}

	return nil, fmt.Errorf("%w: basket for user %s is under contention, try again", apperr.ErrConflict, userID)
}

// createBasket makes a basket with a single item and links it to the user.
func (s *BasketService) createBasket(user *models.User, product *models.Product, quantity int) (*models.Basket, error) {
	lineTotal := product.Price * float64(quantity)
	basket := &models.Basket{
		UserID: user.ID,
		Items: []models.BasketItem{{
			ProductID: product.ID,
			Quantity:  quantity,
			LineTotal: lineTotal,
		}},
		TotalPrice: lineTotal,
	}
	if _, err := recomputeTotal(basket.Items); err != nil {
		return nil, err
	}
	if err := s.basketRepo.Create(basket); err != nil {
		return nil, err
	}

	user.BasketID = &basket.ID
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to link basket to user: %w", err)
	}
	return basket, nil
}

// RemoveItem drops the line matching productID from the user's basket and
// recomputes the total. Removing a product that is not in the basket is
// an error, as is removing from a user who has no basket yet.
func (s *BasketService) RemoveItem(userID, productID string) (*models.Basket, error) {
	for attempt := 0; attempt < maxBasketRetries; attempt++ {
		basket, err := s.basketRepo.GetByUserID(userID)
		if err != nil {
			return nil, err
		}

		index := -1
		for i := range basket.Items {
			if basket.Items[i].ProductID == productID {
				index = i
				break
			}
		}
		if index == -1 {
			return nil, fmt.Errorf("%w: product %s not in basket", apperr.ErrNotFound, productID)
		}

		basket.Items = append(basket.Items[:index], basket.Items[index+1:]...)
		total, err := recomputeTotal(basket.Items)
		if err != nil {
			return nil, err
		}
		basket.TotalPrice = total

		err = s.basketRepo.UpdateVersioned(basket, basket.Version)
		if errors.Is(err, apperr.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		s.publishBasketUpdated(basket)
		return basket, nil
	}

	return nil, fmt.Errorf("%w: basket for user %s is under contention, try again", apperr.ErrConflict, userID)
}

// GetBasket returns the user's basket with product details resolved inline.
func (s *BasketService) GetBasket(userID string) (*models.Basket, error) {
	return s.basketRepo.GetByUserIDWithProducts(userID)
}

// publishBasketUpdated emits a basket event, best effort.
func (s *BasketService) publishBasketUpdated(basket *models.Basket) {
	if s.mqClient == nil {
		return
	}
	payload := map[string]interface{}{
		"basketID":   basket.ID,
		"userID":     basket.UserID,
		"totalPrice": basket.TotalPrice,
		"itemCount":  len(basket.Items),
	}
	if err := s.mqClient.PublishEvent("basket.updated", payload); err != nil {
		log.Printf("Warning: Failed to publish basket updated event for basket %s: %v", basket.ID, err)
	}
}
