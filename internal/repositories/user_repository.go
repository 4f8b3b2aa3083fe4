package repositories

import "lapak/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	List(page, limit int) ([]models.User, int64, error)
	Search(term string) ([]models.User, error)
	Update(user *models.User) error
	Delete(id string) error
}
