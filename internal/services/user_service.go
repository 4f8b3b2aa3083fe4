package services

import (
	"fmt"

	"lapak/internal/models"
	"lapak/internal/repositories"
)

// UserService handles business logic related to user accounts.
type UserService struct {
	repo   repositories.UserRepository
	tokens *TokenService
}

// NewUserService creates a new UserService.
func NewUserService(repo repositories.UserRepository, tokens *TokenService) *UserService {
	return &UserService{
		repo:   repo,
		tokens: tokens,
	}
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id string) (*models.User, error) {
	return s.repo.GetByID(id)
}

// ListUsers retrieves one page of users plus the total count.
func (s *UserService) ListUsers(page, limit int) ([]models.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return s.repo.List(page, limit)
}

// SearchUsers retrieves users matching the search term.
func (s *UserService) SearchUsers(term string) ([]models.User, error) {
	return s.repo.Search(term)
}

// UpdateUser applies the non-empty fields to the stored user. A new
// password is re-hashed before storage. Admin status is untouchable here.
func (s *UserService) UpdateUser(id, username, email, password string) (*models.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if username != "" {
		user.Username = username
	}
	if email != "" {
		user.Email = email
	}
	if password != "" {
		hash, err := s.tokens.HashPassword(password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.repo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user %s: %w", id, err)
	}
	return user, nil
}

// DeleteUser deletes a user by their ID.
func (s *UserService) DeleteUser(id string) error {
	return s.repo.Delete(id)
}
