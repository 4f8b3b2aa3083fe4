package services

import (
	"errors"
	"fmt"

	"lapak/internal/apperr"
	"lapak/internal/models"
	"lapak/internal/repositories"
)

// AuthService handles registration, login and access-token refresh.
type AuthService struct {
	userRepo repositories.UserRepository
	tokens   *TokenService
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, tokens *TokenService) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// Register creates a new user with a hashed password. Admin status is
// never granted here; it can only be set by direct data manipulation.
func (s *AuthService) Register(username, email, password string) (*models.User, error) {
	if existing, err := s.userRepo.GetByEmail(email); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: email '%s' already registered", apperr.ErrValidation, email)
	} else if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	hash, err := s.tokens.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return user, nil
}

// Login authenticates by email and password and returns an access/refresh
// token pair. The same error covers unknown email and wrong password so
// callers cannot probe which addresses are registered.
func (s *AuthService) Login(email, password string) (accessToken, refreshToken string, err error) {
	user, err := s.userRepo.GetByEmail(email)
	if errors.Is(err, apperr.ErrNotFound) {
		return "", "", fmt.Errorf("%w: invalid email or password", apperr.ErrValidation)
	}
	if err != nil {
		return "", "", fmt.Errorf("failed to look up user: %w", err)
	}
	if !s.tokens.VerifyPassword(password, user.PasswordHash) {
		return "", "", fmt.Errorf("%w: invalid email or password", apperr.ErrValidation)
	}

	accessToken, err = s.tokens.IssueAccessToken(user)
	if err != nil {
		return "", "", err
	}
	refreshToken, err = s.tokens.IssueRefreshToken(user)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

// Refresh verifies a refresh token and mints a new access token. The user
// record is re-read so the new token carries current admin status, and a
// deleted user cannot refresh at all.
func (s *AuthService) Refresh(refreshToken string) (string, error) {
	userID, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return "", err
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return "", fmt.Errorf("%w: unknown user", apperr.ErrAuth)
		}
		return "", err
	}
	return s.tokens.IssueAccessToken(user)
}
