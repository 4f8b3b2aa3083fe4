package services_test

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"testing"

	"lapak/internal/apperr"
	"lapak/internal/models"
	"lapak/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(page, limit int) ([]models.User, int64, error) {
	args := m.Called(page, limit)
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) Search(term string) ([]models.User, error) {
	args := m.Called(term)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// TestMain is used to setup test environment
func TestMain(m *testing.M) {
	log.SetOutput(os.Stdout)
	code := m.Run()
	os.Exit(code)
}

func TestAuthService_Register(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, newTokenService())

	// Test successful registration
	mockRepo.On("GetByEmail", "test@example.com").
		Return(nil, fmt.Errorf("%w: user with email test@example.com", apperr.ErrNotFound)).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	user, err := authService.Register("testuser", "test@example.com", "password123")
	assert.NoError(t, err)
	assert.Equal(t, "testuser", user.Username)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.False(t, user.IsAdmin)
	mockRepo.AssertExpectations(t)

	// Test email already registered
	mockRepo.On("GetByEmail", "test@example.com").Return(&models.User{ID: "1"}, nil).Once()
	_, err = authService.Register("testuser", "test@example.com", "password123")
	assert.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, err.Error(), "already registered")
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	mockRepo := new(MockUserRepository)
	tokens := newTokenService()
	authService := services.NewAuthService(mockRepo, tokens)

	hash, _ := tokens.HashPassword("password123")
	user := &models.User{
		ID:           "user-123",
		Username:     "testuser",
		Email:        "test@example.com",
		PasswordHash: hash,
		IsAdmin:      true,
	}

	// Test successful login
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	access, refresh, err := authService.Login("test@example.com", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)

	claims, err := tokens.ParseAccessToken(access)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.True(t, claims.IsAdmin)
	mockRepo.AssertExpectations(t)

	// Test invalid credentials (wrong password)
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	_, _, err = authService.Login("test@example.com", "wrongpassword")
	assert.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, err.Error(), "invalid email or password")
	mockRepo.AssertExpectations(t)

	// Test invalid credentials (unknown email) — same message, so callers
	// cannot tell which addresses exist.
	mockRepo.On("GetByEmail", "nobody@example.com").
		Return(nil, fmt.Errorf("%w: user with email nobody@example.com", apperr.ErrNotFound)).Once()
	_, _, err = authService.Login("nobody@example.com", "password123")
	assert.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, err.Error(), "invalid email or password")
	mockRepo.AssertExpectations(t)

	// A storage failure must stay internal, not masquerade as bad credentials.
	mockRepo.On("GetByEmail", user.Email).
		Return(nil, errors.New("connection refused")).Once()
	_, _, err = authService.Login("test@example.com", "password123")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, http.StatusInternalServerError, apperr.Status(err))
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Refresh(t *testing.T) {
	mockRepo := new(MockUserRepository)
	tokens := newTokenService()
	authService := services.NewAuthService(mockRepo, tokens)

	user := &models.User{ID: "user-123", IsAdmin: true}
	refresh, err := tokens.IssueRefreshToken(user)
	assert.NoError(t, err)

	// A valid refresh token mints an access token carrying the current
	// admin status of the stored user.
	mockRepo.On("GetByID", "user-123").Return(user, nil).Once()
	access, err := authService.Refresh(refresh)
	assert.NoError(t, err)

	claims, err := tokens.ParseAccessToken(access)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.True(t, claims.IsAdmin)
	mockRepo.AssertExpectations(t)

	// A tampered refresh token never yields a token.
	_, err = authService.Refresh(refresh + "x")
	assert.ErrorIs(t, err, apperr.ErrAuth)

	// An access token is not accepted in place of a refresh token.
	access2, _ := tokens.IssueAccessToken(user)
	_, err = authService.Refresh(access2)
	assert.ErrorIs(t, err, apperr.ErrAuth)

	// A refresh token for a deleted user fails closed.
	mockRepo.On("GetByID", "user-123").
		Return(nil, fmt.Errorf("%w: user with ID user-123", apperr.ErrNotFound)).Once()
	_, err = authService.Refresh(refresh)
	assert.ErrorIs(t, err, apperr.ErrAuth)
	mockRepo.AssertExpectations(t)
}
