package services_test

import (
	"testing"

	"lapak/internal/models"
	"lapak/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestUserService_UpdateUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	tokens := newTokenService()
	service := services.NewUserService(mockRepo, tokens)

	oldHash, _ := tokens.HashPassword("oldpassword")
	stored := &models.User{ID: "user-1", Username: "alice", Email: "alice@example.com", PasswordHash: oldHash}

	// Empty fields keep their stored values; a new password is re-hashed.
	mockRepo.On("GetByID", "user-1").Return(stored, nil).Once()
	mockRepo.On("Update", mock.AnythingOfType("*models.User")).Return(nil).Once()

	user, err := service.UpdateUser("user-1", "", "", "newpassword")
	assert.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, oldHash, user.PasswordHash)
	assert.True(t, tokens.VerifyPassword("newpassword", user.PasswordHash))
	mockRepo.AssertExpectations(t)

	// Username and email updates pass through.
	mockRepo.On("GetByID", "user-1").Return(stored, nil).Once()
	mockRepo.On("Update", mock.AnythingOfType("*models.User")).Return(nil).Once()

	user, err = service.UpdateUser("user-1", "bob", "bob@example.com", "")
	assert.NoError(t, err)
	assert.Equal(t, "bob", user.Username)
	assert.Equal(t, "bob@example.com", user.Email)
	mockRepo.AssertExpectations(t)
}
