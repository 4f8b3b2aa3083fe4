package services_test

import (
	"testing"
	"time"

	"lapak/internal/apperr"
	"lapak/internal/models"
	"lapak/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
)

const (
	testAccessSecret  = "test_access_secret"
	testRefreshSecret = "test_refresh_secret"
)

func newTokenService() *services.TokenService {
	return services.NewTokenService(testAccessSecret, testRefreshSecret)
}

func TestTokenService_PasswordHashing(t *testing.T) {
	ts := newTokenService()

	hash, err := ts.HashPassword("password123")
	assert.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.True(t, ts.VerifyPassword("password123", hash))
	assert.False(t, ts.VerifyPassword("wrongpassword", hash))
}

func TestTokenService_AccessTokenRoundTrip(t *testing.T) {
	ts := newTokenService()
	user := &models.User{ID: "user-123", IsAdmin: true}

	tokenString, err := ts.IssueAccessToken(user)
	assert.NoError(t, err)
	assert.NotEmpty(t, tokenString)

	claims, err := ts.ParseAccessToken(tokenString)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.True(t, claims.IsAdmin)

	// Check the raw claims: identity, admin flag and a 35 minute expiry.
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(testAccessSecret), nil
	})
	assert.NoError(t, err)
	mapClaims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "user-123", mapClaims["user_id"])
	assert.Equal(t, true, mapClaims["is_admin"])
	exp := time.Unix(int64(mapClaims["exp"].(float64)), 0)
	assert.WithinDuration(t, time.Now().Add(35*time.Minute), exp, time.Minute)
}

func TestTokenService_RefreshTokenRoundTrip(t *testing.T) {
	ts := newTokenService()
	user := &models.User{ID: "user-123", IsAdmin: true}

	tokenString, err := ts.IssueRefreshToken(user)
	assert.NoError(t, err)

	userID, err := ts.ParseRefreshToken(tokenString)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", userID)

	// The refresh token carries only the user ID, never the admin flag,
	// and expires in 7 days.
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(testRefreshSecret), nil
	})
	assert.NoError(t, err)
	mapClaims := parsed.Claims.(jwt.MapClaims)
	assert.NotContains(t, mapClaims, "is_admin")
	exp := time.Unix(int64(mapClaims["exp"].(float64)), 0)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), exp, time.Minute)
}

func TestTokenService_ExpiredAccessTokenRejected(t *testing.T) {
	ts := newTokenService()

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  "user-123",
		"is_admin": false,
		"exp":      time.Now().Add(-time.Minute).Unix(),
	})
	tokenString, _ := expired.SignedString([]byte(testAccessSecret))

	_, err := ts.ParseAccessToken(tokenString)
	assert.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrAuth)
}

func TestTokenService_TamperedTokensRejected(t *testing.T) {
	ts := newTokenService()
	user := &models.User{ID: "user-123"}

	access, _ := ts.IssueAccessToken(user)
	refresh, _ := ts.IssueRefreshToken(user)

	_, err := ts.ParseAccessToken(access + "x")
	assert.ErrorIs(t, err, apperr.ErrAuth)

	_, err = ts.ParseRefreshToken(refresh + "x")
	assert.ErrorIs(t, err, apperr.ErrAuth)

	_, err = ts.ParseAccessToken("not.a.token")
	assert.ErrorIs(t, err, apperr.ErrAuth)
}

func TestTokenService_SecretsAreNotInterchangeable(t *testing.T) {
	ts := newTokenService()
	user := &models.User{ID: "user-123", IsAdmin: true}

	access, _ := ts.IssueAccessToken(user)
	refresh, _ := ts.IssueRefreshToken(user)

	// An access token must not pass as a refresh token, and vice versa.
	_, err := ts.ParseRefreshToken(access)
	assert.ErrorIs(t, err, apperr.ErrAuth)

	_, err = ts.ParseAccessToken(refresh)
	assert.ErrorIs(t, err, apperr.ErrAuth)
}
