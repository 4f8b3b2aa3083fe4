package services

import (
	"fmt"
	"time"

	"lapak/internal/apperr"
	"lapak/internal/models"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenTTL  = 35 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

// AccessClaims is the decoded identity carried by an access token.
type AccessClaims struct {
	UserID  string
	IsAdmin bool
}

// TokenService hashes and verifies passwords and issues and validates the
// two token kinds. Access and refresh tokens are signed with separate
// secrets so one can never stand in for the other.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
}

// NewTokenService creates a new TokenService.
func NewTokenService(accessSecret, refreshSecret string) *TokenService {
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
	}
}

// HashPassword hashes a plaintext password with bcrypt.
func (s *TokenService) HashPassword(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// VerifyPassword reports whether the plaintext matches the stored hash.
func (s *TokenService) VerifyPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// IssueAccessToken signs a short-lived token carrying the user's identity
// and admin flag.
func (s *TokenService) IssueAccessToken(user *models.User) (string, error) {
	now := jwt.TimeFunc()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"is_admin": user.IsAdmin,
		"exp":      now.Add(accessTokenTTL).Unix(),
		"iat":      now.Unix(),
	})
	tokenString, err := token.SignedString(s.accessSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return tokenString, nil
}

// IssueRefreshToken signs a long-lived token carrying only the user's ID.
func (s *TokenService) IssueRefreshToken(user *models.User) (string, error) {
	now := jwt.TimeFunc()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"exp":     now.Add(refreshTokenTTL).Unix(),
		"iat":     now.Unix(),
	})
	tokenString, err := token.SignedString(s.refreshSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return tokenString, nil
}

func (s *TokenService) parse(tokenString string, secret []byte) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: invalid token: %v", apperr.ErrAuth, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", apperr.ErrAuth)
	}
	return claims, nil
}

// ParseAccessToken verifies an access token and returns the identity it
// asserts. Expired, tampered and malformed tokens all fail with ErrAuth.
func (s *TokenService) ParseAccessToken(tokenString string) (*AccessClaims, error) {
	claims, err := s.parse(tokenString, s.accessSecret)
	if err != nil {
		return nil, err
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, fmt.Errorf("%w: token has no subject", apperr.ErrAuth)
	}
	isAdmin, _ := claims["is_admin"].(bool)
	return &AccessClaims{UserID: userID, IsAdmin: isAdmin}, nil
}

// ParseRefreshToken verifies a refresh token and returns the user ID it
// was issued for. Fails closed on any verification error.
func (s *TokenService) ParseRefreshToken(tokenString string) (string, error) {
	claims, err := s.parse(tokenString, s.refreshSecret)
	if err != nil {
		return "", err
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("%w: token has no subject", apperr.ErrAuth)
	}
	return userID, nil
}
