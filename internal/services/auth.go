// Package services contains supporting business logic: admin token issuing
// and guest display-name generation.
package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role represents a caller's permission level.
type Role string

const (
	RoleAdmin Role = "admin" // Can clear comments and read moderation endpoints
)

// Claims represents the JWT payload for authenticated requests.
type Claims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

// AuthService handles JWT token generation and validation for admin access.
type AuthService struct {
	secret             []byte
	adminTokenDuration time.Duration
}

// NewAuthService creates an AuthService with the given signing secret and token duration.
func NewAuthService(secret string, adminDuration time.Duration) *AuthService {
	return &AuthService{
		secret:             []byte(secret),
		adminTokenDuration: adminDuration,
	}
}

// GenerateToken creates a signed JWT for the given role.
func (s *AuthService) GenerateToken(role Role) (string, error) {
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "commentstream",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.adminTokenDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken verifies the JWT signature and expiry, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
