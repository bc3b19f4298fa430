// Package auth verifies the bearer tokens issued by the identity service.
// This service trusts the token contents; it never authenticates users
// itself.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dev-tanvu/mateluxy-backend/internal/common"
)

// Claims carries the actor identity the rest of the service operates on.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
}

// Actor is the authenticated caller extracted from a verified token.
type Actor struct {
	ID    string
	Name  string
	Email string
	Role  string
}

// GenerateToken signs an HS256 token for the actor. Used by tests and local
// tooling; production tokens come from the identity service.
func GenerateToken(actor Actor, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID: actor.ID,
		Name:   actor.Name,
		Email:  actor.Email,
		Role:   actor.Role,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ActorFromToken verifies the token and returns the actor it names.
func ActorFromToken(tokenString string, secretKey []byte) (*Actor, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}

	return &Actor{ID: claims.UserID, Name: claims.Name, Email: claims.Email, Role: claims.Role}, nil
}
