// Package auth issues and verifies the signed tokens that carry a user's
// identity, and provides the echo middleware that enforces them per route.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenTTL is how long an issued token stays valid.
const tokenTTL = 7 * 24 * time.Hour

// Identity is the authenticated user attached to a request.
type Identity struct {
	ID    int64
	Name  string
	Email string
	Role  string
}

// Claims is the JWT payload. The field names are part of the API contract
// with existing clients, so they stay flat rather than nested.
type Claims struct {
	jwt.RegisteredClaims
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// TokenManager signs and verifies HS256 tokens with a shared secret.
type TokenManager struct {
	secret []byte
	now    func() time.Time
}

func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// Issue creates a signed token for the given identity, valid for seven days.
func (tm *TokenManager) Issue(id Identity) (string, error) {
	now := tm.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
		ID:    id.ID,
		Name:  id.Name,
		Email: id.Email,
		Role:  id.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tm.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string, returning the identity it
// carries. Expired, malformed, or wrongly signed tokens all fail.
func (tm *TokenManager) Verify(tokenStr string) (Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return tm.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return Identity{}, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return Identity{}, fmt.Errorf("invalid token")
	}

	return Identity{
		ID:    claims.ID,
		Name:  claims.Name,
		Email: claims.Email,
		Role:  claims.Role,
	}, nil
}
