package authUtils

import (
	"errors"
	"fmt"
	"time"

	"citymapper-be/models"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid authorization token")

// Claims carries the identity the issue store needs on every request
type Claims struct {
	UserID string      `json:"user_id"`
	Name   string      `json:"name"`
	Role   models.Role `json:"role"`
	jwt.StandardClaims
}

// Identity converts the claims into the value handed to the issue store
func (c *Claims) Identity() *models.Identity {
	return &models.Identity{ID: c.UserID, DisplayName: c.Name, Role: c.Role}
}

// GenerateToken signs an HS256 token for the identity. The token ID is unique
// so a single token can be revoked on logout.
func GenerateToken(secret string, identity *models.Identity, ttl time.Duration) (string, *Claims, error) {
	if secret == "" {
		return "", nil, fmt.Errorf("JWT secret is not configured")
	}

	now := time.Now()
	claims := &Claims{
		UserID: identity.ID,
		Name:   identity.DisplayName,
		Role:   identity.Role,
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.NewString(),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", nil, err
	}

	return tokenString, claims, nil
}

// ParseToken verifies the signature and expiry and returns the claims
func ParseToken(secret, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.UserID == "" || !claims.Role.Valid() {
		return nil, fmt.Errorf("%w: missing claims", ErrInvalidToken)
	}
	return claims, nil
}

// TTL is how long the token stays valid from now
func (c *Claims) TTL() time.Duration {
	return time.Until(time.Unix(c.ExpiresAt, 0))
}
