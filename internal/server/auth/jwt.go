// Package auth issues and verifies the signed session tokens handed to
// clients after register and login.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/edupass/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Identity is what a valid token proves about its bearer.
type Identity struct {
	UserID string
	Email  string
}

// Claims holds the registered claims (sub = user id) plus the email.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// TokenManager signs and verifies HS256 tokens with a fixed secret.
type TokenManager struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

// NewTokenManager returns a manager issuing tokens valid for validity.
func NewTokenManager(secret []byte, validity time.Duration) *TokenManager {
	return &TokenManager{secret: secret, validity: validity, now: time.Now}
}

// Issue signs a token for id.
func (m *TokenManager) Issue(id Identity) (string, error) {
	return GenerateToken(id, m.secret, m.validity, m.now())
}

// Verify checks signature and expiry and returns the embedded identity.
// Expired tokens yield common.ErrTokenExpired, anything else
// common.ErrInvalidToken.
func (m *TokenManager) Verify(token string) (Identity, error) {
	return ParseToken(token, m.secret, m.now)
}

// GenerateToken signs a token for id issued at now.
func GenerateToken(id Identity, secretKey []byte, validityDuration time.Duration, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		Email: id.Email,
	})

	return token.SignedString(secretKey)
}

// ParseToken validates tokenString against secretKey using now as the
// current time.
func ParseToken(tokenString string, secretKey []byte, now func() time.Time) (Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, common.ErrTokenExpired
		}
		return Identity{}, common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return Identity{}, common.ErrInvalidToken
	}

	return Identity{UserID: claims.Subject, Email: claims.Email}, nil
}
