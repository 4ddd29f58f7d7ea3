// Package auth issues and verifies session tokens and hashes passwords.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims are the session token claims: the registered set (sub, exp, iat,
// jti) plus the user's role.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// UserID returns the subject, i.e. the id of the authenticated user.
func (c *Claims) UserID() string {
	return c.Subject
}

// HasRole reports whether the token carries role.
func (c *Claims) HasRole(role string) bool {
	return c.Role == role
}

// TokenManager signs and verifies HS256 session tokens with a process-wide
// secret and fixed lifetime.
type TokenManager struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

func NewTokenManager(secretKey string, validity time.Duration) *TokenManager {
	return &TokenManager{
		secret:   []byte(secretKey),
		validity: validity,
		now:      time.Now,
	}
}

// WithClock replaces the time source used for both issuing and verifying.
func (m *TokenManager) WithClock(now func() time.Time) *TokenManager {
	m.now = now
	return m
}

// Issue returns a signed token for userID that expires after the configured
// validity. An empty role is omitted from the claims.
func (m *TokenManager) Issue(userID, role string) (string, error) {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.validity)),
			ID:        uuid.NewString(),
		},
		Role: role,
	})

	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}

// Verify parses tokenString and checks its signature and expiry.
//
// Errors: common.ErrTokenMalformed when it cannot be parsed,
// common.ErrInvalidSignature when the signature (or algorithm) does not match,
// common.ErrTokenExpired when now is at or past exp, common.ErrInvalidToken
// for anything else. Callers facing clients should not reveal which.
func (m *TokenManager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)

	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil, classify(err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return common.ErrTokenMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return common.ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return common.ErrTokenExpired
	default:
		return common.ErrInvalidToken
	}
}
