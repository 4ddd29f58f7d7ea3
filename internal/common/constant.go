// Package common contains shared constants and sentinel errors used across
// taskkeeper components.
package common

import "time"

// AuthorizationHeaderName is the HTTP header (and gRPC metadata key, lower-cased)
// that carries the bearer session token.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token in the Authorization header.
const BearerPrefix = "Bearer "

// Roles a user can hold.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ResetTokenSize is the number of random bytes in a password reset token
// before hex encoding.
const ResetTokenSize = 20

// DefaultTokenValidity is the lifetime of session and reset tokens.
const DefaultTokenValidity = time.Hour
