// Package common defines shared constants and sentinel errors used across
// the service, repository and transport layers. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal   = errors.New("internal error")
	ErrorValidation = errors.New("validation error")

	// Authentication and authorization errors.
	ErrorUnauthorized       = errors.New("unauthorized")
	ErrorForbidden          = errors.New("forbidden")
	ErrorUserNotFound       = errors.New("user not found")
	ErrorInvalidCredentials = errors.New("invalid credentials")

	// Session token errors. Transport layers must not expose which one occurred.
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenMalformed   = errors.New("token malformed")
	ErrInvalidSignature = errors.New("invalid token signature")

	// Password reset errors. Unknown and expired tokens share one value.
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")

	// Mail transport errors.
	ErrorDelivery = errors.New("error sending email")
)
