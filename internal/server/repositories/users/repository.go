// Package users declares the user repository contract and its Postgres,
// MongoDB and in-memory implementations. The reset-token fields live on the
// user record, so reset-token storage is part of this repository.
package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

// Repository persists users. Emails are unique: Create reports a duplicate
// with common.ErrorAlreadyExists, enforced by the store itself. Lookups that
// match nothing return common.ErrorNotFound.
type Repository interface {
	// Create stores user, assigning ID and CreatedAt when empty.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// SetResetToken attaches token and its expiry to the user, replacing any
	// outstanding token.
	SetResetToken(ctx context.Context, userID, token string, expires time.Time) error

	// ConsumeResetToken atomically replaces the password hash and clears the
	// reset token of the user whose token equals token and whose expiry is
	// after now. It returns common.ErrorNotFound when no such user exists, so
	// a token can be consumed at most once.
	ConsumeResetToken(ctx context.Context, token, passwordHash string, now time.Time) (*models.User, error)
}
