package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/google/uuid"
)

// emailConstraint is the unique constraint on users.email.
const emailConstraint = "users_email_key"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO users (id, username, email, password_hash, role)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.UserName, user.Email, user.PasswordHash, user.Role).Scan(&user.CreatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err, emailConstraint) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT id, username, email, password_hash, role, reset_token, reset_token_expires, created_at
		 FROM users
		 WHERE email = $1
		 `
	return r.getOne(ctx, query, email)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	var (
		user    models.User
		token   sql.NullString
		expires sql.NullTime
	)

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.UserName, &user.Email, &user.PasswordHash, &user.Role, &token, &expires, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.ResetToken = token.String
	user.ResetTokenExpires = expires.Time
	return &user, nil
}

func (r *PostgresRepository) SetResetToken(ctx context.Context, userID, token string, expires time.Time) error {
	query :=
		`UPDATE users SET reset_token = $1, reset_token_expires = $2
		 WHERE id = $3
		 `

	res, err := r.db.ExecContext(ctx, query, token, expires, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// ConsumeResetToken relies on a single conditional UPDATE: a concurrent
// consumer re-evaluates the WHERE clause after the first commit and matches
// nothing.
func (r *PostgresRepository) ConsumeResetToken(ctx context.Context, token, passwordHash string, now time.Time) (*models.User, error) {
	query :=
		`UPDATE users SET password_hash = $1, reset_token = NULL, reset_token_expires = NULL
		 WHERE reset_token = $2 AND reset_token_expires > $3
		 RETURNING id, username, email, role, created_at
		 `

	user := &models.User{PasswordHash: passwordHash}
	err := r.db.QueryRowContext(ctx, query, passwordHash, token, now).Scan(
		&user.ID, &user.UserName, &user.Email, &user.Role, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}
