// Package tasks persists tasks. Every task belongs to exactly one user and
// all per-user operations filter on the owner.
package tasks

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

type Repository interface {
	// Create stores task, assigning ID and CreatedAt when empty.
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	// ListByUser returns the tasks owned by userID, oldest first.
	ListByUser(ctx context.Context, userID string) ([]*models.Task, error)
	// ListAll returns every task, oldest first.
	ListAll(ctx context.Context) ([]*models.Task, error)
	// DeleteOwned removes the task only if userID owns it. A missing or
	// foreign task yields common.ErrorNotFound.
	DeleteOwned(ctx context.Context, userID, taskID string) error
}
