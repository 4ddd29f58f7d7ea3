package tasks

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/google/uuid"
)

// PostgresRepository implements task storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO tasks (id, name, completed, user_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query, task.ID, task.Name, task.Completed, task.UserID).Scan(&task.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return task, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Task, error) {
	query := `SELECT id, name, completed, user_id, created_at FROM tasks
		WHERE user_id = $1
		ORDER BY created_at, id
		`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select tasks: %w", err)
	}
	return scanTasks(rows)
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]*models.Task, error) {
	query := `SELECT id, name, completed, user_id, created_at FROM tasks
		ORDER BY created_at, id
		`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select tasks: %w", err)
	}
	return scanTasks(rows)
}

func scanTasks(rows *sql.Rows) ([]*models.Task, error) {
	defer rows.Close()

	result := make([]*models.Task, 0)
	for rows.Next() {
		var item models.Task
		if err := rows.Scan(&item.ID, &item.Name, &item.Completed, &item.UserID, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) DeleteOwned(ctx context.Context, userID, taskID string) error {
	query := `DELETE FROM tasks WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, taskID, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 0:
		return common.ErrorNotFound
	case 1:
		return nil
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
