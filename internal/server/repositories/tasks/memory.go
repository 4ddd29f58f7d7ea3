package tasks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps tasks in insertion order behind a mutex.
type MemoryRepository struct {
	mu    sync.Mutex
	tasks []*models.Task
	now   func() time.Time
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{now: time.Now}
}

func (r *MemoryRepository) Create(_ context.Context, task *models.Task) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = r.now().UTC()
	}
	stored := *task
	r.tasks = append(r.tasks, &stored)
	return task, nil
}

func (r *MemoryRepository) ListByUser(_ context.Context, userID string) ([]*models.Task, error) {
	return r.collect(func(t *models.Task) bool { return t.UserID == userID }), nil
}

func (r *MemoryRepository) ListAll(_ context.Context) ([]*models.Task, error) {
	return r.collect(func(*models.Task) bool { return true }), nil
}

func (r *MemoryRepository) collect(keep func(*models.Task) bool) []*models.Task {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*models.Task, 0)
	for _, t := range r.tasks {
		if keep(t) {
			c := *t
			result = append(result, &c)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

func (r *MemoryRepository) DeleteOwned(_ context.Context, userID, taskID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, t := range r.tasks {
		if t.ID == taskID && t.UserID == userID {
			r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}
