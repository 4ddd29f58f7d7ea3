package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// MinTaskNameLength is the shortest accepted task name, in characters.
const MinTaskNameLength = 3

// TaskService manages tasks on behalf of their owners. Every operation except
// ListAll is scoped to the given user.
type TaskService struct {
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewTaskService(m repomanager.RepositoryManager, log logging.Logger) *TaskService {
	return &TaskService{repomanager: m, log: log.With("module", "tasks")}
}

func (s *TaskService) List(ctx context.Context, userID string) ([]*models.Task, error) {
	tasks, err := s.repomanager.Tasks().ListByUser(ctx, userID)
	if err != nil {
		s.log.Error(ctx, "error listing tasks", "user_id", userID, "error", err)
		return nil, common.ErrorInternal
	}
	return tasks, nil
}

// ListAll returns every user's tasks. Only admins may call it.
func (s *TaskService) ListAll(ctx context.Context) ([]*models.Task, error) {
	tasks, err := s.repomanager.Tasks().ListAll(ctx)
	if err != nil {
		s.log.Error(ctx, "error listing all tasks", "error", err)
		return nil, common.ErrorInternal
	}
	return tasks, nil
}

// Create validates name and stores a task owned by userID.
func (s *TaskService) Create(ctx context.Context, userID, name string, completed bool) (*models.Task, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < MinTaskNameLength {
		return nil, common.ErrorValidation
	}

	task, err := s.repomanager.Tasks().Create(ctx, &models.Task{Name: name, Completed: completed, UserID: userID})
	if err != nil {
		s.log.Error(ctx, "error creating task", "user_id", userID, "error", err)
		return nil, common.ErrorInternal
	}
	return task, nil
}

// Delete removes taskID if userID owns it. Foreign, missing and malformed
// ids all yield common.ErrorNotFound.
func (s *TaskService) Delete(ctx context.Context, userID, taskID string) error {
	if _, err := uuid.Parse(taskID); err != nil {
		return common.ErrorNotFound
	}

	err := s.repomanager.Tasks().DeleteOwned(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		s.log.Error(ctx, "error deleting task", "user_id", userID, "task_id", taskID, "error", err)
		return common.ErrorInternal
	}
	return nil
}
