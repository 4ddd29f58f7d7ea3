package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTaskService() *TaskService {
	return NewTaskService(repomanager.NewInMemoryRepositoryManager(), logging.Nop{})
}

func TestTaskService_CreateAndList(t *testing.T) {
	svc := newTaskService()
	ctx := context.Background()

	task, err := svc.Create(ctx, "u-1", "buy milk", false)
	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "u-1", task.UserID)
	assert.False(t, task.Completed)

	_, err = svc.Create(ctx, "u-2", "other user's task", true)
	require.NoError(t, err)

	mine, err := svc.List(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "buy milk", mine[0].Name)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestTaskService_CreateValidation(t *testing.T) {
	svc := newTaskService()
	ctx := context.Background()

	for _, name := range []string{"", "ab", "  ab  "} {
		_, err := svc.Create(ctx, "u-1", name, false)
		assert.ErrorIs(t, err, common.ErrorValidation, "name %q", name)
	}

	task, err := svc.Create(ctx, "u-1", "äöü", false)
	require.NoError(t, err, "length counts characters, not bytes")
	assert.Equal(t, "äöü", task.Name)
}

func TestTaskService_DeleteOwnedOnly(t *testing.T) {
	svc := newTaskService()
	ctx := context.Background()

	task, err := svc.Create(ctx, "u-1", "alpha", false)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, "u-2", task.ID), common.ErrorNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "u-1", "not-a-uuid"), common.ErrorNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "u-1", uuid.NewString()), common.ErrorNotFound)

	require.NoError(t, svc.Delete(ctx, "u-1", task.ID))
	mine, err := svc.List(ctx, "u-1")
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestTaskService_RepositoryFailures(t *testing.T) {
	svc := NewTaskService(brokenManager{}, logging.Nop{})
	ctx := context.Background()

	_, err := svc.List(ctx, "u-1")
	assert.ErrorIs(t, err, common.ErrorInternal)
	_, err = svc.ListAll(ctx)
	assert.ErrorIs(t, err, common.ErrorInternal)
	_, err = svc.Create(ctx, "u-1", "alpha", false)
	assert.ErrorIs(t, err, common.ErrorInternal)
	assert.ErrorIs(t, svc.Delete(ctx, "u-1", uuid.NewString()), common.ErrorInternal)
}
