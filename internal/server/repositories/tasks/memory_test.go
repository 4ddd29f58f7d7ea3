package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_OwnerScoping(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	a, err := r.Create(ctx, &models.Task{Name: "alpha", UserID: "u-1"})
	require.NoError(t, err)
	_, err = r.Create(ctx, &models.Task{Name: "beta", UserID: "u-2"})
	require.NoError(t, err)

	mine, err := r.ListByUser(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, a.ID, mine[0].ID)

	all, err := r.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	assert.ErrorIs(t, r.DeleteOwned(ctx, "u-2", a.ID), common.ErrorNotFound)
	require.NoError(t, r.DeleteOwned(ctx, "u-1", a.ID))
	assert.ErrorIs(t, r.DeleteOwned(ctx, "u-1", a.ID), common.ErrorNotFound)

	mine, err = r.ListByUser(ctx, "u-1")
	require.NoError(t, err)
	assert.NotNil(t, mine)
	assert.Empty(t, mine)
}

func TestMemory_OrderedByCreation(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, _ = r.Create(ctx, &models.Task{Name: "late", UserID: "u", CreatedAt: base.Add(time.Hour)})
	_, _ = r.Create(ctx, &models.Task{Name: "early", UserID: "u", CreatedAt: base})

	got, err := r.ListByUser(ctx, "u")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "early", got[0].Name)
	assert.Equal(t, "late", got[1].Name)
}

func TestMemory_ListReturnsCopies(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()
	_, _ = r.Create(ctx, &models.Task{Name: "alpha", UserID: "u"})

	got, _ := r.ListAll(ctx)
	got[0].Name = "changed"

	again, _ := r.ListAll(ctx)
	assert.Equal(t, "alpha", again[0].Name)
}
