package repomanager

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Memory(t *testing.T) {
	m, err := New(context.Background(), &config.Config{StorageBackend: config.StorageMemory})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, m.RunMigrations(ctx))
	require.NoError(t, m.Ping(ctx))

	u, err := m.Users().Create(ctx, &models.User{UserName: "a", Email: "a@x.com"})
	require.NoError(t, err)
	_, err = m.Tasks().Create(ctx, &models.Task{Name: "alpha", UserID: u.ID})
	require.NoError(t, err)

	list, err := m.Tasks().ListByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.NoError(t, m.Close(ctx))
}

func TestNew_UnknownBackend(t *testing.T) {
	_, err := New(context.Background(), &config.Config{StorageBackend: "redis"})
	assert.ErrorContains(t, err, `unknown storage backend "redis"`)
}
