// Package repomanager selects a storage backend and vends the repositories
// bound to it. PostgreSQL is the default; MongoDB and an in-memory backend
// are available for other deployments and for tests.
package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/users"
)

type RepositoryManager interface {
	// RunMigrations brings the schema (tables or indexes) up to date.
	RunMigrations(ctx context.Context) error
	Ping(ctx context.Context) error
	Users() users.Repository
	Tasks() tasks.Repository
	Close(ctx context.Context) error
}

// New opens the backend named by cfg.StorageBackend.
func New(ctx context.Context, cfg *config.Config) (RepositoryManager, error) {
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		m, err := OpenPostgres(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		return m, nil
	case config.StorageMongo:
		m, err := OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return m, nil
	case config.StorageMemory:
		return NewInMemoryRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
