package repomanager

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/users"
)

// InMemoryRepositoryManager holds process-local repositories. Data is lost
// on restart.
type InMemoryRepositoryManager struct {
	users *users.MemoryRepository
	tasks *tasks.MemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		users: users.NewMemoryRepository(),
		tasks: tasks.NewMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *InMemoryRepositoryManager) Ping(context.Context) error { return nil }

func (m *InMemoryRepositoryManager) Users() users.Repository { return m.users }

func (m *InMemoryRepositoryManager) Tasks() tasks.Repository { return m.tasks }

func (m *InMemoryRepositoryManager) Close(context.Context) error { return nil }
