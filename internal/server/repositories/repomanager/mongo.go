package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/users"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// MongoRepositoryManager vends MongoDB-backed repositories from one client.
type MongoRepositoryManager struct {
	client *mongo.Client
	users  *users.MongoRepository
	tasks  *tasks.MongoRepository
}

// OpenMongo connects to uri and binds the repositories to database.
func OpenMongo(ctx context.Context, uri, database string) (*MongoRepositoryManager, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(database)
	return &MongoRepositoryManager{
		client: client,
		users:  users.NewMongoRepository(db),
		tasks:  tasks.NewMongoRepository(db),
	}, nil
}

// RunMigrations creates the collection indexes; the unique email index is
// what rejects duplicate registrations.
func (m *MongoRepositoryManager) RunMigrations(ctx context.Context) error {
	if err := m.users.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}
	if err := m.tasks.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("tasks indexes: %w", err)
	}
	return nil
}

func (m *MongoRepositoryManager) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *MongoRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *MongoRepositoryManager) Tasks() tasks.Repository {
	return m.tasks
}

func (m *MongoRepositoryManager) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
