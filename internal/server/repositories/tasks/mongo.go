package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const CollectionName = "tasks"

type taskDocument struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Completed bool      `bson:"completed"`
	UserID    string    `bson:"user_id"`
	CreatedAt time.Time `bson:"created_at"`
}

func (d taskDocument) toModel() *models.Task {
	return &models.Task{ID: d.ID, Name: d.Name, Completed: d.Completed, UserID: d.UserID, CreatedAt: d.CreatedAt}
}

type MongoRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(CollectionName), now: time.Now}
}

// EnsureIndexes creates the owner index used by every per-user query.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    ownerSort(),
		Options: options.Index().SetName("tasks_user_id_idx"),
	})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func ownerSort() bson.D {
	return bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: 1}}
}

func (r *MongoRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = r.now().UTC()
	}

	doc := taskDocument{ID: task.ID, Name: task.Name, Completed: task.Completed, UserID: task.UserID, CreatedAt: task.CreatedAt}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return task, nil
}

func (r *MongoRepository) ListByUser(ctx context.Context, userID string) ([]*models.Task, error) {
	return r.find(ctx, bson.D{{Key: "user_id", Value: userID}})
}

func (r *MongoRepository) ListAll(ctx context.Context) ([]*models.Task, error) {
	return r.find(ctx, bson.D{})
}

func (r *MongoRepository) find(ctx context.Context, filter bson.D) ([]*models.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to select tasks: %w", err)
	}

	var docs []taskDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	result := make([]*models.Task, 0, len(docs))
	for _, d := range docs {
		result = append(result, d.toModel())
	}
	return result, nil
}

func (r *MongoRepository) DeleteOwned(ctx context.Context, userID, taskID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: taskID}, {Key: "user_id", Value: userID}})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if res.DeletedCount == 0 {
		return common.ErrorNotFound
	}
	return nil
}
