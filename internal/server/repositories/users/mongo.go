package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// CollectionName is the MongoDB collection holding user documents.
const CollectionName = "users"

type userDocument struct {
	ID                string     `bson:"_id"`
	UserName          string     `bson:"username"`
	Email             string     `bson:"email"`
	PasswordHash      string     `bson:"password_hash"`
	Role              string     `bson:"role"`
	ResetToken        string     `bson:"reset_token,omitempty"`
	ResetTokenExpires *time.Time `bson:"reset_token_expires,omitempty"`
	CreatedAt         time.Time  `bson:"created_at"`
}

func toDocument(u *models.User) userDocument {
	d := userDocument{
		ID:           u.ID,
		UserName:     u.UserName,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		ResetToken:   u.ResetToken,
		CreatedAt:    u.CreatedAt,
	}
	if !u.ResetTokenExpires.IsZero() {
		t := u.ResetTokenExpires
		d.ResetTokenExpires = &t
	}
	return d
}

func (d userDocument) toModel() *models.User {
	u := &models.User{
		ID:           d.ID,
		UserName:     d.UserName,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         d.Role,
		ResetToken:   d.ResetToken,
		CreatedAt:    d.CreatedAt,
	}
	if d.ResetTokenExpires != nil {
		u.ResetTokenExpires = *d.ResetTokenExpires
	}
	return u
}

type MongoRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(CollectionName), now: time.Now}
}

// EnsureIndexes creates the unique email index and the sparse reset_token
// index. It is idempotent.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, userIndexes())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func userIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("users_email_key").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "reset_token", Value: 1}},
			Options: options.Index().SetName("users_reset_token_key").SetUnique(true).SetSparse(true),
		},
	}
}

func (r *MongoRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = r.now().UTC()
	}

	_, err := r.coll.InsertOne(ctx, toDocument(user))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *MongoRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.D) (*models.User, error) {
	var doc userDocument
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return doc.toModel(), nil
}

func (r *MongoRepository) SetResetToken(ctx context.Context, userID, token string, expires time.Time) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "reset_token", Value: token},
		{Key: "reset_token_expires", Value: expires},
	}}}

	res, err := r.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: userID}}, update)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if res.MatchedCount == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// ConsumeResetToken uses FindOneAndUpdate so matching and clearing the token
// happen in one document-level atomic step.
func (r *MongoRepository) ConsumeResetToken(ctx context.Context, token, passwordHash string, now time.Time) (*models.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc userDocument
	err := r.coll.FindOneAndUpdate(ctx, consumeFilter(token, now), consumeUpdate(passwordHash), opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return doc.toModel(), nil
}

func consumeFilter(token string, now time.Time) bson.D {
	return bson.D{
		{Key: "reset_token", Value: token},
		{Key: "reset_token_expires", Value: bson.D{{Key: "$gt", Value: now}}},
	}
}

func consumeUpdate(passwordHash string) bson.D {
	return bson.D{
		{Key: "$set", Value: bson.D{{Key: "password_hash", Value: passwordHash}}},
		{Key: "$unset", Value: bson.D{
			{Key: "reset_token", Value: ""},
			{Key: "reset_token_expires", Value: ""},
		}},
	}
}
