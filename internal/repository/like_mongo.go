package repository

import (
	"context"
	"errors"

	"github.com/blog-content-api/internal/database"
	"github.com/blog-content-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoLikeRepo is the MongoDB implementation of LikeRepository
type mongoLikeRepo struct {
	coll *mongo.Collection
}

// NewMongoLikeRepo creates a new MongoDB like repository
func NewMongoLikeRepo(m *database.Mongo) LikeRepository {
	return &mongoLikeRepo{coll: m.Likes}
}

// Find returns the user's like on the target, or nil
func (r *mongoLikeRepo) Find(ctx context.Context, target models.LikeTarget, userID string) (*models.Like, error) {
	filter := likeTargetBSON(target)
	filter["userId"] = userID

	var like models.Like
	err := r.coll.FindOne(ctx, filter).Decode(&like)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &like, nil
}

// Create inserts a like
func (r *mongoLikeRepo) Create(ctx context.Context, like *models.Like) error {
	_, err := r.coll.InsertOne(ctx, like)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

// Delete removes a like by ID
func (r *mongoLikeRepo) Delete(ctx context.Context, id string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// Count returns the number of likes on the target
func (r *mongoLikeRepo) Count(ctx context.Context, target models.LikeTarget) (int, error) {
	n, err := r.coll.CountDocuments(ctx, likeTargetBSON(target))
	return int(n), err
}

// List returns the newest likes on the target
func (r *mongoLikeRepo) List(ctx context.Context, target models.LikeTarget, limit int) ([]*models.Like, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, likeTargetBSON(target), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	likes := make([]*models.Like, 0)
	if err := cur.All(ctx, &likes); err != nil {
		return nil, err
	}
	return likes, nil
}
