package repository

import (
	"context"
	"errors"
	"time"

	"github.com/blog-content-api/internal/database"
	"github.com/blog-content-api/internal/models"
	"github.com/blog-content-api/internal/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoCommentRepo is the MongoDB implementation of CommentRepository
type mongoCommentRepo struct {
	coll *mongo.Collection
}

// NewMongoCommentRepo creates a new MongoDB comment repository
func NewMongoCommentRepo(m *database.Mongo) CommentRepository {
	return &mongoCommentRepo{coll: m.Comments}
}

func (r *mongoCommentRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.Comment, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	comments := make([]*models.Comment, 0)
	if err := cur.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// Create inserts a new comment
func (r *mongoCommentRepo) Create(ctx context.Context, comment *models.Comment) error {
	comment.UpdatedAt = time.Now()
	_, err := r.coll.InsertOne(ctx, comment)
	return err
}

// GetByID retrieves a comment by ID
func (r *mongoCommentRepo) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&comment)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func topLevelBSON(articleID string) bson.M {
	// a nil parentId matches both null and missing fields
	return bson.M{"articleId": articleID, "parentId": nil, "isApproved": true}
}

// ListTopLevel returns approved comments without a parent, newest first
func (r *mongoCommentRepo) ListTopLevel(ctx context.Context, articleID string, page query.Page) ([]*models.Comment, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(page.Offset())).
		SetLimit(int64(page.Limit))
	return r.find(ctx, topLevelBSON(articleID), opts)
}

// CountTopLevel counts approved top-level comments of an article
func (r *mongoCommentRepo) CountTopLevel(ctx context.Context, articleID string) (int, error) {
	n, err := r.coll.CountDocuments(ctx, topLevelBSON(articleID))
	return int(n), err
}

// ListReplies returns approved direct replies to a comment, oldest first
func (r *mongoCommentRepo) ListReplies(ctx context.Context, parentID string, page query.Page) ([]*models.Comment, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(page.Offset())).
		SetLimit(int64(page.Limit))
	return r.find(ctx, bson.M{"parentId": parentID, "isApproved": true}, opts)
}

// CountReplies counts approved direct replies to a comment
func (r *mongoCommentRepo) CountReplies(ctx context.Context, parentID string) (int, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"parentId": parentID, "isApproved": true})
	return int(n), err
}

// ReplyCounts counts approved direct replies for several comments at once
func (r *mongoCommentRepo) ReplyCounts(ctx context.Context, parentIDs []string) (map[string]int, error) {
	counts := make(map[string]int)
	if len(parentIDs) == 0 {
		return counts, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"parentId": bson.M{"$in": parentIDs}, "isApproved": true}}},
		{{Key: "$group", Value: bson.M{"_id": "$parentId", "count": bson.M{"$sum": 1}}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var row struct {
			ID    string `bson:"_id"`
			Count int    `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		counts[row.ID] = row.Count
	}
	return counts, cur.Err()
}

// ListRecent returns the newest approved comments across all articles
func (r *mongoCommentRepo) ListRecent(ctx context.Context, limit int) ([]*models.Comment, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit))
	return r.find(ctx, bson.M{"isApproved": true}, opts)
}

// SetApproved flips the moderation flag; it reports false if the comment does not exist
func (r *mongoCommentRepo) SetApproved(ctx context.Context, id string, approved bool) (bool, error) {
	res, err := r.coll.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"isApproved": approved, "updatedAt": time.Now()},
	})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// SetLikesCount overwrites the denormalized like counter
func (r *mongoCommentRepo) SetLikesCount(ctx context.Context, id string, count int) error {
	_, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{"likesCount": count}})
	return err
}
