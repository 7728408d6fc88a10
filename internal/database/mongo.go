package database

import (
	"context"
	"fmt"

	"github.com/blog-content-api/internal/config"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo holds the document store client and the blog collections
type Mongo struct {
	Client   *mongo.Client
	Articles *mongo.Collection
	Comments *mongo.Collection
	Likes    *mongo.Collection
	log      zerolog.Logger
}

// NewMongo connects to MongoDB and verifies the connection with a ping
func NewMongo(cfg *config.MongoConfig, log zerolog.Logger) (*Mongo, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(cfg.URI).SetServerAPIOptions(serverAPI)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(cfg.Database)
	m := &Mongo{
		Client:   client,
		Articles: db.Collection("articles"),
		Comments: db.Collection("comments"),
		Likes:    db.Collection("likes"),
		log:      log.With().Str("component", "mongo").Logger(),
	}

	m.log.Info().Str("database", cfg.Database).Msg("MongoDB connection established")
	return m, nil
}

// EnsureIndexes creates the unique, lookup and text indexes the repositories rely on
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	articleIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "isPublished", Value: 1}, {Key: "publishedAt", Value: -1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
		{
			Keys: bson.D{
				{Key: "title", Value: "text"},
				{Key: "content", Value: "text"},
				{Key: "tags", Value: "text"},
			},
			Options: options.Index().
				SetName("article_text").
				SetWeights(bson.D{{Key: "title", Value: 10}, {Key: "tags", Value: 5}, {Key: "content", Value: 1}}),
		},
	}
	if _, err := m.Articles.Indexes().CreateMany(ctx, articleIndexes); err != nil {
		return fmt.Errorf("failed to create article indexes: %w", err)
	}

	commentIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "articleId", Value: 1}, {Key: "parentId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}
	if _, err := m.Comments.Indexes().CreateMany(ctx, commentIndexes); err != nil {
		return fmt.Errorf("failed to create comment indexes: %w", err)
	}

	likeIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "articleId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("user_article_like").
				SetPartialFilterExpression(bson.M{"articleId": bson.M{"$exists": true}}),
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "commentId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("user_comment_like").
				SetPartialFilterExpression(bson.M{"commentId": bson.M{"$exists": true}}),
		},
		{Keys: bson.D{{Key: "articleId", Value: 1}, {Key: "createdAt", Value: -1}}},
	}
	if _, err := m.Likes.Indexes().CreateMany(ctx, likeIndexes); err != nil {
		return fmt.Errorf("failed to create like indexes: %w", err)
	}

	m.log.Info().Msg("MongoDB indexes ensured")
	return nil
}

// HealthCheck verifies the client can reach the primary
func (m *Mongo) HealthCheck(ctx context.Context) error {
	return m.Client.Ping(ctx, nil)
}

// Close disconnects the client
func (m *Mongo) Close(ctx context.Context) error {
	m.log.Info().Msg("Closing MongoDB connection")
	return m.Client.Disconnect(ctx)
}
