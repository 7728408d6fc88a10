package repository

import (
	"context"
	"errors"

	"github.com/blog-content-api/internal/database"
	"github.com/blog-content-api/internal/models"
	"github.com/blog-content-api/internal/query"
)

// ErrDuplicate is returned when a write violates a uniqueness constraint
var ErrDuplicate = errors.New("duplicate record")

// ArticleRepository defines the interface for article data operations.
// Lookups return (nil, nil) when nothing matches.
type ArticleRepository interface {
	BatchInsert(ctx context.Context, articles []*models.Article) (int, error)
	GetByID(ctx context.Context, id string) (*models.Article, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*models.Article, error)
	GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.Article, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context, filter query.ArticleFilter, sort query.Sort, page query.Page) ([]*models.Article, error)
	Count(ctx context.Context, filter query.ArticleFilter) (int, error)
	Search(ctx context.Context, search query.TextSearch, sort query.Sort, page query.Page) ([]*models.Article, error)
	CountSearch(ctx context.Context, search query.TextSearch) (int, error)
	DistinctTags(ctx context.Context) ([]string, error)
	Stats(ctx context.Context) (*models.BlogStats, error)
	IncrementViews(ctx context.Context, id string) error
	SetLikesCount(ctx context.Context, id string, count int) error
	SetImageURL(ctx context.Context, slug, imageURL string) (bool, error)
}

// CommentRepository defines the interface for comment data operations.
// Listing methods only return approved comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	ListTopLevel(ctx context.Context, articleID string, page query.Page) ([]*models.Comment, error)
	CountTopLevel(ctx context.Context, articleID string) (int, error)
	ListReplies(ctx context.Context, parentID string, page query.Page) ([]*models.Comment, error)
	CountReplies(ctx context.Context, parentID string) (int, error)
	ReplyCounts(ctx context.Context, parentIDs []string) (map[string]int, error)
	ListRecent(ctx context.Context, limit int) ([]*models.Comment, error)
	SetApproved(ctx context.Context, id string, approved bool) (bool, error)
	SetLikesCount(ctx context.Context, id string, count int) error
}

// LikeRepository defines the interface for the like junction records
type LikeRepository interface {
	Find(ctx context.Context, target models.LikeTarget, userID string) (*models.Like, error)
	// Create returns ErrDuplicate if the user already likes the target
	Create(ctx context.Context, like *models.Like) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, target models.LikeTarget) (int, error)
	List(ctx context.Context, target models.LikeTarget, limit int) ([]*models.Like, error)
}

// HealthChecker reports whether the backing store is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Repositories holds all repository interfaces
type Repositories struct {
	Article ArticleRepository
	Comment CommentRepository
	Like    LikeRepository
	Health  HealthChecker
}

// New creates the PostgreSQL-backed repositories
func New(db *database.DB) *Repositories {
	return &Repositories{
		Article: NewArticleRepo(db),
		Comment: NewCommentRepo(db),
		Like:    NewLikeRepo(db),
		Health:  db,
	}
}

// NewMongo creates the MongoDB-backed repositories
func NewMongo(m *database.Mongo) *Repositories {
	return &Repositories{
		Article: NewMongoArticleRepo(m),
		Comment: NewMongoCommentRepo(m),
		Like:    NewMongoLikeRepo(m),
		Health:  m,
	}
}
