package service

import (
	"context"
	"io"
	"mime/multipart"

	"github.com/blog-content-api/internal/config"
	"github.com/blog-content-api/internal/models"
	"github.com/blog-content-api/internal/query"
	"github.com/blog-content-api/internal/repository"
	"github.com/rs/zerolog"
)

// ListParams carries the raw listing parameters of a request
type ListParams struct {
	Search    string
	Tag       string
	Author    string
	SortBy    string
	SortOrder string
	Page      string
	Limit     string
}

// ArticlePage is one page of article summaries
type ArticlePage struct {
	Articles   []models.ArticleSummary
	Pagination query.PageInfo
}

// ArticleDetail is a single article as returned to a reader
type ArticleDetail struct {
	Article     *models.Article
	ContentHTML string
	// UserLiked is nil when the request carries no identity
	UserLiked *bool
}

// ArticleLikes lists the most recent likes of an article
type ArticleLikes struct {
	Likes      []*models.Like
	TotalLikes int
}

// CommentInput is a comment submission
type CommentInput struct {
	Author   string
	Email    string
	Content  string
	ParentID string
}

// CommentPage is one page of top-level comments
type CommentPage struct {
	Comments   []models.CommentWithReplies
	Pagination query.PageInfo
}

// ReplyPage is one page of replies to a comment
type ReplyPage struct {
	Parent     *models.Comment
	Replies    []*models.Comment
	Pagination query.PageInfo
}

// UploadedImage describes a stored image
type UploadedImage struct {
	ImageURL     string `json:"imageUrl"`
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mimetype"`
}

// ArticleService defines the read operations on articles
type ArticleService interface {
	List(ctx context.Context, params ListParams) (*ArticlePage, error)
	GetBySlug(ctx context.Context, slug, viewerID string) (*ArticleDetail, error)
	Search(ctx context.Context, term string, params ListParams) (*ArticlePage, error)
	ByTag(ctx context.Context, tag string, params ListParams) (*ArticlePage, error)
	Tags(ctx context.Context) ([]string, error)
	Popular(ctx context.Context, limit string) ([]models.ArticleSummary, error)
	Stats(ctx context.Context) (*models.BlogStats, error)
	AttachImage(ctx context.Context, slug, imageURL string) error
}

// EngagementService defines the like operations
type EngagementService interface {
	ToggleArticleLike(ctx context.Context, slug, userID string) (*models.ToggleResult, error)
	ToggleCommentLike(ctx context.Context, commentID, userID string) (*models.ToggleResult, error)
	ArticleLikes(ctx context.Context, slug, limit string) (*ArticleLikes, error)
}

// CommentService defines the comment operations
type CommentService interface {
	Add(ctx context.Context, slug string, input CommentInput) (*models.Comment, error)
	ForArticle(ctx context.Context, slug, page, limit string) (*CommentPage, error)
	Replies(ctx context.Context, commentID, page, limit string) (*ReplyPage, error)
	Recent(ctx context.Context, limit string) ([]models.RecentComment, error)
	Moderate(ctx context.Context, commentID string, approve bool) (*models.Comment, error)
}

// UploadService defines image storage
type UploadService interface {
	SaveImage(ctx context.Context, file *multipart.FileHeader) (*UploadedImage, error)
	StoreImage(ctx context.Context, originalName string, src io.ReadSeeker) (*UploadedImage, error)
}

// SeedService defines bulk loading of articles
type SeedService interface {
	ImportArticles(ctx context.Context, r io.Reader) (*SeedReport, error)
}

// Services holds all service interfaces
type Services struct {
	Article    ArticleService
	Engagement EngagementService
	Comment    CommentService
	Upload     UploadService
	Seed       SeedService
	Health     repository.HealthChecker
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *Services {
	return &Services{
		Article:    newArticleService(repos, cfg, log),
		Engagement: newEngagementService(repos, cfg, log),
		Comment:    newCommentService(repos, cfg, log),
		Upload:     newUploadService(cfg, log),
		Seed:       newSeedService(repos, cfg, log),
		Health:     repos.Health,
	}
}

// paramError converts query parsing failures into validation errors
func paramError(err error) error {
	if err == nil {
		return nil
	}
	return NewAppError(ErrInvalidInput, err.Error(), nil)
}
