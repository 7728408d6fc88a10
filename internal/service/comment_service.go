package service

import (
	"context"
	"strings"
	"time"

	"github.com/blog-content-api/internal/config"
	"github.com/blog-content-api/internal/metrics"
	"github.com/blog-content-api/internal/models"
	"github.com/blog-content-api/internal/query"
	"github.com/blog-content-api/internal/repository"
	"github.com/blog-content-api/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// commentService is the concrete implementation of CommentService
type commentService struct {
	repos *repository.Repositories
	cfg   *config.BlogConfig
	log   zerolog.Logger
}

func newCommentService(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *commentService {
	return &commentService{
		repos: repos,
		cfg:   &cfg.Blog,
		log:   log.With().Str("service", "comment").Logger(),
	}
}

func (s *commentService) storeError(op string, err error) error {
	metrics.RecordError(op)
	s.log.Error().Err(err).Str("operation", op).Msg("Store operation failed")
	return NewDatabaseError("failed to "+op, err)
}

func (s *commentService) publishedArticle(ctx context.Context, slug string) (*models.Article, error) {
	article, err := s.repos.Article.GetBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)), true)
	if err != nil {
		return nil, s.storeError("get article", err)
	}
	if article == nil {
		return nil, NewNotFoundError("Article not found")
	}
	return article, nil
}

// approvedComment loads a comment, treating pending ones as missing
func (s *commentService) approvedComment(ctx context.Context, id string) (*models.Comment, error) {
	comment, err := s.repos.Comment.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, s.storeError("get comment", err)
	}
	if comment == nil || !comment.IsApproved {
		return nil, nil
	}
	return comment, nil
}

// Add stores a comment on a published article. Replies must target an approved
// comment of the same article and stay within the configured depth.
func (s *commentService) Add(ctx context.Context, slug string, input CommentInput) (*models.Comment, error) {
	article, err := s.publishedArticle(ctx, slug)
	if err != nil {
		return nil, err
	}

	author := strings.TrimSpace(input.Author)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	content := sanitizeComment(input.Content)

	if errs := validation.NewValidator().ValidateComment(author, email, content); len(errs) > 0 {
		return nil, NewValidationError(validation.Summarize(errs))
	}

	now := time.Now().UTC()
	comment := &models.Comment{
		ID:         uuid.New().String(),
		ArticleID:  article.ID,
		Author:     author,
		Email:      email,
		Content:    content,
		IsApproved: !s.cfg.CommentsRequireApproval,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if parentID := strings.TrimSpace(input.ParentID); parentID != "" {
		parent, err := s.approvedComment(ctx, parentID)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.ArticleID != article.ID {
			return nil, NewValidationError("parent comment not found on this article")
		}
		if parent.Depth >= s.cfg.MaxCommentDepth {
			return nil, NewValidationError("maximum reply depth reached")
		}
		comment.ParentID = &parent.ID
		comment.Depth = parent.Depth + 1
	}

	if err := s.repos.Comment.Create(ctx, comment); err != nil {
		return nil, s.storeError("create comment", err)
	}

	metrics.RecordComment(comment.IsApproved)
	s.log.Info().
		Str("comment_id", comment.ID).
		Str("article_id", article.ID).
		Int("depth", comment.Depth).
		Bool("approved", comment.IsApproved).
		Msg("Comment created")

	return comment, nil
}

// ForArticle returns a page of approved top-level comments with their reply counts
func (s *commentService) ForArticle(ctx context.Context, slug, pageStr, limitStr string) (*CommentPage, error) {
	page, err := query.ParsePage(pageStr, limitStr, s.cfg.DefaultPageSize, s.cfg.MaxPageSize)
	if err != nil {
		return nil, paramError(err)
	}

	article, err := s.publishedArticle(ctx, slug)
	if err != nil {
		return nil, err
	}

	total, err := s.repos.Comment.CountTopLevel(ctx, article.ID)
	if err != nil {
		return nil, s.storeError("count comments", err)
	}
	comments, err := s.repos.Comment.ListTopLevel(ctx, article.ID, page)
	if err != nil {
		return nil, s.storeError("list comments", err)
	}

	ids := make([]string, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ID)
	}
	counts, err := s.repos.Comment.ReplyCounts(ctx, ids)
	if err != nil {
		return nil, s.storeError("count replies", err)
	}

	out := make([]models.CommentWithReplies, 0, len(comments))
	for _, c := range comments {
		out = append(out, models.CommentWithReplies{Comment: c, ReplyCount: counts[c.ID]})
	}

	return &CommentPage{Comments: out, Pagination: page.Info(total)}, nil
}

// Replies returns a page of approved direct replies, oldest first
func (s *commentService) Replies(ctx context.Context, commentID, pageStr, limitStr string) (*ReplyPage, error) {
	page, err := query.ParsePage(pageStr, limitStr, s.cfg.DefaultPageSize, s.cfg.MaxPageSize)
	if err != nil {
		return nil, paramError(err)
	}

	parent, err := s.approvedComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, NewNotFoundError("Comment not found")
	}

	total, err := s.repos.Comment.CountReplies(ctx, parent.ID)
	if err != nil {
		return nil, s.storeError("count replies", err)
	}
	replies, err := s.repos.Comment.ListReplies(ctx, parent.ID, page)
	if err != nil {
		return nil, s.storeError("list replies", err)
	}

	return &ReplyPage{Parent: parent, Replies: replies, Pagination: page.Info(total)}, nil
}

// Recent returns the newest approved comments with the article they belong to
func (s *commentService) Recent(ctx context.Context, limitStr string) ([]models.RecentComment, error) {
	limit, err := query.ParseLimit(limitStr, s.cfg.DefaultPageSize, s.cfg.MaxPageSize)
	if err != nil {
		return nil, paramError(err)
	}

	comments, err := s.repos.Comment.ListRecent(ctx, limit)
	if err != nil {
		return nil, s.storeError("list recent comments", err)
	}

	ids := make([]string, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ArticleID)
	}
	articles, err := s.repos.Article.GetByIDs(ctx, ids)
	if err != nil {
		return nil, s.storeError("get articles", err)
	}

	out := make([]models.RecentComment, 0, len(comments))
	for _, c := range comments {
		rc := models.RecentComment{Comment: c}
		if a, ok := articles[c.ArticleID]; ok {
			rc.ArticleSlug = a.Slug
			rc.ArticleTitle = a.Title
		}
		out = append(out, rc)
	}
	return out, nil
}

// Moderate approves or rejects a comment. Replies keep their own flag.
func (s *commentService) Moderate(ctx context.Context, commentID string, approve bool) (*models.Comment, error) {
	commentID = strings.TrimSpace(commentID)

	found, err := s.repos.Comment.SetApproved(ctx, commentID, approve)
	if err != nil {
		return nil, s.storeError("moderate comment", err)
	}
	if !found {
		return nil, NewNotFoundError("Comment not found")
	}

	comment, err := s.repos.Comment.GetByID(ctx, commentID)
	if err != nil {
		return nil, s.storeError("get comment", err)
	}
	if comment == nil {
		return nil, NewNotFoundError("Comment not found")
	}

	s.log.Info().Str("comment_id", commentID).Bool("approved", approve).Msg("Comment moderated")
	return comment, nil
}
