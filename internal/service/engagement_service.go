package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/blog-content-api/internal/config"
	"github.com/blog-content-api/internal/metrics"
	"github.com/blog-content-api/internal/models"
	"github.com/blog-content-api/internal/query"
	"github.com/blog-content-api/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// engagementService is the concrete implementation of EngagementService.
// Like counters are recomputed from the like records after every toggle.
type engagementService struct {
	repos *repository.Repositories
	cfg   *config.BlogConfig
	log   zerolog.Logger
}

func newEngagementService(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *engagementService {
	return &engagementService{
		repos: repos,
		cfg:   &cfg.Blog,
		log:   log.With().Str("service", "engagement").Logger(),
	}
}

func (s *engagementService) storeError(op string, err error) error {
	metrics.RecordError(op)
	s.log.Error().Err(err).Str("operation", op).Msg("Store operation failed")
	return NewDatabaseError("failed to "+op, err)
}

// toggle flips the user's like on target and returns the new state
func (s *engagementService) toggle(ctx context.Context, target models.LikeTarget, userID string) (bool, error) {
	existing, err := s.repos.Like.Find(ctx, target, userID)
	if err != nil {
		return false, s.storeError("find like", err)
	}

	if existing != nil {
		if err := s.repos.Like.Delete(ctx, existing.ID); err != nil {
			return false, s.storeError("delete like", err)
		}
		return false, nil
	}

	like := models.NewLike(uuid.New().String(), userID, target, time.Now().UTC())
	if err := s.repos.Like.Create(ctx, like); err != nil {
		// a concurrent toggle created it first; the user likes the target either way
		if errors.Is(err, repository.ErrDuplicate) {
			return true, nil
		}
		return false, s.storeError("create like", err)
	}
	return true, nil
}

func toggleResult(liked bool, count int) *models.ToggleResult {
	action := models.LikeActionUnliked
	if liked {
		action = models.LikeActionLiked
	}
	return &models.ToggleResult{Liked: liked, LikesCount: count, Action: action}
}

// ToggleArticleLike flips the user's like on a published article
func (s *engagementService) ToggleArticleLike(ctx context.Context, slug, userID string) (*models.ToggleResult, error) {
	if userID == "" {
		return nil, NewAppError(ErrUnauthorized, "Authentication required", nil)
	}

	article, err := s.repos.Article.GetBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)), true)
	if err != nil {
		return nil, s.storeError("get article", err)
	}
	if article == nil {
		return nil, NewNotFoundError("Article not found")
	}

	target := models.ArticleTarget(article.ID)
	liked, err := s.toggle(ctx, target, userID)
	if err != nil {
		return nil, err
	}

	count, err := s.repos.Like.Count(ctx, target)
	if err != nil {
		return nil, s.storeError("count likes", err)
	}
	if err := s.repos.Article.SetLikesCount(ctx, article.ID, count); err != nil {
		return nil, s.storeError("update likes count", err)
	}

	result := toggleResult(liked, count)
	metrics.RecordLikeToggle(string(models.LikeKindArticle), result.Action)
	s.log.Debug().
		Str("article_id", article.ID).
		Str("user_id", userID).
		Str("action", result.Action).
		Int("likes_count", count).
		Msg("Article like toggled")

	return result, nil
}

// ToggleCommentLike flips the user's like on an approved comment
func (s *engagementService) ToggleCommentLike(ctx context.Context, commentID, userID string) (*models.ToggleResult, error) {
	if userID == "" {
		return nil, NewAppError(ErrUnauthorized, "Authentication required", nil)
	}

	comment, err := s.repos.Comment.GetByID(ctx, commentID)
	if err != nil {
		return nil, s.storeError("get comment", err)
	}
	if comment == nil || !comment.IsApproved {
		return nil, NewNotFoundError("Comment not found")
	}

	target := models.CommentTarget(comment.ID)
	liked, err := s.toggle(ctx, target, userID)
	if err != nil {
		return nil, err
	}

	count, err := s.repos.Like.Count(ctx, target)
	if err != nil {
		return nil, s.storeError("count likes", err)
	}
	if err := s.repos.Comment.SetLikesCount(ctx, comment.ID, count); err != nil {
		return nil, s.storeError("update likes count", err)
	}

	result := toggleResult(liked, count)
	metrics.RecordLikeToggle(string(models.LikeKindComment), result.Action)
	return result, nil
}

// ArticleLikes returns the most recent likes of a published article
func (s *engagementService) ArticleLikes(ctx context.Context, slug, limit string) (*ArticleLikes, error) {
	n, err := query.ParseLimit(limit, s.cfg.DefaultPageSize, s.cfg.MaxPageSize)
	if err != nil {
		return nil, paramError(err)
	}

	article, err := s.repos.Article.GetBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)), true)
	if err != nil {
		return nil, s.storeError("get article", err)
	}
	if article == nil {
		return nil, NewNotFoundError("Article not found")
	}

	target := models.ArticleTarget(article.ID)
	likes, err := s.repos.Like.List(ctx, target, n)
	if err != nil {
		return nil, s.storeError("list likes", err)
	}
	total, err := s.repos.Like.Count(ctx, target)
	if err != nil {
		return nil, s.storeError("count likes", err)
	}

	return &ArticleLikes{Likes: likes, TotalLikes: total}, nil
}
