package service

import (
	"context"
	"strings"

	"github.com/blog-content-api/internal/config"
	"github.com/blog-content-api/internal/metrics"
	"github.com/blog-content-api/internal/models"
	"github.com/blog-content-api/internal/query"
	"github.com/blog-content-api/internal/repository"
	"github.com/rs/zerolog"
)

// articleService is the concrete implementation of ArticleService
type articleService struct {
	repos *repository.Repositories
	cfg   *config.BlogConfig
	log   zerolog.Logger
}

func newArticleService(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *articleService {
	return &articleService{
		repos: repos,
		cfg:   &cfg.Blog,
		log:   log.With().Str("service", "article").Logger(),
	}
}

func (s *articleService) storeError(op string, err error) error {
	metrics.RecordError(op)
	s.log.Error().Err(err).Str("operation", op).Msg("Store operation failed")
	return NewDatabaseError("failed to "+op, err)
}

func (s *articleService) parsePage(params ListParams) (query.Page, error) {
	page, err := query.ParsePage(params.Page, params.Limit, s.cfg.DefaultPageSize, s.cfg.MaxPageSize)
	return page, paramError(err)
}

// listPage runs the count and page queries for a filter
func (s *articleService) listPage(ctx context.Context, filter query.ArticleFilter, sort query.Sort, page query.Page) (*ArticlePage, error) {
	total, err := s.repos.Article.Count(ctx, filter)
	if err != nil {
		return nil, s.storeError("count articles", err)
	}

	articles, err := s.repos.Article.List(ctx, filter, sort, page)
	if err != nil {
		return nil, s.storeError("list articles", err)
	}

	return &ArticlePage{
		Articles:   models.Summaries(articles),
		Pagination: page.Info(total),
	}, nil
}

// List returns a filtered, sorted page of published articles
func (s *articleService) List(ctx context.Context, params ListParams) (*ArticlePage, error) {
	sort, err := query.ResolveSort(params.SortBy, params.SortOrder)
	if err != nil {
		return nil, paramError(err)
	}
	page, err := s.parsePage(params)
	if err != nil {
		return nil, err
	}

	filter := query.NewArticleFilter(params.Search, params.Tag, params.Author)
	return s.listPage(ctx, filter, sort, page)
}

// GetBySlug returns a published article and records a view.
// viewerID may be empty; when set, the result reports whether that user liked the article.
func (s *articleService) GetBySlug(ctx context.Context, slug, viewerID string) (*ArticleDetail, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))

	article, err := s.repos.Article.GetBySlug(ctx, slug, true)
	if err != nil {
		return nil, s.storeError("get article", err)
	}
	if article == nil {
		return nil, NewNotFoundError("Article not found")
	}

	// the stored counter is incremented atomically; the returned copy mirrors it
	if err := s.repos.Article.IncrementViews(ctx, article.ID); err != nil {
		metrics.RecordError("increment views")
		s.log.Warn().Err(err).Str("slug", slug).Msg("Failed to increment view count")
	} else {
		article.ViewsCount++
		metrics.RecordView()
	}

	detail := &ArticleDetail{Article: article}

	html, err := renderMarkdown(article.Content)
	if err != nil {
		s.log.Warn().Err(err).Str("slug", slug).Msg("Failed to render article markdown")
	} else {
		detail.ContentHTML = html
	}

	if viewerID != "" {
		like, err := s.repos.Like.Find(ctx, models.ArticleTarget(article.ID), viewerID)
		if err != nil {
			return nil, s.storeError("find like", err)
		}
		liked := like != nil
		detail.UserLiked = &liked
	}

	return detail, nil
}

// Search runs a full-text query over published articles
func (s *articleService) Search(ctx context.Context, term string, params ListParams) (*ArticlePage, error) {
	search, err := query.NewTextSearch(term, s.cfg.MinSearchLength)
	if err != nil {
		return nil, paramError(err)
	}
	sort, err := query.ResolveSearchSort(params.SortBy, params.SortOrder)
	if err != nil {
		return nil, paramError(err)
	}
	page, err := s.parsePage(params)
	if err != nil {
		return nil, err
	}

	total, err := s.repos.Article.CountSearch(ctx, search)
	if err != nil {
		return nil, s.storeError("count search results", err)
	}

	articles, err := s.repos.Article.Search(ctx, search, sort, page)
	if err != nil {
		return nil, s.storeError("search articles", err)
	}

	s.log.Debug().Str("term", search.Term).Int("total", total).Msg("Search executed")

	return &ArticlePage{
		Articles:   models.Summaries(articles),
		Pagination: page.Info(total),
	}, nil
}

// ByTag lists published articles carrying the tag, matched case-insensitively
func (s *articleService) ByTag(ctx context.Context, tag string, params ListParams) (*ArticlePage, error) {
	tag = query.NormalizeTag(tag)
	if tag == "" {
		return nil, NewValidationError("tag is required")
	}

	sort, err := query.ResolveSort(params.SortBy, params.SortOrder)
	if err != nil {
		return nil, paramError(err)
	}
	page, err := s.parsePage(params)
	if err != nil {
		return nil, err
	}

	return s.listPage(ctx, query.TagFilter(tag), sort, page)
}

// Tags returns every distinct tag in use, sorted
func (s *articleService) Tags(ctx context.Context) ([]string, error) {
	tags, err := s.repos.Article.DistinctTags(ctx)
	if err != nil {
		return nil, s.storeError("list tags", err)
	}
	return tags, nil
}

// Popular returns the top published articles by likes, then views, then recency
func (s *articleService) Popular(ctx context.Context, limit string) ([]models.ArticleSummary, error) {
	n, err := query.ParseLimit(limit, s.cfg.PopularDefaultLimit, s.cfg.MaxPageSize)
	if err != nil {
		return nil, paramError(err)
	}

	filter := query.NewArticleFilter("", "", "")
	articles, err := s.repos.Article.List(ctx, filter, query.PopularSort, query.NewPage(1, n, n, s.cfg.MaxPageSize))
	if err != nil {
		return nil, s.storeError("list popular articles", err)
	}
	return models.Summaries(articles), nil
}

// Stats aggregates counters across published articles
func (s *articleService) Stats(ctx context.Context) (*models.BlogStats, error) {
	stats, err := s.repos.Article.Stats(ctx)
	if err != nil {
		return nil, s.storeError("compute stats", err)
	}
	return stats, nil
}

// AttachImage sets the cover image URL of an article
func (s *articleService) AttachImage(ctx context.Context, slug, imageURL string) error {
	slug = strings.ToLower(strings.TrimSpace(slug))
	imageURL = strings.TrimSpace(imageURL)
	if slug == "" || imageURL == "" {
		return NewValidationError("slug and image URL are required")
	}

	found, err := s.repos.Article.SetImageURL(ctx, slug, imageURL)
	if err != nil {
		return s.storeError("set article image", err)
	}
	if !found {
		return NewNotFoundError("Article not found")
	}

	s.log.Info().Str("slug", slug).Str("image_url", imageURL).Msg("Article image attached")
	return nil
}
