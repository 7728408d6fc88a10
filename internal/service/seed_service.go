package service

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/blog-content-api/internal/config"
	"github.com/blog-content-api/internal/models"
	"github.com/blog-content-api/internal/query"
	"github.com/blog-content-api/internal/repository"
	"github.com/blog-content-api/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	wordsPerMinute   = 200
	excerptMaxLength = 200
	// maxReportedErrors bounds the error list kept in a SeedReport
	maxReportedErrors = 1000
)

// SeedError is a rejected line of a seed file
type SeedError struct {
	Line    int         `json:"line"`
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// SeedReport summarizes an import run
type SeedReport struct {
	Total      int         `json:"total"`
	Inserted   int         `json:"inserted"`
	Failed     int         `json:"failed"`
	Errors     []SeedError `json:"errors,omitempty"`
	DurationMs int64       `json:"durationMs"`
}

func (r *SeedReport) addError(e SeedError) {
	if len(r.Errors) < maxReportedErrors {
		r.Errors = append(r.Errors, e)
	}
}

// seedService is the concrete implementation of SeedService
type seedService struct {
	repos *repository.Repositories
	cfg   *config.BlogConfig
	log   zerolog.Logger
}

func newSeedService(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *seedService {
	return &seedService{
		repos: repos,
		cfg:   &cfg.Blog,
		log:   log.With().Str("service", "seed").Logger(),
	}
}

// ImportArticles reads NDJSON article records, validates them and inserts them in batches
func (s *seedService) ImportArticles(ctx context.Context, r io.Reader) (*SeedReport, error) {
	startTime := time.Now()
	report := &SeedReport{}

	scanner := bufio.NewScanner(r)
	// Increase buffer size for long lines
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	validator := validation.NewValidator()
	batchSize := s.cfg.SeedBatchSize
	var batch []*models.Article
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		if strings.TrimSpace(line) == "" {
			continue
		}

		report.Total++

		if lineNum%1000 == 0 {
			select {
			case <-ctx.Done():
				return report, ctx.Err()
			default:
			}
		}

		var record models.ArticleNDJSON
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			report.Failed++
			report.addError(SeedError{Line: lineNum, Field: "json", Message: fmt.Sprintf("invalid JSON: %v", err)})
			continue
		}

		errs := validator.ValidateArticle(&record, lineNum)
		if len(errs) == 0 {
			exists, err := s.repos.Article.SlugExists(ctx, record.Slug)
			if err != nil {
				return report, NewDatabaseError("failed to check slug", err)
			}
			if exists {
				errs = append(errs, validation.ValidationError{Field: "slug", Message: "slug already exists", Value: record.Slug})
			}
		}
		if len(errs) > 0 {
			report.Failed++
			for _, e := range errs {
				report.addError(SeedError{Line: lineNum, Field: e.Field, Message: e.Message, Value: e.Value})
			}
			continue
		}

		article := convertNDJSONToArticle(&record, time.Now().UTC())
		batch = append(batch, article)
		validator.AddArticleSlug(article.Slug)
		validator.AddArticleID(article.ID)

		if len(batch) >= batchSize {
			s.flush(ctx, batch, report)
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		s.flush(ctx, batch, report)
	}

	report.DurationMs = time.Since(startTime).Milliseconds()
	s.log.Info().
		Int("total", report.Total).
		Int("inserted", report.Inserted).
		Int("failed", report.Failed).
		Int64("duration_ms", report.DurationMs).
		Msg("Article import completed")

	return report, scanner.Err()
}

func (s *seedService) flush(ctx context.Context, batch []*models.Article, report *SeedReport) {
	inserted, err := s.repos.Article.BatchInsert(ctx, batch)
	if err != nil {
		level := s.log.Error()
		if errors.Is(err, repository.ErrDuplicate) {
			level = s.log.Warn()
		}
		level.Err(err).Int("batch_size", len(batch)).Msg("Batch insert failed")
		report.Failed += len(batch) - inserted
		report.Inserted += inserted
		return
	}
	report.Inserted += inserted
	report.Failed += len(batch) - inserted
	s.log.Debug().Int("inserted", report.Inserted).Msg("Batch processed")
}

// convertNDJSONToArticle fills in derived fields: id, excerpt, reading time and publication date
func convertNDJSONToArticle(rec *models.ArticleNDJSON, now time.Time) *models.Article {
	article := &models.Article{
		ID:          rec.ID,
		Title:       strings.TrimSpace(rec.Title),
		Slug:        rec.Slug,
		Content:     rec.Content,
		Excerpt:     strings.TrimSpace(rec.Excerpt),
		Author:      strings.TrimSpace(rec.Author),
		Tags:        query.NormalizeTags(rec.Tags),
		ImageURL:    strings.TrimSpace(rec.ImageURL),
		IsPublished: rec.IsPublished == nil || *rec.IsPublished,
		CreatedAt:   now,
		UpdatedAt:   now,
		LikesCount:  rec.LikesCount,
		ViewsCount:  rec.ViewsCount,
		ReadingTime: readingTime(rec.Content),
	}

	if article.ID == "" {
		article.ID = uuid.New().String()
	}
	if article.Excerpt == "" {
		article.Excerpt = deriveExcerpt(rec.Content)
	}
	if rec.PublishedAt != "" {
		if t, err := time.Parse(time.RFC3339, rec.PublishedAt); err == nil {
			t = t.UTC()
			article.PublishedAt = &t
		}
	}
	if article.IsPublished && article.PublishedAt == nil {
		article.PublishedAt = &now
	}
	return article
}

// readingTime estimates whole minutes at a fixed reading speed, at least one
func readingTime(content string) int {
	words := len(strings.Fields(content))
	minutes := int(math.Ceil(float64(words) / wordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// deriveExcerpt collapses whitespace and cuts the content at a word boundary
func deriveExcerpt(content string) string {
	text := strings.Join(strings.Fields(content), " ")
	runes := []rune(text)
	if len(runes) <= excerptMaxLength {
		return text
	}
	cut := string(runes[:excerptMaxLength])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + "..."
}
