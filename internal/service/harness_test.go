package service_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/blog-content-api/internal/config"
	"github.com/blog-content-api/internal/mocks"
	"github.com/blog-content-api/internal/models"
	"github.com/blog-content-api/internal/service"
	"github.com/rs/zerolog"
)

type testHarness struct {
	services    *service.Services
	cfg         *config.Config
	articleRepo *mocks.MockArticleRepository
	commentRepo *mocks.MockCommentRepository
	likeRepo    *mocks.MockLikeRepository
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Env: config.EnvProduction,
		Upload: config.UploadConfig{
			Dir:           t.TempDir(),
			MaxUploadSize: 1024 * 1024,
			PublicPrefix:  "/uploads/images",
		},
		Blog: config.BlogConfig{
			DefaultPageSize:     10,
			MaxPageSize:         100,
			PopularDefaultLimit: 5,
			MinSearchLength:     2,
			MaxCommentDepth:     2,
			SeedBatchSize:       2,
		},
	}
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	repos, articles, comments, likes := mocks.NewMockRepositories()
	cfg := testConfig(t)

	return &testHarness{
		services:    service.NewServices(repos, cfg, zerolog.Nop()),
		cfg:         cfg,
		articleRepo: articles,
		commentRepo: comments,
		likeRepo:    likes,
	}
}

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// newArticle builds a published article; offset orders publication dates
func newArticle(slug string, offset int, tags ...string) *models.Article {
	published := baseTime.Add(time.Duration(offset) * time.Hour)
	return &models.Article{
		ID:          "id-" + slug,
		Title:       "Title " + slug,
		Slug:        slug,
		Content:     "Content for " + slug,
		Excerpt:     "Excerpt " + slug,
		Author:      "Ana Torres",
		Tags:        tags,
		IsPublished: true,
		PublishedAt: &published,
		CreatedAt:   published,
		UpdatedAt:   published,
		ReadingTime: 1,
	}
}

func seedArticles(h *testHarness, n int) {
	for i := 0; i < n; i++ {
		h.articleRepo.Add(newArticle(fmt.Sprintf("article-%02d", i), i, "go"))
	}
}
