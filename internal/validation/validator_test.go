package validation

import (
	"strings"
	"testing"

	"github.com/blog-content-api/internal/models"
)

func boolPtr(b bool) *bool { return &b }

func hasField(errors []ValidationError, field string) bool {
	for _, err := range errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

func TestValidateArticle(t *testing.T) {
	validator := NewValidator()

	tests := []struct {
		name       string
		article    *models.ArticleNDJSON
		wantErrors int
		wantFields []string
	}{
		{
			name: "valid published article",
			article: &models.ArticleNDJSON{
				ID:          "550e8400-e29b-41d4-a716-446655440000",
				Slug:        "my-first-article",
				Title:       "My First Article",
				Content:     "This is the body content",
				Author:      "Ana Torres",
				Tags:        []string{"tech", "go"},
				IsPublished: boolPtr(true),
				PublishedAt: "2024-01-01T00:00:00Z",
			},
			wantErrors: 0,
		},
		{
			name: "valid article without id",
			article: &models.ArticleNDJSON{
				Slug:    "generated-id",
				Title:   "Generated",
				Content: "Body",
				Author:  "Ana",
			},
			wantErrors: 0,
		},
		{
			name: "invalid slug - not kebab-case",
			article: &models.ArticleNDJSON{
				Slug:    "My_First_Article",
				Title:   "My First Article",
				Content: "This is the body",
				Author:  "Ana",
			},
			wantErrors: 1,
			wantFields: []string{"slug"},
		},
		{
			name: "draft with publishedAt - logical error",
			article: &models.ArticleNDJSON{
				Slug:        "my-draft",
				Title:       "Draft",
				Content:     "This is the body",
				Author:      "Ana",
				IsPublished: boolPtr(false),
				PublishedAt: "2024-01-01T00:00:00Z",
			},
			wantErrors: 1,
			wantFields: []string{"publishedAt"},
		},
		{
			name: "invalid date and negative counters",
			article: &models.ArticleNDJSON{
				Slug:        "bad-counters",
				Title:       "Counters",
				Content:     "Body",
				Author:      "Ana",
				PublishedAt: "01/01/2024",
				LikesCount:  -1,
				ViewsCount:  -3,
			},
			wantErrors: 3,
			wantFields: []string{"publishedAt", "likesCount", "viewsCount"},
		},
		{
			name: "invalid id",
			article: &models.ArticleNDJSON{
				ID:      "not-a-uuid",
				Slug:    "bad-id",
				Title:   "Bad",
				Content: "Body",
				Author:  "Ana",
			},
			wantErrors: 1,
			wantFields: []string{"id"},
		},
		{
			name:       "missing required fields",
			article:    &models.ArticleNDJSON{Title: "   "},
			wantErrors: 4, // slug, title, content, author
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errors := validator.ValidateArticle(tt.article, 1)
			if len(errors) != tt.wantErrors {
				t.Errorf("ValidateArticle() got %d errors, want %d. Errors: %v", len(errors), tt.wantErrors, errors)
			}
			for _, wantField := range tt.wantFields {
				if !hasField(errors, wantField) {
					t.Errorf("Expected error for field '%s' but not found", wantField)
				}
			}
		})
	}
}

func TestValidateComment(t *testing.T) {
	validator := NewValidator()

	tests := []struct {
		name       string
		author     string
		email      string
		content    string
		wantFields []string
	}{
		{
			name:    "valid comment",
			author:  "Luis",
			email:   "luis@example.com",
			content: "Great article!",
		},
		{
			name:       "missing everything",
			wantFields: []string{"author", "email", "content"},
		},
		{
			name:       "invalid email",
			author:     "Luis",
			email:      "luis-at-example",
			content:    "Hi",
			wantFields: []string{"email"},
		},
		{
			name:       "author too long",
			author:     strings.Repeat("a", models.MaxCommentAuthorLength+1),
			email:      "luis@example.com",
			content:    "Hi",
			wantFields: []string{"author"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errors := validator.ValidateComment(tt.author, tt.email, tt.content)
			if len(errors) != len(tt.wantFields) {
				t.Errorf("ValidateComment() got %d errors, want %d. Errors: %v", len(errors), len(tt.wantFields), errors)
			}
			for _, wantField := range tt.wantFields {
				if !hasField(errors, wantField) {
					t.Errorf("Expected error for field '%s' but not found", wantField)
				}
			}
		})
	}
}

func TestDuplicateSlugDetection(t *testing.T) {
	validator := NewValidator()

	article1 := &models.ArticleNDJSON{
		ID:      "550e8400-e29b-41d4-a716-446655440000",
		Slug:    "duplicate-slug",
		Title:   "Article One",
		Content: "Body content",
		Author:  "Ana",
	}

	// First article should be valid
	errors := validator.ValidateArticle(article1, 1)
	if len(errors) != 0 {
		t.Errorf("First article should be valid, got %d errors: %v", len(errors), errors)
	}

	validator.AddArticleSlug(article1.Slug)
	validator.AddArticleID(article1.ID)

	// Second article with same slug should fail
	article2 := &models.ArticleNDJSON{
		ID:      "550e8400-e29b-41d4-a716-446655440002",
		Slug:    "duplicate-slug",
		Title:   "Article Two",
		Content: "Other body",
		Author:  "Ana",
	}

	errors = validator.ValidateArticle(article2, 2)
	if len(errors) != 1 {
		t.Errorf("Second article should have 1 error, got %d: %v", len(errors), errors)
	}
	if len(errors) > 0 && errors[0].Message != "duplicate slug" {
		t.Errorf("Expected 'duplicate slug' error, got '%s'", errors[0].Message)
	}

	// Same id, different slug
	article3 := &models.ArticleNDJSON{
		ID:      article1.ID,
		Slug:    "other-slug",
		Title:   "Article Three",
		Content: "Body",
		Author:  "Ana",
	}
	errors = validator.ValidateArticle(article3, 3)
	if !hasField(errors, "id") {
		t.Errorf("Expected duplicate id error, got %v", errors)
	}
}

func TestKebabCaseValidation(t *testing.T) {
	tests := []struct {
		slug  string
		valid bool
	}{
		{"valid-slug", true},
		{"another-valid-slug", true},
		{"a", true},
		{"a-b-c", true},
		{"Invalid-Slug", false},
		{"invalid_slug", false},
		{"invalid slug", false},
		{"123-numbers", true},
		{"slug-123", true},
		{"-starts-with-dash", false},
		{"ends-with-dash-", false},
		{"double--dash", false},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			if got := IsValidSlug(tt.slug); got != tt.valid {
				t.Errorf("IsValidSlug(%q) = %v, want %v", tt.slug, got, tt.valid)
			}
		})
	}
}

func TestCommentContentWordBoundary(t *testing.T) {
	validator := NewValidator()

	// Exactly 500 words - should pass
	words500 := strings.TrimSpace(strings.Repeat("word ", 500))
	errors := validator.ValidateComment("Luis", "luis@example.com", words500)
	if hasField(errors, "content") {
		t.Errorf("500 words should be valid, got %v", errors)
	}

	// 501 words - should fail
	words501 := strings.TrimSpace(strings.Repeat("word ", 501))
	errors = validator.ValidateComment("Luis", "luis@example.com", words501)
	if !hasField(errors, "content") {
		t.Error("501 words should fail validation, but no content error was returned")
	}
}

func TestSummarize(t *testing.T) {
	got := Summarize([]ValidationError{
		{Field: "author", Message: "author is required"},
		{Field: "email", Message: "email is required"},
	})
	if got != "author is required; email is required" {
		t.Errorf("Unexpected summary: %q", got)
	}
}
