package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/blog-content-api/internal/models"
	"github.com/google/uuid"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	slugRegex  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Validator provides validation methods
type Validator struct {
	articleSlugCache map[string]bool
	articleIDCache   map[string]bool
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		articleSlugCache: make(map[string]bool),
		articleIDCache:   make(map[string]bool),
	}
}

// AddArticleSlug adds a slug to the uniqueness cache
func (v *Validator) AddArticleSlug(slug string) {
	v.articleSlugCache[slug] = true
}

// AddArticleID adds an article ID to the uniqueness cache
func (v *Validator) AddArticleID(id string) {
	v.articleIDCache[id] = true
}

// ValidateArticle validates an article record from a seed file
func (v *Validator) ValidateArticle(article *models.ArticleNDJSON, lineNum int) []ValidationError {
	var errors []ValidationError

	// ID is optional; one is generated when absent
	if article.ID != "" {
		if !IsValidUUID(article.ID) {
			errors = append(errors, ValidationError{Field: "id", Message: "invalid UUID format", Value: article.ID})
		} else if v.articleIDCache[article.ID] {
			errors = append(errors, ValidationError{Field: "id", Message: "duplicate id", Value: article.ID})
		}
	}

	// Validate slug
	if article.Slug == "" {
		errors = append(errors, ValidationError{Field: "slug", Message: "slug is required"})
	} else if !IsValidSlug(article.Slug) {
		errors = append(errors, ValidationError{Field: "slug", Message: "slug must be kebab-case (lowercase letters, numbers, hyphens)", Value: article.Slug})
	} else if v.articleSlugCache[article.Slug] {
		errors = append(errors, ValidationError{Field: "slug", Message: "duplicate slug", Value: article.Slug})
	}

	if strings.TrimSpace(article.Title) == "" {
		errors = append(errors, ValidationError{Field: "title", Message: "title is required"})
	}
	if strings.TrimSpace(article.Content) == "" {
		errors = append(errors, ValidationError{Field: "content", Message: "content is required"})
	}
	if strings.TrimSpace(article.Author) == "" {
		errors = append(errors, ValidationError{Field: "author", Message: "author is required"})
	}

	if article.LikesCount < 0 {
		errors = append(errors, ValidationError{Field: "likesCount", Message: "likesCount must not be negative", Value: article.LikesCount})
	}
	if article.ViewsCount < 0 {
		errors = append(errors, ValidationError{Field: "viewsCount", Message: "viewsCount must not be negative", Value: article.ViewsCount})
	}

	// Drafts must not carry a publication date
	if article.IsPublished != nil && !*article.IsPublished && article.PublishedAt != "" {
		errors = append(errors, ValidationError{Field: "publishedAt", Message: "draft articles must not have publishedAt"})
	}

	if article.PublishedAt != "" {
		if _, err := time.Parse(time.RFC3339, article.PublishedAt); err != nil {
			errors = append(errors, ValidationError{Field: "publishedAt", Message: "invalid ISO 8601 date format", Value: article.PublishedAt})
		}
	}

	return errors
}

// ValidateComment validates a comment submission. Content is expected to be sanitized already.
func (v *Validator) ValidateComment(author, email, content string) []ValidationError {
	var errors []ValidationError

	if author == "" {
		errors = append(errors, ValidationError{Field: "author", Message: "author is required"})
	} else if len([]rune(author)) > models.MaxCommentAuthorLength {
		errors = append(errors, ValidationError{
			Field:   "author",
			Message: fmt.Sprintf("author must be at most %d characters", models.MaxCommentAuthorLength),
		})
	}

	if email == "" {
		errors = append(errors, ValidationError{Field: "email", Message: "email is required"})
	} else if !emailRegex.MatchString(email) {
		errors = append(errors, ValidationError{Field: "email", Message: "invalid email format", Value: email})
	}

	if content == "" {
		errors = append(errors, ValidationError{Field: "content", Message: "content is required"})
	} else {
		wordCount := len(strings.Fields(content))
		if wordCount > models.MaxCommentWords {
			errors = append(errors, ValidationError{
				Field:   "content",
				Message: fmt.Sprintf("content exceeds maximum of %d words (has %d)", models.MaxCommentWords, wordCount),
			})
		}
	}

	return errors
}

// Summarize joins validation messages into one line
func Summarize(errors []ValidationError) string {
	msgs := make([]string, 0, len(errors))
	for _, e := range errors {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

// IsValidSlug checks the kebab-case slug format
func IsValidSlug(s string) bool {
	return slugRegex.MatchString(s)
}

// IsValidUUID checks if a string is a valid UUID
func IsValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
