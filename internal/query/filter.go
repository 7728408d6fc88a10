// Package query holds the store-agnostic pieces of article listing: the filter
// predicate, the sort instruction and page arithmetic. Repository backends
// translate these into SQL or BSON; the in-memory fakes evaluate them directly.
package query

import (
	"strings"

	"github.com/blog-content-api/internal/models"
)

// ArticleFilter is the predicate applied to article listings.
// Non-empty conditions are ANDed; the Search sub-conditions are ORed.
type ArticleFilter struct {
	PublishedOnly bool
	// Search matches title, content or any tag by case-insensitive substring
	Search string
	// Tag requires an exact (lowercase) tag
	Tag string
	// Author matches the author name by case-insensitive substring
	Author string
}

// NewArticleFilter builds the filter used by public listing endpoints
func NewArticleFilter(search, tag, author string) ArticleFilter {
	return ArticleFilter{
		PublishedOnly: true,
		Search:        strings.TrimSpace(search),
		Tag:           NormalizeTag(tag),
		Author:        strings.TrimSpace(author),
	}
}

// TagFilter builds the filter for the by-tag endpoint
func TagFilter(tag string) ArticleFilter {
	return NewArticleFilter("", tag, "")
}

// NormalizeTag lower-cases and trims a tag
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// NormalizeTags normalizes a tag list, dropping empties and duplicates while keeping order
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		n := NormalizeTag(t)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// IsEmpty reports whether the filter only constrains publication state
func (f ArticleFilter) IsEmpty() bool {
	return f.Search == "" && f.Tag == "" && f.Author == ""
}

// Matches evaluates the filter against an article in memory
func (f ArticleFilter) Matches(a *models.Article) bool {
	if f.PublishedOnly && !a.IsPublished {
		return false
	}
	if f.Search != "" {
		hit := containsFold(a.Title, f.Search) || containsFold(a.Content, f.Search)
		if !hit {
			for _, t := range a.Tags {
				if containsFold(t, f.Search) {
					hit = true
					break
				}
			}
		}
		if !hit {
			return false
		}
	}
	if f.Tag != "" && !hasTag(a.Tags, f.Tag) {
		return false
	}
	if f.Author != "" && !containsFold(a.Author, f.Author) {
		return false
	}
	return true
}

// TextSearch is a full-text query delegated to the store's text index
type TextSearch struct {
	Term string
}

// NewTextSearch trims the term and enforces the minimum length
func NewTextSearch(term string, minLength int) (TextSearch, error) {
	trimmed := strings.TrimSpace(term)
	if len([]rune(trimmed)) < minLength {
		return TextSearch{}, &ParamError{
			Field:   "q",
			Message: "search term must be at least " + itoa(minLength) + " characters",
		}
	}
	return TextSearch{Term: trimmed}, nil
}

// Words splits the term into the words every match must contain
func (s TextSearch) Words() []string {
	return strings.Fields(s.Term)
}

// Matches approximates the store text index in memory: every word must occur in
// the title, content or tags. Only published articles match.
func (s TextSearch) Matches(a *models.Article) bool {
	if !a.IsPublished {
		return false
	}
	haystack := a.Title + " " + a.Content + " " + strings.Join(a.Tags, " ")
	for _, w := range s.Words() {
		if !containsFold(haystack, w) {
			return false
		}
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
