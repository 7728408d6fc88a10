package query

import (
	"strings"

	"github.com/blog-content-api/internal/models"
)

// SortField is an article field that listings may be ordered by
type SortField string

const (
	SortPublishedAt SortField = "publishedAt"
	SortCreatedAt   SortField = "createdAt"
	SortUpdatedAt   SortField = "updatedAt"
	SortLikesCount  SortField = "likesCount"
	SortViewsCount  SortField = "viewsCount"
	SortTitle       SortField = "title"
	// SortRelevance orders by the store's text score; only valid for text search
	SortRelevance SortField = "relevance"
)

// listSortFields are the keys accepted from clients on listing endpoints
var listSortFields = map[SortField]bool{
	SortPublishedAt: true,
	SortCreatedAt:   true,
	SortUpdatedAt:   true,
	SortLikesCount:  true,
	SortTitle:       true,
}

// SortKey is one ordering criterion
type SortKey struct {
	Field SortField
	Desc  bool
}

// Sort is an ordered list of criteria. Backends append the id as a final
// ascending tie-break so that pages partition the result set.
type Sort struct {
	Keys []SortKey
}

// DefaultSort is publishedAt descending
var DefaultSort = Sort{Keys: []SortKey{{Field: SortPublishedAt, Desc: true}}}

// PopularSort orders by likes, then views, then recency
var PopularSort = Sort{Keys: []SortKey{
	{Field: SortLikesCount, Desc: true},
	{Field: SortViewsCount, Desc: true},
	{Field: SortPublishedAt, Desc: true},
}}

// RelevanceSort orders by text score
var RelevanceSort = Sort{Keys: []SortKey{{Field: SortRelevance, Desc: true}}}

// ResolveSort maps a client sort key and direction to a Sort.
// Unknown keys are rejected rather than passed through to the store.
func ResolveSort(sortBy, sortOrder string) (Sort, error) {
	return resolve(sortBy, sortOrder, SortPublishedAt, false)
}

// ResolveSearchSort is ResolveSort for text search, where relevance is accepted
// and is the default key.
func ResolveSearchSort(sortBy, sortOrder string) (Sort, error) {
	return resolve(sortBy, sortOrder, SortRelevance, true)
}

func resolve(sortBy, sortOrder string, fallback SortField, allowRelevance bool) (Sort, error) {
	field := SortField(strings.TrimSpace(sortBy))
	if field == "" {
		field = fallback
	}
	if !listSortFields[field] && !(allowRelevance && field == SortRelevance) {
		return Sort{}, &ParamError{
			Field:   "sortBy",
			Message: "sortBy must be one of: " + allowedList(allowRelevance),
		}
	}

	desc := true
	switch strings.ToLower(strings.TrimSpace(sortOrder)) {
	case "", "desc":
	case "asc":
		desc = false
	default:
		return Sort{}, &ParamError{Field: "sortOrder", Message: "sortOrder must be one of: asc, desc"}
	}

	return Sort{Keys: []SortKey{{Field: field, Desc: desc}}}, nil
}

func allowedList(allowRelevance bool) string {
	list := "publishedAt, createdAt, updatedAt, likesCount, title"
	if allowRelevance {
		list += ", relevance"
	}
	return list
}

// HasRelevance reports whether any key orders by text score
func (s Sort) HasRelevance() bool {
	for _, k := range s.Keys {
		if k.Field == SortRelevance {
			return true
		}
	}
	return false
}

// Less orders two articles in memory, falling back to id ascending.
// Relevance keys compare equal since scores only exist inside the store.
func (s Sort) Less(a, b *models.Article) bool {
	for _, k := range s.Keys {
		c := compareField(k.Field, a, b)
		if c == 0 {
			continue
		}
		if k.Desc {
			return c > 0
		}
		return c < 0
	}
	return a.ID < b.ID
}

func compareField(field SortField, a, b *models.Article) int {
	switch field {
	case SortPublishedAt:
		return compareTimePtr(a, b)
	case SortCreatedAt:
		return compareInt64(a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano())
	case SortUpdatedAt:
		return compareInt64(a.UpdatedAt.UnixNano(), b.UpdatedAt.UnixNano())
	case SortLikesCount:
		return compareInt64(int64(a.LikesCount), int64(b.LikesCount))
	case SortViewsCount:
		return compareInt64(int64(a.ViewsCount), int64(b.ViewsCount))
	case SortTitle:
		return strings.Compare(a.Title, b.Title)
	}
	return 0
}

// compareTimePtr treats a missing publishedAt as older than any set value
func compareTimePtr(a, b *models.Article) int {
	switch {
	case a.PublishedAt == nil && b.PublishedAt == nil:
		return 0
	case a.PublishedAt == nil:
		return -1
	case b.PublishedAt == nil:
		return 1
	}
	return compareInt64(a.PublishedAt.UnixNano(), b.PublishedAt.UnixNano())
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
