package query_test

import (
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/blog-content-api/internal/models"
	"github.com/blog-content-api/internal/query"
)

func TestResolveSort_Defaults(t *testing.T) {
	s, err := query.ResolveSort("", "")
	if err != nil {
		t.Fatalf("ResolveSort failed: %v", err)
	}
	if len(s.Keys) != 1 || s.Keys[0].Field != query.SortPublishedAt || !s.Keys[0].Desc {
		t.Errorf("Expected publishedAt desc, got %+v", s.Keys)
	}
}

func TestResolveSort_Whitelist(t *testing.T) {
	for _, field := range []string{"publishedAt", "createdAt", "updatedAt", "likesCount", "title"} {
		if _, err := query.ResolveSort(field, "asc"); err != nil {
			t.Errorf("Expected %s to be accepted, got %v", field, err)
		}
	}

	for _, field := range []string{"password", "viewsCount", "relevance", "$where"} {
		_, err := query.ResolveSort(field, "desc")
		var pe *query.ParamError
		if !errors.As(err, &pe) {
			t.Errorf("Expected ParamError for %q, got %v", field, err)
			continue
		}
		if pe.Field != "sortBy" {
			t.Errorf("Expected field sortBy, got %s", pe.Field)
		}
	}

	if _, err := query.ResolveSort("title", "sideways"); err == nil {
		t.Error("Expected error for invalid sortOrder")
	}
}

func TestResolveSearchSort_AcceptsRelevance(t *testing.T) {
	s, err := query.ResolveSearchSort("", "")
	if err != nil {
		t.Fatalf("ResolveSearchSort failed: %v", err)
	}
	if !s.HasRelevance() {
		t.Error("Expected relevance to be the default search sort")
	}

	s, err = query.ResolveSearchSort("title", "asc")
	if err != nil {
		t.Fatalf("ResolveSearchSort failed: %v", err)
	}
	if s.HasRelevance() || s.Keys[0].Desc {
		t.Errorf("Expected title asc, got %+v", s.Keys)
	}
}

func TestPopularSort_TieBreaks(t *testing.T) {
	day := func(d int) *time.Time {
		ts := time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
		return &ts
	}
	articles := []*models.Article{
		{ID: "a", LikesCount: 5, ViewsCount: 10, PublishedAt: day(1)},
		{ID: "b", LikesCount: 9, ViewsCount: 1, PublishedAt: day(1)},
		{ID: "c", LikesCount: 5, ViewsCount: 10, PublishedAt: day(3)},
		{ID: "d", LikesCount: 5, ViewsCount: 20, PublishedAt: day(2)},
		{ID: "e", LikesCount: 5, ViewsCount: 10, PublishedAt: day(3)},
	}

	sort.SliceStable(articles, func(i, j int) bool {
		return query.PopularSort.Less(articles[i], articles[j])
	})

	want := []string{"b", "d", "c", "e", "a"}
	for i, id := range want {
		if articles[i].ID != id {
			t.Errorf("Position %d: expected %s, got %s", i, id, articles[i].ID)
		}
	}
}
