package query_test

import (
	"testing"

	"github.com/blog-content-api/internal/models"
	"github.com/blog-content-api/internal/query"
)

func sampleArticle() *models.Article {
	return &models.Article{
		ID:          "1",
		Title:       "Introduction to Node.js",
		Content:     "Express is a minimalist framework",
		Author:      "Web Architecture Professor",
		Tags:        []string{"nodejs", "backend"},
		IsPublished: true,
	}
}

func TestArticleFilter_Matches(t *testing.T) {
	a := sampleArticle()

	tests := []struct {
		name   string
		filter query.ArticleFilter
		want   bool
	}{
		{"empty filter", query.NewArticleFilter("", "", ""), true},
		{"search title", query.NewArticleFilter("NODE", "", ""), true},
		{"search content", query.NewArticleFilter("minimalist", "", ""), true},
		{"search tag", query.NewArticleFilter("backe", "", ""), true},
		{"search miss", query.NewArticleFilter("golang", "", ""), false},
		{"tag exact", query.NewArticleFilter("", "nodejs", ""), true},
		{"tag case folded", query.NewArticleFilter("", "NodeJS", ""), true},
		{"tag partial is not a match", query.NewArticleFilter("", "node", ""), false},
		{"author substring", query.NewArticleFilter("", "", "architecture"), true},
		{"author miss", query.NewArticleFilter("", "", "someone"), false},
		{"all conditions", query.NewArticleFilter("express", "backend", "professor"), true},
		{"one condition fails", query.NewArticleFilter("express", "frontend", "professor"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(a); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestArticleFilter_ExcludesUnpublished(t *testing.T) {
	a := sampleArticle()
	a.IsPublished = false

	if query.NewArticleFilter("", "", "").Matches(a) {
		t.Error("Unpublished article should not match a public filter")
	}
}

func TestNormalizeTags(t *testing.T) {
	got := query.NormalizeTags([]string{" Go ", "go", "", "  ", "API"})
	want := []string{"go", "api"}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, got)
		}
	}
}

func TestNewTextSearch(t *testing.T) {
	if _, err := query.NewTextSearch(" a ", 2); err == nil {
		t.Error("Expected error for 1-character term")
	}
	s, err := query.NewTextSearch("  node express ", 2)
	if err != nil {
		t.Fatalf("NewTextSearch failed: %v", err)
	}
	if s.Term != "node express" {
		t.Errorf("Expected trimmed term, got %q", s.Term)
	}

	a := sampleArticle()
	if !s.Matches(a) {
		t.Error("Expected every word to match")
	}
	a.IsPublished = false
	if s.Matches(a) {
		t.Error("Text search must never match unpublished articles")
	}
}
