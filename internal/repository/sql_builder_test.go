package repository

import (
	"strings"
	"testing"

	"github.com/blog-content-api/internal/query"
)

func TestArticleWhere(t *testing.T) {
	tests := []struct {
		name     string
		filter   query.ArticleFilter
		wantSQL  []string
		wantArgs []interface{}
	}{
		{
			name:     "empty filter",
			filter:   query.ArticleFilter{},
			wantSQL:  nil,
			wantArgs: nil,
		},
		{
			name:     "published only",
			filter:   query.ArticleFilter{PublishedOnly: true},
			wantSQL:  []string{"WHERE is_published = TRUE"},
			wantArgs: nil,
		},
		{
			name:     "search escapes wildcards",
			filter:   query.ArticleFilter{PublishedOnly: true, Search: "50%_off"},
			wantSQL:  []string{"title ILIKE $1", "content ILIKE $1", "unnest(tags)"},
			wantArgs: []interface{}{`%50\%\_off%`},
		},
		{
			name:     "tag and author",
			filter:   query.ArticleFilter{Tag: "go", Author: "ann"},
			wantSQL:  []string{"$1 = ANY(tags)", "author ILIKE $2"},
			wantArgs: []interface{}{"go", "%ann%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := &sqlArgs{}
			where := articleWhere(tt.filter, args)

			if tt.wantSQL == nil && where != "" {
				t.Errorf("Expected empty WHERE, got %q", where)
			}
			for _, frag := range tt.wantSQL {
				if !strings.Contains(where, frag) {
					t.Errorf("Expected %q in %q", frag, where)
				}
			}
			if len(args.values) != len(tt.wantArgs) {
				t.Fatalf("Expected %d args, got %d", len(tt.wantArgs), len(args.values))
			}
			for i := range tt.wantArgs {
				if args.values[i] != tt.wantArgs[i] {
					t.Errorf("Arg %d: expected %v, got %v", i, tt.wantArgs[i], args.values[i])
				}
			}
		})
	}
}

func TestSQLOrderBy(t *testing.T) {
	tests := []struct {
		name string
		sort query.Sort
		rank string
		want string
	}{
		{
			name: "default",
			sort: query.DefaultSort,
			want: " ORDER BY published_at DESC NULLS LAST, id ASC",
		},
		{
			name: "popular",
			sort: query.PopularSort,
			want: " ORDER BY likes_count DESC NULLS LAST, views_count DESC NULLS LAST, published_at DESC NULLS LAST, id ASC",
		},
		{
			name: "title ascending",
			sort: query.Sort{Keys: []query.SortKey{{Field: query.SortTitle}}},
			want: ` ORDER BY title COLLATE "C" ASC NULLS FIRST, id ASC`,
		},
		{
			name: "relevance without rank is dropped",
			sort: query.RelevanceSort,
			want: " ORDER BY id ASC",
		},
		{
			name: "relevance with rank",
			sort: query.RelevanceSort,
			rank: "ts_rank(search_vector, q)",
			want: " ORDER BY ts_rank(search_vector, q) DESC NULLS LAST, id ASC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sqlOrderBy(tt.sort, tt.rank)
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestIsUUID(t *testing.T) {
	if !isUUID("6ba7b810-9dad-11d1-80b4-00c04fd430c8") {
		t.Error("Expected valid UUID to be accepted")
	}
	if isUUID("not-a-uuid") {
		t.Error("Expected invalid UUID to be rejected")
	}

	ids := validUUIDs([]string{"x", "6ba7b810-9dad-11d1-80b4-00c04fd430c8", ""})
	if len(ids) != 1 {
		t.Errorf("Expected 1 valid id, got %d", len(ids))
	}
}

func TestSQLArgsPlaceholders(t *testing.T) {
	args := &sqlArgs{}
	if p := args.add("a"); p != "$1" {
		t.Errorf("Expected $1, got %s", p)
	}
	if p := args.add(2); p != "$2" {
		t.Errorf("Expected $2, got %s", p)
	}
}
