package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/blog-content-api/internal/query"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// sqlArgs accumulates positional parameters while a statement is built
type sqlArgs struct {
	values []interface{}
}

func (a *sqlArgs) add(v interface{}) string {
	a.values = append(a.values, v)
	return fmt.Sprintf("$%d", len(a.values))
}

// articleWhere translates an ArticleFilter into a WHERE clause
func articleWhere(f query.ArticleFilter, args *sqlArgs) string {
	var conds []string

	if f.PublishedOnly {
		conds = append(conds, "is_published = TRUE")
	}
	if f.Search != "" {
		p := args.add("%" + escapeLike(f.Search) + "%")
		conds = append(conds, fmt.Sprintf(
			"(title ILIKE %[1]s OR content ILIKE %[1]s OR EXISTS (SELECT 1 FROM unnest(tags) AS t WHERE t ILIKE %[1]s))", p,
		))
	}
	if f.Tag != "" {
		conds = append(conds, fmt.Sprintf("%s = ANY(tags)", args.add(f.Tag)))
	}
	if f.Author != "" {
		conds = append(conds, fmt.Sprintf("author ILIKE %s", args.add("%"+escapeLike(f.Author)+"%")))
	}

	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

var sqlSortColumns = map[query.SortField]string{
	query.SortPublishedAt: "published_at",
	query.SortCreatedAt:   "created_at",
	query.SortUpdatedAt:   "updated_at",
	query.SortLikesCount:  "likes_count",
	query.SortViewsCount:  "views_count",
	query.SortTitle:       `title COLLATE "C"`,
}

// sqlOrderBy translates a Sort into an ORDER BY clause. rankExpr is used for
// relevance keys and may be empty outside text search. NULL publication dates
// order as the oldest value.
func sqlOrderBy(s query.Sort, rankExpr string) string {
	var parts []string
	for _, k := range s.Keys {
		col, ok := sqlSortColumns[k.Field]
		if k.Field == query.SortRelevance && rankExpr != "" {
			col, ok = rankExpr, true
		}
		if !ok {
			continue
		}
		if k.Desc {
			parts = append(parts, col+" DESC NULLS LAST")
		} else {
			parts = append(parts, col+" ASC NULLS FIRST")
		}
	}
	parts = append(parts, "id ASC")
	return " ORDER BY " + strings.Join(parts, ", ")
}

// escapeLike escapes LIKE metacharacters so user input matches literally
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// isUUID guards lookups against ids the uuid columns would reject
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func validUUIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if isUUID(id) {
			out = append(out, id)
		}
	}
	return out
}

// isUniqueViolation reports a PostgreSQL unique_violation
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
