package repository

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/blog-content-api/internal/database"
	"github.com/blog-content-api/internal/models"
	"github.com/blog-content-api/internal/query"
	"github.com/lib/pq"
)

const articleColumns = `id, title, slug, content, excerpt, author, tags, image_url, is_published,
	published_at, created_at, updated_at, likes_count, views_count, reading_time`

// articleRepo is the concrete implementation of ArticleRepository
type articleRepo struct {
	db *database.DB
}

// NewArticleRepo creates a new article repository
func NewArticleRepo(db *database.DB) ArticleRepository {
	return &articleRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanArticle(row rowScanner) (*models.Article, error) {
	var article models.Article
	var publishedAt sql.NullTime

	err := row.Scan(
		&article.ID, &article.Title, &article.Slug, &article.Content, &article.Excerpt,
		&article.Author, pq.Array(&article.Tags), &article.ImageURL, &article.IsPublished,
		&publishedAt, &article.CreatedAt, &article.UpdatedAt,
		&article.LikesCount, &article.ViewsCount, &article.ReadingTime,
	)
	if err != nil {
		return nil, err
	}

	if publishedAt.Valid {
		t := publishedAt.Time
		article.PublishedAt = &t
	}
	if article.Tags == nil {
		article.Tags = []string{}
	}
	return &article, nil
}

func (r *articleRepo) queryArticles(ctx context.Context, q string, args ...interface{}) ([]*models.Article, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	articles := make([]*models.Article, 0)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

func (r *articleRepo) queryOne(ctx context.Context, q string, args ...interface{}) (*models.Article, error) {
	article, err := scanArticle(r.db.QueryRowContext(ctx, q, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return article, err
}

// BatchInsert inserts multiple articles using PostgreSQL COPY
func (r *articleRepo) BatchInsert(ctx context.Context, articles []*models.Article) (int, error) {
	if len(articles) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("articles",
		"id", "title", "slug", "content", "excerpt", "author", "tags", "image_url", "is_published",
		"published_at", "created_at", "updated_at", "likes_count", "views_count", "reading_time",
	))
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	now := time.Now()
	inserted := 0

	for _, article := range articles {
		tags := article.Tags
		if tags == nil {
			tags = []string{}
		}

		_, err := stmt.ExecContext(ctx,
			article.ID, article.Title, article.Slug, article.Content, article.Excerpt,
			article.Author, pq.Array(tags), article.ImageURL, article.IsPublished,
			article.PublishedAt, article.CreatedAt, now,
			article.LikesCount, article.ViewsCount, article.ReadingTime,
		)
		if err != nil {
			continue
		}
		inserted++
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return inserted, nil
}

// GetByID retrieves an article by ID
func (r *articleRepo) GetByID(ctx context.Context, id string) (*models.Article, error) {
	if !isUUID(id) {
		return nil, nil
	}
	return r.queryOne(ctx, "SELECT "+articleColumns+" FROM articles WHERE id = $1", id)
}

// GetByIDs retrieves articles keyed by ID; unknown IDs are absent from the map
func (r *articleRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*models.Article, error) {
	out := make(map[string]*models.Article)
	ids = validUUIDs(ids)
	if len(ids) == 0 {
		return out, nil
	}

	articles, err := r.queryArticles(ctx,
		"SELECT "+articleColumns+" FROM articles WHERE id = ANY($1::uuid[])", pq.Array(ids))
	if err != nil {
		return nil, err
	}
	for _, a := range articles {
		out[a.ID] = a
	}
	return out, nil
}

// GetBySlug retrieves an article by its slug
func (r *articleRepo) GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.Article, error) {
	q := "SELECT " + articleColumns + " FROM articles WHERE slug = $1"
	if publishedOnly {
		q += " AND is_published = TRUE"
	}
	return r.queryOne(ctx, q, slug)
}

// SlugExists checks if an article with the given slug exists
func (r *articleRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM articles WHERE slug = $1)", slug).Scan(&exists)
	return exists, err
}

// List returns one page of articles matching the filter in the requested order
func (r *articleRepo) List(ctx context.Context, filter query.ArticleFilter, s query.Sort, page query.Page) ([]*models.Article, error) {
	args := &sqlArgs{}
	q := "SELECT " + articleColumns + " FROM articles" +
		articleWhere(filter, args) +
		sqlOrderBy(s, "")
	q += " LIMIT " + args.add(page.Limit) + " OFFSET " + args.add(page.Offset())

	return r.queryArticles(ctx, q, args.values...)
}

// Count returns the number of articles matching the filter
func (r *articleRepo) Count(ctx context.Context, filter query.ArticleFilter) (int, error) {
	args := &sqlArgs{}
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles"+articleWhere(filter, args), args.values...).Scan(&count)
	return count, err
}

// Search runs a full-text query against the search_vector index
func (r *articleRepo) Search(ctx context.Context, search query.TextSearch, s query.Sort, page query.Page) ([]*models.Article, error) {
	args := &sqlArgs{}
	tsq := "plainto_tsquery('simple', " + args.add(search.Term) + ")"
	q := "SELECT " + articleColumns + " FROM articles" +
		" WHERE is_published = TRUE AND search_vector @@ " + tsq +
		sqlOrderBy(s, "ts_rank(search_vector, "+tsq+")")
	q += " LIMIT " + args.add(page.Limit) + " OFFSET " + args.add(page.Offset())

	return r.queryArticles(ctx, q, args.values...)
}

// CountSearch counts the published articles matching a full-text query
func (r *articleRepo) CountSearch(ctx context.Context, search query.TextSearch) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM articles WHERE is_published = TRUE AND search_vector @@ plainto_tsquery('simple', $1)",
		search.Term,
	).Scan(&count)
	return count, err
}

// DistinctTags returns the distinct non-blank tags across published articles, sorted
func (r *articleRepo) DistinctTags(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT t FROM articles, unnest(tags) AS t
		WHERE is_published = TRUE AND btrim(t) <> ''
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := make([]string, 0)
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags, rows.Err()
}

// Stats aggregates counters across published articles
func (r *articleRepo) Stats(ctx context.Context) (*models.BlogStats, error) {
	var stats models.BlogStats
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(views_count), 0), COALESCE(SUM(likes_count), 0)
		FROM articles WHERE is_published = TRUE
	`).Scan(&stats.TotalArticles, &stats.TotalViews, &stats.TotalLikes)
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT t) FROM articles, unnest(tags) AS t
		WHERE is_published = TRUE AND btrim(t) <> ''
	`).Scan(&stats.TotalTags)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// IncrementViews atomically bumps the view counter
func (r *articleRepo) IncrementViews(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "UPDATE articles SET views_count = views_count + 1 WHERE id = $1", id)
	return err
}

// SetLikesCount overwrites the denormalized like counter
func (r *articleRepo) SetLikesCount(ctx context.Context, id string, count int) error {
	_, err := r.db.ExecContext(ctx, "UPDATE articles SET likes_count = $2 WHERE id = $1", id, count)
	return err
}

// SetImageURL sets the cover image of the article with the given slug
func (r *articleRepo) SetImageURL(ctx context.Context, slug, imageURL string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE articles SET image_url = $2, updated_at = NOW() WHERE slug = $1", slug, imageURL)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
