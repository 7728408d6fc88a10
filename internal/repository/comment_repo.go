package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/blog-content-api/internal/database"
	"github.com/blog-content-api/internal/models"
	"github.com/blog-content-api/internal/query"
	"github.com/lib/pq"
)

const commentColumns = `id, article_id, parent_id, author, email, content, is_approved, depth,
	likes_count, created_at, updated_at`

// commentRepo is the concrete implementation of CommentRepository
type commentRepo struct {
	db *database.DB
}

// NewCommentRepo creates a new comment repository
func NewCommentRepo(db *database.DB) CommentRepository {
	return &commentRepo{db: db}
}

func scanComment(row rowScanner) (*models.Comment, error) {
	var comment models.Comment
	var parentID sql.NullString

	err := row.Scan(
		&comment.ID, &comment.ArticleID, &parentID, &comment.Author, &comment.Email,
		&comment.Content, &comment.IsApproved, &comment.Depth, &comment.LikesCount,
		&comment.CreatedAt, &comment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if parentID.Valid {
		p := parentID.String
		comment.ParentID = &p
	}
	return &comment, nil
}

func (r *commentRepo) queryComments(ctx context.Context, q string, args ...interface{}) ([]*models.Comment, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]*models.Comment, 0)
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

// Create inserts a new comment
func (r *commentRepo) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (id, article_id, parent_id, author, email, content, is_approved, depth, likes_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, query,
		comment.ID, comment.ArticleID, comment.ParentID, comment.Author, comment.Email,
		comment.Content, comment.IsApproved, comment.Depth, comment.LikesCount,
		comment.CreatedAt, time.Now(),
	)
	return err
}

// GetByID retrieves a comment by ID
func (r *commentRepo) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	if !isUUID(id) {
		return nil, nil
	}
	comment, err := scanComment(r.db.QueryRowContext(ctx, "SELECT "+commentColumns+" FROM comments WHERE id = $1", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return comment, err
}

// ListTopLevel returns approved comments without a parent, newest first
func (r *commentRepo) ListTopLevel(ctx context.Context, articleID string, page query.Page) ([]*models.Comment, error) {
	return r.queryComments(ctx, "SELECT "+commentColumns+` FROM comments
		WHERE article_id = $1 AND parent_id IS NULL AND is_approved = TRUE
		ORDER BY created_at DESC, id ASC LIMIT $2 OFFSET $3`,
		articleID, page.Limit, page.Offset(),
	)
}

// CountTopLevel counts approved top-level comments of an article
func (r *commentRepo) CountTopLevel(ctx context.Context, articleID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM comments WHERE article_id = $1 AND parent_id IS NULL AND is_approved = TRUE",
		articleID,
	).Scan(&count)
	return count, err
}

// ListReplies returns approved direct replies to a comment, oldest first
func (r *commentRepo) ListReplies(ctx context.Context, parentID string, page query.Page) ([]*models.Comment, error) {
	return r.queryComments(ctx, "SELECT "+commentColumns+` FROM comments
		WHERE parent_id = $1 AND is_approved = TRUE
		ORDER BY created_at ASC, id ASC LIMIT $2 OFFSET $3`,
		parentID, page.Limit, page.Offset(),
	)
}

// CountReplies counts approved direct replies to a comment
func (r *commentRepo) CountReplies(ctx context.Context, parentID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM comments WHERE parent_id = $1 AND is_approved = TRUE", parentID,
	).Scan(&count)
	return count, err
}

// ReplyCounts counts approved direct replies for several comments at once
func (r *commentRepo) ReplyCounts(ctx context.Context, parentIDs []string) (map[string]int, error) {
	counts := make(map[string]int)
	parentIDs = validUUIDs(parentIDs)
	if len(parentIDs) == 0 {
		return counts, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT parent_id, COUNT(*) FROM comments
		WHERE parent_id = ANY($1::uuid[]) AND is_approved = TRUE
		GROUP BY parent_id
	`, pq.Array(parentIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

// ListRecent returns the newest approved comments across all articles
func (r *commentRepo) ListRecent(ctx context.Context, limit int) ([]*models.Comment, error) {
	return r.queryComments(ctx, "SELECT "+commentColumns+` FROM comments
		WHERE is_approved = TRUE ORDER BY created_at DESC, id ASC LIMIT $1`, limit)
}

// SetApproved flips the moderation flag; it reports false if the comment does not exist
func (r *commentRepo) SetApproved(ctx context.Context, id string, approved bool) (bool, error) {
	if !isUUID(id) {
		return false, nil
	}
	res, err := r.db.ExecContext(ctx,
		"UPDATE comments SET is_approved = $2, updated_at = NOW() WHERE id = $1", id, approved)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// SetLikesCount overwrites the denormalized like counter
func (r *commentRepo) SetLikesCount(ctx context.Context, id string, count int) error {
	_, err := r.db.ExecContext(ctx, "UPDATE comments SET likes_count = $2 WHERE id = $1", id, count)
	return err
}
