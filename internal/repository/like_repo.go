package repository

import (
	"context"
	"database/sql"

	"github.com/blog-content-api/internal/database"
	"github.com/blog-content-api/internal/models"
)

// likeRepo is the concrete implementation of LikeRepository
type likeRepo struct {
	db *database.DB
}

// NewLikeRepo creates a new like repository
func NewLikeRepo(db *database.DB) LikeRepository {
	return &likeRepo{db: db}
}

// targetColumn maps a like target onto its foreign key column
func targetColumn(target models.LikeTarget) string {
	if target.Kind == models.LikeKindComment {
		return "comment_id"
	}
	return "article_id"
}

func scanLike(row rowScanner) (*models.Like, error) {
	var like models.Like
	var articleID, commentID sql.NullString
	if err := row.Scan(&like.ID, &like.UserID, &articleID, &commentID, &like.CreatedAt); err != nil {
		return nil, err
	}
	like.ArticleID = articleID.String
	like.CommentID = commentID.String
	return &like, nil
}

// Find returns the user's like on the target, or nil
func (r *likeRepo) Find(ctx context.Context, target models.LikeTarget, userID string) (*models.Like, error) {
	q := "SELECT id, user_id, article_id, comment_id, created_at FROM likes WHERE user_id = $1 AND " +
		targetColumn(target) + " = $2"
	like, err := scanLike(r.db.QueryRowContext(ctx, q, userID, target.ID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return like, err
}

// Create inserts a like
func (r *likeRepo) Create(ctx context.Context, like *models.Like) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO likes (id, user_id, article_id, comment_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, like.ID, like.UserID, nullString(like.ArticleID), nullString(like.CommentID), like.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// Delete removes a like by ID
func (r *likeRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM likes WHERE id = $1", id)
	return err
}

// Count returns the number of likes on the target
func (r *likeRepo) Count(ctx context.Context, target models.LikeTarget) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM likes WHERE "+targetColumn(target)+" = $1", target.ID,
	).Scan(&count)
	return count, err
}

// List returns the newest likes on the target
func (r *likeRepo) List(ctx context.Context, target models.LikeTarget, limit int) ([]*models.Like, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, user_id, article_id, comment_id, created_at FROM likes WHERE "+
			targetColumn(target)+" = $1 ORDER BY created_at DESC, id ASC LIMIT $2",
		target.ID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	likes := make([]*models.Like, 0)
	for rows.Next() {
		like, err := scanLike(rows)
		if err != nil {
			return nil, err
		}
		likes = append(likes, like)
	}
	return likes, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
