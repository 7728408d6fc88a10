package models

import (
	"time"
)

// LikeKind names the entity a like points at
type LikeKind string

const (
	LikeKindArticle LikeKind = "article"
	LikeKindComment LikeKind = "comment"
)

// LikeTarget identifies the liked entity
type LikeTarget struct {
	Kind LikeKind
	ID   string
}

// ArticleTarget is shorthand for a like on an article
func ArticleTarget(id string) LikeTarget {
	return LikeTarget{Kind: LikeKindArticle, ID: id}
}

// CommentTarget is shorthand for a like on a comment
func CommentTarget(id string) LikeTarget {
	return LikeTarget{Kind: LikeKindComment, ID: id}
}

// Like is the junction record between a user and a liked article or comment.
// At most one exists per (user, target).
type Like struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"userId" bson:"userId"`
	ArticleID string    `json:"articleId,omitempty" bson:"articleId,omitempty"`
	CommentID string    `json:"commentId,omitempty" bson:"commentId,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// NewLike builds a like record for the given target
func NewLike(id, userID string, target LikeTarget, at time.Time) *Like {
	like := &Like{ID: id, UserID: userID, CreatedAt: at}
	switch target.Kind {
	case LikeKindComment:
		like.CommentID = target.ID
	default:
		like.ArticleID = target.ID
	}
	return like
}

// ToggleResult is the outcome of a like toggle
type ToggleResult struct {
	Liked      bool   `json:"liked"`
	LikesCount int    `json:"likesCount"`
	Action     string `json:"action"`
}

const (
	LikeActionLiked   = "liked"
	LikeActionUnliked = "unliked"
)
