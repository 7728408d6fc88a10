package models

import (
	"time"
)

// Comment represents a comment on an article. Replies point at their parent via ParentID.
type Comment struct {
	ID         string    `json:"id" bson:"_id"`
	ArticleID  string    `json:"articleId" bson:"articleId"`
	ParentID   *string   `json:"parentId,omitempty" bson:"parentId,omitempty"`
	Author     string    `json:"author" bson:"author"`
	Email      string    `json:"-" bson:"email"`
	Content    string    `json:"content" bson:"content"`
	IsApproved bool      `json:"isApproved" bson:"isApproved"`
	Depth      int       `json:"depth" bson:"depth"`
	LikesCount int       `json:"likesCount" bson:"likesCount"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt" bson:"updatedAt"`
}

// CommentWithReplies decorates a top-level comment with its approved reply count
type CommentWithReplies struct {
	*Comment
	ReplyCount int `json:"replyCount"`
}

// RecentComment decorates a comment with the article it belongs to
type RecentComment struct {
	*Comment
	ArticleSlug  string `json:"articleSlug,omitempty"`
	ArticleTitle string `json:"articleTitle,omitempty"`
}

// MaxCommentWords is the maximum allowed words in a comment body
const MaxCommentWords = 500

// MaxCommentAuthorLength bounds the display name stored with a comment
const MaxCommentAuthorLength = 100
