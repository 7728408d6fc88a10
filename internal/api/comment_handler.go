package api

import (
	"net/http"

	"github.com/blog-content-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CommentHandler handles comment endpoints
type CommentHandler struct {
	services *service.Services
	responder
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(services *service.Services, dev bool, log zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		services:  services,
		responder: responder{dev: dev, log: log.With().Str("handler", "comment").Logger()},
	}
}

type createCommentRequest struct {
	Author   string `json:"author"`
	Email    string `json:"email"`
	Content  string `json:"content"`
	ParentID string `json:"parentId"`
}

type moderateRequest struct {
	Approved *bool `json:"approved" binding:"required"`
}

// ForArticle handles GET /api/articles/:slug/comments
func (h *CommentHandler) ForArticle(c *gin.Context) {
	result, err := h.services.Comment.ForArticle(c.Request.Context(), c.Param("slug"), c.Query("page"), c.Query("limit"))
	if err != nil {
		h.fail(c, err)
		return
	}

	h.ok(c, gin.H{
		"comments":   result.Comments,
		"pagination": paginationJSON(result.Pagination, "totalComments"),
	})
}

// Create handles POST /api/articles/:slug/comments
func (h *CommentHandler) Create(c *gin.Context) {
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid request body", err)
		return
	}

	comment, err := h.services.Comment.Add(c.Request.Context(), c.Param("slug"), service.CommentInput{
		Author:   req.Author,
		Email:    req.Email,
		Content:  req.Content,
		ParentID: req.ParentID,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	msg := "Comment added"
	if !comment.IsApproved {
		msg = "Comment received and awaiting moderation"
	}
	h.message(c, http.StatusCreated, msg, gin.H{"comment": comment})
}

// Recent handles GET /api/comments/recent
func (h *CommentHandler) Recent(c *gin.Context) {
	comments, err := h.services.Comment.Recent(c.Request.Context(), c.Query("limit"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, gin.H{"comments": comments})
}

// Replies handles GET /api/comments/:commentId/replies
func (h *CommentHandler) Replies(c *gin.Context) {
	result, err := h.services.Comment.Replies(c.Request.Context(), c.Param("commentId"), c.Query("page"), c.Query("limit"))
	if err != nil {
		h.fail(c, err)
		return
	}

	h.ok(c, gin.H{
		"parent":     result.Parent,
		"replies":    result.Replies,
		"pagination": paginationJSON(result.Pagination, "totalReplies"),
	})
}

// ToggleLike handles POST /api/comments/:commentId/like
func (h *CommentHandler) ToggleLike(c *gin.Context) {
	result, err := h.services.Engagement.ToggleCommentLike(c.Request.Context(), c.Param("commentId"), userIDFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.message(c, http.StatusOK, likeMessage(result), result)
}

// Moderate handles PATCH /api/comments/:commentId/moderate
func (h *CommentHandler) Moderate(c *gin.Context) {
	var req moderateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "approved must be true or false", err)
		return
	}

	comment, err := h.services.Comment.Moderate(c.Request.Context(), c.Param("commentId"), *req.Approved)
	if err != nil {
		h.fail(c, err)
		return
	}

	msg := "Comment rejected"
	if comment.IsApproved {
		msg = "Comment approved"
	}
	h.message(c, http.StatusOK, msg, gin.H{"comment": comment})
}
