package api

import (
	"net/http"
	"strings"

	"github.com/blog-content-api/internal/models"
	"github.com/blog-content-api/internal/query"
	"github.com/blog-content-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ArticleHandler handles article and like endpoints
type ArticleHandler struct {
	services *service.Services
	responder
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(services *service.Services, dev bool, log zerolog.Logger) *ArticleHandler {
	return &ArticleHandler{
		services:  services,
		responder: responder{dev: dev, log: log.With().Str("handler", "article").Logger()},
	}
}

func listParams(c *gin.Context) service.ListParams {
	return service.ListParams{
		Search:    c.Query("search"),
		Tag:       c.Query("tag"),
		Author:    c.Query("author"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
		Page:      c.Query("page"),
		Limit:     c.Query("limit"),
	}
}

// articleView is a single article with its rendered body
type articleView struct {
	*models.Article
	ContentHTML string `json:"contentHtml,omitempty"`
}

// List handles GET /api/articles
func (h *ArticleHandler) List(c *gin.Context) {
	result, err := h.services.Article.List(c.Request.Context(), listParams(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	h.ok(c, gin.H{
		"articles":   result.Articles,
		"pagination": paginationJSON(result.Pagination, "totalArticles"),
	})
}

// Search handles GET /api/articles/search
func (h *ArticleHandler) Search(c *gin.Context) {
	term := strings.TrimSpace(c.Query("q"))
	result, err := h.services.Article.Search(c.Request.Context(), term, listParams(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	h.ok(c, gin.H{
		"articles":   result.Articles,
		"searchTerm": term,
		"pagination": paginationJSON(result.Pagination, "totalResults"),
	})
}

// Popular handles GET /api/articles/popular
func (h *ArticleHandler) Popular(c *gin.Context) {
	articles, err := h.services.Article.Popular(c.Request.Context(), c.Query("limit"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, gin.H{"articles": articles})
}

// Tags handles GET /api/articles/tags
func (h *ArticleHandler) Tags(c *gin.Context) {
	tags, err := h.services.Article.Tags(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, gin.H{"tags": tags})
}

// Stats handles GET /api/articles/stats
func (h *ArticleHandler) Stats(c *gin.Context) {
	stats, err := h.services.Article.Stats(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, gin.H{"stats": stats})
}

// ByTag handles GET /api/articles/tag/:tag
func (h *ArticleHandler) ByTag(c *gin.Context) {
	result, err := h.services.Article.ByTag(c.Request.Context(), c.Param("tag"), listParams(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	h.ok(c, gin.H{
		"articles":   result.Articles,
		"tag":        query.NormalizeTag(c.Param("tag")),
		"pagination": paginationJSON(result.Pagination, "totalArticles"),
	})
}

// GetBySlug handles GET /api/articles/:slug
func (h *ArticleHandler) GetBySlug(c *gin.Context) {
	detail, err := h.services.Article.GetBySlug(c.Request.Context(), c.Param("slug"), userIDFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	data := gin.H{"article": articleView{Article: detail.Article, ContentHTML: detail.ContentHTML}}
	if detail.UserLiked != nil {
		data["userLiked"] = *detail.UserLiked
	}
	h.ok(c, data)
}

// ToggleLike handles POST /api/articles/:slug/like
func (h *ArticleHandler) ToggleLike(c *gin.Context) {
	result, err := h.services.Engagement.ToggleArticleLike(c.Request.Context(), c.Param("slug"), userIDFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.message(c, http.StatusOK, likeMessage(result), result)
}

// Likes handles GET /api/articles/:slug/likes
func (h *ArticleHandler) Likes(c *gin.Context) {
	result, err := h.services.Engagement.ArticleLikes(c.Request.Context(), c.Param("slug"), c.Query("limit"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, gin.H{"likes": result.Likes, "totalLikes": result.TotalLikes})
}

func likeMessage(result *models.ToggleResult) string {
	if result.Liked {
		return "Like added"
	}
	return "Like removed"
}
