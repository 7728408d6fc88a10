package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/blog-content-api/internal/config"
	"github.com/blog-content-api/internal/metrics"
	"github.com/blog-content-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.MaxMultipartMemory = cfg.Upload.MaxUploadSize

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(metricsMiddleware())
	router.Use(corsMiddleware(cfg.Server.AllowedOrigins))

	dev := cfg.IsDevelopment()
	auth := newAuthenticator(&cfg.Auth, log)
	articleHandler := NewArticleHandler(services, dev, log)
	commentHandler := NewCommentHandler(services, dev, log)
	uploadHandler := NewUploadHandler(services, dev, log)

	// Health check
	router.GET("/health", healthCheck(services))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.Static(cfg.Upload.PublicPrefix, cfg.Upload.Dir)

	api := router.Group("/api")
	{
		articles := api.Group("/articles")
		{
			articles.GET("", articleHandler.List)
			articles.GET("/search", articleHandler.Search)
			articles.GET("/popular", articleHandler.Popular)
			articles.GET("/tags", articleHandler.Tags)
			articles.GET("/stats", articleHandler.Stats)
			articles.GET("/tag/:tag", articleHandler.ByTag)
			articles.GET("/:slug", auth.optional(), articleHandler.GetBySlug)
			articles.POST("/:slug/like", auth.required(), articleHandler.ToggleLike)
			articles.GET("/:slug/likes", articleHandler.Likes)
			articles.GET("/:slug/comments", commentHandler.ForArticle)
			articles.POST("/:slug/comments", commentHandler.Create)
		}

		comments := api.Group("/comments")
		{
			comments.GET("/recent", commentHandler.Recent)
			comments.GET("/:commentId/replies", commentHandler.Replies)
			comments.POST("/:commentId/like", auth.required(), commentHandler.ToggleLike)
			comments.PATCH("/:commentId/moderate", auth.required(), requireRole(RoleAdmin, RoleModerator), commentHandler.Moderate)
		}

		api.POST("/upload/image", uploadHandler.UploadImage)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, envelope{Success: false, Message: "Route not found"})
	})

	return router
}

// healthCheck reports the service and store status
func healthCheck(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, state, store := http.StatusOK, "healthy", "up"
		if err := services.Health.HealthCheck(c.Request.Context()); err != nil {
			status, state, store = http.StatusServiceUnavailable, "unhealthy", "down"
		}

		c.JSON(status, gin.H{
			"status":    state,
			"store":     store,
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   "blog-content-api",
		})
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Str("path", c.Request.URL.Path).Msg("Panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, envelope{
					Success: false,
					Message: "Internal server error",
				})
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// metricsMiddleware records request counts and latency per route template
func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}

// corsMiddleware handles CORS for the configured origins
func corsMiddleware(allowed []string) gin.HandlerFunc {
	allowAll := false
	origins := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			allowAll = true
		}
		origins[strings.TrimSuffix(o, "/")] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if allowAll {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else if _, ok := origins[origin]; ok && origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Add("Vary", "Origin")
		}
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
