package api

import (
	"errors"
	"net/http"

	"github.com/blog-content-api/internal/query"
	"github.com/blog-content-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// envelope is the uniform response body
type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// responder writes envelopes; error details are only exposed in development
type responder struct {
	dev bool
	log zerolog.Logger
}

func (r responder) ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data})
}

func (r responder) message(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, envelope{Success: true, Message: message, Data: data})
}

func (r responder) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	body := envelope{Success: false, Message: "Internal server error"}

	var appErr *service.AppError
	var paramErr *query.ParamError
	switch {
	case errors.As(err, &appErr):
		status = service.HTTPStatus(appErr.Code)
		body.Message = appErr.Message
		if r.dev && appErr.Origin != nil {
			body.Error = appErr.Origin.Error()
		}
	case errors.As(err, &paramErr):
		status = http.StatusBadRequest
		body.Message = paramErr.Message
	default:
		if r.dev {
			body.Error = err.Error()
		}
	}

	if status >= http.StatusInternalServerError {
		r.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
	}
	c.JSON(status, body)
}

func (r responder) badRequest(c *gin.Context, message string, err error) {
	body := envelope{Success: false, Message: message}
	if r.dev && err != nil {
		body.Error = err.Error()
	}
	c.JSON(http.StatusBadRequest, body)
}

// paginationJSON renders page metadata; totalKey names the total field per resource
func paginationJSON(info query.PageInfo, totalKey string) gin.H {
	return gin.H{
		"currentPage": info.CurrentPage,
		"totalPages":  info.TotalPages,
		totalKey:      info.Total,
		"hasNextPage": info.HasNextPage,
		"hasPrevPage": info.HasPrevPage,
		"limit":       info.Limit,
	}
}
