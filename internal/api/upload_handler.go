package api

import (
	"net/http"

	"github.com/blog-content-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// UploadHandler handles image uploads
type UploadHandler struct {
	services *service.Services
	responder
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(services *service.Services, dev bool, log zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		services:  services,
		responder: responder{dev: dev, log: log.With().Str("handler", "upload").Logger()},
	}
}

// UploadImage handles POST /api/upload/image
func (h *UploadHandler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		h.badRequest(c, "No file provided", err)
		return
	}

	img, err := h.services.Upload.SaveImage(c.Request.Context(), file)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.message(c, http.StatusOK, "Image uploaded successfully", img)
}
