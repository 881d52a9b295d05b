package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blog-backend/internal/domains/image"
	"blog-backend/internal/shared/response"
)

// ImageHandler serves /api/images.
type ImageHandler struct {
	service image.Service
}

func NewImageHandler(service image.Service) *ImageHandler {
	return &ImageHandler{service: service}
}

// Serve handles GET /api/images/:fileId by redirecting to a view URL.
func (h *ImageHandler) Serve(c *gin.Context) {
	url, err := h.service.ViewURL(c.Request.Context(), c.Param("fileId"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, url)
}

// Download handles GET /api/images/download/:fileId
func (h *ImageHandler) Download(c *gin.Context) {
	url, err := h.service.DownloadURL(c.Request.Context(), c.Param("fileId"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, url)
}

// URL handles GET /api/images/url/:fileId
func (h *ImageHandler) URL(c *gin.Context) {
	urls, err := h.service.URLs(c.Request.Context(), c.Param("fileId"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", gin.H{"data": urls})
}

// Info handles GET /api/images/info/:fileId
func (h *ImageHandler) Info(c *gin.Context) {
	info, err := h.service.Info(c.Request.Context(), c.Param("fileId"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", gin.H{"data": info})
}
