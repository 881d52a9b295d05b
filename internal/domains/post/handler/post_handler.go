package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"blog-backend/internal/attachment"
	"blog-backend/internal/domains/post"
	"blog-backend/internal/shared/apperror"
	"blog-backend/internal/shared/principal"
	"blog-backend/internal/shared/response"
)

// Stager writes an uploaded file to the staging area. *attachment.Stager
// satisfies it.
type Stager interface {
	Stage(fh *multipart.FileHeader) (*attachment.Staged, error)
}

// PostHandler serves /api/posts.
type PostHandler struct {
	service post.Service
	stager  Stager
}

func NewPostHandler(service post.Service, stager Stager) *PostHandler {
	return &PostHandler{service: service, stager: stager}
}

// ========================================
// PUBLIC
// ========================================

// List handles GET /api/posts
func (h *PostHandler) List(c *gin.Context) {
	var q post.ListPostsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Fail(c, apperror.Validation("Invalid query parameters", nil))
		return
	}

	page, err := h.service.List(c.Request.Context(), q, callerID(c))
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", pageBody(page))
}

// GetBySlug handles GET /api/posts/:slug
func (h *PostHandler) GetBySlug(c *gin.Context) {
	p, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"), callerID(c))
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", gin.H{"post": p})
}

// ========================================
// AUTHENTICATED
// ========================================

// ListMine handles GET /api/posts/user/me
func (h *PostHandler) ListMine(c *gin.Context) {
	var q post.ListPostsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Fail(c, apperror.Validation("Invalid query parameters", nil))
		return
	}

	page, err := h.service.ListMine(c.Request.Context(), q, callerID(c))
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", pageBody(page))
}

// Create handles POST /api/posts (multipart, optional featuredImage)
func (h *PostHandler) Create(c *gin.Context) {
	var req post.CreatePostRequest
	image, ok := h.bindWithImage(c, &req)
	if !ok {
		return
	}
	defer image.Discard()

	p, err := h.service.Create(c.Request.Context(), callerID(c), req, image)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Post created successfully", gin.H{"post": p})
}

// Update handles PUT /api/posts/:id
func (h *PostHandler) Update(c *gin.Context) {
	var req post.UpdatePostRequest
	image, ok := h.bindWithImage(c, &req)
	if !ok {
		return
	}
	defer image.Discard()

	p, err := h.service.Update(c.Request.Context(), callerID(c), c.Param("id"), req, image)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Post updated successfully", gin.H{"post": p})
}

// Delete handles DELETE /api/posts/:id
func (h *PostHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), callerID(c), c.Param("id")); err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Post deleted successfully", nil)
}

// ========================================
// HELPERS
// ========================================

func callerID(c *gin.Context) string {
	if p, ok := principal.Get(c); ok {
		return p.UserID
	}
	return ""
}

// bindWithImage binds form or JSON fields into req and stages the optional
// featuredImage file. It writes the error response itself and returns
// false on failure. The returned Staged may be nil.
func (h *PostHandler) bindWithImage(c *gin.Context, req *post.PostRequest) (*attachment.Staged, bool) {
	if err := c.ShouldBind(req); err != nil {
		response.Fail(c, bodyError(err))
		return nil, false
	}

	fh, err := c.FormFile(attachment.FieldName)
	switch {
	case err == nil:
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return nil, true
	default:
		response.Fail(c, bodyError(err))
		return nil, false
	}

	staged, err := h.stager.Stage(fh)
	if err != nil {
		response.Fail(c, err)
		return nil, false
	}
	return staged, true
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperror.PayloadTooLarge("File size too large")
	}
	return apperror.Validation("Invalid request body", nil)
}

func pageBody(page *post.PageDescriptor) gin.H {
	return gin.H{
		"posts":       page.Posts,
		"total":       page.Total,
		"page":        page.Page,
		"totalPages":  page.TotalPages,
		"hasNextPage": page.HasNextPage,
		"hasPrevPage": page.HasPrevPage,
	}
}
