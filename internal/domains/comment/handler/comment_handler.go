package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blog-backend/internal/domains/comment"
	"blog-backend/internal/shared/principal"
	"blog-backend/internal/shared/response"
)

// CommentHandler serves /api/comments.
type CommentHandler struct {
	service comment.Service
}

func NewCommentHandler(service comment.Service) *CommentHandler {
	return &CommentHandler{service: service}
}

// List handles GET /api/comments?postId=
func (h *CommentHandler) List(c *gin.Context) {
	var q comment.ListCommentsQuery
	_ = c.ShouldBindQuery(&q)

	var callerID string
	if p, ok := principal.Get(c); ok {
		callerID = p.UserID
	}

	comments, err := h.service.ListByPost(c.Request.Context(), q.PostID, callerID)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", gin.H{
		"comments": comments,
		"total":    len(comments),
	})
}

// Create handles POST /api/comments
func (h *CommentHandler) Create(c *gin.Context) {
	p, ok := principal.Get(c)
	if !ok {
		response.Unauthorized(c, "Access denied. No token provided.")
		return
	}

	var req comment.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	created, err := h.service.Create(c.Request.Context(), p, req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Comment created successfully", gin.H{"comment": created})
}

// Update handles PUT /api/comments/:id
func (h *CommentHandler) Update(c *gin.Context) {
	p, ok := principal.Get(c)
	if !ok {
		response.Unauthorized(c, "Access denied. No token provided.")
		return
	}

	var req comment.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.service.Update(c.Request.Context(), p.UserID, c.Param("id"), req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Comment updated successfully", gin.H{"comment": updated})
}

// Delete handles DELETE /api/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	p, ok := principal.Get(c)
	if !ok {
		response.Unauthorized(c, "Access denied. No token provided.")
		return
	}

	if err := h.service.Delete(c.Request.Context(), p.UserID, c.Param("id")); err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Comment deleted successfully", nil)
}
