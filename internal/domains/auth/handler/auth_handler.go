package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"blog-backend/internal/domains/auth"
	"blog-backend/internal/shared/principal"
	"blog-backend/internal/shared/response"
)

// AuthHandler serves /api/auth.
type AuthHandler struct {
	service auth.Service
}

func NewAuthHandler(service auth.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "User registered successfully", gin.H{
		"user":  result.User,
		"token": result.Token,
	})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Login successful", gin.H{
		"user":  result.User,
		"token": result.Token,
	})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	if err := h.service.Logout(c.Request.Context(), p); err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Logout successful", nil)
}

// Profile handles GET /api/auth/profile
func (h *AuthHandler) Profile(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	response.Success(c, http.StatusOK, "", gin.H{"user": h.service.Profile(p)})
}

// UpdateProfile handles PUT /api/auth/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	var req auth.UpdateProfileRequest
	if !h.bind(c, &req) {
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), p, req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Profile updated successfully", gin.H{"user": user})
}

// Test handles GET /api/auth/test
func (h *AuthHandler) Test(c *gin.Context) {
	response.Success(c, http.StatusOK, "Auth routes are working!", gin.H{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ========================================
// HELPERS
// ========================================

func (h *AuthHandler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return false
	}
	return true
}

// principal is set by middleware.Authenticate; its absence means the route
// was registered without it.
func (h *AuthHandler) principal(c *gin.Context) (principal.Principal, bool) {
	p, ok := principal.Get(c)
	if !ok {
		response.Unauthorized(c, "Access denied. No token provided.")
		return principal.Principal{}, false
	}
	return p, true
}
