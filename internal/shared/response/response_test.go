package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-backend/internal/shared/apperror"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performFail(t *testing.T, err error) (*httptest.ResponseRecorder, ErrorBody) {
	t.Helper()

	router := gin.New()
	router.GET("/api/posts/:slug", func(c *gin.Context) {
		Fail(c, err)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/posts/missing?x=1", nil)
	router.ServeHTTP(w, req)

	var body ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestFailWritesUniformEnvelope(t *testing.T) {
	w, body := performFail(t, apperror.NotFound("Post not found"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, body.Success)
	assert.Equal(t, "Post not found", body.Message)
	assert.Equal(t, "NOT_FOUND", body.Code)
	assert.Equal(t, "/api/posts/missing?x=1", body.Path)
	assert.NotEmpty(t, body.Timestamp)
	assert.Nil(t, body.Debug)
}

func TestFailIncludesFieldErrors(t *testing.T) {
	w, body := performFail(t, apperror.Validation("Validation failed", map[string]string{
		"slug": "must be in a valid format",
	}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "must be in a valid format", body.Errors["slug"])
}

func TestFailHidesCauseOutsideDebug(t *testing.T) {
	SetDebug(false)
	w, body := performFail(t, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", body.Message)
	assert.Nil(t, body.Debug)
}

func TestFailShowsCauseInDebug(t *testing.T) {
	SetDebug(true)
	defer SetDebug(false)

	_, body := performFail(t, errors.New("pq: connection refused"))

	require.NotNil(t, body.Debug)
	assert.Equal(t, "pq: connection refused", body.Debug.Detail)
	assert.Contains(t, body.Debug.Stack, "response.Fail")
}

func TestFailDebugOmitsStackForClassifiedErrors(t *testing.T) {
	SetDebug(true)
	defer SetDebug(false)

	w := httptest.NewRecorder()
	router := gin.New()
	router.GET("/x", func(c *gin.Context) {
		Fail(c, apperror.Wrap(apperror.KindNotFound, "Post not found", errors.New("no rows")))
	})
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	debugInfo := raw["error"].(map[string]interface{})
	assert.Equal(t, "no rows", debugInfo["details"])
	assert.NotContains(t, debugInfo, "stack")
}

func TestSuccessMergesPayload(t *testing.T) {
	router := gin.New()
	router.GET("/ok", func(c *gin.Context) {
		Success(c, http.StatusCreated, "Post created successfully", gin.H{"post": gin.H{"id": "p1"}})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Post created successfully", body["message"])
	assert.Equal(t, "p1", body["post"].(map[string]interface{})["id"])
}

func TestShorthandHelpersMapToTaxonomy(t *testing.T) {
	cases := []struct {
		name   string
		write  func(c *gin.Context)
		status int
		code   string
	}{
		{"bad request", func(c *gin.Context) { BadRequest(c, "Invalid request body") }, http.StatusBadRequest, "VALIDATION_FAILED"},
		{"unauthorized", func(c *gin.Context) { Unauthorized(c, "Access denied. No token provided.") }, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"not found", func(c *gin.Context) { NotFound(c, "Route not found") }, http.StatusNotFound, "NOT_FOUND"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/x", tc.write)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

			var body ErrorBody
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.code, body.Code)
		})
	}
}
