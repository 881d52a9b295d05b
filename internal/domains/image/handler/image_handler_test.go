package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-backend/internal/domains/image/service"
	"blog-backend/internal/infrastructure/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubStorage struct {
	objects map[string]*storage.ObjectInfo
	statErr error
}

func (s *stubStorage) Put(context.Context, string, io.Reader, int64, string) error { return nil }
func (s *stubStorage) Delete(context.Context, string) error                        { return nil }

func (s *stubStorage) Stat(_ context.Context, key string) (*storage.ObjectInfo, error) {
	if s.statErr != nil {
		return nil, s.statErr
	}
	obj, ok := s.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return obj, nil
}

func (s *stubStorage) PresignedURL(_ context.Context, key string, download bool) (string, error) {
	if download {
		return "https://blobs.example.com/" + key + "?download=1", nil
	}
	return "https://blobs.example.com/" + key, nil
}

func newRouter(store storage.Storage) *gin.Engine {
	h := NewImageHandler(service.NewImageService(store))
	router := gin.New()
	images := router.Group("/api/images")
	images.GET("/url/:fileId", h.URL)
	images.GET("/info/:fileId", h.Info)
	images.GET("/download/:fileId", h.Download)
	images.GET("/:fileId", h.Serve)
	return router
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

var created = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func newStore() *stubStorage {
	return &stubStorage{objects: map[string]*storage.ObjectInfo{
		"img-1": {Key: "img-1", Size: 2048, ContentType: "image/png", ETag: `"abc"`, LastModified: created},
	}}
}

func TestServeRedirectsToViewURL(t *testing.T) {
	w := get(newRouter(newStore()), "/api/images/img-1")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://blobs.example.com/img-1", w.Header().Get("Location"))
}

func TestDownloadRedirectsToAttachmentURL(t *testing.T) {
	w := get(newRouter(newStore()), "/api/images/download/img-1")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://blobs.example.com/img-1?download=1", w.Header().Get("Location"))
}

func TestURLReturnsBothLinks(t *testing.T) {
	w := get(newRouter(newStore()), "/api/images/url/img-1")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			FileID      string `json:"fileId"`
			URL         string `json:"url"`
			DownloadURL string `json:"downloadUrl"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "img-1", body.Data.FileID)
	assert.Equal(t, "https://blobs.example.com/img-1", body.Data.URL)
	assert.Equal(t, "https://blobs.example.com/img-1?download=1", body.Data.DownloadURL)
}

func TestInfoReturnsMetadata(t *testing.T) {
	w := get(newRouter(newStore()), "/api/images/info/img-1")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "img-1", body.Data["id"])
	assert.Equal(t, "image/png", body.Data["mimeType"])
	assert.Equal(t, float64(2048), body.Data["sizeOriginal"])
	assert.Equal(t, "abc", body.Data["signature"])
}

func TestMissingImageIs404(t *testing.T) {
	router := newRouter(newStore())

	for path, message := range map[string]string{
		"/api/images/nope":          "Image not found",
		"/api/images/url/nope":      "Image not found",
		"/api/images/info/nope":     "File not found",
		"/api/images/download/nope": "File not found",
	} {
		w := get(router, path)
		assert.Equal(t, http.StatusNotFound, w.Code, path)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, message, body["message"], path)
	}
}

func TestStorageFailureIs500(t *testing.T) {
	store := newStore()
	store.statErr = errors.New("connection refused")

	w := get(newRouter(store), "/api/images/img-1")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
