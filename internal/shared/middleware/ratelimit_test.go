package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func newLimitedRouter(rl *RateLimiter) *gin.Engine {
	router := gin.New()
	router.Use(ClientIP())
	router.POST("/login", rl.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func postFrom(router *gin.Engine, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = ip + ":4000"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiterRejectsOverBurst(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: rate.Every(time.Hour), Burst: 2, CleanupInterval: time.Minute})
	defer rl.Stop()
	router := newLimitedRouter(rl)

	assert.Equal(t, http.StatusOK, postFrom(router, "192.0.2.1").Code)
	assert.Equal(t, http.StatusOK, postFrom(router, "192.0.2.1").Code)

	w := postFrom(router, "192.0.2.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "RATE_LIMITED")
}

func TestRateLimiterIsPerClient(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: rate.Every(time.Hour), Burst: 1, CleanupInterval: time.Minute})
	defer rl.Stop()
	router := newLimitedRouter(rl)

	assert.Equal(t, http.StatusOK, postFrom(router, "192.0.2.1").Code)
	assert.Equal(t, http.StatusOK, postFrom(router, "192.0.2.2").Code)
	assert.Equal(t, 2, rl.Len())
}

func TestRateLimiterCleanupDropsIdleClients(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: rate.Every(time.Hour), Burst: 1, CleanupInterval: time.Minute})
	defer rl.Stop()

	rl.limiterFor("192.0.2.1")
	rl.cleanup(time.Now().Add(time.Minute))
	assert.Equal(t, 1, rl.Len())

	rl.cleanup(time.Now().Add(3 * time.Minute))
	assert.Equal(t, 0, rl.Len())
}

func TestPerMinute(t *testing.T) {
	cfg := PerMinute(30)

	assert.Equal(t, 30, cfg.Burst)
	assert.InDelta(t, 0.5, float64(cfg.Rate), 1e-9)
	assert.Equal(t, 2, retryAfterSeconds(cfg.Rate))
}
