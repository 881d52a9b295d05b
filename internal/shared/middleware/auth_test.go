package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-backend/internal/shared/principal"
	"blog-backend/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubRevocations struct {
	revoked map[string]bool
	err     error
}

func (s stubRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	return s.revoked[tokenID], s.err
}

func newProtectedRouter(mw gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.GET("/protected", mw, func(c *gin.Context) {
		p, ok := principal.Get(c)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"anonymous": true})
			return
		}
		fromCtx, _ := principal.FromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"userId": p.UserID, "email": p.Email, "ctxUserId": fromCtx.UserID})
	})
	return router
}

func doGet(router *gin.Engine, authHeader string) (*httptest.ResponseRecorder, map[string]interface{}) {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var body map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestAuthenticateMissingToken(t *testing.T) {
	manager := jwt.NewManager("secret", time.Hour)
	w, body := doGet(newProtectedRouter(Authenticate(manager, nil)), "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Access denied. No token provided.", body["message"])
	assert.Equal(t, false, body["success"])
}

func TestAuthenticateAttachesIdentity(t *testing.T) {
	manager := jwt.NewManager("secret", time.Hour)
	token, _, err := manager.Issue("user-1", "a@b.com")
	require.NoError(t, err)

	w, body := doGet(newProtectedRouter(Authenticate(manager, nil)), "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", body["userId"])
	assert.Equal(t, "a@b.com", body["email"])
	assert.Equal(t, "user-1", body["ctxUserId"])
}

func TestAuthenticateInvalidToken(t *testing.T) {
	manager := jwt.NewManager("secret", time.Hour)
	w, body := doGet(newProtectedRouter(Authenticate(manager, nil)), "Bearer garbage")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_TOKEN", body["code"])
}

func TestAuthenticateExpiredToken(t *testing.T) {
	past := time.Now().Add(-2 * time.Hour)
	issuer := jwt.NewManager("secret", time.Hour).WithClock(func() time.Time { return past })
	token, _, err := issuer.Issue("user-1", "a@b.com")
	require.NoError(t, err)

	w, body := doGet(newProtectedRouter(Authenticate(jwt.NewManager("secret", time.Hour), nil)), "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "EXPIRED_TOKEN", body["code"])
	assert.Equal(t, "Token expired", body["message"])
}

func TestAuthenticateRejectsRevokedToken(t *testing.T) {
	manager := jwt.NewManager("secret", time.Hour)
	token, claims, err := manager.Issue("user-1", "a@b.com")
	require.NoError(t, err)

	revocations := stubRevocations{revoked: map[string]bool{claims.TokenID(): true}}
	w, body := doGet(newProtectedRouter(Authenticate(manager, revocations)), "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_TOKEN", body["code"])
}

func TestAuthenticateRevocationStoreFailure(t *testing.T) {
	manager := jwt.NewManager("secret", time.Hour)
	token, _, err := manager.Issue("user-1", "a@b.com")
	require.NoError(t, err)

	revocations := stubRevocations{err: errors.New("redis down")}
	w, _ := doGet(newProtectedRouter(Authenticate(manager, revocations)), "Bearer "+token)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAuthenticateRejectsNonBearerScheme(t *testing.T) {
	manager := jwt.NewManager("secret", time.Hour)
	token, _, err := manager.Issue("user-1", "a@b.com")
	require.NoError(t, err)

	w, body := doGet(newProtectedRouter(Authenticate(manager, nil)), "Basic "+token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Access denied. No token provided.", body["message"])
}

func TestOptionalAuthProceedsAnonymously(t *testing.T) {
	manager := jwt.NewManager("secret", time.Hour)
	router := newProtectedRouter(OptionalAuth(manager, nil))

	for _, header := range []string{"", "Bearer garbage"} {
		w, body := doGet(router, header)
		assert.Equal(t, http.StatusOK, w.Code, header)
		assert.Equal(t, true, body["anonymous"], header)
	}
}

func TestOptionalAuthAttachesIdentity(t *testing.T) {
	manager := jwt.NewManager("secret", time.Hour)
	token, _, err := manager.Issue("user-9", "z@b.com")
	require.NoError(t, err)

	w, body := doGet(newProtectedRouter(OptionalAuth(manager, nil)), "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-9", body["userId"])
}
