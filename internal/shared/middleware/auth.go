package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"blog-backend/internal/shared/apperror"
	"blog-backend/internal/shared/principal"
	"blog-backend/internal/shared/response"
	"blog-backend/pkg/jwt"
	"blog-backend/pkg/logger"
)

// TokenVerifier decodes a bearer token. *jwt.Manager satisfies it.
type TokenVerifier interface {
	Verify(token string) (*jwt.Claims, error)
}

// RevocationChecker reports whether a token id was revoked by logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Authenticate rejects the request with 401 unless it carries a valid,
// unrevoked bearer token. revocations may be nil.
func Authenticate(verifier TokenVerifier, revocations RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Unauthorized(c, "Access denied. No token provided.")
			return
		}

		p, err := resolve(c.Request.Context(), verifier, revocations, token)
		if err != nil {
			response.Fail(c, err)
			return
		}

		principal.Set(c, p)
		c.Next()
	}
}

// OptionalAuth attaches the principal when a valid token is present and
// otherwise lets the request through anonymously.
func OptionalAuth(verifier TokenVerifier, revocations RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			p, err := resolve(c.Request.Context(), verifier, revocations, token)
			if err == nil {
				principal.Set(c, p)
			} else {
				logger.Debug("optional auth ignored token", map[string]interface{}{
					"request_id": c.GetString(RequestIDKey),
					"reason":     err.Error(),
				})
			}
		}
		c.Next()
	}
}

func resolve(ctx context.Context, verifier TokenVerifier, revocations RevocationChecker, token string) (principal.Principal, error) {
	claims, err := verifier.Verify(token)
	if err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			return principal.Principal{}, apperror.ExpiredToken()
		}
		return principal.Principal{}, apperror.InvalidToken("Invalid token.")
	}

	if revocations != nil {
		revoked, err := revocations.IsRevoked(ctx, claims.TokenID())
		if err != nil {
			return principal.Principal{}, apperror.Internal("Failed to verify token", err)
		}
		if revoked {
			return principal.Principal{}, apperror.InvalidToken("Token has been revoked.")
		}
	}

	return principal.Principal{
		UserID:    claims.UserID,
		Email:     claims.Email,
		TokenID:   claims.TokenID(),
		ExpiresAt: claims.Expiry(),
	}, nil
}

// bearerToken returns the token from "Authorization: Bearer <token>".
func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
