package middleware

import (
	"github.com/gin-gonic/gin"

	"blog-backend/internal/shared/utils"
)

const clientIPKey = "client_ip"

// ClientIP extracts the caller address once so the logger and the
// rate limiter agree on it.
//
// Usage:
//
//	router.Use(middleware.ClientIP())
func ClientIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(clientIPKey, utils.ExtractClientIP(c))
		c.Next()
	}
}

// ClientIPFrom returns the address stored by ClientIP, falling back to
// extracting it directly when the middleware is not installed.
func ClientIPFrom(c *gin.Context) string {
	if ip := c.GetString(clientIPKey); ip != "" {
		return ip
	}
	return utils.ExtractClientIP(c)
}
