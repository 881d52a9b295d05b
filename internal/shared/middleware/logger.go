package middleware

import (
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"blog-backend/internal/shared/principal"
)

// sensitiveParams are masked whenever they appear in a logged query string.
var sensitiveParams = []string{"password", "token", "apikey", "api_key", "secret", "authorization"}

func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		rawQuery := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		var event *zerolog.Event
		switch {
		case status >= 500:
			event = log.Error()
		case status >= 400:
			event = log.Warn()
		default:
			event = log.Info()
		}

		event = event.
			Str("request_id", c.GetString(RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency_ms", latency).
			Str("ip", ClientIPFrom(c))

		if rawQuery != "" {
			event = event.Str("query", MaskQuery(rawQuery))
		}
		if p, ok := principal.Get(c); ok {
			event = event.Str("user_id", p.UserID)
		}

		event.Msg("HTTP Request")
	}
}

// MaskQuery replaces the values of sensitive query parameters with "***".
func MaskQuery(rawQuery string) string {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return "[unparseable]"
	}
	for key := range values {
		if isSensitive(key) {
			values[key] = []string{"***"}
		}
	}
	return values.Encode()
}

func isSensitive(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range sensitiveParams {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
