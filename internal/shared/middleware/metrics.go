package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"blog-backend/internal/shared/metrics"
)

// Metrics records one request observation per handled request, labelled by
// the matched route template so path parameters do not explode cardinality.
func Metrics(recorder metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		recorder.RecordRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
