package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blog-backend/internal/shared/apperror"
	"blog-backend/internal/shared/response"
)

// multipartOverhead leaves room for form fields and boundaries on top of
// the file ceiling.
const multipartOverhead = 1 << 20

// BodyLimit caps the request body. Requests that declare a larger
// Content-Length are rejected with 413 before reading; bodies that lie about
// their length fail when the handler reads past the limit.
func BodyLimit(maxFileBytes int64) gin.HandlerFunc {
	limit := maxFileBytes + multipartOverhead
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			response.Fail(c, apperror.PayloadTooLarge("File size too large"))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
