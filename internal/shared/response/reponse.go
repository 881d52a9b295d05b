package response

import (
	"time"

	"github.com/gin-gonic/gin"

	"blog-backend/internal/shared/apperror"
	"blog-backend/pkg/logger"
)

// ErrorBody is the uniform error envelope returned by every endpoint.
type ErrorBody struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	Code      string            `json:"code"`
	Errors    map[string]string `json:"errors,omitempty"`
	Debug     *DebugInfo        `json:"error,omitempty"`
	Timestamp string            `json:"timestamp"`
	Path      string            `json:"path"`
}

// DebugInfo is only attached outside production.
type DebugInfo struct {
	Detail string `json:"details"`
	// Stack is where the error was classified as internal.
	Stack string `json:"stack,omitempty"`
}

// debug is set once at startup from APP_ENV.
var debug bool

// SetDebug toggles inclusion of error detail in error responses.
// Must be called before the server starts handling requests.
func SetDebug(enabled bool) {
	debug = enabled
}

// Success writes {"success": true, "message": ...} merged with payload.
func Success(c *gin.Context, statusCode int, message string, payload gin.H) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	for key, value := range payload {
		body[key] = value
	}
	c.JSON(statusCode, body)
}

// Fail maps err onto the error taxonomy and writes the error envelope.
// Internal errors are logged with their cause, the cause is never shown
// to clients in production.
func Fail(c *gin.Context, err error) {
	appErr := apperror.From(err)

	if appErr.Kind == apperror.KindInternal {
		logger.ErrorWithFields("request failed", err, map[string]interface{}{
			"request_id": c.GetString("request_id"),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
		})
	}

	body := ErrorBody{
		Success:   false,
		Message:   appErr.Message,
		Code:      appErr.Kind.String(),
		Errors:    appErr.Details,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Path:      c.Request.URL.RequestURI(),
	}

	if debug && appErr.Err != nil {
		body.Debug = &DebugInfo{
			Detail: appErr.Err.Error(),
			Stack:  appErr.StackTrace(),
		}
	}

	c.AbortWithStatusJSON(appErr.Status(), body)
}

// Common error responses

func BadRequest(c *gin.Context, message string) {
	Fail(c, apperror.Validation(message, nil))
}

func Unauthorized(c *gin.Context, message string) {
	Fail(c, apperror.InvalidToken(message))
}

func NotFound(c *gin.Context, message string) {
	Fail(c, apperror.NotFound(message))
}
