package principal

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// contextKey is unexported so no other package can collide with it.
type contextKey struct{}

// ginKey is the gin.Context key the auth middleware stores the principal under.
const ginKey = "principal"

// Principal is the verified identity attached to a request.
type Principal struct {
	UserID    string
	Email     string
	TokenID   string
	ExpiresAt time.Time
}

// DisplayName falls back to the local part of the email address.
func (p Principal) DisplayName() string {
	return LocalPart(p.Email)
}

// LocalPart returns everything before the first "@".
func LocalPart(email string) string {
	if i := strings.Index(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}

// WithContext returns a copy of ctx carrying p.
func WithContext(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext extracts the principal stored by WithContext.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(Principal)
	return p, ok
}

// Set stores p on both the gin context and the request context.
func Set(c *gin.Context, p Principal) {
	c.Set(ginKey, p)
	c.Request = c.Request.WithContext(WithContext(c.Request.Context(), p))
}

// Get returns the principal for the current request, if any.
func Get(c *gin.Context) (Principal, bool) {
	if v, exists := c.Get(ginKey); exists {
		if p, ok := v.(Principal); ok {
			return p, true
		}
	}
	return FromContext(c.Request.Context())
}
