package comment

import (
	"context"

	"blog-backend/internal/shared/query"
)

// Repository is the document store for comments.
type Repository interface {
	// Create returns NotFound when the post does not exist.
	Create(ctx context.Context, c *Comment) error
	FindByID(ctx context.Context, id string) (*Comment, error)
	List(ctx context.Context, q query.Query) ([]*Comment, error)
	Update(ctx context.Context, c *Comment) error
	Delete(ctx context.Context, id string) error
}
