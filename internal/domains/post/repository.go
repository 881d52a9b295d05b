package post

import (
	"context"

	"blog-backend/internal/shared/query"
)

// Repository is the document store for posts.
type Repository interface {
	// Create assigns ID and timestamps. Returns DuplicateResource when the
	// slug is taken.
	Create(ctx context.Context, p *Post) error

	// FindByID returns NotFound when no post has id.
	FindByID(ctx context.Context, id string) (*Post, error)

	// FindBySlug returns NotFound when no post has slug.
	FindBySlug(ctx context.Context, slug string) (*Post, error)

	// List returns one page of posts matching q and the total match count.
	List(ctx context.Context, q query.Query) ([]*Post, int, error)

	// Update persists the mutable fields of p and refreshes UpdatedAt.
	Update(ctx context.Context, p *Post) error

	// Delete removes the post together with its comments.
	Delete(ctx context.Context, id string) error
}
