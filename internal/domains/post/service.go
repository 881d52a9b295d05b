package post

import (
	"context"

	"blog-backend/internal/attachment"
)

// Service is the ownership-enforcing post API. callerID is the subject id
// of the authenticated identity, empty for anonymous reads.
type Service interface {
	// Create stores a post owned by callerID. image may be nil.
	Create(ctx context.Context, callerID string, req CreatePostRequest, image *attachment.Staged) (*Post, error)

	GetBySlug(ctx context.Context, slug, callerID string) (*Post, error)

	List(ctx context.Context, q ListPostsQuery, callerID string) (*PageDescriptor, error)

	// ListMine is List scoped to callerID, any status unless one is given.
	ListMine(ctx context.Context, q ListPostsQuery, callerID string) (*PageDescriptor, error)

	// Update replaces title, content and slug, status when given, and the
	// featured image when image is non-nil. Only the owner may update.
	Update(ctx context.Context, callerID, id string, req UpdatePostRequest, image *attachment.Staged) (*Post, error)

	// Delete removes the post and then its blob. Only the owner may delete.
	Delete(ctx context.Context, callerID, id string) error
}
