package comment

import (
	"context"

	"blog-backend/internal/shared/principal"
)

// Service manages comments. Only the author may edit or delete one.
type Service interface {
	Create(ctx context.Context, caller principal.Principal, req CreateCommentRequest) (*Comment, error)

	// ListByPost returns the newest ListLimit comments of a post.
	ListByPost(ctx context.Context, postID, callerID string) ([]*Comment, error)

	Update(ctx context.Context, callerID, id string, req UpdateCommentRequest) (*Comment, error)
	Delete(ctx context.Context, callerID, id string) error
}
