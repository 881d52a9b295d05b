package service

import (
	"context"

	"blog-backend/internal/domains/comment"
	"blog-backend/internal/domains/post"
	"blog-backend/internal/shared/apperror"
	"blog-backend/internal/shared/ownership"
	"blog-backend/internal/shared/principal"
	"blog-backend/internal/shared/query"
	"blog-backend/internal/shared/sanitize"
)

// PostLookup resolves the post a comment belongs to.
type PostLookup interface {
	FindByID(ctx context.Context, id string) (*post.Post, error)
}

type commentService struct {
	repo  comment.Repository
	posts PostLookup
}

func NewCommentService(repo comment.Repository, posts PostLookup) comment.Service {
	return &commentService{repo: repo, posts: posts}
}

func (s *commentService) Create(ctx context.Context, caller principal.Principal, req comment.CreateCommentRequest) (*comment.Comment, error) {
	// Length rules apply to the stored text, so markup is stripped first.
	req.Normalize()
	req.Content = sanitize.PlainText(req.Content)
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	if _, err := s.visiblePost(ctx, req.PostID, caller.UserID); err != nil {
		return nil, err
	}

	name := req.UserName
	if name == "" {
		name = caller.DisplayName()
	}

	c := &comment.Comment{
		PostID:    req.PostID,
		Content:   req.Content,
		UserID:    caller.UserID,
		UserName:  name,
		UserEmail: caller.Email,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *commentService) ListByPost(ctx context.Context, postID, callerID string) ([]*comment.Comment, error) {
	if postID == "" {
		return nil, apperror.Validation("Validation failed", map[string]string{"postId": "Post ID is required"})
	}
	if _, err := s.visiblePost(ctx, postID, callerID); err != nil {
		return nil, err
	}

	q := query.Query{OrderBy: comment.FieldCreatedAt, Desc: true, Limit: comment.ListLimit}.
		Equal(comment.FieldPostID, postID)
	return s.repo.List(ctx, q)
}

func (s *commentService) Update(ctx context.Context, callerID, id string, req comment.UpdateCommentRequest) (*comment.Comment, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ownership.Authorize(existing, callerID, ownership.ActionUpdate); err != nil {
		return nil, err
	}

	req.Normalize()
	req.Content = sanitize.PlainText(req.Content)
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	updated := *existing
	updated.Content = req.Content
	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *commentService) Delete(ctx context.Context, callerID, id string) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := ownership.Authorize(existing, callerID, ownership.ActionDelete); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// visiblePost hides posts the caller may not read behind NotFound.
func (s *commentService) visiblePost(ctx context.Context, postID, callerID string) (*post.Post, error) {
	p, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !p.VisibleTo(callerID) {
		return nil, apperror.NotFound("Post not found")
	}
	return p, nil
}
