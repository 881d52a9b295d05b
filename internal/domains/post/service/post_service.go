package service

import (
	"context"

	"blog-backend/internal/attachment"
	"blog-backend/internal/domains/post"
	"blog-backend/internal/shared/apperror"
	"blog-backend/internal/shared/ownership"
	"blog-backend/internal/shared/sanitize"
	"blog-backend/pkg/logger"
)

// Attachments is the part of attachment.Manager the post service needs.
type Attachments interface {
	Upload(ctx context.Context, staged *attachment.Staged) (string, error)
	Release(ctx context.Context, handle string)
}

type postService struct {
	repo        post.Repository
	attachments Attachments
}

func NewPostService(repo post.Repository, attachments Attachments) post.Service {
	return &postService{repo: repo, attachments: attachments}
}

// ========================================
// MUTATIONS
// ========================================

func (s *postService) Create(ctx context.Context, callerID string, req post.CreatePostRequest, image *attachment.Staged) (*post.Post, error) {
	defer image.Discard()

	// 1. VALIDATE before touching blob storage; the content rules apply
	// to what will be stored
	req.Normalize()
	req.Content = sanitize.RichText(req.Content)
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	// 2. UPLOAD
	var handle string
	if image != nil {
		var err error
		if handle, err = s.attachments.Upload(ctx, image); err != nil {
			return nil, err
		}
	}

	// 3. PERSIST; owner always comes from the token
	p := &post.Post{
		Title:         req.Title,
		Content:       req.Content,
		Slug:          req.Slug,
		Status:        req.StatusOr(post.StatusActive),
		UserID:        callerID,
		FeaturedImage: handle,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		// Nothing references the new blob yet.
		s.attachments.Release(ctx, handle)
		return nil, err
	}

	logger.Info("post created", map[string]interface{}{
		"post_id": p.ID,
		"user_id": callerID,
		"slug":    p.Slug,
	})
	return p, nil
}

func (s *postService) Update(ctx context.Context, callerID, id string, req post.UpdatePostRequest, image *attachment.Staged) (*post.Post, error) {
	defer image.Discard()

	// 1. LOAD + AUTHORIZE, before looking at the payload
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ownership.Authorize(existing, callerID, ownership.ActionUpdate); err != nil {
		return nil, err
	}

	// 2. VALIDATE
	req.Normalize()
	req.Content = sanitize.RichText(req.Content)
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	// 3. UPLOAD replacement; the old blob stays referenced until the
	// record points elsewhere
	oldHandle := existing.FeaturedImage
	newHandle := oldHandle
	if image != nil {
		if newHandle, err = s.attachments.Upload(ctx, image); err != nil {
			return nil, err
		}
	}

	// 4. PERSIST
	updated := *existing
	updated.Title = req.Title
	updated.Content = req.Content
	updated.Slug = req.Slug
	updated.Status = req.StatusOr(existing.Status)
	updated.FeaturedImage = newHandle

	if err := s.repo.Update(ctx, &updated); err != nil {
		if newHandle != oldHandle {
			s.attachments.Release(ctx, newHandle)
		}
		return nil, err
	}

	// 5. RELEASE the replaced blob
	if newHandle != oldHandle {
		s.attachments.Release(ctx, oldHandle)
	}

	return &updated, nil
}

func (s *postService) Delete(ctx context.Context, callerID, id string) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := ownership.Authorize(existing, callerID, ownership.ActionDelete); err != nil {
		return err
	}

	// The record goes first; its absence is authoritative.
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.attachments.Release(ctx, existing.FeaturedImage)

	logger.Info("post deleted", map[string]interface{}{
		"post_id": id,
		"user_id": callerID,
	})
	return nil
}

// ========================================
// READS
// ========================================

func (s *postService) GetBySlug(ctx context.Context, slug, callerID string) (*post.Post, error) {
	p, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !p.VisibleTo(callerID) {
		return nil, apperror.NotFound("Post not found")
	}
	return p, nil
}

func (s *postService) List(ctx context.Context, q post.ListPostsQuery, callerID string) (*post.PageDescriptor, error) {
	q.Normalize()
	if q.Status == "" {
		q.Status = string(post.StatusActive)
	}
	if err := q.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	// Drafts and inactive posts are only listed for their owner.
	if post.Status(q.Status) != post.StatusActive {
		if callerID == "" || (q.UserID != "" && q.UserID != callerID) {
			return nil, apperror.Forbidden("You can only list your own " + q.Status + " posts")
		}
		q.UserID = callerID
	}

	return s.page(ctx, q)
}

func (s *postService) ListMine(ctx context.Context, q post.ListPostsQuery, callerID string) (*post.PageDescriptor, error) {
	q.Normalize()
	q.UserID = callerID
	if err := q.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}
	return s.page(ctx, q)
}

func (s *postService) page(ctx context.Context, q post.ListPostsQuery) (*post.PageDescriptor, error) {
	items, total, err := s.repo.List(ctx, BuildListQuery(q))
	if err != nil {
		return nil, err
	}
	return NewPageDescriptor(items, total, q.Page, q.Limit), nil
}
