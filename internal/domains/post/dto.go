package post

import (
	"errors"
	"math"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	// MaxPage keeps (page-1)*limit well inside the int64 OFFSET range.
	MaxPage = math.MaxInt32
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

var errUnknownStatus = errors.New("Status must be active, inactive, or draft")

// knownStatus lets an absent status through.
func knownStatus(value interface{}) error {
	s, _ := value.(string)
	if s == "" || Status(s).Valid() {
		return nil
	}
	return errUnknownStatus
}

// ========================================
// MUTATIONS
// ========================================

// PostRequest is the body of create and update. It arrives as multipart
// form fields alongside the optional featuredImage file, or as JSON.
type PostRequest struct {
	Title   string `form:"title" json:"title"`
	Content string `form:"content" json:"content"`
	Slug    string `form:"slug" json:"slug"`
	Status  string `form:"status" json:"status"`
}

type (
	CreatePostRequest = PostRequest
	UpdatePostRequest = PostRequest
)

// Normalize trims every field.
func (r *PostRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Content = strings.TrimSpace(r.Content)
	r.Slug = strings.TrimSpace(r.Slug)
	r.Status = strings.TrimSpace(r.Status)
}

func (r PostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("Title must be between 1 and 200 characters"),
			validation.RuneLength(1, 200).Error("Title must be between 1 and 200 characters"),
		),
		validation.Field(&r.Content,
			validation.Required.Error("Content must be at least 10 characters"),
			validation.RuneLength(10, 0).Error("Content must be at least 10 characters"),
		),
		validation.Field(&r.Slug,
			validation.Required.Error("Slug must be between 1 and 100 characters"),
			validation.RuneLength(1, 100).Error("Slug must be between 1 and 100 characters"),
			validation.Match(slugPattern).Error("Slug can only contain lowercase letters, numbers, and hyphens"),
		),
		validation.Field(&r.Status,
			validation.By(knownStatus),
		),
	)
}

// StatusOr returns the requested status, or fallback when none was sent.
func (r PostRequest) StatusOr(fallback Status) Status {
	if r.Status == "" {
		return fallback
	}
	return Status(r.Status)
}

// ========================================
// LISTING
// ========================================

// ListPostsQuery is the query string of GET /api/posts and /api/posts/user/me.
type ListPostsQuery struct {
	Page   int    `form:"page" json:"page"`
	Limit  int    `form:"limit" json:"limit"`
	Status string `form:"status" json:"status"`
	UserID string `form:"userId" json:"userId"`
}

// Normalize fills defaults for absent values.
func (q *ListPostsQuery) Normalize() {
	if q.Page == 0 {
		q.Page = DefaultPage
	}
	if q.Limit == 0 {
		q.Limit = DefaultLimit
	}
	q.Status = strings.TrimSpace(q.Status)
	q.UserID = strings.TrimSpace(q.UserID)
}

func (q ListPostsQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Page, validation.Min(1).Error("Page must be at least 1"),
			validation.Max(MaxPage).Error("Page is too large")),
		validation.Field(&q.Limit, validation.Min(1).Error("Limit must be between 1 and 100"),
			validation.Max(MaxLimit).Error("Limit must be between 1 and 100")),
		validation.Field(&q.Status,
			validation.By(knownStatus),
		),
	)
}
