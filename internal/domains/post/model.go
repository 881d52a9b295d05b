package post

import (
	"time"
)

// Status is the publication state of a post.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusDraft    Status = "draft"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusDraft:
		return true
	}
	return false
}

// Query field names understood by the post repository.
const (
	FieldID        = "$id"
	FieldSlug      = "slug"
	FieldStatus    = "status"
	FieldUserID    = "userId"
	FieldCreatedAt = "$createdAt"
)

// Post keeps the document keys the frontend already reads ($id, userId,
// featuredImage).
type Post struct {
	ID            string    `json:"$id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Slug          string    `json:"slug"`
	Status        Status    `json:"status"`
	UserID        string    `json:"userId"`
	FeaturedImage string    `json:"featuredImage"`
	CreatedAt     time.Time `json:"$createdAt"`
	UpdatedAt     time.Time `json:"$updatedAt"`
}

func (p *Post) OwnerID() string      { return p.UserID }
func (p *Post) ResourceName() string { return "post" }

// VisibleTo reports whether viewerID may read p. Non-active posts are
// only visible to their owner.
func (p *Post) VisibleTo(viewerID string) bool {
	return p.Status == StatusActive || (viewerID != "" && p.UserID == viewerID)
}

// PageDescriptor is one page of a listing plus the paging metadata.
type PageDescriptor struct {
	Posts       []*Post `json:"posts"`
	Total       int     `json:"total"`
	Page        int     `json:"page"`
	TotalPages  int     `json:"totalPages"`
	HasNextPage bool    `json:"hasNextPage"`
	HasPrevPage bool    `json:"hasPrevPage"`
}
