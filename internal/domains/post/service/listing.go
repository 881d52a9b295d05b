package service

import (
	"blog-backend/internal/domains/post"
	"blog-backend/internal/shared/query"
)

// BuildListQuery translates a normalized listing request into a
// newest-first store query. Status and owner filters are added only when
// set.
func BuildListQuery(q post.ListPostsQuery) query.Query {
	out := query.Query{
		OrderBy: post.FieldCreatedAt,
		Desc:    true,
		Limit:   q.Limit,
		Offset:  (q.Page - 1) * q.Limit,
	}
	if q.Status != "" {
		out = out.Equal(post.FieldStatus, q.Status)
	}
	if q.UserID != "" {
		out = out.Equal(post.FieldUserID, q.UserID)
	}
	return out
}

// NewPageDescriptor computes the paging metadata for one page.
func NewPageDescriptor(items []*post.Post, total, page, limit int) *post.PageDescriptor {
	if items == nil {
		items = []*post.Post{}
	}
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return &post.PageDescriptor{
		Posts:       items,
		Total:       total,
		Page:        page,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}
