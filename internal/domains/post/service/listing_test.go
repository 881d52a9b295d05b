package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"blog-backend/internal/domains/post"
	"blog-backend/internal/shared/query"
)

func TestBuildListQuery(t *testing.T) {
	q := BuildListQuery(post.ListPostsQuery{Page: 3, Limit: 10, Status: "active", UserID: "user-1"})

	assert.Equal(t, query.Query{
		Filters: []query.Filter{
			{Field: post.FieldStatus, Value: "active"},
			{Field: post.FieldUserID, Value: "user-1"},
		},
		OrderBy: post.FieldCreatedAt,
		Desc:    true,
		Limit:   10,
		Offset:  20,
	}, q)
}

func TestBuildListQueryOmitsUnsetFilters(t *testing.T) {
	q := BuildListQuery(post.ListPostsQuery{Page: 1, Limit: 5})

	assert.Empty(t, q.Filters)
	assert.Equal(t, 0, q.Offset)
}

func TestNewPageDescriptor(t *testing.T) {
	cases := []struct {
		name               string
		total, page, limit int
		wantPages          int
		wantNext, wantPrev bool
	}{
		{"last partial page", 25, 3, 10, 3, false, true},
		{"first page", 25, 1, 10, 3, true, false},
		{"exact multiple", 20, 2, 10, 2, false, true},
		{"empty", 0, 1, 10, 0, false, false},
		{"past the end", 5, 4, 10, 1, false, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page := NewPageDescriptor(nil, tc.total, tc.page, tc.limit)

			assert.Equal(t, tc.wantPages, page.TotalPages)
			assert.Equal(t, tc.wantNext, page.HasNextPage)
			assert.Equal(t, tc.wantPrev, page.HasPrevPage)
			assert.NotNil(t, page.Posts)
		})
	}
}
