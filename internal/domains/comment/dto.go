package comment

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var namePattern = regexp.MustCompile(`^[a-zA-Z\s]+$`)

type CreateCommentRequest struct {
	PostID   string `json:"postId"`
	Content  string `json:"content"`
	UserName string `json:"userName"`
}

func (r *CreateCommentRequest) Normalize() {
	r.PostID = strings.TrimSpace(r.PostID)
	r.Content = strings.TrimSpace(r.Content)
	r.UserName = strings.TrimSpace(r.UserName)
}

func (r CreateCommentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PostID, validation.Required.Error("Post ID is required")),
		validation.Field(&r.Content, contentRules()...),
		validation.Field(&r.UserName,
			validation.RuneLength(2, 50).Error("Name must be between 2 and 50 characters"),
			validation.Match(namePattern).Error("Name can only contain letters and spaces"),
		),
	)
}

type UpdateCommentRequest struct {
	Content string `json:"content"`
}

func (r *UpdateCommentRequest) Normalize() {
	r.Content = strings.TrimSpace(r.Content)
}

func (r UpdateCommentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content, contentRules()...),
	)
}

type ListCommentsQuery struct {
	PostID string `form:"postId"`
}

func contentRules() []validation.Rule {
	return []validation.Rule{
		validation.Required.Error("Comment must be between 1 and 1000 characters"),
		validation.RuneLength(1, 1000).Error("Comment must be between 1 and 1000 characters"),
	}
}
