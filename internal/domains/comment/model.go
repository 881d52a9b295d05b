package comment

import "time"

// ListLimit caps how many comments a post listing returns.
const ListLimit = 50

// Query field names understood by the comment repository.
const (
	FieldPostID    = "postId"
	FieldCreatedAt = "$createdAt"
)

// Comment is a reader's note on a post. The author fields are copied from
// the token at creation time.
type Comment struct {
	ID        string    `json:"$id"`
	PostID    string    `json:"postId"`
	Content   string    `json:"content"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	UserEmail string    `json:"userEmail"`
	CreatedAt time.Time `json:"$createdAt"`
	UpdatedAt time.Time `json:"$updatedAt"`
}

func (c *Comment) OwnerID() string      { return c.UserID }
func (c *Comment) ResourceName() string { return "comment" }
