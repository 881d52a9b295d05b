package ownership

import (
	"fmt"

	"blog-backend/internal/shared/apperror"
)

// Owned is implemented by every resource that can only be mutated by
// the identity that created it.
type Owned interface {
	OwnerID() string
	// ResourceName is the singular noun used in denial messages, e.g. "post".
	ResourceName() string
}

// Action names the mutation being attempted.
type Action string

const (
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Authorize returns nil when callerID owns resource and a Forbidden error
// naming the denied action otherwise. An empty caller never owns anything.
func Authorize(resource Owned, callerID string, action Action) error {
	if callerID != "" && resource.OwnerID() == callerID {
		return nil
	}
	return apperror.Forbidden(fmt.Sprintf("You can only %s your own %ss", action, resource.ResourceName()))
}
