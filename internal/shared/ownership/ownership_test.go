package ownership

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"blog-backend/internal/shared/apperror"
)

type ownedThing struct {
	owner string
}

func (o ownedThing) OwnerID() string      { return o.owner }
func (o ownedThing) ResourceName() string { return "post" }

func TestAuthorizeOwner(t *testing.T) {
	assert.NoError(t, Authorize(ownedThing{owner: "u1"}, "u1", ActionUpdate))
}

func TestAuthorizeRejectsOtherIdentity(t *testing.T) {
	err := Authorize(ownedThing{owner: "u1"}, "u2", ActionDelete)

	assert.True(t, apperror.Is(err, apperror.KindForbidden))
	assert.Contains(t, err.Error(), "You can only delete your own posts")
}

func TestAuthorizeRejectsAnonymous(t *testing.T) {
	err := Authorize(ownedThing{owner: ""}, "", ActionUpdate)

	assert.True(t, apperror.Is(err, apperror.KindForbidden))
}
