package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
)

func TestKindStatusMapping(t *testing.T) {
	cases := map[Kind]int{
		KindValidationFailed:   http.StatusBadRequest,
		KindInvalidCredentials: http.StatusUnauthorized,
		KindInvalidToken:       http.StatusUnauthorized,
		KindExpiredToken:       http.StatusUnauthorized,
		KindForbidden:          http.StatusForbidden,
		KindNotFound:           http.StatusNotFound,
		KindDuplicateResource:  http.StatusConflict,
		KindPayloadTooLarge:    http.StatusRequestEntityTooLarge,
		KindRateLimited:        http.StatusTooManyRequests,
		KindInternal:           http.StatusInternalServerError,
	}

	for kind, status := range cases {
		assert.Equal(t, status, kind.Status(), kind.String())
	}
}

func TestKindOfWrappedError(t *testing.T) {
	base := NotFound("Post not found")
	wrapped := fmt.Errorf("load post: %w", base)

	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.True(t, Is(wrapped, KindNotFound))
	assert.False(t, Is(wrapped, KindForbidden))
	assert.ErrorIs(t, wrapped, base)
}

func TestFromForeignErrorBecomesInternal(t *testing.T) {
	cause := errors.New("connection reset")

	appErr := From(cause)

	assert.Equal(t, KindInternal, appErr.Kind)
	assert.ErrorIs(t, appErr, cause)
	assert.Nil(t, From(nil))
}

func TestFromKeepsTaxonomyError(t *testing.T) {
	original := Forbidden("You can only update your own posts")

	assert.Same(t, original, From(fmt.Errorf("wrap: %w", original)))
}

func TestErrorString(t *testing.T) {
	err := Wrap(KindInternal, "Failed to upload image", errors.New("timeout"))

	assert.Equal(t, "[INTERNAL_ERROR] Failed to upload image: timeout", err.Error())
	assert.Equal(t, "[NOT_FOUND] missing", NotFound("missing").Error())
}

func TestFromValidationCollectsFieldMessages(t *testing.T) {
	err := validation.Errors{
		"email":    errors.New("must be a valid email address"),
		"password": errors.New("the length must be between 8 and 128"),
	}

	appErr := FromValidation(err)

	assert.Equal(t, KindValidationFailed, appErr.Kind)
	assert.Equal(t, "Validation failed", appErr.Message)
	assert.Equal(t, "must be a valid email address", appErr.Details["email"])
	assert.Len(t, appErr.Details, 2)
}

func TestInternalRecordsCallerStack(t *testing.T) {
	err := Internal("Failed to save post", errors.New("deadlock"))

	assert.Contains(t, err.StackTrace(), "apperror.TestInternalRecordsCallerStack")
	assert.Empty(t, NotFound("missing").StackTrace())
}
