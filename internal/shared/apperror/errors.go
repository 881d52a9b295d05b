package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Kind is the closed set of failure categories the API exposes.
// Provider specific failures are translated into one of these at the
// adapter boundary, callers never see provider-native error shapes.
type Kind int

const (
	KindInternal Kind = iota
	KindValidationFailed
	KindInvalidCredentials
	KindInvalidToken
	KindExpiredToken
	KindForbidden
	KindNotFound
	KindDuplicateResource
	KindPayloadTooLarge
	KindRateLimited
)

var kindNames = map[Kind]string{
	KindInternal:           "INTERNAL_ERROR",
	KindValidationFailed:   "VALIDATION_FAILED",
	KindInvalidCredentials: "INVALID_CREDENTIALS",
	KindInvalidToken:       "INVALID_TOKEN",
	KindExpiredToken:       "EXPIRED_TOKEN",
	KindForbidden:          "FORBIDDEN",
	KindNotFound:           "NOT_FOUND",
	KindDuplicateResource:  "DUPLICATE_RESOURCE",
	KindPayloadTooLarge:    "PAYLOAD_TOO_LARGE",
	KindRateLimited:        "RATE_LIMITED",
}

var kindStatus = map[Kind]int{
	KindInternal:           http.StatusInternalServerError,
	KindValidationFailed:   http.StatusBadRequest,
	KindInvalidCredentials: http.StatusUnauthorized,
	KindInvalidToken:       http.StatusUnauthorized,
	KindExpiredToken:       http.StatusUnauthorized,
	KindForbidden:          http.StatusForbidden,
	KindNotFound:           http.StatusNotFound,
	KindDuplicateResource:  http.StatusConflict,
	KindPayloadTooLarge:    http.StatusRequestEntityTooLarge,
	KindRateLimited:        http.StatusTooManyRequests,
}

// String returns the wire code of the kind, e.g. "NOT_FOUND".
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindInternal]
}

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	if status, ok := kindStatus[k]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Error is the single error type returned across service boundaries.
type Error struct {
	Kind    Kind
	Message string
	// Details carries field level messages for ValidationFailed.
	Details map[string]string
	Err     error

	// stack is recorded for InternalError only.
	stack []uintptr
}

// Error implements error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows error wrapping compatibility
func (e *Error) Unwrap() error {
	return e.Err
}

// Status returns the HTTP status code for this error.
func (e *Error) Status() int {
	return e.Kind.Status()
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an error of the given kind that keeps err as its cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// ============================================
// CONSTRUCTORS
// ============================================

func Validation(message string, details map[string]string) *Error {
	return &Error{Kind: KindValidationFailed, Message: message, Details: details}
}

func InvalidCredentials() *Error {
	return New(KindInvalidCredentials, "Invalid email or password")
}

func InvalidToken(message string) *Error {
	return New(KindInvalidToken, message)
}

func ExpiredToken() *Error {
	return New(KindExpiredToken, "Token expired")
}

func Forbidden(message string) *Error {
	return New(KindForbidden, message)
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

func Duplicate(message string) *Error {
	return New(KindDuplicateResource, message)
}

func PayloadTooLarge(message string) *Error {
	return New(KindPayloadTooLarge, message)
}

func RateLimited() *Error {
	return New(KindRateLimited, "Rate limit exceeded. Please try again later.")
}

// Internal wraps err as InternalError and records the caller's stack.
func Internal(message string, err error) *Error {
	appErr := Wrap(KindInternal, message, err)
	appErr.stack = callers(3)
	return appErr
}

const maxStackDepth = 32

func callers(skip int) []uintptr {
	pcs := make([]uintptr, maxStackDepth)
	n := runtime.Callers(skip, pcs)
	return pcs[:n]
}

// StackTrace formats the stack recorded when the error was created, one
// "function\n\tfile:line" pair per frame. Empty for non internal errors.
func (e *Error) StackTrace() string {
	if len(e.stack) == 0 {
		return ""
	}

	var b strings.Builder
	frames := runtime.CallersFrames(e.stack)
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&b, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}
	return b.String()
}

// ============================================
// INSPECTION
// ============================================

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the kind of err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// From normalises any error into an *Error. Errors that are not already
// part of the taxonomy become InternalError with a generic message.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	if appErr, ok := As(err); ok {
		return appErr
	}
	return Internal("Internal server error", err)
}

// FromValidation converts ozzo-validation output into a ValidationFailed
// error with one message per offending field.
func FromValidation(err error) *Error {
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		details := make(map[string]string, len(fieldErrs))
		for field, fieldErr := range fieldErrs {
			if fieldErr != nil {
				details[field] = fieldErr.Error()
			}
		}
		return Validation("Validation failed", details)
	}

	var internalErr validation.InternalError
	if errors.As(err, &internalErr) {
		return Internal("Validation could not be performed", err)
	}

	return Validation(err.Error(), nil)
}
