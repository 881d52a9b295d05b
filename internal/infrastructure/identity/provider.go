// Package identity adapts external identity providers to the account and
// session operations the auth domain needs. Every adapter translates its
// native failures into apperror kinds before returning.
package identity

import (
	"context"
	"time"
)

// Account is the provider's view of a registered identity.
type Account struct {
	ID    string
	Email string
	Name  string
}

// Session is a provider session created from email and password. The auth
// flow only uses it as proof that the credentials were accepted.
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
}

// CredentialVerifier is an unauthenticated handle that can only exchange
// credentials for a session.
type CredentialVerifier interface {
	CreateSession(ctx context.Context, email, password string) (*Session, error)
}

// Provider is the administrative side of the identity provider.
type Provider interface {
	// CreateAccount registers a new identity.
	// Returns DuplicateResource when the email is taken.
	CreateAccount(ctx context.Context, email, password, name string) (*Account, error)

	// NewCredentialVerifier returns a fresh handle that carries no
	// server credential and no prior session.
	NewCredentialVerifier() CredentialVerifier

	// DeleteSessions ends every provider session of userID.
	DeleteSessions(ctx context.Context, userID string) error

	// UpdateName changes the display name and returns the updated account.
	UpdateName(ctx context.Context, userID, name string) (*Account, error)
}
