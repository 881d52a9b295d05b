package auth

import (
	"context"

	"blog-backend/internal/shared/principal"
)

// Service is the authentication use-case layer.
type Service interface {
	// Register creates the account with the identity provider and issues
	// a session token for it.
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)

	// Login verifies the credentials with a fresh provider handle and
	// issues a session token. Every rejection is InvalidCredentials.
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)

	// Logout revokes the presented token and ends the provider sessions.
	Logout(ctx context.Context, p principal.Principal) error

	// Profile is derived from the token claims alone.
	Profile(p principal.Principal) UserResponse

	UpdateProfile(ctx context.Context, p principal.Principal, req UpdateProfileRequest) (*UserResponse, error)
}
