package auth

import (
	"context"
	"time"
)

// RevocationRepository is the token denylist. Entries only need to live
// until the token would have expired anyway.
type RevocationRepository interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
