package repository

import (
	"context"
	"fmt"
	"time"

	"blog-backend/internal/domains/auth"
	"blog-backend/pkg/cache"
)

const revokedKeyPrefix = "auth:revoked:"

type cacheRevocationRepository struct {
	cache cache.Cache
	now   func() time.Time
}

// NewRevocationRepository stores revoked token ids in cache with a TTL
// equal to the token's remaining lifetime.
func NewRevocationRepository(c cache.Cache) auth.RevocationRepository {
	return &cacheRevocationRepository{cache: c, now: time.Now}
}

func (r *cacheRevocationRepository) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return nil
	}
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		// Already expired; verification rejects it without help.
		return nil
	}
	if err := r.cache.Set(ctx, revokedKeyPrefix+tokenID, true, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (r *cacheRevocationRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	revoked, err := r.cache.Exists(ctx, revokedKeyPrefix+tokenID)
	if err != nil {
		return false, fmt.Errorf("check revocation: %w", err)
	}
	return revoked, nil
}
