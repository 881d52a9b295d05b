package service

import (
	"context"
	"fmt"

	"blog-backend/internal/domains/auth"
	"blog-backend/internal/infrastructure/identity"
	"blog-backend/internal/shared/apperror"
	"blog-backend/internal/shared/metrics"
	"blog-backend/internal/shared/principal"
	"blog-backend/pkg/jwt"
	"blog-backend/pkg/logger"
)

// authService implements auth.Service on top of an identity provider.
type authService struct {
	provider    identity.Provider
	tokens      *jwt.Manager
	revocations auth.RevocationRepository // nil when no denylist is configured
	metrics     metrics.Recorder
}

// NewAuthService wires the login flow. revocations may be nil, in which case
// logout only ends the provider sessions and issued tokens live until expiry.
func NewAuthService(
	provider identity.Provider,
	tokens *jwt.Manager,
	revocations auth.RevocationRepository,
	recorder metrics.Recorder,
) auth.Service {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &authService{
		provider:    provider,
		tokens:      tokens,
		revocations: revocations,
		metrics:     recorder,
	}
}

// ========================================
// AUTHENTICATION
// ========================================

func (s *authService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.AuthResponse, error) {
	// 1. VALIDATE INPUT
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	// 2. CREATE ACCOUNT
	account, err := s.provider.CreateAccount(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		return nil, err
	}

	// 3. ISSUE TOKEN
	token, _, err := s.tokens.Issue(account.ID, account.Email)
	if err != nil {
		return nil, apperror.Internal("Failed to issue token", err)
	}

	logger.Info("user registered", map[string]interface{}{"user_id": account.ID})

	return &auth.AuthResponse{
		User: auth.UserResponse{
			ID:    account.ID,
			Email: account.Email,
			Name:  account.Name,
		},
		Token: token,
	}, nil
}

func (s *authService) Login(ctx context.Context, req auth.LoginRequest) (*auth.AuthResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	// A fresh handle per attempt so no session leaks between callers.
	verifier := s.provider.NewCredentialVerifier()
	session, err := verifier.CreateSession(ctx, req.Email, req.Password)
	if err != nil {
		s.metrics.RecordLoginFailure()
		return nil, normalizeLoginError(err)
	}

	token, _, err := s.tokens.Issue(session.UserID, req.Email)
	if err != nil {
		return nil, apperror.Internal("Failed to issue token", err)
	}

	return &auth.AuthResponse{
		User: auth.UserResponse{
			ID:    session.UserID,
			Email: req.Email,
			Name:  principal.LocalPart(req.Email),
		},
		Token: token,
	}, nil
}

// normalizeLoginError hides why the provider rejected the attempt.
func normalizeLoginError(err error) error {
	switch apperror.KindOf(err) {
	case apperror.KindRateLimited, apperror.KindInternal:
		return err
	default:
		logger.Debug("login rejected", map[string]interface{}{"reason": err.Error()})
		return apperror.InvalidCredentials()
	}
}

func (s *authService) Logout(ctx context.Context, p principal.Principal) error {
	if s.revocations != nil {
		if err := s.revocations.Revoke(ctx, p.TokenID, p.ExpiresAt); err != nil {
			return apperror.Internal("Logout failed", err)
		}
	}

	if err := s.provider.DeleteSessions(ctx, p.UserID); err != nil {
		return apperror.Internal("Logout failed", fmt.Errorf("delete sessions: %w", err))
	}

	logger.Info("user logged out", map[string]interface{}{"user_id": p.UserID})
	return nil
}

// ========================================
// PROFILE
// ========================================

func (s *authService) Profile(p principal.Principal) auth.UserResponse {
	return auth.UserResponse{
		ID:    p.UserID,
		Email: p.Email,
		Name:  p.DisplayName(),
	}
}

func (s *authService) UpdateProfile(ctx context.Context, p principal.Principal, req auth.UpdateProfileRequest) (*auth.UserResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	account, err := s.provider.UpdateName(ctx, p.UserID, req.Name)
	if err != nil {
		return nil, err
	}

	return &auth.UserResponse{
		ID:    account.ID,
		Email: account.Email,
		Name:  account.Name,
	}, nil
}
