package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"blog-backend/internal/config"
	"blog-backend/internal/shared/apperror"
)

// AppwriteProvider talks to the Appwrite REST API. Administrative calls
// are made with the server API key through the Users API, so they act on
// the subject id from the token rather than on an ambient session.
type AppwriteProvider struct {
	endpoint   string
	projectID  string
	apiKey     string
	httpClient *http.Client
}

func NewAppwriteProvider(cfg config.IdentityConfig) *AppwriteProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &AppwriteProvider{
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		projectID:  cfg.ProjectID,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type appwriteUser struct {
	ID    string `json:"$id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type appwriteSession struct {
	ID     string `json:"$id"`
	UserID string `json:"userId"`
	Expire string `json:"expire"`
}

// appwriteError is the error body every Appwrite endpoint returns.
type appwriteError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
	Type    string `json:"type"`
}

func (e *appwriteError) Error() string {
	return fmt.Sprintf("appwrite %s (%d): %s", e.Type, e.Code, e.Message)
}

func (p *AppwriteProvider) CreateAccount(ctx context.Context, email, password, name string) (*Account, error) {
	body := map[string]string{
		"userId":   "unique()",
		"email":    email,
		"password": password,
		"name":     name,
	}

	var user appwriteUser
	if err := p.do(ctx, http.MethodPost, "/users", body, true, &user); err != nil {
		return nil, translate(err, "Failed to create account")
	}
	return &Account{ID: user.ID, Email: user.Email, Name: user.Name}, nil
}

func (p *AppwriteProvider) NewCredentialVerifier() CredentialVerifier {
	// Copy without the API key: the session call must succeed on the
	// submitted credentials alone.
	return &appwriteVerifier{provider: &AppwriteProvider{
		endpoint:   p.endpoint,
		projectID:  p.projectID,
		httpClient: p.httpClient,
	}}
}

func (p *AppwriteProvider) DeleteSessions(ctx context.Context, userID string) error {
	if err := p.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(userID)+"/sessions", nil, true, nil); err != nil {
		return translate(err, "Logout failed")
	}
	return nil
}

func (p *AppwriteProvider) UpdateName(ctx context.Context, userID, name string) (*Account, error) {
	var user appwriteUser
	if err := p.do(ctx, http.MethodPatch, "/users/"+url.PathEscape(userID)+"/name", map[string]string{"name": name}, true, &user); err != nil {
		return nil, translate(err, "Failed to update profile")
	}
	return &Account{ID: user.ID, Email: user.Email, Name: user.Name}, nil
}

type appwriteVerifier struct {
	provider *AppwriteProvider
}

func (v *appwriteVerifier) CreateSession(ctx context.Context, email, password string) (*Session, error) {
	var session appwriteSession
	body := map[string]string{"email": email, "password": password}
	if err := v.provider.do(ctx, http.MethodPost, "/account/sessions/email", body, false, &session); err != nil {
		var apiErr *appwriteError
		if errors.As(err, &apiErr) {
			if apiErr.Type == "general_rate_limit_exceeded" || apiErr.Code == http.StatusTooManyRequests {
				return nil, apperror.RateLimited()
			}
			if apiErr.Code >= 500 {
				return nil, apperror.Internal("Identity provider unavailable", err)
			}
			// Every client-side rejection looks the same to the caller.
			return nil, apperror.InvalidCredentials()
		}
		return nil, apperror.Internal("Identity provider unavailable", err)
	}

	expires, _ := time.Parse(time.RFC3339, session.Expire)
	return &Session{ID: session.ID, UserID: session.UserID, ExpiresAt: expires}, nil
}

func (p *AppwriteProvider) do(ctx context.Context, method, path string, payload interface{}, withKey bool, out interface{}) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.endpoint+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Appwrite-Project", p.projectID)
	if withKey {
		req.Header.Set("X-Appwrite-Key", p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("appwrite request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &appwriteError{Code: resp.StatusCode}
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, apiErr)
		}
		if apiErr.Code == 0 {
			apiErr.Code = resp.StatusCode
		}
		return apiErr
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// translate maps Appwrite error types onto the error taxonomy.
func translate(err error, fallback string) error {
	var apiErr *appwriteError
	if !errors.As(err, &apiErr) {
		return apperror.Internal(fallback, err)
	}

	switch apiErr.Type {
	case "user_already_exists", "user_email_already_exists":
		return apperror.Duplicate("Email already exists")
	case "user_invalid_credentials", "user_password_mismatch":
		return apperror.InvalidCredentials()
	case "user_not_found":
		return apperror.NotFound("User not found")
	case "general_rate_limit_exceeded":
		return apperror.RateLimited()
	case "user_unauthorized", "general_unauthorized_scope":
		return apperror.Internal("Unauthorized access", err)
	case "general_argument_invalid", "user_password_length_invalid", "password_recently_used", "password_personal_data":
		return apperror.Validation(apiErr.Message, nil)
	}

	switch apiErr.Code {
	case http.StatusConflict:
		return apperror.Duplicate("Email already exists")
	case http.StatusTooManyRequests:
		return apperror.RateLimited()
	}
	return apperror.Internal(fallback, err)
}
