package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"blog-backend/internal/infrastructure/database"
	"blog-backend/internal/shared/apperror"
)

const sessionLifetime = 24 * time.Hour

// dummyHash is compared against when the email is unknown so both
// rejection paths cost one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("unknown-account-placeholder"), bcrypt.DefaultCost)

// PostgresProvider is a self-hosted identity provider backed by the
// identity_accounts and identity_sessions tables.
type PostgresProvider struct {
	pool *pgxpool.Pool
	cost int
	now  func() time.Time
}

func NewPostgresProvider(pool *pgxpool.Pool) *PostgresProvider {
	return &PostgresProvider{pool: pool, cost: bcrypt.DefaultCost, now: time.Now}
}

func (p *PostgresProvider) CreateAccount(ctx context.Context, email, password, name string) (*Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return nil, apperror.Internal("Failed to create account", err)
	}

	account := &Account{ID: uuid.NewString(), Email: email, Name: name}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO identity_accounts (id, email, name, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
	`, account.ID, account.Email, account.Name, string(hash), p.now())
	if err != nil {
		if database.IsUniqueViolation(err, "identity_accounts_email_key") {
			return nil, apperror.Duplicate("Email already exists")
		}
		return nil, apperror.Internal("Failed to create account", err)
	}

	return account, nil
}

func (p *PostgresProvider) NewCredentialVerifier() CredentialVerifier {
	return &postgresVerifier{provider: p}
}

func (p *PostgresProvider) DeleteSessions(ctx context.Context, userID string) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM identity_sessions WHERE account_id = $1`, userID); err != nil {
		return apperror.Internal("Logout failed", err)
	}
	return nil
}

func (p *PostgresProvider) UpdateName(ctx context.Context, userID, name string) (*Account, error) {
	var account Account
	err := p.pool.QueryRow(ctx, `
		UPDATE identity_accounts SET name = $2, updated_at = $3
		WHERE id = $1
		RETURNING id, email, name
	`, userID, name, p.now()).Scan(&account.ID, &account.Email, &account.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, apperror.Internal("Failed to update profile", err)
	}
	return &account, nil
}

type postgresVerifier struct {
	provider *PostgresProvider
}

func (v *postgresVerifier) CreateSession(ctx context.Context, email, password string) (*Session, error) {
	p := v.provider

	var accountID, hash string
	err := p.pool.QueryRow(ctx, `SELECT id, password_hash FROM identity_accounts WHERE email = $1`, email).
		Scan(&accountID, &hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, apperror.InvalidCredentials()
		}
		return nil, apperror.Internal("Identity provider unavailable", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, apperror.InvalidCredentials()
	}

	session := &Session{ID: uuid.NewString(), UserID: accountID, ExpiresAt: p.now().Add(sessionLifetime)}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO identity_sessions (id, account_id, expires_at) VALUES ($1, $2, $3)
	`, session.ID, session.UserID, session.ExpiresAt)
	if err != nil {
		return nil, apperror.Internal("Failed to create session", err)
	}

	return session, nil
}
