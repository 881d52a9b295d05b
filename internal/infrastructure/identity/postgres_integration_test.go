//go:build integration

package identity

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"

	"blog-backend/internal/infrastructure/database"
	"blog-backend/internal/shared/apperror"
)

func TestPostgresProvider(t *testing.T) {
	ctx := context.Background()

	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "secret",
				"POSTGRES_DB":       "blog",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	defer pgC.Terminate(ctx)

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	url := fmt.Sprintf("postgres://postgres:secret@%s:%s/blog?sslmode=disable", host, port.Port())
	require.NoError(t, database.RunMigrations(url))

	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	defer pool.Close()

	provider := NewPostgresProvider(pool)
	provider.cost = bcrypt.MinCost

	account, err := provider.CreateAccount(ctx, "a@b.com", "Abcdef12", "Alice")
	require.NoError(t, err)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := provider.CreateAccount(ctx, "a@b.com", "Abcdef12", "Other")
		assert.True(t, apperror.Is(err, apperror.KindDuplicateResource))
	})

	t.Run("session with valid credentials", func(t *testing.T) {
		session, err := provider.NewCredentialVerifier().CreateSession(ctx, "a@b.com", "Abcdef12")
		require.NoError(t, err)
		assert.Equal(t, account.ID, session.UserID)
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		_, err := provider.NewCredentialVerifier().CreateSession(ctx, "a@b.com", "Wrong123")
		assert.True(t, apperror.Is(err, apperror.KindInvalidCredentials))

		_, err = provider.NewCredentialVerifier().CreateSession(ctx, "nobody@b.com", "Abcdef12")
		assert.True(t, apperror.Is(err, apperror.KindInvalidCredentials))
	})

	t.Run("update name and delete sessions", func(t *testing.T) {
		updated, err := provider.UpdateName(ctx, account.ID, "Alicia")
		require.NoError(t, err)
		assert.Equal(t, "Alicia", updated.Name)

		require.NoError(t, provider.DeleteSessions(ctx, account.ID))

		var remaining int
		require.NoError(t, pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM identity_sessions WHERE account_id = $1`, account.ID).Scan(&remaining))
		assert.Zero(t, remaining)
	})
}
