package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	current time.Time
}

func (f *fakeClock) Now() time.Time { return f.current }

func newTestManager(clock *fakeClock) *Manager {
	return NewManager("test-secret", time.Hour).WithClock(clock.Now)
}

func TestIssueThenVerifyRoundTrip(t *testing.T) {
	clock := &fakeClock{current: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := newTestManager(clock)

	token, issued, err := m.Issue("user-123", "a@b.com")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, issued.TokenID())

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, issued.TokenID(), claims.TokenID())
	assert.Equal(t, clock.current.Add(time.Hour), claims.Expiry())
	assert.Equal(t, time.UTC, claims.Expiry().Location())
}

func TestVerifyExpiredToken(t *testing.T) {
	clock := &fakeClock{current: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := newTestManager(clock)

	token, _, err := m.Issue("user-123", "a@b.com")
	require.NoError(t, err)

	clock.current = clock.current.Add(59 * time.Minute)
	_, err = m.Verify(token)
	assert.NoError(t, err)

	clock.current = clock.current.Add(2 * time.Minute)
	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	clock := &fakeClock{current: time.Now()}
	token, _, err := NewManager("other-secret", time.Hour).WithClock(clock.Now).Issue("u", "a@b.com")
	require.NoError(t, err)

	_, err = newTestManager(clock).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsMalformedToken(t *testing.T) {
	m := newTestManager(&fakeClock{current: time.Now()})

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		_, err := m.Verify(raw)
		assert.ErrorIs(t, err, ErrInvalidToken, raw)
	}
}

func TestVerifyRejectsNoneAlgorithm(t *testing.T) {
	clock := &fakeClock{current: time.Now()}
	claims := &Claims{
		UserID: "u",
		Email:  "a@b.com",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(clock.current),
			ExpiresAt: jwt.NewNumericDate(clock.current.Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newTestManager(clock).Verify(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsMissingIdentityClaims(t *testing.T) {
	clock := &fakeClock{current: time.Now()}
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(clock.current),
			ExpiresAt: jwt.NewNumericDate(clock.current.Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = newTestManager(clock).Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
