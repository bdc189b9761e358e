package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/laundry-backoffice/internal/domains/auth/adapters/memory"
	"github.com/Apurer/laundry-backoffice/internal/domains/auth/domain"
	"github.com/Apurer/laundry-backoffice/internal/domains/auth/ports"
)

func newSessionFixture(t *testing.T) (*SessionService, *memory.SessionStore) {
	t.Helper()
	directory := memory.NewUserDirectory()
	_, err := directory.Seed("Admin", "admin@example.com", "s3cret", domain.RoleAdmin)
	require.NoError(t, err)
	store := memory.NewSessionStore()
	return NewSessionService(directory, store, memory.NewRateLimiter(), nil), store
}

func TestLogin_IssuesFingerprintBoundSession(t *testing.T) {
	svc, store := newSessionFixture(t)

	session, err := svc.Login(context.Background(), "Admin", "s3cret", testUserAgent, "10.0.0.1")
	require.NoError(t, err)
	require.NotEmpty(t, session.ID)
	require.NotEmpty(t, session.CsrfToken)
	require.Equal(t, domain.RoleAdmin, session.Role)
	require.True(t, session.MatchesFingerprint(testUserAgent))
	require.False(t, session.MatchesFingerprint("curl/8.0"))

	stored, err := store.Get(context.Background(), session.ID)
	require.NoError(t, err)
	require.Equal(t, session.CsrfToken, stored.CsrfToken)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newSessionFixture(t)

	_, err := svc.Login(context.Background(), "Admin", "wrong", testUserAgent, "10.0.0.1")
	require.ErrorIs(t, err, ports.ErrInvalidCredentials)
}

func TestLogin_UnknownUserLooksLikeBadPassword(t *testing.T) {
	svc, _ := newSessionFixture(t)

	_, err := svc.Login(context.Background(), "nobody", "s3cret", testUserAgent, "10.0.0.1")
	require.ErrorIs(t, err, ports.ErrInvalidCredentials)
}

func TestLogin_BlankCredentialsRejected(t *testing.T) {
	svc, _ := newSessionFixture(t)

	_, err := svc.Login(context.Background(), "", "s3cret", testUserAgent, "10.0.0.1")
	require.ErrorIs(t, err, ports.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "Admin", "  ", testUserAgent, "10.0.0.1")
	require.ErrorIs(t, err, ports.ErrInvalidCredentials)
}

func TestLogin_RateLimitedPerClientIP(t *testing.T) {
	svc, _ := newSessionFixture(t)

	for i := 0; i < 5; i++ {
		_, err := svc.Login(context.Background(), "Admin", "wrong", testUserAgent, "10.0.0.9")
		require.ErrorIs(t, err, ports.ErrInvalidCredentials)
	}
	_, err := svc.Login(context.Background(), "Admin", "s3cret", testUserAgent, "10.0.0.9")
	require.ErrorIs(t, err, ports.ErrRateLimited, "6th attempt in the window is throttled even with good credentials")

	// A different address is unaffected.
	_, err = svc.Login(context.Background(), "Admin", "s3cret", testUserAgent, "10.0.0.10")
	require.NoError(t, err)
}

func TestLogin_SuccessResetsAttemptCounter(t *testing.T) {
	svc, _ := newSessionFixture(t)

	for i := 0; i < 4; i++ {
		_, err := svc.Login(context.Background(), "Admin", "wrong", testUserAgent, "10.0.0.9")
		require.ErrorIs(t, err, ports.ErrInvalidCredentials)
	}
	_, err := svc.Login(context.Background(), "Admin", "s3cret", testUserAgent, "10.0.0.9")
	require.NoError(t, err)

	// The counter was cleared, so another burst of attempts is allowed.
	for i := 0; i < 5; i++ {
		_, err := svc.Login(context.Background(), "Admin", "wrong", testUserAgent, "10.0.0.9")
		require.ErrorIs(t, err, ports.ErrInvalidCredentials)
	}
}

func TestLogout_DestroysSession(t *testing.T) {
	svc, store := newSessionFixture(t)

	session, err := svc.Login(context.Background(), "Admin", "s3cret", testUserAgent, "10.0.0.1")
	require.NoError(t, err)

	svc.Logout(context.Background(), session.ID)
	_, err = store.Get(context.Background(), session.ID)
	require.ErrorIs(t, err, ports.ErrSessionNotFound)

	// Unknown sessions are ignored.
	svc.Logout(context.Background(), "missing")
}
