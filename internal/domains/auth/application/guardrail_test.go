package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/laundry-backoffice/internal/domains/auth/adapters/memory"
	"github.com/Apurer/laundry-backoffice/internal/domains/auth/domain"
	"github.com/Apurer/laundry-backoffice/internal/domains/auth/ports"
)

const testUserAgent = "Mozilla/5.0 (X11; Linux x86_64)"

func issueSession(t *testing.T, store ports.SessionStore, role domain.Role, at time.Time) *domain.Session {
	t.Helper()
	user, err := domain.NewUser(1, "Admin", "admin@example.com", role)
	require.NoError(t, err)
	session, err := domain.NewSession(user, testUserAgent, "10.0.0.1", at)
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), session))
	return session
}

func guardAt(store ports.SessionStore, limiter ports.RateLimiter, now time.Time) *GuardRail {
	return NewGuardRail(store, limiter, WithClock(func() time.Time { return now }))
}

func accessFor(session *domain.Session) ports.AccessRequest {
	return ports.AccessRequest{
		SessionID: session.ID,
		CsrfToken: session.CsrfToken,
		UserAgent: testUserAgent,
		ClientIP:  "10.0.0.1",
		Action:    ports.ActionCreateOrder,
	}
}

func TestAuthorize_HappyPath(t *testing.T) {
	store := memory.NewSessionStore()
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	session := issueSession(t, store, domain.RoleAdmin, now)

	guard := guardAt(store, memory.NewRateLimiter(), now.Add(time.Minute))
	req := accessFor(session)
	req.RequireAdmin = true

	identity, err := guard.Authorize(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, int64(1), identity.UserID)
	require.Equal(t, session.ID, identity.SessionID)

	// Activity was touched.
	stored, err := store.Get(context.Background(), session.ID)
	require.NoError(t, err)
	require.Equal(t, now.Add(time.Minute), stored.LastActivity)
}

func TestAuthorize_MissingSession(t *testing.T) {
	guard := NewGuardRail(memory.NewSessionStore(), memory.NewRateLimiter())

	_, err := guard.Authorize(context.Background(), ports.AccessRequest{})
	require.ErrorIs(t, err, ports.ErrNoSession)

	_, err = guard.Authorize(context.Background(), ports.AccessRequest{SessionID: "unknown"})
	require.ErrorIs(t, err, ports.ErrNoSession)
}

func TestAuthorize_ExpiredSessionIsDestroyed(t *testing.T) {
	store := memory.NewSessionStore()
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	session := issueSession(t, store, domain.RoleAdmin, now)

	guard := guardAt(store, memory.NewRateLimiter(), now.Add(DefaultSessionTimeout+time.Second))
	_, err := guard.Authorize(context.Background(), accessFor(session))
	require.ErrorIs(t, err, ports.ErrSessionExpired)

	_, err = store.Get(context.Background(), session.ID)
	require.ErrorIs(t, err, ports.ErrSessionNotFound)
}

func TestAuthorize_ActivityWithinTimeoutKeepsSessionAlive(t *testing.T) {
	store := memory.NewSessionStore()
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	session := issueSession(t, store, domain.RoleAdmin, now)

	guard := guardAt(store, memory.NewRateLimiter(), now.Add(DefaultSessionTimeout-time.Second))
	_, err := guard.Authorize(context.Background(), accessFor(session))
	require.NoError(t, err)
}

func TestAuthorize_FingerprintMismatchDestroysSession(t *testing.T) {
	store := memory.NewSessionStore()
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	session := issueSession(t, store, domain.RoleAdmin, now)

	guard := guardAt(store, memory.NewRateLimiter(), now.Add(time.Minute))
	req := accessFor(session)
	req.UserAgent = "curl/8.0"

	_, err := guard.Authorize(context.Background(), req)
	require.ErrorIs(t, err, ports.ErrSessionIntegrity)

	_, err = store.Get(context.Background(), session.ID)
	require.ErrorIs(t, err, ports.ErrSessionNotFound, "hijack suspicion destroys the session")
}

func TestAuthorize_CsrfMismatch(t *testing.T) {
	store := memory.NewSessionStore()
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	session := issueSession(t, store, domain.RoleAdmin, now)

	guard := guardAt(store, memory.NewRateLimiter(), now.Add(time.Minute))

	req := accessFor(session)
	// Flip one byte of the token.
	flipped := []byte(req.CsrfToken)
	if flipped[0] == 'a' {
		flipped[0] = 'b'
	} else {
		flipped[0] = 'a'
	}
	req.CsrfToken = string(flipped)
	_, err := guard.Authorize(context.Background(), req)
	require.ErrorIs(t, err, ports.ErrCsrfMismatch)

	// Length difference is rejected the same way.
	req.CsrfToken = session.CsrfToken + "00"
	_, err = guard.Authorize(context.Background(), req)
	require.ErrorIs(t, err, ports.ErrCsrfMismatch)

	// Missing token never passes.
	req.CsrfToken = ""
	_, err = guard.Authorize(context.Background(), req)
	require.ErrorIs(t, err, ports.ErrCsrfMismatch)
}

func TestAuthorize_RateLimitWindow(t *testing.T) {
	store := memory.NewSessionStore()
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	session := issueSession(t, store, domain.RoleAdmin, now)

	guard := guardAt(store, memory.NewRateLimiter(), now.Add(time.Second))
	req := accessFor(session)

	for i := 0; i < 10; i++ {
		_, err := guard.Authorize(context.Background(), req)
		require.NoError(t, err, "request %d within the limit", i+1)
	}
	_, err := guard.Authorize(context.Background(), req)
	require.ErrorIs(t, err, ports.ErrRateLimited, "11th request in the window is rejected")
}

func TestAuthorize_NonAdminDeniedWhenAdminRequired(t *testing.T) {
	store := memory.NewSessionStore()
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	session := issueSession(t, store, domain.RoleUser, now)

	guard := guardAt(store, memory.NewRateLimiter(), now.Add(time.Minute))
	req := accessFor(session)
	req.RequireAdmin = true

	_, err := guard.Authorize(context.Background(), req)
	require.ErrorIs(t, err, ports.ErrForbidden)
}

func TestIdentify_SkipsCsrfAndRateLimit(t *testing.T) {
	store := memory.NewSessionStore()
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	session := issueSession(t, store, domain.RoleAdmin, now)

	guard := guardAt(store, memory.NewRateLimiter(), now.Add(time.Minute))
	req := ports.AccessRequest{SessionID: session.ID, UserAgent: testUserAgent}

	for i := 0; i < 20; i++ {
		identity, err := guard.Identify(context.Background(), req)
		require.NoError(t, err)
		require.Equal(t, int64(1), identity.UserID)
	}
}

func TestIdentify_StillVerifiesFingerprint(t *testing.T) {
	store := memory.NewSessionStore()
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	session := issueSession(t, store, domain.RoleAdmin, now)

	guard := guardAt(store, memory.NewRateLimiter(), now.Add(time.Minute))
	_, err := guard.Identify(context.Background(), ports.AccessRequest{SessionID: session.ID, UserAgent: "curl/8.0"})
	require.ErrorIs(t, err, ports.ErrSessionIntegrity)
}

func TestRotateCsrf(t *testing.T) {
	store := memory.NewSessionStore()
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	session := issueSession(t, store, domain.RoleAdmin, now)

	guard := guardAt(store, memory.NewRateLimiter(), now.Add(time.Minute))
	token, err := guard.RotateCsrf(context.Background(), session.ID)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEqual(t, session.CsrfToken, token)

	// The old token no longer authorizes.
	req := accessFor(session)
	_, err = guard.Authorize(context.Background(), req)
	require.ErrorIs(t, err, ports.ErrCsrfMismatch)

	req.CsrfToken = token
	_, err = guard.Authorize(context.Background(), req)
	require.NoError(t, err)
}

func TestRotateCsrf_UnknownSession(t *testing.T) {
	guard := NewGuardRail(memory.NewSessionStore(), memory.NewRateLimiter())
	_, err := guard.RotateCsrf(context.Background(), "missing")
	require.ErrorIs(t, err, ports.ErrNoSession)
}
