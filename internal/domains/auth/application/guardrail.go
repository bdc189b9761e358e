package application

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Apurer/laundry-backoffice/internal/domains/auth/domain"
	"github.com/Apurer/laundry-backoffice/internal/domains/auth/ports"
)

// DefaultSessionTimeout is the inactivity window before forced re-login.
const DefaultSessionTimeout = 3600 * time.Second

// GuardRail is the authorization gate in front of every mutating operation:
// session expiry, user-agent fingerprint binding, constant-time CSRF
// comparison, and per-client rate limits, in that order. Any failure aborts
// before the underlying action runs.
type GuardRail struct {
	sessions ports.SessionStore
	limiter  ports.RateLimiter
	limits   map[ports.Action]ports.Limit
	timeout  time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

type GuardOption func(*GuardRail)

// WithSessionTimeout overrides the inactivity timeout.
func WithSessionTimeout(timeout time.Duration) GuardOption {
	return func(g *GuardRail) {
		if timeout > 0 {
			g.timeout = timeout
		}
	}
}

// WithLimits overrides the per-action rate limits.
func WithLimits(limits map[ports.Action]ports.Limit) GuardOption {
	return func(g *GuardRail) {
		if limits != nil {
			g.limits = limits
		}
	}
}

// WithLogger sets the audit logger.
func WithLogger(logger *slog.Logger) GuardOption {
	return func(g *GuardRail) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) GuardOption {
	return func(g *GuardRail) {
		if now != nil {
			g.now = now
		}
	}
}

// NewGuardRail wires the gate over its session and rate-limit stores.
func NewGuardRail(sessions ports.SessionStore, limiter ports.RateLimiter, opts ...GuardOption) *GuardRail {
	g := &GuardRail{
		sessions: sessions,
		limiter:  limiter,
		limits:   ports.DefaultLimits(),
		timeout:  DefaultSessionTimeout,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Authorize runs the full gate. On success it updates the session's
// last-activity timestamp; on an integrity violation it destroys the session.
func (g *GuardRail) Authorize(ctx context.Context, req ports.AccessRequest) (*ports.Identity, error) {
	session, err := g.verifySession(ctx, req)
	if err != nil {
		return nil, err
	}

	if !csrfTokensEqual(session.CsrfToken, req.CsrfToken) {
		g.logger.Warn("csrf validation failed",
			slog.Int64("user_id", session.UserID),
			slog.String("client_ip", req.ClientIP))
		return nil, ports.ErrCsrfMismatch
	}

	if limit, ok := g.limits[req.Action]; ok {
		allowed, err := g.limiter.Allow(ctx, req.Action, req.ClientIdentity(), limit.Max, limit.Window)
		if err != nil {
			return nil, fmt.Errorf("rate limit check: %w", err)
		}
		if !allowed {
			g.logger.Warn("rate limit exceeded",
				slog.String("action", string(req.Action)),
				slog.String("client_ip", req.ClientIP),
				slog.Int64("user_id", session.UserID))
			return nil, ports.ErrRateLimited
		}
	}

	if req.RequireAdmin && session.Role != domain.RoleAdmin {
		g.logger.Warn("admin capability denied",
			slog.Int64("user_id", session.UserID),
			slog.String("role", string(session.Role)))
		return nil, ports.ErrForbidden
	}

	session.Touch(g.now())
	if err := g.sessions.Save(ctx, session); err != nil {
		g.logger.Error("failed to update session activity", slog.String("error", err.Error()))
	}
	return identityOf(session), nil
}

// Identify verifies the session only. Read surfaces use it to resolve the
// recipient without consuming a rate-limit slot or demanding a CSRF token.
func (g *GuardRail) Identify(ctx context.Context, req ports.AccessRequest) (*ports.Identity, error) {
	session, err := g.verifySession(ctx, req)
	if err != nil {
		return nil, err
	}
	if req.RequireAdmin && session.Role != domain.RoleAdmin {
		return nil, ports.ErrForbidden
	}
	session.Touch(g.now())
	if err := g.sessions.Save(ctx, session); err != nil {
		g.logger.Error("failed to update session activity", slog.String("error", err.Error()))
	}
	return identityOf(session), nil
}

// RotateCsrf re-arms the session-bound token after a sensitive operation.
func (g *GuardRail) RotateCsrf(ctx context.Context, sessionID string) (string, error) {
	session, err := g.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ports.ErrSessionNotFound) {
			return "", ports.ErrNoSession
		}
		return "", err
	}
	token, err := session.RotateCsrf()
	if err != nil {
		return "", err
	}
	if err := g.sessions.Save(ctx, session); err != nil {
		return "", err
	}
	return token, nil
}

func (g *GuardRail) verifySession(ctx context.Context, req ports.AccessRequest) (*domain.Session, error) {
	if req.SessionID == "" {
		return nil, ports.ErrNoSession
	}
	session, err := g.sessions.Get(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, ports.ErrSessionNotFound) {
			return nil, ports.ErrNoSession
		}
		return nil, fmt.Errorf("session lookup: %w", err)
	}

	now := g.now()
	if session.ExpiredAt(now, g.timeout) {
		g.logger.Info("session timed out",
			slog.Int64("user_id", session.UserID),
			slog.Duration("inactive", now.Sub(session.LastActivity)))
		_ = g.sessions.Delete(ctx, session.ID)
		return nil, ports.ErrSessionExpired
	}

	if !session.MatchesFingerprint(req.UserAgent) {
		// Fingerprint drift means the session cookie is being replayed from
		// a different client. Destroy the session, never just deny.
		g.logger.Warn("session hijacking suspected, destroying session",
			slog.Int64("user_id", session.UserID),
			slog.String("client_ip", req.ClientIP))
		_ = g.sessions.Delete(ctx, session.ID)
		return nil, ports.ErrSessionIntegrity
	}

	return session, nil
}

// csrfTokensEqual compares tokens in constant time. Both are hashed first so
// a length difference is rejected without leaking where the compare stopped.
func csrfTokensEqual(expected, supplied string) bool {
	if expected == "" || supplied == "" {
		return false
	}
	want := sha256.Sum256([]byte(expected))
	got := sha256.Sum256([]byte(supplied))
	return subtle.ConstantTimeCompare(want[:], got[:]) == 1
}

func identityOf(session *domain.Session) *ports.Identity {
	return &ports.Identity{
		UserID:    session.UserID,
		Name:      session.Name,
		Role:      session.Role,
		SessionID: session.ID,
	}
}

var _ ports.Guard = (*GuardRail)(nil)
