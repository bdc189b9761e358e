package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/Apurer/laundry-backoffice/internal/domains/auth/domain"
	"github.com/Apurer/laundry-backoffice/internal/domains/auth/ports"
)

// SessionService issues and revokes sessions around the external
// authenticator. Login attempts are rate-limited per network address since no
// session exists yet.
type SessionService struct {
	auth     ports.Authenticator
	sessions ports.SessionStore
	limiter  ports.RateLimiter
	limits   map[ports.Action]ports.Limit
	logger   *slog.Logger
	now      func() time.Time
}

func NewSessionService(auth ports.Authenticator, sessions ports.SessionStore, limiter ports.RateLimiter, logger *slog.Logger) *SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{
		auth:     auth,
		sessions: sessions,
		limiter:  limiter,
		limits:   ports.DefaultLimits(),
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the time source for deterministic testing.
func (s *SessionService) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Login authenticates credentials and issues a fingerprint-bound session.
func (s *SessionService) Login(ctx context.Context, username, password, userAgent, clientIP string) (*domain.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return nil, ports.ErrInvalidCredentials
	}

	if limit, ok := s.limits[ports.ActionLogin]; ok {
		allowed, err := s.limiter.Allow(ctx, ports.ActionLogin, clientIP, limit.Max, limit.Window)
		if err != nil {
			return nil, err
		}
		if !allowed {
			s.logger.Warn("login rate limit exceeded", slog.String("client_ip", clientIP))
			return nil, ports.ErrRateLimited
		}
	}

	user, err := s.auth.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, ports.ErrUserNotFound) {
			return nil, ports.ErrInvalidCredentials
		}
		return nil, err
	}

	session, err := domain.NewSession(user, userAgent, clientIP, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	// A successful login clears the attempt counter for this client.
	_ = s.limiter.Reset(ctx, ports.ActionLogin, clientIP)
	s.logger.Info("session issued",
		slog.Int64("user_id", user.ID),
		slog.String("role", string(user.Role)))
	return session, nil
}

// Logout destroys the session. Unknown sessions are ignored.
func (s *SessionService) Logout(ctx context.Context, sessionID string) {
	if strings.TrimSpace(sessionID) == "" {
		return
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil && !errors.Is(err, ports.ErrSessionNotFound) {
		s.logger.Error("failed to delete session", slog.String("error", err.Error()))
	}
}
