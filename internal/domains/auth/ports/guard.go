package ports

import (
	"context"
	"errors"

	"github.com/Apurer/laundry-backoffice/internal/domains/auth/domain"
)

// Action identifies a rate-limited operation kind.
type Action string

const (
	ActionCreateOrder  Action = "create_order"
	ActionManageOrders Action = "manage_orders"
	ActionLogin        Action = "login"
	ActionRegister     Action = "register"
)

var (
	// ErrNoSession indicates the request carried no recognizable session.
	ErrNoSession = errors.New("no active session")
	// ErrSessionExpired indicates the inactivity timeout elapsed; the caller
	// must force re-authentication.
	ErrSessionExpired = errors.New("session expired")
	// ErrSessionIntegrity indicates the user-agent fingerprint changed since
	// login; the session has been destroyed.
	ErrSessionIntegrity = errors.New("session integrity violation")
	// ErrCsrfMismatch indicates the supplied CSRF token did not match.
	ErrCsrfMismatch = errors.New("csrf token mismatch")
	// ErrRateLimited indicates the action exceeded its window limit.
	ErrRateLimited = errors.New("rate limit exceeded")
	// ErrForbidden indicates the identity lacks the required role.
	ErrForbidden = errors.New("operation requires admin role")
)

// AccessRequest carries everything the guard needs to authorize one request.
type AccessRequest struct {
	SessionID    string
	CsrfToken    string
	UserAgent    string
	ClientIP     string
	Action       Action
	RequireAdmin bool
}

// ClientIdentity keys rate-limit counters: the session when one exists,
// otherwise the network address.
func (r AccessRequest) ClientIdentity() string {
	if r.SessionID != "" {
		return r.SessionID
	}
	if r.ClientIP != "" {
		return r.ClientIP
	}
	return "unknown"
}

// Identity is the authorized caller returned on success.
type Identity struct {
	UserID    int64
	Name      string
	Role      domain.Role
	SessionID string
}

// IsAdmin reports whether the identity holds the admin role.
func (i Identity) IsAdmin() bool { return i.Role == domain.RoleAdmin }

// Guard gates every mutating operation behind session-integrity, CSRF, and
// rate-limit checks. Any error means the underlying action must not run.
type Guard interface {
	// Authorize runs the full gate and touches session activity on success.
	Authorize(ctx context.Context, req AccessRequest) (*Identity, error)
	// Identify verifies the session (expiry + fingerprint) without CSRF or
	// rate-limit checks; used by read-only surfaces that need a recipient.
	Identify(ctx context.Context, req AccessRequest) (*Identity, error)
	// RotateCsrf re-arms the session token after a sensitive operation and
	// returns the new token.
	RotateCsrf(ctx context.Context, sessionID string) (string, error)
}
