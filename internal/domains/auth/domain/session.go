package domain

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// CsrfTokenBytes is the entropy of a CSRF token before hex encoding.
const CsrfTokenBytes = 32

// Session binds an authenticated identity to a client. The fingerprint pins
// the session to the user agent observed at login; a later mismatch is
// treated as hijacking and destroys the session.
type Session struct {
	ID              string
	UserID          int64
	Name            string
	Role            Role
	CsrfToken       string
	FingerprintHash string
	ClientIP        string
	LastActivity    time.Time
	CreatedAt       time.Time
}

// NewSession issues a fresh session for an authenticated user.
func NewSession(user *User, userAgent, clientIP string, now time.Time) (*Session, error) {
	token, err := NewCsrfToken()
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:              uuid.NewString(),
		UserID:          user.ID,
		Name:            user.Name,
		Role:            user.Role,
		CsrfToken:       token,
		FingerprintHash: FingerprintUserAgent(userAgent),
		ClientIP:        clientIP,
		LastActivity:    now,
		CreatedAt:       now,
	}, nil
}

// ExpiredAt reports whether the session has been inactive longer than timeout.
func (s *Session) ExpiredAt(now time.Time, timeout time.Duration) bool {
	return now.Sub(s.LastActivity) > timeout
}

// Touch records activity, resetting the inactivity window.
func (s *Session) Touch(now time.Time) {
	s.LastActivity = now
}

// MatchesFingerprint checks the stored user-agent binding.
func (s *Session) MatchesFingerprint(userAgent string) bool {
	return s.FingerprintHash == FingerprintUserAgent(userAgent)
}

// RotateCsrf replaces the CSRF token. Called after sensitive operations so a
// leaked token cannot be replayed.
func (s *Session) RotateCsrf() (string, error) {
	token, err := NewCsrfToken()
	if err != nil {
		return "", err
	}
	s.CsrfToken = token
	return token, nil
}

// FingerprintUserAgent hashes the client user agent for session binding.
func FingerprintUserAgent(userAgent string) string {
	sum := sha256.Sum256([]byte(userAgent))
	return hex.EncodeToString(sum[:])
}

// NewCsrfToken returns a hex-encoded random token.
func NewCsrfToken() (string, error) {
	buf := make([]byte, CsrfTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
