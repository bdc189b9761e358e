package laundryserver

import (
	"github.com/gin-gonic/gin"

	authports "github.com/Apurer/laundry-backoffice/internal/domains/auth/ports"
)

const (
	// SessionCookieName carries the opaque session identifier.
	SessionCookieName = "laundry_session"
	// CsrfHeaderName carries the per-session CSRF token on mutating requests.
	CsrfHeaderName = "X-CSRF-Token"
)

// accessRequest extracts the guard inputs from an incoming request. The
// session ID is read from the cookie first, falling back to the
// X-Session-ID header for non-browser clients.
func accessRequest(c *gin.Context) authports.AccessRequest {
	sessionID, err := c.Cookie(SessionCookieName)
	if err != nil || sessionID == "" {
		sessionID = c.GetHeader("X-Session-ID")
	}
	return authports.AccessRequest{
		SessionID: sessionID,
		CsrfToken: c.GetHeader(CsrfHeaderName),
		UserAgent: c.Request.UserAgent(),
		ClientIP:  c.ClientIP(),
	}
}
