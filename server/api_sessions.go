package laundryserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authapp "github.com/Apurer/laundry-backoffice/internal/domains/auth/application"
)

// SessionsAPI exposes login and logout around the session service.
type SessionsAPI struct {
	sessions *authapp.SessionService
}

// NewSessionsAPI creates a SessionsAPI backed by the session service.
func NewSessionsAPI(sessions *authapp.SessionService) SessionsAPI {
	return SessionsAPI{sessions: sessions}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	UserID    int64  `json:"user_id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	CsrfToken string `json:"csrf_token"`
}

// Post /v1/sessions
// Authenticate and issue a fingerprint-bound session
func (api *SessionsAPI) Login(c *gin.Context) {
	var payload loginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	session, err := api.sessions.Login(c.Request.Context(), payload.Username, payload.Password, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.SetCookie(SessionCookieName, session.ID, 0, "/", "", false, true)
	c.JSON(http.StatusOK, loginResponse{
		UserID:    session.UserID,
		Name:      session.Name,
		Role:      string(session.Role),
		CsrfToken: session.CsrfToken,
	})
}

// Delete /v1/sessions
// Destroy the caller's session
func (api *SessionsAPI) Logout(c *gin.Context) {
	access := accessRequest(c)
	api.sessions.Logout(c.Request.Context(), access.SessionID)
	c.SetCookie(SessionCookieName, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}
