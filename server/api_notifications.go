package laundryserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authports "github.com/Apurer/laundry-backoffice/internal/domains/auth/ports"
	notifapp "github.com/Apurer/laundry-backoffice/internal/domains/notifications/application"
	notifdomain "github.com/Apurer/laundry-backoffice/internal/domains/notifications/domain"
)

// NotificationsAPI exposes the per-recipient notification inbox. Every
// operation resolves the recipient from the verified session; recipient IDs
// are never taken from the request body.
type NotificationsAPI struct {
	inbox *notifapp.Inbox
	guard authports.Guard
}

// NewNotificationsAPI creates a NotificationsAPI backed by the inbox service.
func NewNotificationsAPI(inbox *notifapp.Inbox, guard authports.Guard) NotificationsAPI {
	return NotificationsAPI{inbox: inbox, guard: guard}
}

type notificationModel struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Link      string `json:"link,omitempty"`
	IsRead    bool   `json:"is_read"`
	Broadcast bool   `json:"broadcast"`
	CreatedAt string `json:"created_at"`
}

type unreadCountModel struct {
	Unread int64 `json:"unread"`
}

// Get /v1/notifications
// List the caller's notifications, newest first
func (api *NotificationsAPI) ListNotifications(c *gin.Context) {
	identity, ok := api.identify(c)
	if !ok {
		return
	}
	notifications, err := api.inbox.List(c.Request.Context(), recipientOf(identity))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	models := make([]notificationModel, 0, len(notifications))
	for _, n := range notifications {
		models = append(models, fromNotification(n))
	}
	c.JSON(http.StatusOK, models)
}

// Get /v1/notifications/unread
// Count the caller's unread notifications
func (api *NotificationsAPI) UnreadCount(c *gin.Context) {
	identity, ok := api.identify(c)
	if !ok {
		return
	}
	count, err := api.inbox.UnreadCount(c.Request.Context(), recipientOf(identity))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, unreadCountModel{Unread: count})
}

// Post /v1/notifications/:notificationId/read
// Mark one notification read
func (api *NotificationsAPI) MarkRead(c *gin.Context) {
	identity, ok := api.identify(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "notificationId")
	if !ok {
		return
	}
	if err := api.inbox.MarkRead(c.Request.Context(), id, recipientOf(identity)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Post /v1/notifications/read
// Mark every visible notification read
func (api *NotificationsAPI) MarkAllRead(c *gin.Context) {
	identity, ok := api.identify(c)
	if !ok {
		return
	}
	if err := api.inbox.MarkAllRead(c.Request.Context(), recipientOf(identity)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete /v1/notifications/:notificationId
// Permanently remove one notification
func (api *NotificationsAPI) DeleteNotification(c *gin.Context) {
	identity, ok := api.identify(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "notificationId")
	if !ok {
		return
	}
	if err := api.inbox.Delete(c.Request.Context(), id, recipientOf(identity)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func recipientOf(identity *authports.Identity) notifdomain.Recipient {
	return notifdomain.Recipient{UserID: identity.UserID, Admin: identity.IsAdmin()}
}

func (api *NotificationsAPI) identify(c *gin.Context) (*authports.Identity, bool) {
	identity, err := api.guard.Identify(c.Request.Context(), accessRequest(c))
	if err != nil {
		respondServiceError(c, err)
		return nil, false
	}
	return identity, true
}

func fromNotification(n *notifdomain.Notification) notificationModel {
	return notificationModel{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Link:      n.Link,
		IsRead:    n.IsRead,
		Broadcast: n.Broadcast(),
		CreatedAt: n.CreatedAt.Format(timeLayout),
	}
}
