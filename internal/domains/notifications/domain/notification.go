package domain

import (
	"errors"
	"strings"
	"time"
)

// Type classifies a notification for inbox rendering.
type Type string

const (
	TypeOrder   Type = "order"
	TypePayment Type = "payment"
	TypeSystem  Type = "system"
	TypeAlert   Type = "alert"
	TypeSuccess Type = "success"
	TypeInfo    Type = "info"
)

var (
	ErrInvalidType = errors.New("notification type is invalid")
	ErrEmptyTitle  = errors.New("notification title is required")
)

// Notification is an in-app message. RecipientID nil means broadcast,
// visible to all admin identities. After creation a notification is mutated
// only by its recipient (mark-read) or deleted; the workflow that produced it
// never touches it again.
type Notification struct {
	ID          int64
	RecipientID *int64
	Type        Type
	Title       string
	Message     string
	Link        string
	IsRead      bool
	CreatedAt   time.Time
}

// New validates and constructs a notification. recipientID nil broadcasts.
func New(recipientID *int64, typ Type, title, message, link string) (*Notification, error) {
	switch typ {
	case TypeOrder, TypePayment, TypeSystem, TypeAlert, TypeSuccess, TypeInfo:
	default:
		return nil, ErrInvalidType
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	return &Notification{
		RecipientID: recipientID,
		Type:        typ,
		Title:       title,
		Message:     strings.TrimSpace(message),
		Link:        strings.TrimSpace(link),
	}, nil
}

// Broadcast reports whether the notification has no specific recipient.
func (n *Notification) Broadcast() bool { return n.RecipientID == nil }

// Recipient identifies an inbox viewer. Broadcast rows are scoped to admin
// viewers; a customer only ever sees rows addressed to them.
type Recipient struct {
	UserID int64
	Admin  bool
}

// VisibleTo reports whether a recipient may see this notification.
func (n *Notification) VisibleTo(r Recipient) bool {
	if n.Broadcast() {
		return r.Admin
	}
	return *n.RecipientID == r.UserID
}
