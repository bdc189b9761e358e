package application

import (
	"context"

	"github.com/Apurer/laundry-backoffice/internal/domains/notifications/domain"
	"github.com/Apurer/laundry-backoffice/internal/domains/notifications/ports"
)

// Inbox exposes a recipient's view of their notifications.
type Inbox struct {
	repo ports.Repository
}

func NewInbox(repo ports.Repository) *Inbox {
	return &Inbox{repo: repo}
}

// List returns the recipient's own notifications, plus broadcasts for admin
// recipients, newest first.
func (i *Inbox) List(ctx context.Context, recipient domain.Recipient) ([]*domain.Notification, error) {
	return i.repo.ListForRecipient(ctx, recipient)
}

// MarkRead marks one notification read. Idempotent: re-marking succeeds.
func (i *Inbox) MarkRead(ctx context.Context, id int64, recipient domain.Recipient) error {
	return i.repo.MarkRead(ctx, id, recipient)
}

// MarkAllRead marks every notification visible to the recipient as read.
func (i *Inbox) MarkAllRead(ctx context.Context, recipient domain.Recipient) error {
	return i.repo.MarkAllRead(ctx, recipient)
}

// Delete permanently removes a notification the recipient can see.
func (i *Inbox) Delete(ctx context.Context, id int64, recipient domain.Recipient) error {
	return i.repo.Delete(ctx, id, recipient)
}

// UnreadCount backs the inbox badge.
func (i *Inbox) UnreadCount(ctx context.Context, recipient domain.Recipient) (int64, error) {
	return i.repo.CountUnread(ctx, recipient)
}
