package ports

import (
	"context"
	"errors"

	"github.com/Apurer/laundry-backoffice/internal/domains/notifications/domain"
)

var ErrNotFound = errors.New("notification not found")

// Repository persists notifications. Mutations are scoped to the recipient:
// a user can only touch rows addressed to them, plus broadcasts when the
// recipient holds the admin role.
type Repository interface {
	Create(ctx context.Context, notification *domain.Notification) (*domain.Notification, error)
	// ListForRecipient returns the recipient's own notifications, plus
	// broadcasts for admin recipients, newest first.
	ListForRecipient(ctx context.Context, recipient domain.Recipient) ([]*domain.Notification, error)
	// MarkRead is idempotent; re-marking a read notification succeeds.
	MarkRead(ctx context.Context, id int64, recipient domain.Recipient) error
	MarkAllRead(ctx context.Context, recipient domain.Recipient) error
	// Delete is permanent; there is no soft-delete.
	Delete(ctx context.Context, id int64, recipient domain.Recipient) error
	CountUnread(ctx context.Context, recipient domain.Recipient) (int64, error)
}
