package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/laundry-backoffice/internal/domains/notifications/domain"
	"github.com/Apurer/laundry-backoffice/internal/domains/notifications/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory notification persistence adapter.
type Repository struct {
	mu      sync.RWMutex
	records map[int64]*domain.Notification
	nextID  int64
	now     func() time.Time
}

func NewRepository() *Repository {
	return &Repository{
		records: map[int64]*domain.Notification{},
		now:     time.Now,
	}
}

// WithClock overrides the time source for deterministic testing.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

func (r *Repository) Create(_ context.Context, notification *domain.Notification) (*domain.Notification, error) {
	if notification == nil {
		return nil, errors.New("notification is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *notification
	r.nextID++
	clone.ID = r.nextID
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = r.now()
	}
	r.records[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *Repository) ListForRecipient(_ context.Context, recipient domain.Recipient) ([]*domain.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []*domain.Notification
	for _, n := range r.records {
		if n.VisibleTo(recipient) {
			clone := *n
			list = append(list, &clone)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID > list[j].ID
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (r *Repository) MarkRead(_ context.Context, id int64, recipient domain.Recipient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.records[id]
	if !ok || !n.VisibleTo(recipient) {
		return ports.ErrNotFound
	}
	n.IsRead = true
	return nil
}

func (r *Repository) MarkAllRead(_ context.Context, recipient domain.Recipient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.records {
		if n.VisibleTo(recipient) {
			n.IsRead = true
		}
	}
	return nil
}

func (r *Repository) Delete(_ context.Context, id int64, recipient domain.Recipient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.records[id]
	if !ok || !n.VisibleTo(recipient) {
		return ports.ErrNotFound
	}
	delete(r.records, id)
	return nil
}

func (r *Repository) CountUnread(_ context.Context, recipient domain.Recipient) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for _, n := range r.records {
		if n.VisibleTo(recipient) && !n.IsRead {
			count++
		}
	}
	return count, nil
}
