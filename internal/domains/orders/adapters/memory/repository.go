package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/laundry-backoffice/internal/domains/orders/domain"
	"github.com/Apurer/laundry-backoffice/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter. Transitions run
// under the write lock, giving the same linearization a row-level update
// provides in the database.
type Repository struct {
	mu     sync.RWMutex
	orders map[int64]*domain.Order
	nextID int64
	now    func() time.Time
}

func NewRepository() *Repository {
	return &Repository{
		orders: map[int64]*domain.Order{},
		now:    time.Now,
	}
}

// WithClock overrides the time source for deterministic testing.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

func (r *Repository) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := cloneOrder(order)
	r.nextID++
	clone.ID = r.nextID
	r.orders[clone.ID] = clone
	out := cloneOrder(clone)
	return out, nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneOrder(order), nil
}

func (r *Repository) ListActive(_ context.Context) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []*domain.Order
	for _, order := range r.orders {
		if order.Status == domain.StatusArchived {
			continue
		}
		list = append(list, cloneOrder(order))
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID > list[j].ID
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (r *Repository) UpdateStatus(_ context.Context, id int64, status domain.Status) (*ports.StatusTransition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	old := order.Status
	order.Status = status
	if old != status {
		order.StatusUpdatedAt = r.now()
	}
	return &ports.StatusTransition{Order: cloneOrder(order), Old: old, New: status}, nil
}

func (r *Repository) UpdatePayment(_ context.Context, id int64, status domain.PaymentStatus) (*ports.PaymentTransition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	old := order.PaymentStatus
	order.PaymentStatus = status
	return &ports.PaymentTransition{Order: cloneOrder(order), Old: old, New: status}, nil
}

func cloneOrder(order *domain.Order) *domain.Order {
	clone := *order
	clone.Items = append([]domain.LineItem(nil), order.Items...)
	return &clone
}
