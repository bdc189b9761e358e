package ports

import (
	"context"
	"errors"

	"github.com/Apurer/laundry-backoffice/internal/domains/orders/domain"
)

var ErrNotFound = errors.New("order not found")

// StatusTransition reports the outcome of an UpdateStatus call. Old and New
// carry the prior and applied values so the caller can detect no-ops.
type StatusTransition struct {
	Order *domain.Order
	Old   domain.Status
	New   domain.Status
}

// NoOp reports whether the update re-saved the value already present.
func (t StatusTransition) NoOp() bool { return t.Old == t.New }

// PaymentTransition reports the outcome of an UpdatePayment call.
type PaymentTransition struct {
	Order *domain.Order
	Old   domain.PaymentStatus
	New   domain.PaymentStatus
}

// NoOp reports whether the update re-saved the value already present.
func (t PaymentTransition) NoOp() bool { return t.Old == t.New }

// IntoPaid reports whether this transition moved the order into Paid.
func (t PaymentTransition) IntoPaid() bool {
	return t.New == domain.PaymentPaid && t.Old != domain.PaymentPaid
}

// Repository persists orders. UpdateStatus and UpdatePayment are atomic
// single-row updates of their one column; the order row is the unit of
// mutation and pricing fields are never rewritten after Create.
type Repository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	// ListActive returns non-archived orders, newest first.
	ListActive(ctx context.Context) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.Status) (*StatusTransition, error)
	UpdatePayment(ctx context.Context, id int64, status domain.PaymentStatus) (*PaymentTransition, error)
}
