package ports

import (
	"context"

	ordersdomain "github.com/Apurer/laundry-backoffice/internal/domains/orders/domain"
)

// DeliveryResult reports best-effort fan-out. Warnings carry per-recipient
// failures that must not fail the triggering operation.
type DeliveryResult struct {
	NotificationsCreated int
	EmailsSent           int
	Warnings             []string
}

// Warn appends a non-fatal delivery problem.
func (r *DeliveryResult) Warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Dispatcher fans out notifications for an order lifecycle event. Dispatch
// never returns an error: the order mutation already committed, so every
// failure is folded into the result's warnings.
type Dispatcher interface {
	Dispatch(ctx context.Context, event ordersdomain.Event) DeliveryResult
}
