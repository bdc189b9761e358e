package domain

import "time"

// Event is the base interface for order lifecycle events. Events are returned
// by repository transition operations after the row update commits and are
// consumed by the notification dispatcher; they never feed back into order
// state.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent provides common event metadata.
type BaseEvent struct {
	Timestamp time.Time
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// OrderCreated is raised when a new order is persisted.
type OrderCreated struct {
	BaseEvent
	Order *Order
}

// EventName returns the event type identifier.
func (e OrderCreated) EventName() string {
	return "orders.order.created"
}

// StatusChanged is raised when an order's fulfillment status transitions to a
// different value. No event is raised for a no-op re-save of the same status.
type StatusChanged struct {
	BaseEvent
	Order *Order
	From  Status
	To    Status
}

// EventName returns the event type identifier.
func (e StatusChanged) EventName() string {
	return "orders.order.status_changed"
}

// PaymentReceived is raised only when payment status transitions into Paid.
type PaymentReceived struct {
	BaseEvent
	Order  *Order
	Amount float64
}

// EventName returns the event type identifier.
func (e PaymentReceived) EventName() string {
	return "orders.order.payment_received"
}
