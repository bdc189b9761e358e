package ports

import (
	"context"

	authports "github.com/Apurer/laundry-backoffice/internal/domains/auth/ports"
	"github.com/Apurer/laundry-backoffice/internal/domains/orders/domain"
)

// CreateOrderInput is the upward surface for the create-order use case.
// Mode and quantities arrive untyped from the form and are validated here,
// never trusted.
type CreateOrderInput struct {
	Customer   domain.Customer
	Selections []domain.Selection
	Mode       string
	Notes      string
}

// CreateOrderResult carries the persisted order plus soft delivery warnings;
// a present warning never means the order failed. CsrfToken is the rotated
// token the client must use for its next mutating request, empty when
// rotation failed.
type CreateOrderResult struct {
	Order     *domain.Order
	Warnings  []string
	CsrfToken string
}

// StatusChange reports a fulfillment transition back to the caller.
type StatusChange struct {
	OrderID int64
	Old     domain.Status
	New     domain.Status
}

// PaymentChange reports a payment transition back to the caller.
type PaymentChange struct {
	OrderID int64
	Old     domain.PaymentStatus
	New     domain.PaymentStatus
}

// Service exposes the order workflow use cases to adapters. Mutating
// operations authorize through the guard before any state change.
type Service interface {
	CreateOrder(ctx context.Context, access authports.AccessRequest, input CreateOrderInput) (*CreateOrderResult, error)
	ChangeStatus(ctx context.Context, access authports.AccessRequest, orderID int64, status string) (*StatusChange, error)
	ChangePayment(ctx context.Context, access authports.AccessRequest, orderID int64, paymentStatus string) (*PaymentChange, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	ListActiveOrders(ctx context.Context) ([]*domain.Order, error)
	Catalog() []domain.CatalogEntry
}
