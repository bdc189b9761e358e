package application

import (
	"context"
	"log/slog"
	"time"

	authports "github.com/Apurer/laundry-backoffice/internal/domains/auth/ports"
	notifports "github.com/Apurer/laundry-backoffice/internal/domains/notifications/ports"
	"github.com/Apurer/laundry-backoffice/internal/domains/orders/domain"
	"github.com/Apurer/laundry-backoffice/internal/domains/orders/ports"
)

// Service orchestrates the order workflow: guard, price, persist, dispatch.
// Guard and validation failures abort before any state change; dispatcher
// failures never abort a committed mutation.
type Service struct {
	repo       ports.Repository
	guard      authports.Guard
	dispatcher notifports.Dispatcher
	catalog    domain.Catalog
	logger     *slog.Logger
	now        func() time.Time
}

type Option func(*Service)

// WithCatalog overrides the default price list.
func WithCatalog(catalog domain.Catalog) Option {
	return func(s *Service) {
		s.catalog = catalog
	}
}

// WithLogger sets the workflow logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(repo ports.Repository, guard authports.Guard, dispatcher notifports.Dispatcher, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		guard:      guard,
		dispatcher: dispatcher,
		catalog:    domain.DefaultCatalog(),
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateOrder prices and persists a new order, then fans out notifications.
// Delivery problems come back as warnings on an otherwise successful result.
func (s *Service) CreateOrder(ctx context.Context, access authports.AccessRequest, input ports.CreateOrderInput) (*ports.CreateOrderResult, error) {
	access.Action = authports.ActionCreateOrder
	access.RequireAdmin = true
	identity, err := s.guard.Authorize(ctx, access)
	if err != nil {
		return nil, err
	}

	mode, err := domain.ParseServiceMode(input.Mode)
	if err != nil {
		return nil, mapError(err)
	}
	quote, err := domain.PriceOrder(input.Selections, mode, s.catalog, s.now())
	if err != nil {
		return nil, mapError(err)
	}
	order, err := domain.NewOrder(input.Customer, quote, input.Notes, s.now())
	if err != nil {
		return nil, mapError(err)
	}

	saved, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, err
	}
	s.logger.Info("order created",
		slog.Int64("order_id", saved.ID),
		slog.Int64("created_by", identity.UserID),
		slog.Float64("total", saved.TotalCost),
		slog.String("mode", string(saved.Mode)))

	delivery := s.dispatcher.Dispatch(ctx, domain.OrderCreated{
		BaseEvent: domain.BaseEvent{Timestamp: s.now()},
		Order:     saved,
	})

	// Re-arm the form token so the submitted one cannot be replayed.
	rotated, err := s.guard.RotateCsrf(ctx, identity.SessionID)
	if err != nil {
		s.logger.Warn("csrf rotation failed after order creation", slog.String("error", err.Error()))
	}

	return &ports.CreateOrderResult{Order: saved, Warnings: delivery.Warnings, CsrfToken: rotated}, nil
}

// ChangeStatus applies a fulfillment transition and notifies the owning user,
// unless the update re-saved the same value.
func (s *Service) ChangeStatus(ctx context.Context, access authports.AccessRequest, orderID int64, status string) (*ports.StatusChange, error) {
	access.Action = authports.ActionManageOrders
	access.RequireAdmin = true
	identity, err := s.guard.Authorize(ctx, access)
	if err != nil {
		return nil, err
	}

	parsed, err := domain.ParseStatus(status)
	if err != nil {
		return nil, mapError(err)
	}
	transition, err := s.repo.UpdateStatus(ctx, orderID, parsed)
	if err != nil {
		return nil, err
	}
	s.logger.Info("order status updated",
		slog.Int64("order_id", orderID),
		slog.Int64("updated_by", identity.UserID),
		slog.String("old", string(transition.Old)),
		slog.String("new", string(transition.New)))

	if !transition.NoOp() {
		result := s.dispatcher.Dispatch(ctx, domain.StatusChanged{
			BaseEvent: domain.BaseEvent{Timestamp: s.now()},
			Order:     transition.Order,
			From:      transition.Old,
			To:        transition.New,
		})
		s.logWarnings(orderID, result.Warnings)
	}
	return &ports.StatusChange{OrderID: orderID, Old: transition.Old, New: transition.New}, nil
}

// ChangePayment records a payment state and notifies the owner only when the
// order transitions into Paid.
func (s *Service) ChangePayment(ctx context.Context, access authports.AccessRequest, orderID int64, paymentStatus string) (*ports.PaymentChange, error) {
	access.Action = authports.ActionManageOrders
	access.RequireAdmin = true
	identity, err := s.guard.Authorize(ctx, access)
	if err != nil {
		return nil, err
	}

	parsed, err := domain.ParsePaymentStatus(paymentStatus)
	if err != nil {
		return nil, mapError(err)
	}
	transition, err := s.repo.UpdatePayment(ctx, orderID, parsed)
	if err != nil {
		return nil, err
	}
	s.logger.Info("order payment updated",
		slog.Int64("order_id", orderID),
		slog.Int64("updated_by", identity.UserID),
		slog.String("old", string(transition.Old)),
		slog.String("new", string(transition.New)))

	if transition.IntoPaid() {
		result := s.dispatcher.Dispatch(ctx, domain.PaymentReceived{
			BaseEvent: domain.BaseEvent{Timestamp: s.now()},
			Order:     transition.Order,
			Amount:    transition.Order.TotalCost,
		})
		s.logWarnings(orderID, result.Warnings)
	}
	return &ports.PaymentChange{OrderID: orderID, Old: transition.Old, New: transition.New}, nil
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListActiveOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.ListActive(ctx)
}

// Catalog returns the allow-listed price list for display.
func (s *Service) Catalog() []domain.CatalogEntry {
	return s.catalog.Entries()
}

func (s *Service) logWarnings(orderID int64, warnings []string) {
	for _, w := range warnings {
		s.logger.Warn("notification delivery warning", slog.Int64("order_id", orderID), slog.String("warning", w))
	}
}

var _ ports.Service = (*Service)(nil)
