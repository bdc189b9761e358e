package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	authports "github.com/Apurer/laundry-backoffice/internal/domains/auth/ports"
	ordersdomain "github.com/Apurer/laundry-backoffice/internal/domains/orders/domain"
	ordersports "github.com/Apurer/laundry-backoffice/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/laundry-backoffice/internal/domains/orders/adapters/observability/service"

// Service decorates the order workflow with tracing, logging, and metrics.
type Service struct {
	inner   ordersports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core order workflow service.
func New(inner ordersports.Service, opts ...Option) ordersports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) CreateOrder(ctx context.Context, access authports.AccessRequest, input ordersports.CreateOrderInput) (*ordersports.CreateOrderResult, error) {
	ctx, span := s.tracer.Start(ctx, "OrderWorkflow.CreateOrder",
		trace.WithAttributes(
			attribute.String("order.mode", input.Mode),
			attribute.Int("order.selections", len(input.Selections))))
	defer span.End()

	result, err := s.inner.CreateOrder(ctx, access, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create order")
	}
	span.SetAttributes(attribute.Int64("order.id", result.Order.ID))
	s.metrics.recordCreated(ctx, result.Order.Mode)
	if len(result.Warnings) > 0 {
		span.SetAttributes(attribute.Int("delivery.warnings", len(result.Warnings)))
	}
	s.logInfo(ctx, "order created",
		slog.Int64("order.id", result.Order.ID),
		slog.Float64("order.total", result.Order.TotalCost))
	return result, nil
}

func (s *Service) ChangeStatus(ctx context.Context, access authports.AccessRequest, orderID int64, status string) (*ordersports.StatusChange, error) {
	ctx, span := s.tracer.Start(ctx, "OrderWorkflow.ChangeStatus",
		trace.WithAttributes(attribute.Int64("order.id", orderID), attribute.String("order.status", status)))
	defer span.End()

	change, err := s.inner.ChangeStatus(ctx, access, orderID, status)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to change order status", slog.Int64("order.id", orderID))
	}
	s.metrics.recordTransition(ctx, change.New)
	s.logInfo(ctx, "order status changed",
		slog.Int64("order.id", orderID),
		slog.String("from", string(change.Old)),
		slog.String("to", string(change.New)))
	return change, nil
}

func (s *Service) ChangePayment(ctx context.Context, access authports.AccessRequest, orderID int64, paymentStatus string) (*ordersports.PaymentChange, error) {
	ctx, span := s.tracer.Start(ctx, "OrderWorkflow.ChangePayment",
		trace.WithAttributes(attribute.Int64("order.id", orderID), attribute.String("order.payment_status", paymentStatus)))
	defer span.End()

	change, err := s.inner.ChangePayment(ctx, access, orderID, paymentStatus)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to change order payment", slog.Int64("order.id", orderID))
	}
	s.logInfo(ctx, "order payment changed",
		slog.Int64("order.id", orderID),
		slog.String("from", string(change.Old)),
		slog.String("to", string(change.New)))
	return change, nil
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderWorkflow.GetOrder", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := s.inner.GetOrder(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.Int64("order.id", id))
	}
	return order, nil
}

func (s *Service) ListActiveOrders(ctx context.Context) ([]*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderWorkflow.ListActiveOrders")
	defer span.End()

	orders, err := s.inner.ListActiveOrders(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("orders.count", len(orders)))
	return orders, nil
}

func (s *Service) Catalog() []ordersdomain.CatalogEntry {
	return s.inner.Catalog()
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

type serviceMetrics struct {
	ordersCreated     metric.Int64Counter
	statusTransitions metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("orders.service.created", metric.WithDescription("Number of orders created"))
	transitions, _ := m.Int64Counter("orders.service.status_transitions", metric.WithDescription("Number of status transitions applied"))
	return serviceMetrics{ordersCreated: created, statusTransitions: transitions}
}

func (m serviceMetrics) recordCreated(ctx context.Context, mode ordersdomain.ServiceMode) {
	if m.ordersCreated != nil {
		m.ordersCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("order.mode", string(mode))))
	}
}

func (m serviceMetrics) recordTransition(ctx context.Context, status ordersdomain.Status) {
	if m.statusTransitions != nil {
		m.statusTransitions.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", string(status))))
	}
}

var _ ordersports.Service = (*Service)(nil)
