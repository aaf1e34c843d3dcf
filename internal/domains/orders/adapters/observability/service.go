package observability

import (
	"context"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	orderdomain "github.com/Apurer/gamerlink-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/gamerlink-api/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/gamerlink-api/internal/domains/orders/adapters/observability/service"

// Service decorates the order service with tracing, logging, and metrics.
type Service struct {
	inner   orderports.Service
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

// New wraps the core order service.
func New(inner orderports.Service, opts ...Option) orderports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
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

func (s *Service) CreateOrder(ctx context.Context, input orderports.CreateOrderInput) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.CreateOrder",
		trace.WithAttributes(attribute.Int64("order.service_id", input.ServiceID), attribute.Int64("order.buyer_id", input.BuyerID)))
	defer span.End()

	s.logInfo(ctx, "creating order", slog.Int64("order.service_id", input.ServiceID), slog.Int64("order.buyer_id", input.BuyerID))
	result, err := s.inner.CreateOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create order", slog.Int64("order.service_id", input.ServiceID))
	}
	span.SetAttributes(attribute.Int64("order.id", result.ID))
	s.metrics.recordCreated(ctx)
	s.logInfo(ctx, "order created", slog.Int64("order.id", result.ID), slog.Float64("order.total_price", result.TotalPrice))
	return result, nil
}

func (s *Service) GetOrderByID(ctx context.Context, id int64) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrderByID", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	result, err := s.inner.GetOrderByID(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.Int64("order.id", id))
	}
	return result, nil
}

func (s *Service) MarkOrderAsPaid(ctx context.Context, id int64) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.MarkOrderAsPaid", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	s.logInfo(ctx, "marking order paid", slog.Int64("order.id", id))
	result, err := s.inner.MarkOrderAsPaid(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to mark order paid", slog.Int64("order.id", id))
	}
	s.metrics.recordStatusChange(ctx, result.Status, "payment")
	s.logInfo(ctx, "order paid", slog.Int64("order.id", id), slog.String("status", string(result.Status)))
	return result, nil
}

func (s *Service) Transition(ctx context.Context, input orderports.TransitionInput) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Transition",
		trace.WithAttributes(attribute.Int64("order.id", input.OrderID), attribute.String("order.target_status", string(input.Target))))
	defer span.End()

	s.logInfo(ctx, "transitioning order", slog.Int64("order.id", input.OrderID), slog.String("target", string(input.Target)))
	result, err := s.inner.Transition(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "order transition rejected",
			slog.Int64("order.id", input.OrderID), slog.String("target", string(input.Target)))
	}
	s.metrics.recordStatusChange(ctx, result.Status, "buyer")
	return result, nil
}

// UpdateOrderStatus records an audit entry for every administrative override.
func (s *Service) UpdateOrderStatus(ctx context.Context, input orderports.UpdateStatusInput) (*orderports.OverrideResult, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.UpdateOrderStatus",
		trace.WithAttributes(attribute.Int64("order.id", input.OrderID), attribute.String("order.target_status", string(input.Status))))
	defer span.End()

	result, err := s.inner.UpdateOrderStatus(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "order status override failed", slog.Int64("order.id", input.OrderID))
	}
	s.metrics.recordStatusChange(ctx, result.Order.Status, "admin")
	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "order status overridden",
			slog.Bool("audit", true),
			slog.Int64("order.id", input.OrderID),
			slog.Int64("actor.id", input.ActorID),
			slog.String("status.previous", string(result.Previous)),
			slog.String("status.new", string(result.Order.Status)))
	}
	return result, nil
}

func (s *Service) GetOrdersByUser(ctx context.Context, userID int64) ([]*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrdersByUser", trace.WithAttributes(attribute.Int64("user.id", userID)))
	defer span.End()

	result, err := s.inner.GetOrdersByUser(ctx, userID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list user orders", slog.Int64("user.id", userID))
	}
	span.SetAttributes(attribute.Int("orders.count", len(result)))
	return result, nil
}

func (s *Service) GetAllOrders(ctx context.Context) ([]*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetAllOrders")
	defer span.End()

	result, err := s.inner.GetAllOrders(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("orders.count", len(result)))
	return result, nil
}

func (s *Service) ExpireUnpaidOrders(ctx context.Context, olderThan time.Duration) (int, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ExpireUnpaidOrders", trace.WithAttributes(attribute.String("window", olderThan.String())))
	defer span.End()

	expired, err := s.inner.ExpireUnpaidOrders(ctx, olderThan)
	if err != nil {
		return expired, s.handleError(ctx, span, err, "unpaid order sweep failed", slog.Int("expired", expired))
	}
	if expired > 0 {
		s.metrics.recordExpired(ctx, expired)
	}
	s.logInfo(ctx, "unpaid order sweep finished", slog.Int("expired", expired), slog.Duration("window", olderThan))
	return expired, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	ordersCreated metric.Int64Counter
	statusChanges metric.Int64Counter
	ordersExpired metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersCreated, _ := m.Int64Counter("orders.service.orders_created", metric.WithDescription("Number of orders created"))
	statusChanges, _ := m.Int64Counter("orders.service.status_changes", metric.WithDescription("Number of order status changes"))
	ordersExpired, _ := m.Int64Counter("orders.service.orders_expired", metric.WithDescription("Number of unpaid orders cancelled by the sweep"))
	return serviceMetrics{ordersCreated: ordersCreated, statusChanges: statusChanges, ordersExpired: ordersExpired}
}

func (m serviceMetrics) recordCreated(ctx context.Context) {
	if m.ordersCreated != nil {
		m.ordersCreated.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordStatusChange(ctx context.Context, status orderdomain.Status, source string) {
	if m.statusChanges != nil {
		m.statusChanges.Add(ctx, 1, metric.WithAttributes(
			attribute.String("order.status", string(status)),
			attribute.String("source", source),
		))
	}
}

func (m serviceMetrics) recordExpired(ctx context.Context, n int) {
	if m.ordersExpired != nil {
		m.ordersExpired.Add(ctx, int64(n))
	}
}

var _ orderports.Service = (*Service)(nil)
