package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/gamerlink-api/internal/domains/catalog/domain"
	"github.com/Apurer/gamerlink-api/internal/domains/catalog/ports"
)

const tracerName = "github.com/Apurer/gamerlink-api/internal/domains/catalog/adapters/observability/service"

// Service decorates the catalog application port with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	updates metric.Int64Counter
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to count administrative edits.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		if m != nil {
			s.updates, _ = m.Int64Counter("catalog.service.updates", metric.WithDescription("Number of administrative service edits"))
		}
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:  inner,
		tracer: nooptrace.NewTracerProvider().Tracer(tracerName),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

func (s *Service) ListServices(ctx context.Context) ([]*domain.Service, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListServices")
	defer span.End()

	result, err := s.inner.ListServices(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list services")
	}
	span.SetAttributes(attribute.Int("services.count", len(result)))
	return result, nil
}

func (s *Service) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetService", trace.WithAttributes(attribute.Int64("service.id", id)))
	defer span.End()

	result, err := s.inner.GetService(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load service", slog.Int64("service.id", id))
	}
	return result, nil
}

func (s *Service) ListServicesByIDs(ctx context.Context, ids []int64) ([]*domain.Service, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListServicesByIDs", trace.WithAttributes(attribute.Int64Slice("service.ids", ids)))
	defer span.End()

	result, err := s.inner.ListServicesByIDs(ctx, ids)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to resolve services")
	}
	return result, nil
}

func (s *Service) ListServicesByCategory(ctx context.Context, category string) ([]*domain.Service, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListServicesByCategory", trace.WithAttributes(attribute.String("service.category", category)))
	defer span.End()

	result, err := s.inner.ListServicesByCategory(ctx, category)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list category services", slog.String("category", category))
	}
	span.SetAttributes(attribute.Int("services.count", len(result)))
	return result, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListCategories")
	defer span.End()

	result, err := s.inner.ListCategories(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list categories")
	}
	return result, nil
}

func (s *Service) ListBanners(ctx context.Context) ([]*domain.Banner, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListBanners")
	defer span.End()

	result, err := s.inner.ListBanners(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list banners")
	}
	return result, nil
}

// UpdateService logs every administrative edit since it can overwrite derived rating fields.
func (s *Service) UpdateService(ctx context.Context, service *domain.Service) (*domain.Service, error) {
	var id int64
	if service != nil {
		id = service.ID
	}
	ctx, span := s.tracer.Start(ctx, "CatalogService.UpdateService", trace.WithAttributes(attribute.Int64("service.id", id)))
	defer span.End()

	result, err := s.inner.UpdateService(ctx, service)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update service", slog.Int64("service.id", id))
	}
	if s.updates != nil {
		s.updates.Add(ctx, 1)
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "service updated",
		slog.Int64("service.id", result.ID),
		slog.Float64("service.average_rating", result.AverageRating),
		slog.Int("service.review_count", result.ReviewCount))
	return result, nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	attrs = append(attrs, slog.String("error", err.Error()))
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	return err
}

var _ ports.Service = (*Service)(nil)
