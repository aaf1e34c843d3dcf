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

	catalogdomain "github.com/Apurer/gamerlink-api/internal/domains/catalog/domain"
	favoriteports "github.com/Apurer/gamerlink-api/internal/domains/favorites/ports"
)

const tracerName = "github.com/Apurer/gamerlink-api/internal/domains/favorites/adapters/observability/service"

// Service decorates the favorite service with tracing, logging, and metrics.
type Service struct {
	inner   favoriteports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	toggles metric.Int64Counter
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
		if m == nil {
			return
		}
		s.toggles, _ = m.Int64Counter("favorites.service.toggles", metric.WithDescription("Number of favorite toggles by outcome"))
	}
}

func New(inner favoriteports.Service, opts ...Option) favoriteports.Service {
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
	return s
}

func (s *Service) ToggleFavorite(ctx context.Context, userID, serviceID int64) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "FavoriteService.ToggleFavorite",
		trace.WithAttributes(attribute.Int64("user.id", userID), attribute.Int64("service.id", serviceID)))
	defer span.End()

	favorite, err := s.inner.ToggleFavorite(ctx, userID, serviceID)
	if err != nil {
		return false, s.handleError(ctx, span, err, "favorite toggle failed", slog.Int64("user.id", userID), slog.Int64("service.id", serviceID))
	}
	span.SetAttributes(attribute.Bool("favorite.active", favorite))
	if s.toggles != nil {
		s.toggles.Add(ctx, 1, metric.WithAttributes(attribute.Bool("favorite.active", favorite)))
	}
	s.logInfo(ctx, "favorite toggled", slog.Int64("user.id", userID), slog.Int64("service.id", serviceID), slog.Bool("favorite", favorite))
	return favorite, nil
}

func (s *Service) IsFavorite(ctx context.Context, userID, serviceID int64) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "FavoriteService.IsFavorite",
		trace.WithAttributes(attribute.Int64("user.id", userID), attribute.Int64("service.id", serviceID)))
	defer span.End()

	favorite, err := s.inner.IsFavorite(ctx, userID, serviceID)
	if err != nil {
		return false, s.handleError(ctx, span, err, "favorite lookup failed", slog.Int64("user.id", userID), slog.Int64("service.id", serviceID))
	}
	return favorite, nil
}

func (s *Service) GetFavoriteServiceIDs(ctx context.Context, userID int64) ([]int64, error) {
	ctx, span := s.tracer.Start(ctx, "FavoriteService.GetFavoriteServiceIDs", trace.WithAttributes(attribute.Int64("user.id", userID)))
	defer span.End()

	ids, err := s.inner.GetFavoriteServiceIDs(ctx, userID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list favorite ids", slog.Int64("user.id", userID))
	}
	span.SetAttributes(attribute.Int("favorites.count", len(ids)))
	return ids, nil
}

func (s *Service) GetFavoriteServices(ctx context.Context, userID int64) ([]*catalogdomain.Service, error) {
	ctx, span := s.tracer.Start(ctx, "FavoriteService.GetFavoriteServices", trace.WithAttributes(attribute.Int64("user.id", userID)))
	defer span.End()

	services, err := s.inner.GetFavoriteServices(ctx, userID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list favorite services", slog.Int64("user.id", userID))
	}
	span.SetAttributes(attribute.Int("favorites.count", len(services)))
	return services, nil
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

var _ favoriteports.Service = (*Service)(nil)
