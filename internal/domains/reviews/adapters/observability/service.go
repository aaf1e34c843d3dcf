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

	"github.com/Apurer/gamerlink-api/internal/domains/reviews/domain"
	"github.com/Apurer/gamerlink-api/internal/domains/reviews/ports"
)

const tracerName = "github.com/Apurer/gamerlink-api/internal/domains/reviews/adapters/observability/service"

// Service decorates the review service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
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

// New wraps the core review service.
func New(inner ports.Service, opts ...Option) ports.Service {
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
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

func (s *Service) SubmitReview(ctx context.Context, input ports.SubmitReviewInput) (*ports.SubmitResult, error) {
	ctx, span := s.tracer.Start(ctx, "ReviewService.SubmitReview",
		trace.WithAttributes(attribute.Int64("order.id", input.OrderID), attribute.Int64("user.id", input.UserID)))
	defer span.End()

	s.logger.LogAttrs(ctx, slog.LevelInfo, "submitting review",
		slog.Int64("order.id", input.OrderID), slog.Int64("user.id", input.UserID), slog.Int("review.rating", input.Rating))
	result, err := s.inner.SubmitReview(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "review submission rejected",
			slog.Int64("order.id", input.OrderID), slog.Int64("user.id", input.UserID))
	}
	span.SetAttributes(attribute.Bool("review.already_reviewed", result.AlreadyReviewed))
	if result.AlreadyReviewed {
		s.metrics.recordDuplicate(ctx)
	} else {
		s.metrics.recordSubmitted(ctx, result.Review.Rating)
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, result.Message(),
		slog.Int64("order.id", input.OrderID),
		slog.Int64("review.id", result.Review.ID),
		slog.Int64("service.id", result.Review.ServiceID))
	return result, nil
}

func (s *Service) GetReviewByOrderID(ctx context.Context, orderID int64) (*domain.Review, error) {
	ctx, span := s.tracer.Start(ctx, "ReviewService.GetReviewByOrderID", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()

	result, err := s.inner.GetReviewByOrderID(ctx, orderID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load review", slog.Int64("order.id", orderID))
	}
	return result, nil
}

func (s *Service) GetServiceReviews(ctx context.Context, serviceID int64) ([]domain.ReviewWithAuthor, error) {
	ctx, span := s.tracer.Start(ctx, "ReviewService.GetServiceReviews", trace.WithAttributes(attribute.Int64("service.id", serviceID)))
	defer span.End()

	result, err := s.inner.GetServiceReviews(ctx, serviceID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list service reviews", slog.Int64("service.id", serviceID))
	}
	span.SetAttributes(attribute.Int("reviews.count", len(result)))
	return result, nil
}

func (s *Service) RecomputeRating(ctx context.Context, serviceID int64) (domain.RatingSummary, error) {
	ctx, span := s.tracer.Start(ctx, "ReviewService.RecomputeRating", trace.WithAttributes(attribute.Int64("service.id", serviceID)))
	defer span.End()

	summary, err := s.inner.RecomputeRating(ctx, serviceID)
	if err != nil {
		return summary, s.handleError(ctx, span, err, "rating recompute failed", slog.Int64("service.id", serviceID))
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "rating recomputed",
		slog.Int64("service.id", serviceID),
		slog.Float64("rating.average", summary.Average),
		slog.Int("rating.count", summary.Count))
	return summary, nil
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

type serviceMetrics struct {
	submitted  metric.Int64Counter
	duplicates metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	submitted, _ := m.Int64Counter("reviews.service.reviews_submitted", metric.WithDescription("Number of reviews written"))
	duplicates, _ := m.Int64Counter("reviews.service.duplicate_submissions", metric.WithDescription("Number of submissions answered as already reviewed"))
	return serviceMetrics{submitted: submitted, duplicates: duplicates}
}

func (m serviceMetrics) recordSubmitted(ctx context.Context, rating int) {
	if m.submitted != nil {
		m.submitted.Add(ctx, 1, metric.WithAttributes(attribute.Int("review.rating", rating)))
	}
}

func (m serviceMetrics) recordDuplicate(ctx context.Context) {
	if m.duplicates != nil {
		m.duplicates.Add(ctx, 1)
	}
}

var _ ports.Service = (*Service)(nil)
