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

	userdomain "github.com/Apurer/gamerlink-api/internal/domains/users/domain"
	userports "github.com/Apurer/gamerlink-api/internal/domains/users/ports"
)

const tracerName = "github.com/Apurer/gamerlink-api/internal/domains/users/adapters/observability/service"

// Service decorates the user service with tracing, logging, and metrics.
type Service struct {
	inner   userports.Service
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

// New wraps the core user service.
func New(inner userports.Service, opts ...Option) userports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
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
		s.logger = defaultLogger()
	}
	return s
}

func (s *Service) CreateUser(ctx context.Context, input userports.CreateUserInput) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.CreateUser", trace.WithAttributes(attribute.String("user.username", input.Username)))
	defer span.End()
	s.logInfo(ctx, "creating user", slog.String("username", input.Username))
	result, err := s.inner.CreateUser(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create user", slog.String("username", input.Username))
	}
	s.metrics.recordCreated(ctx)
	s.logInfo(ctx, "user created", slog.Int64("user.id", result.ID))
	return result, nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.GetUser", trace.WithAttributes(attribute.Int64("user.id", id)))
	defer span.End()
	result, err := s.inner.GetUser(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load user", slog.Int64("user.id", id))
	}
	return result, nil
}

func (s *Service) GetUserByUsername(ctx context.Context, username string) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.GetUserByUsername", trace.WithAttributes(attribute.String("user.username", username)))
	defer span.End()
	return s.inner.GetUserByUsername(ctx, username)
}

func (s *Service) GetUserByEmail(ctx context.Context, email string) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.GetUserByEmail")
	defer span.End()
	return s.inner.GetUserByEmail(ctx, email)
}

func (s *Service) UpdateUser(ctx context.Context, input userports.UpdateProfileInput) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.UpdateUser", trace.WithAttributes(attribute.Int64("user.id", input.UserID)))
	defer span.End()
	result, err := s.inner.UpdateUser(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update user", slog.Int64("user.id", input.UserID))
	}
	s.metrics.recordUpdated(ctx)
	return result, nil
}

func (s *Service) ProfilesByIDs(ctx context.Context, ids []int64) (map[int64]*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.ProfilesByIDs", trace.WithAttributes(attribute.Int("user.batch.count", len(ids))))
	defer span.End()
	result, err := s.inner.ProfilesByIDs(ctx, ids)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to resolve profiles")
	}
	return result, nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
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

type serviceMetrics struct {
	usersCreated metric.Int64Counter
	usersUpdated metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("users.service.created", metric.WithDescription("Number of users created"))
	updated, _ := m.Int64Counter("users.service.updated", metric.WithDescription("Number of profile updates"))
	return serviceMetrics{usersCreated: created, usersUpdated: updated}
}

func (m serviceMetrics) recordCreated(ctx context.Context) {
	if m.usersCreated != nil {
		m.usersCreated.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordUpdated(ctx context.Context) {
	if m.usersUpdated != nil {
		m.usersUpdated.Add(ctx, 1)
	}
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var _ userports.Service = (*Service)(nil)
