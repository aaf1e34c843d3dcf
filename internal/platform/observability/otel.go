package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Instruments bundles the runtime-wide observability dependencies.
type Instruments struct {
	Logger         *slog.Logger
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
}

// Trace exporters selectable through OTEL_TRACES_EXPORTER.
const (
	ExporterOTLP   = "otlp"
	ExporterStdout = "stdout"
	ExporterNone   = "none"
)

// Settings is the telemetry configuration read from the environment.
type Settings struct {
	ServiceName  string
	Environment  string
	LogLevel     slog.Level
	Exporter     string
	OTLPEndpoint string
	OTLPInsecure bool
	// SampleRatio is the fraction of root spans recorded. Child spans follow their parent.
	SampleRatio float64
}

// SettingsFromEnv reads LOG_LEVEL, ENVIRONMENT, OTEL_TRACES_EXPORTER, OTEL_EXPORTER_OTLP_ENDPOINT,
// OTEL_EXPORTER_OTLP_INSECURE and OTEL_TRACES_SAMPLER_ARG. Unparseable values fall back to defaults.
func SettingsFromEnv(serviceName string) Settings {
	s := Settings{
		ServiceName:  serviceName,
		Environment:  env("ENVIRONMENT", "local"),
		LogLevel:     parseLevel(os.Getenv("LOG_LEVEL")),
		Exporter:     strings.ToLower(env("OTEL_TRACES_EXPORTER", ExporterOTLP)),
		OTLPEndpoint: env("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTLPInsecure: os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") != "0",
		SampleRatio:  1,
	}
	if ratio, err := strconv.ParseFloat(env("OTEL_TRACES_SAMPLER_ARG", ""), 64); err == nil && ratio >= 0 && ratio <= 1 {
		s.SampleRatio = ratio
	}
	return s
}

// Init configures slog, OpenTelemetry tracing, and meters for the process from the environment.
// The returned shutdown flushes pending spans and should run on exit.
func Init(ctx context.Context, serviceName string) (*Instruments, func(context.Context) error, error) {
	return InitWith(ctx, SettingsFromEnv(serviceName), os.Stdout)
}

// InitWith is Init with explicit settings and log destination.
func InitWith(ctx context.Context, settings Settings, logOut io.Writer) (*Instruments, func(context.Context) error, error) {
	logger := NewLogger(logOut, settings.LogLevel)
	slog.SetDefault(logger)

	res, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithProcess(),
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			attribute.String("service.name", settings.ServiceName),
			attribute.String("deployment.environment", settings.Environment),
		),
	)
	if err != nil {
		return nil, nil, err
	}

	traceOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(settings.SampleRatio))),
	}
	exporter, err := spanExporter(ctx, settings, logger)
	if err != nil {
		return nil, nil, err
	}
	if exporter != nil {
		traceOpts = append(traceOpts, sdktrace.WithBatcher(exporter))
	}
	tracerProvider := sdktrace.NewTracerProvider(traceOpts...)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewManualReader()),
	)
	otel.SetMeterProvider(meterProvider)

	shutdown := func(ctx context.Context) error {
		return errors.Join(meterProvider.Shutdown(ctx), tracerProvider.Shutdown(ctx))
	}
	return &Instruments{Logger: logger, TracerProvider: tracerProvider, MeterProvider: meterProvider}, shutdown, nil
}

// NewLogger builds the JSON logger every process uses. Records logged with a request-scoped
// context carry request_id.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level, AddSource: level <= slog.LevelDebug})
	return slog.New(newRequestIDHandler(handler))
}

// Tracer returns a named tracer from the configured provider.
func (i *Instruments) Tracer(name string) trace.Tracer {
	if i == nil || i.TracerProvider == nil {
		return otel.Tracer(name)
	}
	return i.TracerProvider.Tracer(name)
}

// Meter returns a named meter, or a no-op meter when telemetry was not initialised.
func (i *Instruments) Meter(name string) metric.Meter {
	if i == nil || i.MeterProvider == nil {
		return metricnoop.NewMeterProvider().Meter(name)
	}
	return i.MeterProvider.Meter(name)
}

// spanExporter returns nil when tracing export is disabled. An OTLP exporter that cannot be
// built degrades to stdout.
func spanExporter(ctx context.Context, settings Settings, logger *slog.Logger) (sdktrace.SpanExporter, error) {
	switch settings.Exporter {
	case ExporterNone:
		return nil, nil
	case ExporterStdout:
		return stdouttrace.New()
	}
	var opts []otlptracehttp.Option
	if settings.OTLPEndpoint != "" {
		opts = append(opts, otlptracehttp.WithEndpoint(settings.OTLPEndpoint))
	}
	if settings.OTLPInsecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		logger.Warn("OTLP trace exporter unavailable, exporting to stdout", slog.String("error", err.Error()))
		return stdouttrace.New()
	}
	return exporter, nil
}

func parseLevel(raw string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return slog.LevelInfo
	}
	return level
}

func env(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
