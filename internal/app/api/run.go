package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	marketplaceserver "github.com/Apurer/gamerlink-api/go"
	reviewworkflows "github.com/Apurer/gamerlink-api/internal/domains/reviews/adapters/workflows"
	reviewports "github.com/Apurer/gamerlink-api/internal/domains/reviews/ports"
	"github.com/Apurer/gamerlink-api/internal/platform/identity"
	"github.com/Apurer/gamerlink-api/internal/platform/metrics"
	platformobservability "github.com/Apurer/gamerlink-api/internal/platform/observability"
)

// Run boots the marketplace HTTP API with observability, repositories, and workflows wired.
// It returns when ctx is cancelled or the server fails.
func Run(ctx context.Context) error {
	const serviceName = "gamerlink-api"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	services, cleanup := BuildServices(ctx, cfg, instruments)
	defer cleanup()
	if err := services.Guard.Ensure(ctx); err != nil {
		logger.Warn("storage not ready at startup, retrying on first request", slog.String("error", err.Error()))
	}

	var reviewSubmissions reviewports.WorkflowOrchestrator = reviewworkflows.NewInlineReviewWorkflows(services.Reviews)
	if temporalClient, err := ConnectTemporal(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, running review submission inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		reviewSubmissions = reviewworkflows.NewTemporalReviewWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	if cfg.OrderSweepSchedule != "" {
		sweep := NewOrderSweep(services.Orders, services.Guard, cfg.UnpaidOrderTTL, logger)
		scheduler, err := sweep.Schedule(cfg.OrderSweepSchedule)
		if err != nil {
			return err
		}
		scheduler.Start()
		defer func() { <-scheduler.Stop().Done() }()
		logger.Info("unpaid order sweep scheduled", slog.String("schedule", cfg.OrderSweepSchedule))
	}

	httpMetrics := metrics.NewHTTP()
	engine := gin.New()
	engine.Use(gin.Recovery(), otelgin.Middleware(serviceName), httpMetrics.Middleware())
	engine.GET("/metrics", gin.WrapH(httpMetrics.Handler()))

	handlers := marketplaceserver.ApiHandleFunctions{
		OrderAPI:    marketplaceserver.NewOrderAPI(services.Orders, services.Catalog),
		ReviewAPI:   marketplaceserver.NewReviewAPI(services.Reviews, reviewSubmissions),
		FavoriteAPI: marketplaceserver.NewFavoriteAPI(services.Favorites),
		CatalogAPI:  marketplaceserver.NewCatalogAPI(services.Catalog),
		UserAPI:     marketplaceserver.NewUserAPI(services.Users),
	}
	marketplaceserver.NewRouterWithGinEngine(engine, handlers, marketplaceserver.RouterOptions{
		Identity:    identityProvider(cfg, logger),
		Initializer: services.Guard,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("marketplace API listening", slog.String("addr", server.Addr))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("marketplace API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("marketplace API shutting down")
	return server.Shutdown(shutdownCtx)
}

// identityProvider trusts bearer tokens when a secret is configured and the identity headers otherwise.
func identityProvider(cfg Config, logger *slog.Logger) identity.Provider {
	if cfg.JWTSecret != "" {
		return identity.NewJWTProvider(cfg.JWTSecret)
	}
	logger.Warn("JWT_SECRET not set, trusting identity headers", slog.String("header", identity.HeaderUserID))
	return identity.HeaderProvider{}
}

// ConnectTemporal dials the Temporal frontend with tracing and structured logging.
func ConnectTemporal(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{
		Tracer: instruments.Tracer("temporal-client"),
	})
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
