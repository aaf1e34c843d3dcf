package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/gamerlink-api/internal/app/api"
	reviewworkflows "github.com/Apurer/gamerlink-api/internal/durable/temporal/workflows/reviews"
	platformobservability "github.com/Apurer/gamerlink-api/internal/platform/observability"
	reviewactivities "github.com/Apurer/gamerlink-api/internal/platform/temporal/activities/reviews"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to load .env: %v", err)
	}
	ctx := context.Background()
	const serviceName = "gamerlink-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg, err := api.LoadConfig()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if !cfg.Postgres() {
		logger.Warn("worker running without POSTGRES_DSN; submissions will not be visible to the API process")
	}
	services, cleanup := api.BuildServices(ctx, cfg, instruments)
	defer cleanup()
	if err := services.Guard.Ensure(ctx); err != nil {
		logger.Error("storage not ready", slog.String("error", err.Error()))
		os.Exit(1)
	}
	activities := reviewactivities.NewActivities(services.Reviews)

	temporalClient, err := api.ConnectTemporal(cfg, instruments)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, reviewworkflows.ReviewSubmissionTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(reviewworkflows.ReviewSubmissionWorkflow, workflow.RegisterOptions{Name: reviewworkflows.ReviewSubmissionWorkflowName})
	w.RegisterActivityWithOptions(activities.SubmitReview, activity.RegisterOptions{Name: reviewactivities.SubmitReviewActivityName})

	logger.Info("worker listening", slog.String("taskQueue", reviewworkflows.ReviewSubmissionTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
