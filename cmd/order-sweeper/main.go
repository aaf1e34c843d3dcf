package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Apurer/gamerlink-api/internal/app/api"
	platformobservability "github.com/Apurer/gamerlink-api/internal/platform/observability"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to load .env: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if !cfg.Postgres() {
		log.Fatal("POSTGRES_DSN not set; cannot sweep orders")
	}
	cfg.SeedDisabled = true

	instruments := &platformobservability.Instruments{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	services, cleanup := api.BuildServices(ctx, cfg, instruments)
	defer cleanup()
	if !services.Postgres {
		log.Fatal("postgres unreachable; cannot sweep orders")
	}

	sweep := api.NewOrderSweep(services.Orders, services.Guard, cfg.UnpaidOrderTTL, logger)
	if _, err := sweep.Run(ctx); err != nil {
		log.Fatalf("order sweep failed: %v", err)
	}
}
