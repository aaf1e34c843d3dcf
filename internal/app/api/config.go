package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.temporal.io/sdk/client"
)

// DefaultUnpaidOrderTTL is how long an order may wait for payment before the sweep cancels it.
const DefaultUnpaidOrderTTL = 30 * time.Minute

// DefaultPostgresMaxConns bounds the connection pool when POSTGRES_MAX_CONNS is unset.
const DefaultPostgresMaxConns = 10

// Config carries environment-driven settings for the API, worker, and sweeper processes.
type Config struct {
	Port        string
	PostgresDSN string
	// PostgresMaxConns caps open connections; idle connections are held at half of it.
	PostgresMaxConns  int
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool
	// JWTSecret enables bearer token identity. Without it only the trusted headers are read.
	JWTSecret string
	// OrderSweepSchedule is a cron spec for the in-process unpaid order sweep. Empty disables it.
	OrderSweepSchedule string
	UnpaidOrderTTL     time.Duration
	SeedDisabled       bool
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:               envDefault("PORT", "8080"),
		PostgresDSN:        strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		TemporalAddress:    envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace:  envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:   isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		JWTSecret:          strings.TrimSpace(os.Getenv("JWT_SECRET")),
		OrderSweepSchedule: strings.TrimSpace(os.Getenv("ORDER_SWEEP_SCHEDULE")),
		PostgresMaxConns:   DefaultPostgresMaxConns,
		UnpaidOrderTTL:     DefaultUnpaidOrderTTL,
		SeedDisabled:       isTruthy(os.Getenv("SEED_DISABLED")),
	}
	if raw := strings.TrimSpace(os.Getenv("UNPAID_ORDER_TTL_MINUTES")); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			return Config{}, fmt.Errorf("UNPAID_ORDER_TTL_MINUTES must be a positive integer")
		}
		cfg.UnpaidOrderTTL = time.Duration(minutes) * time.Minute
	}
	if raw := strings.TrimSpace(os.Getenv("POSTGRES_MAX_CONNS")); raw != "" {
		conns, err := strconv.Atoi(raw)
		if err != nil || conns <= 0 {
			return Config{}, fmt.Errorf("POSTGRES_MAX_CONNS must be a positive integer")
		}
		cfg.PostgresMaxConns = conns
	}
	if cfg.OrderSweepSchedule != "" {
		if _, err := cron.ParseStandard(cfg.OrderSweepSchedule); err != nil {
			return Config{}, fmt.Errorf("ORDER_SWEEP_SCHEDULE is not a valid cron spec: %w", err)
		}
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}

// Postgres reports whether a database is configured.
func (c Config) Postgres() bool {
	return c.PostgresDSN != ""
}
