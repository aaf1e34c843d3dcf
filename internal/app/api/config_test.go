package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "POSTGRES_DSN", "TEMPORAL_ADDRESS", "TEMPORAL_NAMESPACE", "TEMPORAL_DISABLED",
		"JWT_SECRET", "ORDER_SWEEP_SCHEDULE", "UNPAID_ORDER_TTL_MINUTES", "SEED_DISABLED", "POSTGRES_MAX_CONNS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Empty(t, cfg.PostgresDSN)
	require.Equal(t, DefaultUnpaidOrderTTL, cfg.UnpaidOrderTTL)
	require.False(t, cfg.TemporalDisabled)
	require.False(t, cfg.SeedDisabled)
	require.Empty(t, cfg.OrderSweepSchedule)
	require.Equal(t, DefaultPostgresMaxConns, cfg.PostgresMaxConns)
	require.Equal(t, 10, cfg.pool().MaxOpen)
}

func TestLoadConfigOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("TEMPORAL_DISABLED", "yes")
	t.Setenv("SEED_DISABLED", "1")
	t.Setenv("JWT_SECRET", " s3cret ")
	t.Setenv("ORDER_SWEEP_SCHEDULE", "*/5 * * * *")
	t.Setenv("UNPAID_ORDER_TTL_MINUTES", "45")
	t.Setenv("POSTGRES_MAX_CONNS", "3")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Port)
	require.True(t, cfg.TemporalDisabled)
	require.True(t, cfg.SeedDisabled)
	require.Equal(t, "s3cret", cfg.JWTSecret)
	require.Equal(t, "*/5 * * * *", cfg.OrderSweepSchedule)
	require.Equal(t, 45*time.Minute, cfg.UnpaidOrderTTL)
	require.Equal(t, 3, cfg.PostgresMaxConns)
	require.Equal(t, 3, cfg.pool().MaxOpen)
	require.Equal(t, 1, cfg.pool().MaxIdle)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("UNPAID_ORDER_TTL_MINUTES", "-1")
	_, err := LoadConfig()
	require.Error(t, err)

	clearEnv(t)
	t.Setenv("ORDER_SWEEP_SCHEDULE", "every now and then")
	_, err = LoadConfig()
	require.Error(t, err)
}
