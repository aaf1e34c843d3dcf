package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"ENVIRONMENT", "LOG_LEVEL", "OTEL_TRACES_EXPORTER", "OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_INSECURE", "OTEL_TRACES_SAMPLER_ARG"} {
		t.Setenv(key, "")
	}

	s := SettingsFromEnv("gamerlink-api")
	assert.Equal(t, "gamerlink-api", s.ServiceName)
	assert.Equal(t, "local", s.Environment)
	assert.Equal(t, slog.LevelInfo, s.LogLevel)
	assert.Equal(t, ExporterOTLP, s.Exporter)
	assert.True(t, s.OTLPInsecure)
	assert.Equal(t, 1.0, s.SampleRatio)
}

func TestSettingsFromEnv_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "staging")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("OTEL_TRACES_EXPORTER", "NONE")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4318")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "0")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.25")

	s := SettingsFromEnv("gamerlink-worker")
	assert.Equal(t, "staging", s.Environment)
	assert.Equal(t, slog.LevelDebug, s.LogLevel)
	assert.Equal(t, ExporterNone, s.Exporter)
	assert.Equal(t, "collector:4318", s.OTLPEndpoint)
	assert.False(t, s.OTLPInsecure)
	assert.Equal(t, 0.25, s.SampleRatio)

	t.Setenv("LOG_LEVEL", "loud")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "2")
	s = SettingsFromEnv("gamerlink-worker")
	assert.Equal(t, slog.LevelInfo, s.LogLevel)
	assert.Equal(t, 1.0, s.SampleRatio)
}

func TestNewLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelWarn)

	logger.Info("dropped")
	assert.Zero(t, buf.Len())

	logger.WarnContext(WithRequestID(context.Background(), "req-9"), "kept")
	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "kept", record["msg"])
	assert.Equal(t, "req-9", record["request_id"])
}

func TestInitWith_ExportDisabled(t *testing.T) {
	var buf bytes.Buffer
	instruments, shutdown, err := InitWith(context.Background(), Settings{
		ServiceName: "gamerlink-test",
		Environment: "test",
		LogLevel:    slog.LevelInfo,
		Exporter:    ExporterNone,
		SampleRatio: 1,
	}, &buf)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, shutdown(context.Background())) })

	_, span := instruments.Tracer("test").Start(context.Background(), "op")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	counter, err := instruments.Meter("test").Int64Counter("events")
	require.NoError(t, err)
	counter.Add(context.Background(), 1)

	instruments.Logger.Info("ready")
	assert.Contains(t, buf.String(), `"msg":"ready"`)
}

func TestInstruments_NilFallbacks(t *testing.T) {
	var instruments *Instruments
	assert.NotNil(t, instruments.Tracer("x"))
	counter, err := instruments.Meter("x").Int64Counter("noop")
	require.NoError(t, err)
	counter.Add(context.Background(), 1)
}
