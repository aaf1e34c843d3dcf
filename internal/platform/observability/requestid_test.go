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

func TestRequestIDHandler_AddsAttribute(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newRequestIDHandler(slog.NewJSONHandler(&buf, nil))).With("component", "test")

	logger.InfoContext(WithRequestID(context.Background(), "req-1"), "hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "req-1", record["request_id"])
	assert.Equal(t, "test", record["component"])

	buf.Reset()
	logger.InfoContext(context.Background(), "no id")
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	_, present := record["request_id"]
	assert.False(t, present)
}
