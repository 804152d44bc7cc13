package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextHandler_AppendsContextAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewContextHandler(slog.NewJSONHandler(&buf, nil)))

	ctx := WithAttrs(context.Background(), slog.String("user_id", "u-1"))
	ctx = WithAttrs(ctx, slog.String("role", "admin"))
	log.InfoContext(ctx, "cart updated")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "u-1", record["user_id"])
	assert.Equal(t, "admin", record["role"])
	assert.NotContains(t, record, "trace_id")
	assert.NotContains(t, record, "request_id")
}

func TestContextHandler_WithAttrsKeepsWrapper(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewContextHandler(slog.NewJSONHandler(&buf, nil))).With("component", "cart")

	_, ok := log.Handler().(*ContextHandler)
	assert.True(t, ok)

	log.InfoContext(WithAttrs(context.Background(), slog.Int("items", 3)), "x")
	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "cart", record["component"])
	assert.EqualValues(t, 3, record["items"])
}
