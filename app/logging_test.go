package app

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer

	logger := newLogger(&buf, false)
	assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))

	logger.Info("session saved", "duration", 1500)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "session saved", entry["msg"])
	assert.InDelta(t, 1500, entry["duration"], 0)

	assert.True(t, newLogger(&buf, true).Enabled(context.Background(), slog.LevelDebug))
}
