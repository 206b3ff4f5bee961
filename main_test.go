package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/rocketscienceinc/tictactoe-solo/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogger(t *testing.T) {
	t.Run("JSON handler by default", func(t *testing.T) {
		var out bytes.Buffer
		logger := initLogger(&config.Config{LogLevel: "info"}, &out)

		logger.Info("game started", "size", 3)

		var record map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &record))
		assert.Equal(t, "game started", record["msg"])
		assert.InDelta(t, 3, record["size"], 0)
	})

	t.Run("Text handler", func(t *testing.T) {
		var out bytes.Buffer
		logger := initLogger(&config.Config{LogLevel: "info", LogFormat: "text"}, &out)

		logger.Info("game started")

		assert.Contains(t, out.String(), `msg="game started"`)
	})

	t.Run("Level is honoured", func(t *testing.T) {
		logger := initLogger(&config.Config{LogLevel: "warn"}, &bytes.Buffer{})

		assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
		assert.True(t, logger.Enabled(context.Background(), slog.LevelWarn))
	})

	t.Run("Debug level", func(t *testing.T) {
		logger := initLogger(&config.Config{LogLevel: "DEBUG"}, &bytes.Buffer{})

		assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
	})
}
