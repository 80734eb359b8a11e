package config

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerTo(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	t.Run("JSON output carries the app name", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLoggerTo(&buf, LoggerConfig{Level: "info", Format: "json"})

		logger.Info().Str("request_id", "REQ-001").Msg("request submitted")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "newsteps", entry["app"])
		assert.Equal(t, "REQ-001", entry["request_id"])
		assert.Equal(t, "info", entry["level"])
		assert.NotContains(t, entry, "caller")
	})

	t.Run("Level filters lower events", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLoggerTo(&buf, LoggerConfig{Level: "warn", Format: "json"})

		logger.Info().Msg("hidden")
		assert.Zero(t, buf.Len())

		logger.Warn().Msg("shown")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("Debug adds the caller", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLoggerTo(&buf, LoggerConfig{Level: "debug", Format: "json"})

		logger.Debug().Msg("trace me")
		assert.Contains(t, buf.String(), `"caller"`)
	})

	t.Run("Unknown level falls back to info", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLoggerTo(&buf, LoggerConfig{Level: "loud", Format: "json"})

		logger.Debug().Msg("hidden")
		logger.Info().Msg("shown")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("Console format is human readable", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLoggerTo(&buf, LoggerConfig{Level: "info", Format: "console"})

		logger.Info().Msg("hello")
		assert.Contains(t, buf.String(), "hello")
		assert.False(t, json.Valid(buf.Bytes()))
	})
}
