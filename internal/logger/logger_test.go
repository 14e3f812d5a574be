package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"codeberg.org/mutker/biofeedback/internal/config"
	"codeberg.org/mutker/biofeedback/internal/errors"
	"codeberg.org/mutker/biofeedback/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRejectsUnknownLevel(t *testing.T) {
	for _, level := range []string{"verbose", "warn", "trace"} {
		err := logger.Init(level, false)
		require.Error(t, err, level)
		assert.True(t, errors.HasCode(err, errors.ErrInvalidLogLevel))
		assert.False(t, config.LogLevel(level).IsValid(), level)
	}
}

func TestInitAcceptsConfigLevels(t *testing.T) {
	t.Cleanup(func() { logger.SetLogLevel(logger.InfoLevel) })

	for _, level := range []config.LogLevel{
		config.LogLevelDebug, config.LogLevelInfo, config.LogLevelWarning, config.LogLevelError,
	} {
		require.True(t, level.IsValid())
		assert.NoError(t, logger.Init(level.String(), true), level)
	}
}

func TestErrorWithCodeFields(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf)

	appErr := errors.New().New(errors.ErrSignalTooShort)
	log.ErrorWithCode(appErr).Int("samples", 12).Msg("respiratory rate unavailable")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "signal_too_short", entry["error_code"])
	assert.Equal(t, "Signal too short for respiratory rate calculation", entry["error_message"])
	assert.EqualValues(t, 12, entry["samples"])
}

func TestNopDiscards(t *testing.T) {
	log := logger.Nop()
	assert.NotPanics(t, func() {
		log.Info().Str("k", "v").Msg("ignored")
		log.Debug().Send()
	})
}
