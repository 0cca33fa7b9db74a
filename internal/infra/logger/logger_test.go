package logger

import (
	"testing"

	"github.com/furatpay/gateway/internal/infra/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Run("json logger at configured level", func(t *testing.T) {
		log, err := New(config.LogConfig{Level: "warn", Format: "json"})
		require.NoError(t, err)
		assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
		assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
	})

	t.Run("console logger", func(t *testing.T) {
		log, err := New(config.LogConfig{Level: "debug", Format: "console"})
		require.NoError(t, err)
		assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("empty level defaults to info", func(t *testing.T) {
		log, err := New(config.LogConfig{})
		require.NoError(t, err)
		assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("invalid level", func(t *testing.T) {
		_, err := New(config.LogConfig{Level: "loud"})
		assert.Error(t, err)
	})
}
