package zlog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel(" WARN "))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel(""))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestSetLoggerCapturesFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	prev := L()
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(prev) })

	Info("tool called", zap.String("tool", "get_clerk_user_data"))
	Debug("dropped below level")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "tool called", entry.Message)
	assert.Equal(t, "get_clerk_user_data", entry.ContextMap()["tool"])
}

func TestSetupWithFile(t *testing.T) {
	prev := L()
	t.Cleanup(func() { SetLogger(prev) })

	path := filepath.Join(t.TempDir(), "app.log")
	Setup(Options{LogPath: path, Level: "debug"})
	assert.NotSame(t, prev, L())
	assert.True(t, L().Core().Enabled(zapcore.DebugLevel))
}

func TestSetLoggerIgnoresNil(t *testing.T) {
	prev := L()
	SetLogger(nil)
	assert.Same(t, prev, L())
}
