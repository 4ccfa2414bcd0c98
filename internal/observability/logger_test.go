// internal/observability/logger_test.go
package observability

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xkilldash9x/floatdock/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Run("console output colors levels", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(config.LoggerConfig{
			Level:       "debug",
			Format:      "console",
			ServiceName: "floatdock",
			Colors:      config.ColorConfig{Info: "green"},
		}, ModeConsole, zapcore.AddSync(&buf))

		logger.Named("dock").Info("Dock mounted", zap.Float64("x", 930))
		logger.Debug("plain debug")

		out := buf.String()
		assert.Contains(t, out, ansiColors["green"]+"INFO"+ansiReset)
		assert.Contains(t, out, "floatdock.dock")
		assert.Contains(t, out, "Dock mounted")
		assert.Contains(t, out, `"x": 930`)
		assert.Contains(t, out, "DEBUG\t", "levels without a color stay plain")
	})

	t.Run("json console output", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(config.LoggerConfig{Level: "info", Format: "json", ServiceName: "floatdock"},
			ModeConsole, zapcore.AddSync(&buf))
		logger.Warn("Failed to publish signal", zap.String("type", "DOCK_POSITION"))

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "WARN", entry["level"])
		assert.Equal(t, "floatdock", entry["logger"])
		assert.Equal(t, "DOCK_POSITION", entry["type"])
	})

	t.Run("quiet mode writes only the file", func(t *testing.T) {
		var console bytes.Buffer
		logFile := filepath.Join(t.TempDir(), "floatdock.log")
		logger := New(config.LoggerConfig{Level: "debug", Format: "console", LogFile: logFile},
			ModeQuiet, zapcore.AddSync(&console))

		logger.Info("Terminal host started")
		require.NoError(t, logger.Sync())

		assert.Empty(t, console.String())
		content, err := os.ReadFile(logFile)
		require.NoError(t, err)

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(bytes.TrimSpace(content), &entry))
		assert.Equal(t, "Terminal host started", entry["msg"])
	})

	t.Run("quiet mode without a file discards", func(t *testing.T) {
		var console bytes.Buffer
		logger := New(config.LoggerConfig{Level: "debug"}, ModeQuiet, zapcore.AddSync(&console))
		logger.Error("nowhere to go")

		assert.False(t, logger.Core().Enabled(zapcore.ErrorLevel))
		assert.Empty(t, console.String())
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(config.LoggerConfig{Level: "chatty"}, ModeConsole, zapcore.AddSync(&buf))

		assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	})
}

func TestInitialize(t *testing.T) {
	t.Cleanup(ResetForTest)

	t.Run("logger is a no-op before initialization", func(t *testing.T) {
		ResetForTest()
		logger := GetLogger()
		require.NotNil(t, logger)
		assert.False(t, logger.Core().Enabled(zapcore.ErrorLevel))
	})

	t.Run("quiet initialization logs to the file", func(t *testing.T) {
		ResetForTest()
		logFile := filepath.Join(t.TempDir(), "quiet.log")
		InitializeQuiet(config.LoggerConfig{Level: "info", LogFile: logFile, ServiceName: "floatdock"})

		GetLogger().Info("terminal owns the console")
		Sync()

		content, err := os.ReadFile(logFile)
		require.NoError(t, err)
		assert.Contains(t, string(content), "terminal owns the console")
		assert.Same(t, globalLogger.Load(), GetLogger())
	})

	t.Run("only the first initialization counts", func(t *testing.T) {
		ResetForTest()
		first := filepath.Join(t.TempDir(), "first.log")
		second := filepath.Join(t.TempDir(), "second.log")

		InitializeQuiet(config.LoggerConfig{Level: "info", LogFile: first})
		logger := GetLogger()
		InitializeLogger(config.LoggerConfig{Level: "debug", LogFile: second})

		assert.Same(t, logger, GetLogger())
		GetLogger().Info("kept")
		Sync()

		_, err := os.Stat(second)
		assert.True(t, os.IsNotExist(err), "the second configuration is ignored")
	})
}
