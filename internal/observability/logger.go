// File: internal/observability/logger.go
package observability

import (
	"os"
	"sync"
	"sync/atomic"

	"github.com/xkilldash9x/floatdock/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Mode selects where the process logger writes.
type Mode int

const (
	// ModeConsole writes readable entries to stderr, and JSON to the log
	// file when one is configured. Stdout is left to command output such as
	// simulate reports.
	ModeConsole Mode = iota
	// ModeQuiet writes to the log file only. The terminal host draws on the
	// console, so any byte written there would corrupt the screen.
	ModeQuiet
)

var (
	globalLogger atomic.Pointer[zap.Logger]
	once         sync.Once
)

const ansiReset = "\x1b[0m"

var ansiColors = map[string]string{
	"black":   "\x1b[30m",
	"red":     "\x1b[31m",
	"green":   "\x1b[32m",
	"yellow":  "\x1b[33m",
	"blue":    "\x1b[34m",
	"magenta": "\x1b[35m",
	"cyan":    "\x1b[36m",
	"white":   "\x1b[37m",
}

// New builds a logger without touching the global one. console is only
// written in ModeConsole. With no sink left the logger discards everything.
func New(cfg config.LoggerConfig, mode Mode, console zapcore.WriteSyncer) *zap.Logger {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level.SetLevel(zap.InfoLevel)
	}

	var cores []zapcore.Core
	if mode == ModeConsole && console != nil {
		cores = append(cores, zapcore.NewCore(consoleEncoder(cfg), console, level))
	}
	if cfg.LogFile != "" {
		file := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(jsonEncoderConfig()), file, level))
	}
	if len(cores) == 0 {
		return zap.NewNop()
	}

	options := []zap.Option{zap.AddStacktrace(zap.ErrorLevel)}
	if cfg.AddSource {
		options = append(options, zap.AddCaller())
	}
	return zap.New(zapcore.NewTee(cores...), options...).Named(cfg.ServiceName)
}

// Initialize sets up the process logger once. Later calls are ignored.
func Initialize(cfg config.LoggerConfig, mode Mode) {
	once.Do(func() {
		logger := New(cfg, mode, zapcore.Lock(os.Stderr))
		globalLogger.Store(logger)

		zap.ReplaceGlobals(logger)
		// Stray stdlib log output must not reach a screen the host owns.
		zap.RedirectStdLog(logger)
	})
}

// InitializeLogger sets up console logging for commands that print.
func InitializeLogger(cfg config.LoggerConfig) {
	Initialize(cfg, ModeConsole)
}

// InitializeQuiet sets up file-only logging for commands that own the terminal.
func InitializeQuiet(cfg config.LoggerConfig) {
	Initialize(cfg, ModeQuiet)
}

// ResetForTest clears the process logger. Tests only.
func ResetForTest() {
	globalLogger.Store(nil)
	once = sync.Once{}
}

// GetLogger returns the process logger. Before initialization it discards
// everything rather than guess which sink is safe.
func GetLogger() *zap.Logger {
	if logger := globalLogger.Load(); logger != nil {
		return logger
	}
	return zap.NewNop()
}

// Sync flushes the process logger. Syncing a terminal's stderr fails on most
// platforms and the file sink writes through, so the error is dropped.
func Sync() {
	if logger := globalLogger.Load(); logger != nil {
		_ = logger.Sync()
	}
}

func jsonEncoderConfig() zapcore.EncoderConfig {
	ec := zap.NewProductionEncoderConfig()
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	return ec
}

func consoleEncoder(cfg config.LoggerConfig) zapcore.Encoder {
	if cfg.Format == "json" {
		return zapcore.NewJSONEncoder(jsonEncoderConfig())
	}
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	ec.EncodeLevel = levelEncoder(cfg.Colors)
	return zapcore.NewConsoleEncoder(ec)
}

// levelEncoder colors level names by the configured color names. Unknown or
// empty names leave the level plain.
func levelEncoder(colors config.ColorConfig) zapcore.LevelEncoder {
	byLevel := map[zapcore.Level]string{
		zapcore.DebugLevel:  colors.Debug,
		zapcore.InfoLevel:   colors.Info,
		zapcore.WarnLevel:   colors.Warn,
		zapcore.ErrorLevel:  colors.Error,
		zapcore.DPanicLevel: colors.DPanic,
		zapcore.PanicLevel:  colors.Panic,
		zapcore.FatalLevel:  colors.Fatal,
	}
	return func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		name := l.CapitalString()
		if code, ok := ansiColors[byLevel[l]]; ok {
			name = code + name + ansiReset
		}
		enc.AppendString(name)
	}
}
