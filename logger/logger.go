// Package logger provides the process-wide structured logger
package logger

import (
	"fmt"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var current atomic.Pointer[zap.SugaredLogger]

func init() {
	current.Store(zap.NewNop().Sugar())
}

// Init builds the logger for the given level name (debug, info, warn, error).
// Unknown levels fall back to info.
func Init(level string) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		fmt.Printf("logger: falling back to development config: %v\n", err)
		l = zap.NewExample()
	}
	current.Store(l.Sugar())
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func Debug(msg string, keysAndValues ...any) {
	current.Load().Debugw(msg, keysAndValues...)
}

func Info(msg string, keysAndValues ...any) {
	current.Load().Infow(msg, keysAndValues...)
}

func Warn(msg string, keysAndValues ...any) {
	current.Load().Warnw(msg, keysAndValues...)
}

func Error(msg string, keysAndValues ...any) {
	current.Load().Errorw(msg, keysAndValues...)
}

// Sync flushes buffered log entries
func Sync() {
	_ = current.Load().Sync()
}

// PrintfLogger lets the logger stand in for libraries that expect a printf-style sink
type PrintfLogger struct{}

func (PrintfLogger) Printf(format string, v ...any) {
	current.Load().Infof(strings.TrimSuffix(format, "\n"), v...)
}

func (PrintfLogger) Fatalf(format string, v ...any) {
	current.Load().Errorf(strings.TrimSuffix(format, "\n"), v...)
}
