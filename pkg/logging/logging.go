package logging

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Supported output formats
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

var (
	global   *zap.Logger
	globalMu sync.RWMutex
)

// New builds a zap logger. format is "json" (production encoder) or
// "console" (development encoder with colored levels).
func New(level, format string) (*zap.Logger, error) {
	var cfg zap.Config
	switch format {
	case "", FormatJSON:
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	case FormatConsole:
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	return cfg.Build()
}

// ParseLevel parses a level name. An empty name means info.
func ParseLevel(level string) (zapcore.Level, error) {
	if level == "" {
		return zapcore.InfoLevel, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return lvl, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}

// SetGlobal replaces the process-wide logger
func SetGlobal(logger *zap.Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	global = logger
}

// L returns the process-wide logger, falling back to a production logger
func L() *zap.Logger {
	globalMu.RLock()
	logger := global
	globalMu.RUnlock()
	if logger != nil {
		return logger
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if global == nil {
		var err error
		global, err = zap.NewProduction()
		if err != nil {
			global = zap.NewNop()
		}
	}
	return global
}

type contextKey struct{}

// WithContext attaches a request-scoped logger to ctx
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the request-scoped logger, or L() when there is none
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(contextKey{}).(*zap.Logger); ok && logger != nil {
		return logger
	}
	return L()
}
