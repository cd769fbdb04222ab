// Package logger builds the zap loggers used by the server and the CLI
// and carries request-scoped loggers through contexts.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kailas-cloud/opsmap/internal/version"
)

type options struct {
	level string
	name  string
}

// Option tunes NewLogger.
type Option func(*options)

// WithLevel overrides the environment's default level (debug, info, warn, error).
func WithLevel(level string) Option {
	return func(o *options) { o.level = level }
}

// WithName sets the logger name. Defaults to "opsmap".
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// NewLogger creates a logger for env: JSON for prod, colored console for
// local/dev/docker, and a no-op logger for test. Every entry carries the
// build version.
func NewLogger(env string, opts ...Option) (*zap.Logger, error) {
	o := options{name: "opsmap"}
	for _, opt := range opts {
		opt(&o)
	}

	var cfg zap.Config
	switch env {
	case "prod":
		cfg = zap.NewProductionConfig()
	case "local", "dev", "docker":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	case "test":
		return zap.NewNop(), nil
	default:
		return nil, fmt.Errorf("unknown environment %q for logger", env)
	}

	if o.level != "" {
		lvl, err := zapcore.ParseLevel(o.level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", o.level, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	l, err := cfg.Build(
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(zap.String("version", version.Version)),
	)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l.Named(o.name), nil
}
