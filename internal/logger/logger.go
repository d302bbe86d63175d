// Package logger builds the process-wide zap logger: a human-readable console
// core on stderr and, when a file is configured, a JSON core written through a
// size-rotated lumberjack file.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/corey/acscan/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type options struct {
	console io.Writer
	level   *zapcore.Level
}

// Option adjusts how New builds the logger.
type Option func(*options)

// WithConsoleWriter sends console output to w instead of stderr.
func WithConsoleWriter(w io.Writer) Option {
	return func(o *options) {
		o.console = w
	}
}

// WithLevel overrides the configured level, e.g. for --verbose. It also turns
// the console core on when the config disabled it.
func WithLevel(l zapcore.Level) Option {
	return func(o *options) {
		o.level = &l
	}
}

// New builds a logger from cfg. With neither console nor file output
// enabled, and no WithLevel override, it returns a no-op logger.
func New(cfg config.LogConfig, opts ...Option) (*zap.Logger, error) {
	o := options{console: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	if o.level != nil {
		level = *o.level
	}
	enabler := zap.NewAtomicLevelAt(level)

	var cores []zapcore.Core
	if cfg.Console || o.level != nil {
		ec := zap.NewDevelopmentEncoderConfig()
		ec.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(ec),
			zapcore.Lock(zapcore.AddSync(o.console)),
			enabler,
		))
	}
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.FileSize,
			MaxBackups: cfg.FileCount,
			MaxAge:     cfg.KeepDays,
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(rotator),
			enabler,
		))
	}
	if len(cores) == 0 {
		return zap.NewNop(), nil
	}
	return zap.New(zapcore.NewTee(cores...)), nil
}
