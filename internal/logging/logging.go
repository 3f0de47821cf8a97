// Package logging builds the zap loggers used by the daemon and CLI.
package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects level and encoding.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // json or console
}

// New creates a logger writing to stderr.
func New(opts Options) (*zap.Logger, error) {
	return NewWithSink(opts, zapcore.Lock(os.Stderr))
}

// NewWithSink creates a logger writing to the given sink.
func NewWithSink(opts Options, sink zapcore.WriteSyncer) (*zap.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	enc, err := newEncoder(opts.Format)
	if err != nil {
		return nil, err
	}
	core := zapcore.NewCore(enc, sink, zap.NewAtomicLevelAt(level))
	return zap.New(core, zap.AddCaller()), nil
}

// ParseLevel maps a config string to a zap level. Empty means info.
func ParseLevel(raw string) (zapcore.Level, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return zapcore.InfoLevel, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", raw, err)
	}
	return lvl, nil
}

func newEncoder(format string) (zapcore.Encoder, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		return zapcore.NewJSONEncoder(encoderCfg), nil
	case "console":
		return zapcore.NewConsoleEncoder(encoderCfg), nil
	default:
		return nil, fmt.Errorf("invalid log format %q (allowed: json, console)", format)
	}
}
