package logger

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey struct{}

var defaultLogger *zap.Logger

func init() {
	// Default to production JSON logs on stderr until New replaces them.
	l, err := zap.NewProduction()
	if err != nil {
		l = zap.NewNop()
	}
	defaultLogger = l
}

// Options selects level, encoding and destination of the logger.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	File   string // empty writes to stderr
}

// New builds a zap logger from opts.
func New(opts Options) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(defaultString(opts.Level, "info")))
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	switch strings.ToLower(defaultString(opts.Format, "json")) {
	case "json":
		cfg.Encoding = "json"
	case "console":
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	if opts.File != "" {
		cfg.OutputPaths = []string{opts.File}
		cfg.ErrorOutputPaths = []string{opts.File}
	}

	return cfg.Build()
}

// SetLogger sets the global logger instance.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	defaultLogger = l
}

// Logger returns the default logger.
func Logger() *zap.Logger {
	return defaultLogger
}

// Sync flushes buffered log entries.
func Sync() error {
	return defaultLogger.Sync()
}

// ContextWithRunID stores the run id that WithContext attaches to log lines.
func ContextWithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, runID)
}

// RunID returns the run id stored in ctx, if any.
func RunID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// WithContext returns a logger with context values attached.
func WithContext(ctx context.Context) *zap.Logger {
	if id := RunID(ctx); id != "" {
		return defaultLogger.With(zap.String("run_id", id))
	}
	return defaultLogger
}

// Info logs at Info level.
func Info(msg string, fields ...zap.Field) {
	defaultLogger.Info(msg, fields...)
}

// InfoContext logs at Info level with context.
func InfoContext(ctx context.Context, msg string, fields ...zap.Field) {
	WithContext(ctx).Info(msg, fields...)
}

// Error logs at Error level.
func Error(msg string, fields ...zap.Field) {
	defaultLogger.Error(msg, fields...)
}

// ErrorContext logs at Error level with context.
func ErrorContext(ctx context.Context, msg string, fields ...zap.Field) {
	WithContext(ctx).Error(msg, fields...)
}

// Warn logs at Warn level.
func Warn(msg string, fields ...zap.Field) {
	defaultLogger.Warn(msg, fields...)
}

// WarnContext logs at Warn level with context.
func WarnContext(ctx context.Context, msg string, fields ...zap.Field) {
	WithContext(ctx).Warn(msg, fields...)
}

// Debug logs at Debug level.
func Debug(msg string, fields ...zap.Field) {
	defaultLogger.Debug(msg, fields...)
}

// DebugContext logs at Debug level with context.
func DebugContext(ctx context.Context, msg string, fields ...zap.Field) {
	WithContext(ctx).Debug(msg, fields...)
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
