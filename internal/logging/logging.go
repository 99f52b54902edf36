// Package logging is a small structured logging facade over zap.
//
// Every call takes the request context so the request id set by the
// server middleware ends up on the log line.
package logging

import (
	"context"
	"os"
	"sort"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Data holds the structured fields attached to a log line.
type Data map[string]interface{}

type ctxKey struct{}

var (
	mu     sync.RWMutex
	logger = newLogger(zapcore.InfoLevel, zapcore.AddSync(os.Stdout))
)

func newLogger(level zapcore.Level, out zapcore.WriteSyncer) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), out, level)
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.FatalLevel))
}

// Init replaces the package logger. level is one of debug, info, warn, error;
// env, service and version are attached to every line.
func Init(level, env, service, version string) error {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return err
	}
	l := newLogger(lvl, zapcore.AddSync(os.Stdout)).With(
		zap.String("env", env),
		zap.String("service", service),
		zap.String("version", version),
	)
	mu.Lock()
	logger = l
	mu.Unlock()
	return nil
}

// Sync flushes buffered log entries.
func Sync() {
	_ = current().Sync()
}

func current() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// WithRequestID returns a context carrying id; log calls made with it include the id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// RequestID returns the request id stored in ctx, or "".
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func fields(ctx context.Context, data Data) []zap.Field {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fs := make([]zap.Field, 0, len(keys)+1)
	if id := RequestID(ctx); id != "" {
		fs = append(fs, zap.String("request_id", id))
	}
	for _, k := range keys {
		fs = append(fs, zap.Any(k, data[k]))
	}
	return fs
}

func Debug(ctx context.Context, data Data, msg string) {
	current().Debug(msg, fields(ctx, data)...)
}

func Info(ctx context.Context, data Data, msg string) {
	current().Info(msg, fields(ctx, data)...)
}

func Warn(ctx context.Context, data Data, msg string) {
	current().Warn(msg, fields(ctx, data)...)
}

func Error(ctx context.Context, err error, data Data, msg string) {
	current().Error(msg, append(fields(ctx, data), zap.Error(err))...)
}

// FatalNoCtx logs and exits the process. Used during start-up, before any request exists.
func FatalNoCtx(err error, data Data, msg string) {
	current().Fatal(msg, append(fields(context.Background(), data), zap.Error(err))...)
}
