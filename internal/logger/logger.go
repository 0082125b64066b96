package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

type ctxKey string

const ctxKeyRequestID ctxKey = "ridebooking_request_id"

// New returns a JSON logger tagged with service and installs it as the slog default.
func New(service, level string) *slog.Logger {
	return newWithWriter(os.Stdout, service, level)
}

func newWithWriter(w io.Writer, service, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: parseLevel(level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			switch a.Key {
			case slog.TimeKey:
				a.Key = "timestamp"
			case slog.MessageKey:
				a.Key = "message"
			}
			return a
		},
	}).WithAttrs([]slog.Attr{
		slog.String("service", service),
		slog.String("hostname", hostname()),
	})
	l := slog.New(handler)
	slog.SetDefault(l)
	return l
}

func parseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRequestID returns a context carrying the request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	if strings.TrimSpace(id) == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxKeyRequestID, id)
}

// RequestID extracts the request id from ctx, if any.
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxKeyRequestID).(string); ok {
		return v
	}
	return ""
}

// Info logs msg under action with the request id of ctx.
func Info(ctx context.Context, l *slog.Logger, action, msg string, args ...any) {
	l.InfoContext(ctx, msg, append([]any{"action", action, "request_id", RequestID(ctx)}, args...)...)
}

// Warn logs msg under action with the request id of ctx.
func Warn(ctx context.Context, l *slog.Logger, action, msg string, args ...any) {
	l.WarnContext(ctx, msg, append([]any{"action", action, "request_id", RequestID(ctx)}, args...)...)
}

// Error logs msg and err under action with the request id of ctx.
func Error(ctx context.Context, l *slog.Logger, action, msg string, err error, args ...any) {
	attrs := []any{"action", action, "request_id", RequestID(ctx)}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	l.ErrorContext(ctx, msg, append(attrs, args...)...)
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil || name == "" {
		return "unknown-hostname"
	}
	return name
}
