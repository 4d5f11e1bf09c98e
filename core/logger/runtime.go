package logger

import (
	"context"
	"fmt"
	"log/slog"
)

// contextKey is a private type to avoid collisions in context.
type contextKey string

const (
	ctxRID      contextKey = "rid"
	ctxUpdateID contextKey = "update_id"
	ctxUserID   contextKey = "user_id"
	ctxChatID   contextKey = "chat_id"
	ctxLogger   contextKey = "logger"
)

// Background returns a fresh context for log propagation helpers.
func Background() context.Context {
	return context.Background()
}

// WithLogger stores the provided slog.Logger in context for propagation across layers.
func WithLogger(ctx context.Context, log *slog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if log == nil {
		return ctx
	}
	return context.WithValue(ctx, ctxLogger, log)
}

// FromContext extracts slog.Logger from context or returns the global default.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return L
	}
	if v := ctx.Value(ctxLogger); v != nil {
		if l, ok := v.(*slog.Logger); ok {
			return l
		}
	}
	return L
}

// WithRID attaches request correlation id into context.
func WithRID(ctx context.Context, rid string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxRID, rid)
}

// RIDFrom extracts rid from context if present.
func RIDFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v := ctx.Value(ctxRID); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// WithUpdateMeta attaches common update identifiers to context.
func WithUpdateMeta(ctx context.Context, updateID int, userID, chatID int64) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxUpdateID, updateID)
	ctx = context.WithValue(ctx, ctxUserID, userID)
	ctx = context.WithValue(ctx, ctxChatID, chatID)
	return ctx
}

// UpdateIDFrom extracts the update id from context, zero when absent.
func UpdateIDFrom(ctx context.Context) int {
	if ctx == nil {
		return 0
	}
	if v := ctx.Value(ctxUpdateID); v != nil {
		if id, ok := v.(int); ok {
			return id
		}
	}
	return 0
}

// UserIDFrom extracts the user id from context, zero when absent.
func UserIDFrom(ctx context.Context) int64 {
	if ctx == nil {
		return 0
	}
	if v := ctx.Value(ctxUserID); v != nil {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}

// ChatIDFrom extracts the chat id from context, zero when absent.
func ChatIDFrom(ctx context.Context) int64 {
	if ctx == nil {
		return 0
	}
	if v := ctx.Value(ctxChatID); v != nil {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}

// BuildRID derives a stable correlation id from update identifiers.
func BuildRID(updateID int, chatID, userID int64) string {
	return fmt.Sprintf("u%d-c%d-s%d", updateID, chatID, userID)
}

// Component returns a logger tagged with the given component name.
func Component(name string) *slog.Logger {
	if L == nil {
		return slog.Default()
	}
	return L.With("component", name)
}

func logWith(ctx context.Context, level slog.Level, component, event string, attrs []slog.Attr) {
	lg := FromContext(ctx)
	if lg == nil {
		lg = slog.Default()
	}
	if component != "" {
		lg = lg.With("component", component)
	}
	merged := make([]slog.Attr, 0, len(attrs)+2)
	merged = append(merged, attrs...)
	if rid := RIDFrom(ctx); rid != "" {
		merged = append(merged, slog.String("rid", rid))
	}
	lg.LogAttrs(ctx, level, event, merged...)
}

// Debug emits a debug event for a component with context metadata.
func Debug(ctx context.Context, component, event string, attrs ...slog.Attr) {
	logWith(ctx, slog.LevelDebug, component, event, attrs)
}

// Info emits an info event for a component with context metadata.
func Info(ctx context.Context, component, event string, attrs ...slog.Attr) {
	logWith(ctx, slog.LevelInfo, component, event, attrs)
}

// Warn emits a warning event for a component with context metadata.
func Warn(ctx context.Context, component, event string, attrs ...slog.Attr) {
	logWith(ctx, slog.LevelWarn, component, event, attrs)
}

// Error emits an error event for a component with context metadata.
func Error(ctx context.Context, component, event string, attrs ...slog.Attr) {
	logWith(ctx, slog.LevelError, component, event, attrs)
}
