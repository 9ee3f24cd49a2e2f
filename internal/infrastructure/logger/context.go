package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey struct{}

// Scope identifies who a log line is about. Empty fields are omitted.
type Scope struct {
	RequestID string
	TenantID  string
	UserID    string
}

type scoped struct {
	logger *zap.Logger
	scope  Scope
}

// WithContext attaches a logger to ctx, keeping any scope already present.
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	s := fromCtx(ctx)
	s.logger = l
	return context.WithValue(ctx, contextKey{}, s)
}

// WithScope merges the non-empty fields of sc into the scope carried by ctx.
func WithScope(ctx context.Context, sc Scope) context.Context {
	s := fromCtx(ctx)
	if sc.RequestID != "" {
		s.scope.RequestID = sc.RequestID
	}
	if sc.TenantID != "" {
		s.scope.TenantID = sc.TenantID
	}
	if sc.UserID != "" {
		s.scope.UserID = sc.UserID
	}
	return context.WithValue(ctx, contextKey{}, s)
}

// ScopeFrom returns the scope stored in ctx.
func ScopeFrom(ctx context.Context) Scope {
	return fromCtx(ctx).scope
}

// FromContext returns the bare logger stored in ctx, or a no-op logger.
func FromContext(ctx context.Context) *zap.Logger {
	if l := fromCtx(ctx).logger; l != nil {
		return l
	}
	return zap.NewNop()
}

// L returns the context logger enriched with scope and trace correlation fields.
//
//	logger.L(ctx).Warn("layout decode failed", zap.Error(err))
func L(ctx context.Context) *zap.Logger {
	s := fromCtx(ctx)
	l := s.logger
	if l == nil {
		return zap.NewNop()
	}
	if fields := s.scope.fields(); len(fields) > 0 {
		l = l.With(fields...)
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		l = l.With(
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}
	return l
}

func (sc Scope) fields() []zap.Field {
	var fields []zap.Field
	if sc.RequestID != "" {
		fields = append(fields, zap.String("request_id", sc.RequestID))
	}
	if sc.TenantID != "" {
		fields = append(fields, zap.String("tenant_id", sc.TenantID))
	}
	if sc.UserID != "" {
		fields = append(fields, zap.String("user_id", sc.UserID))
	}
	return fields
}

func fromCtx(ctx context.Context) scoped {
	if ctx == nil {
		return scoped{}
	}
	if s, ok := ctx.Value(contextKey{}).(scoped); ok {
		return s
	}
	return scoped{}
}
