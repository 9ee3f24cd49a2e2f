package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContext(t *testing.T) {
	t.Run("should return a nop logger when none is attached", func(t *testing.T) {
		assert.NotNil(t, FromContext(context.Background()))
		assert.NotNil(t, L(context.Background()))
	})

	t.Run("should return the attached logger", func(t *testing.T) {
		l := zap.NewExample()
		ctx := WithContext(context.Background(), l)
		assert.Same(t, l, FromContext(ctx))
	})
}

func TestWithScope(t *testing.T) {
	t.Run("should merge non-empty fields", func(t *testing.T) {
		ctx := WithScope(context.Background(), Scope{RequestID: "req-1"})
		ctx = WithScope(ctx, Scope{TenantID: "t-1", UserID: "u-1"})
		ctx = WithScope(ctx, Scope{UserID: ""})

		assert.Equal(t, Scope{RequestID: "req-1", TenantID: "t-1", UserID: "u-1"}, ScopeFrom(ctx))
	})

	t.Run("should survive attaching a logger afterwards", func(t *testing.T) {
		ctx := WithScope(context.Background(), Scope{TenantID: "t-1"})
		ctx = WithContext(ctx, zap.NewNop())
		assert.Equal(t, "t-1", ScopeFrom(ctx).TenantID)
	})
}

func TestL(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	ctx := WithContext(context.Background(), zap.New(core))
	ctx = WithScope(ctx, Scope{RequestID: "req-9", TenantID: "tenant-9"})

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx = trace.ContextWithSpanContext(ctx, trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	L(ctx).Info("with scope")

	require.Equal(t, 1, recorded.Len())
	fields := recorded.All()[0].ContextMap()
	assert.Equal(t, "req-9", fields["request_id"])
	assert.Equal(t, "tenant-9", fields["tenant_id"])
	assert.NotContains(t, fields, "user_id")
	assert.Equal(t, traceID.String(), fields["trace_id"])
	assert.Equal(t, spanID.String(), fields["span_id"])
}
