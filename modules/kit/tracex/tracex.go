package tracex

import (
	"context"
	"crypto/rand"
	"encoding/hex"
)

type traceIDKey struct{}
type spanIDKey struct{}

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

func TraceIDFrom(ctx context.Context) (string, bool) {
	v := ctx.Value(traceIDKey{})
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}

func WithSpanID(ctx context.Context, spanID string) context.Context {
	return context.WithValue(ctx, spanIDKey{}, spanID)
}

func SpanIDFrom(ctx context.Context) (string, bool) {
	v := ctx.Value(spanIDKey{})
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}

// NewTraceID 生成 16 字节随机 trace_id（hex）。
func NewTraceID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return ""
	}
	return hex.EncodeToString(b[:])
}

// NewSpanID 生成 8 字节随机 span_id（hex）。
func NewSpanID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return ""
	}
	return hex.EncodeToString(b[:])
}

// Ensure 保证 ctx 上有 trace_id：已有则沿用，没有（或传入 incoming 为空）时新生成。
// incoming 通常来自上游的 X-Trace-Id 头或 gRPC metadata。
func Ensure(ctx context.Context, incoming string) (context.Context, string) {
	if incoming != "" {
		return WithTraceID(ctx, incoming), incoming
	}
	if tid, ok := TraceIDFrom(ctx); ok {
		return ctx, tid
	}
	tid := NewTraceID()
	return WithTraceID(ctx, tid), tid
}
