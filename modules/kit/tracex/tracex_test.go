package tracex

import (
	"context"
	"testing"
)

func TestTraceID_RoundTrip(t *testing.T) {
	ctx := context.Background()
	ctx = WithTraceID(ctx, "t-1")
	if got, ok := TraceIDFrom(ctx); !ok || got != "t-1" {
		t.Fatalf("期望 TraceIDFrom round-trip 成功，got=%q ok=%v", got, ok)
	}
}

func TestEnsure(t *testing.T) {
	ctx, tid := Ensure(context.Background(), "")
	if len(tid) != 32 {
		t.Fatalf("期望生成 32 位 hex trace_id, got=%q", tid)
	}
	if _, again := Ensure(ctx, ""); again != tid {
		t.Fatalf("已有 trace_id 应沿用, got=%q want=%q", again, tid)
	}
	if _, up := Ensure(ctx, "upstream"); up != "upstream" {
		t.Fatalf("上游 trace_id 优先, got=%q", up)
	}
	if s := NewSpanID(); len(s) != 16 {
		t.Fatalf("span_id=%q", s)
	}
}
