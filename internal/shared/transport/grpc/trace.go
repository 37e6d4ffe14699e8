package grpc

import (
	"context"

	"WordDice/modules/kit/tracex"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

const (
	traceIDHeader = "x-trace-id"
	spanIDHeader  = "x-span-id"
)

// UnaryClientTraceInterceptor 把 trace/span 写进 outgoing metadata；ctx 上没有 trace_id 时先生成一个，
// 这样 sim --remote 的一次调用在客户端和服务端日志里能对上。
func UnaryClientTraceInterceptor() gogrpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply any,
		cc *gogrpc.ClientConn,
		invoker gogrpc.UnaryInvoker,
		opts ...gogrpc.CallOption,
	) error {
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, _ = tracex.Ensure(ctx, "")
		return invoker(injectTraceToOutgoing(ctx), method, req, reply, cc, opts...)
	}
}

// UnaryServerTraceInterceptor 从 incoming metadata 还原 trace/span。
// 后面的访问日志拦截器会在缺失时补一个新的。
func UnaryServerTraceInterceptor() gogrpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *gogrpc.UnaryServerInfo,
		handler gogrpc.UnaryHandler,
	) (any, error) {
		return handler(extractTraceFromIncoming(ctx), req)
	}
}

func injectTraceToOutgoing(ctx context.Context) context.Context {
	var kv []string
	if traceID, ok := tracex.TraceIDFrom(ctx); ok {
		kv = append(kv, traceIDHeader, traceID)
	}
	if spanID, ok := tracex.SpanIDFrom(ctx); ok {
		kv = append(kv, spanIDHeader, spanID)
	}
	if len(kv) == 0 {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, kv...)
}

func extractTraceFromIncoming(ctx context.Context) context.Context {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ctx
	}
	if v := first(md, traceIDHeader); v != "" {
		ctx = tracex.WithTraceID(ctx, v)
	}
	if v := first(md, spanIDHeader); v != "" {
		ctx = tracex.WithSpanID(ctx, v)
	}
	return ctx
}

func first(md metadata.MD, key string) string {
	if vs := md.Get(key); len(vs) > 0 {
		return vs[0]
	}
	return ""
}
