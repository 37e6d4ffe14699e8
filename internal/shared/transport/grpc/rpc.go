package grpc

import (
	"context"
	"errors"
	"fmt"

	"WordDice/internal/shared/transport"
	"WordDice/modules/kit/logx"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

// NewServer 创建带 trace 提取与访问日志的 grpc.Server。trace 拦截器必须在前。
func NewServer(log logx.Logger, extra ...gogrpc.ServerOption) *gogrpc.Server {
	opts := []gogrpc.ServerOption{
		gogrpc.ChainUnaryInterceptor(UnaryServerTraceInterceptor(), UnaryServerAccessLogInterceptor(log)),
	}
	return gogrpc.NewServer(append(opts, extra...)...)
}

// Dial 建立到 simulator 服务的连接。
func Dial(target string, extra ...gogrpc.DialOption) (*gogrpc.ClientConn, error) {
	opts := []gogrpc.DialOption{
		gogrpc.WithTransportCredentials(insecure.NewCredentials()),
		gogrpc.WithChainUnaryInterceptor(UnaryClientTraceInterceptor()),
	}
	// grpc.NewClient 不会立即拨号，连接在首次 RPC 时建立
	conn, err := gogrpc.NewClient(target, append(opts, extra...)...)
	if err != nil {
		return nil, fmt.Errorf("dial simulator service failed: %w", err)
	}
	return conn, nil
}

// UnaryServerAccessLogInterceptor 按 gRPC status 折算业务码写访问日志。
func UnaryServerAccessLogInterceptor(log logx.Logger) gogrpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *gogrpc.UnaryServerInfo, handler gogrpc.UnaryHandler) (any, error) {
		ctx = transport.NewContextWithParent(ctx, "GRPC "+info.FullMethod)
		resp, err := handler(ctx, req)
		transport.SetBizCode(ctx, transport.BizCode(BizCodeOf(err)))
		transport.WriteAccessLog(ctx, log)
		return resp, err
	}
}

func BizCodeOf(err error) int {
	if err == nil {
		return transport.OK
	}
	if errors.Is(err, context.Canceled) {
		return transport.Canceled
	}
	switch status.Code(err) {
	case codes.OK:
		return transport.OK
	case codes.InvalidArgument:
		return transport.InvalidParam
	case codes.NotFound:
		return transport.ReportNotFound
	case codes.Unauthenticated, codes.PermissionDenied:
		return transport.TokenInvalid
	case codes.DeadlineExceeded:
		return transport.UpstreamTimeout
	case codes.Unavailable:
		return transport.UpstreamUnavailable
	case codes.Canceled:
		return transport.Canceled
	default:
		return transport.UpstreamInternal
	}
}
