package transport

import (
	"context"
	"time"

	"WordDice/modules/kit/logx"
	"WordDice/modules/kit/tracex"

	"go.uber.org/zap"
)

// TraceHeader 是 HTTP/WS 握手请求上可携带的上游 trace_id。
const TraceHeader = "X-Trace-Id"

// AccessLog 是请求级日志上下文，覆盖 HTTP/WS/gRPC 三种入口。
type AccessLog struct {
	BizCode     BizCode
	ErrorReason string
	startTime   time.Time
	action      string
}

type accessLogKey struct{}

// NewContext 创建带 AccessLog 的新 context（以 background 为父 context）。
func NewContext(action string) context.Context {
	return NewContextWithTrace(context.Background(), action, "")
}

// NewContextWithParent 保留父 context 的取消/超时信号，父 context 上已有 trace_id 时沿用。
func NewContextWithParent(parent context.Context, action string) context.Context {
	return NewContextWithTrace(parent, action, "")
}

// NewContextWithTrace 优先使用上游传入的 traceID。
func NewContextWithTrace(parent context.Context, action, traceID string) context.Context {
	ctx := parent
	if ctx == nil {
		ctx = context.Background()
	}
	if action == "" {
		action = "unknown"
	}
	ctx, _ = tracex.Ensure(ctx, traceID)
	if _, ok := tracex.SpanIDFrom(ctx); !ok {
		ctx = tracex.WithSpanID(ctx, tracex.NewSpanID())
	}

	al := &AccessLog{
		BizCode:   BizCode(SystemError),
		startTime: time.Now(),
		action:    action,
	}
	return context.WithValue(ctx, accessLogKey{}, al)
}

// FromContext 从 context 读取 AccessLog。
func FromContext(ctx context.Context) *AccessLog {
	if ctx == nil {
		return nil
	}
	al, _ := ctx.Value(accessLogKey{}).(*AccessLog)
	return al
}

func SetBizCode(ctx context.Context, code BizCode) {
	if al := FromContext(ctx); al != nil {
		al.BizCode = code
	}
}

// SetErrorReason 设置 access 日志错误原因（失败场景）。
func SetErrorReason(ctx context.Context, reason string) {
	if reason == "" {
		return
	}
	if al := FromContext(ctx); al != nil {
		al.ErrorReason = reason
	}
}

// WriteAccessLog 输出访问日志，入口处 defer 调用。
func WriteAccessLog(ctx context.Context, log logx.Logger) {
	al := FromContext(ctx)
	if al == nil || log == nil {
		return
	}

	fields := []zap.Field{
		zap.Duration("latency", time.Since(al.startTime)),
	}
	if al.BizCode == BizCode(OK) {
		fields = append(fields, zap.String("result", "success"))
	} else {
		fields = append(fields, zap.String("result", "failure"))
		if al.ErrorReason != "" {
			fields = append(fields, zap.String("error_reason", al.ErrorReason))
		}
	}
	logx.ReportAccessWithLoggerContext(ctx, log, al.action, int(al.BizCode), fields...)
}
