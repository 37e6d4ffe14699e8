package logx

import (
	"context"

	"WordDice/modules/kit/tracex"

	"go.uber.org/zap"
)

// ZapLogger 把 *zap.Logger 包成 Logger。零值和 nil 接收者都可用，输出被丢弃。
type ZapLogger struct {
	logger *zap.Logger
}

func NewZapLogger(l *zap.Logger) *ZapLogger {
	return &ZapLogger{logger: l}
}

func (z *ZapLogger) base() *zap.Logger {
	if z == nil || z.logger == nil {
		return zap.NewNop()
	}
	return z.logger
}

// WithContext 带上 ctx 中的 trace_id/span_id；两者都没有时返回自身。
func (z *ZapLogger) WithContext(ctx context.Context) Logger {
	fields := traceFields(ctx)
	if len(fields) == 0 {
		if z == nil {
			return &ZapLogger{}
		}
		return z
	}
	return &ZapLogger{logger: z.base().With(fields...)}
}

// With 返回追加了固定字段的子 logger，例如每条 WS 连接的 addr。
func (z *ZapLogger) With(fields ...zap.Field) Logger {
	return &ZapLogger{logger: z.base().With(fields...)}
}

func (z *ZapLogger) Info(msg string, fields ...zap.Field)  { z.base().Info(msg, fields...) }
func (z *ZapLogger) Error(msg string, fields ...zap.Field) { z.base().Error(msg, fields...) }
func (z *ZapLogger) Debug(msg string, fields ...zap.Field) { z.base().Debug(msg, fields...) }
func (z *ZapLogger) Warn(msg string, fields ...zap.Field)  { z.base().Warn(msg, fields...) }

// With 对支持固定字段的 Logger 追加字段，其余实现（如 Nop）原样返回。
func With(l Logger, fields ...zap.Field) Logger {
	if w, ok := l.(interface{ With(...zap.Field) Logger }); ok {
		return w.With(fields...)
	}
	return l
}

func traceFields(ctx context.Context) []zap.Field {
	if ctx == nil {
		return nil
	}
	var fields []zap.Field
	if tid, ok := tracex.TraceIDFrom(ctx); ok {
		fields = append(fields, zap.String("trace_id", tid))
	}
	if sid, ok := tracex.SpanIDFrom(ctx); ok {
		fields = append(fields, zap.String("span_id", sid))
	}
	return fields
}
