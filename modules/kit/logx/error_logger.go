package logx

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// BizLog 是业务拒绝日志的强类型输入，避免参数顺序误传。
type BizLog struct {
	Action  string
	Reason  string
	Message string
	Data    map[string]any
}

// SysLog 是技术错误日志的强类型输入。
type SysLog struct {
	Action string
	Err    error
}

func NewBizLog(action, reason, message string) BizLog {
	return BizLog{Action: action, Reason: reason, Message: message}
}

func NewSysLog(action string, err error) SysLog {
	return SysLog{Action: action, Err: err}
}

// promotedKeys 从 error data 提升为顶层字段，复现对局时按 seed/word 检索。
var promotedKeys = []string{"seed", "word", "trials", "id"}

// ReportAccessWithLoggerContext 记录访问日志：
// - biz_code == 0: INFO
// - biz_code  1~499: WARN
// - biz_code >= 500: ERROR
func ReportAccessWithLoggerContext(ctx context.Context, l Logger, action string, bizCode int, fields ...zap.Field) {
	if l == nil {
		return
	}
	base := append([]zap.Field{
		zap.String("log_type", "access"),
		zap.String("action", action),
		zap.Int("biz_code", bizCode),
	}, fields...)

	withCtx := l.WithContext(ctx)
	switch {
	case bizCode == 0:
		withCtx.Info("access", base...)
	case bizCode >= 500:
		withCtx.Error("access", base...)
	default:
		withCtx.Warn("access", base...)
	}
}

// ReportBizWithLoggerContext 记录业务拒绝日志：INFO、err_type=biz、不带堆栈。
func ReportBizWithLoggerContext(ctx context.Context, l Logger, biz BizLog, fields ...zap.Field) {
	if l == nil {
		return
	}
	action := orDefault(biz.Action, "biz_reject")

	base := []zap.Field{
		zap.String("err_type", "biz"),
		zap.String("action", action),
	}
	if biz.Reason != "" {
		base = append(base, zap.String("reason", biz.Reason))
	}
	if biz.Message != "" {
		base = append(base, zap.String("biz_message", biz.Message))
	}
	base = append(base, promote(biz.Data)...)
	base = append(base, fields...)

	l.WithContext(ctx).Info(headline(action, "reason", biz.Reason, "msg", biz.Message), base...)
}

// ReportSysErrorWithLoggerContext 记录技术错误日志：ERROR、err_type=sys，附带 cause 链和发生处栈。
func ReportSysErrorWithLoggerContext(ctx context.Context, l Logger, sys SysLog, fields ...zap.Field) {
	if sys.Err == nil || l == nil {
		return
	}
	action := orDefault(sys.Action, "sys_error")
	meta := BuildErrorLog(sys.Err)

	base := []zap.Field{
		zap.String("err_type", "sys"),
		zap.String("action", action),
	}
	if meta.Code != "" {
		base = append(base, zap.String("error_code", meta.Code))
	}
	if len(meta.CauseChain) != 0 {
		base = append(base, zap.Strings("cause_chain", meta.CauseChain))
	}
	if len(meta.Data) != 0 {
		base = append(base, zap.Any("error_data", meta.Data))
		base = append(base, promote(meta.Data)...)
	}
	if meta.Origin != "" {
		base = append(base, zap.String("origin_caller", meta.Origin))
	}
	if meta.Stack != "" {
		base = append(base, zap.String("stack_origin", meta.Stack))
	}
	base = append(base, fields...)

	var msg string
	if meta.Reason != "" {
		msg = headline(action, "reason", meta.Reason, "error", meta.Error)
	} else {
		msg = headline(action, "error", meta.Error, "msg", meta.Msg)
	}
	l.WithContext(ctx).Error(msg, base...)
}

func promote(data map[string]any) []zap.Field {
	if len(data) == 0 {
		return nil
	}
	var out []zap.Field
	for _, k := range promotedKeys {
		if v, ok := data[k]; ok {
			out = append(out, zap.Any(k, v))
		}
	}
	return out
}

// headline 拼成 "action, k1:v1, k2:v2"，空值跳过。
func headline(action string, kv ...string) string {
	var b strings.Builder
	b.WriteString(action)
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] == "" {
			continue
		}
		b.WriteString(", ")
		b.WriteString(kv[i])
		b.WriteString(":")
		b.WriteString(kv[i+1])
	}
	return b.String()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
