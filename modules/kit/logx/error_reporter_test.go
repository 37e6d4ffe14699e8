package logx

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"WordDice/modules/kit/errx"
)

func TestBuildErrorLog_能提取语义与栈(t *testing.T) {
	cause := errors.New("db down")
	e := errx.NewSys("SYS_INTERNAL", "服务器内部错误").
		WithData("method", "Tournament").
		WithCause(cause)

	meta := BuildErrorLog(e)
	if meta.Error == "" {
		t.Fatalf("期望 meta.Error 非空")
	}
	if meta.Code == "" {
		t.Fatalf("期望 meta.Code 非空")
	}
	if meta.Msg == "" {
		t.Fatalf("期望 meta.Msg 非空")
	}
	if meta.Data == nil || meta.Data["method"] != "Tournament" {
		t.Fatalf("期望 meta.Data 包含 method=Tournament, got=%v", meta.Data)
	}
	if len(meta.CauseChain) == 0 {
		t.Fatalf("期望 meta.CauseChain 非空")
	}
	if meta.Origin == "" || meta.Stack == "" {
		t.Fatalf("期望 meta.Origin/meta.Stack 非空（错误发生/转换处栈） origin=%q stack=%q", meta.Origin, meta.Stack)
	}
}

func TestBuildErrorLog_业务错误带reason(t *testing.T) {
	e := errx.NewBiz("INVALID_PARAM", "请求参数错误").
		WithReason(reasonStub("DUPLICATE_WORD")).
		WithData("word", "KING")

	meta := BuildErrorLog(e)
	if meta.Reason != "DUPLICATE_WORD" {
		t.Fatalf("reason=%q", meta.Reason)
	}
	if len(meta.CauseChain) != 0 {
		t.Fatalf("无 cause 时 cause_chain 应为空, got=%v", meta.CauseChain)
	}
}

type reasonStub string

func (r reasonStub) ReasonCode() string { return string(r) }

type recordLogger struct {
	level string
	msg   string
}

func (r *recordLogger) Info(msg string, _ ...zap.Field)  { r.level, r.msg = "info", msg }
func (r *recordLogger) Error(msg string, _ ...zap.Field) { r.level, r.msg = "error", msg }
func (r *recordLogger) Debug(msg string, _ ...zap.Field) { r.level, r.msg = "debug", msg }
func (r *recordLogger) Warn(msg string, _ ...zap.Field)  { r.level, r.msg = "warn", msg }
func (r *recordLogger) WithContext(context.Context) Logger { return r }

func TestReportAccess_按biz_code分级(t *testing.T) {
	cases := map[int]string{0: "info", 100: "warn", 499: "warn", 503: "error"}
	for code, want := range cases {
		l := &recordLogger{}
		ReportAccessWithLoggerContext(context.Background(), l, "POST /api/battles", code)
		if l.level != want {
			t.Fatalf("biz_code=%d level=%s want %s", code, l.level, want)
		}
	}
	ReportAccessWithLoggerContext(context.Background(), Nop(), "noop", 0)
}

type fieldLogger struct {
	recordLogger
	fields []zap.Field
}

func (f *fieldLogger) Info(msg string, fs ...zap.Field) { f.msg, f.fields = msg, fs }
func (f *fieldLogger) WithContext(context.Context) Logger { return f }

func TestReportBiz_提升seed与word字段(t *testing.T) {
	l := &fieldLogger{}
	biz := NewBizLog("battle.simulate", "", "单词包含无法识别的字母")
	biz.Data = map[string]any{"word": "H3X", "letter": "3"}
	ReportBizWithLoggerContext(context.Background(), l, biz)

	if l.msg != "battle.simulate, msg:单词包含无法识别的字母" {
		t.Fatalf("msg=%q", l.msg)
	}
	found := false
	for _, f := range l.fields {
		if f.Key == "word" {
			found = true
		}
		if f.Key == "letter" {
			t.Fatalf("letter 不在提升列表中")
		}
	}
	if !found {
		t.Fatalf("word 应提升为顶层字段, fields=%v", l.fields)
	}
}
