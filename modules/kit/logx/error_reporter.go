package logx

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

const (
	maxStackFrames = 32
	maxCauseDepth  = 20
)

// 以下小接口让 logx 不依赖 errx，任何实现了对应方法的错误都能被提取。
type (
	codeTextProvider interface{ CodeText() string }
	msgProvider      interface{ Msg() string }
	dataProvider     interface{ Data() map[string]any }
	stackProvider    interface{ Stack() []uintptr }
	reasonProvider   interface{ Reason() string }
)

type ErrorLog struct {
	Error      string
	Code       string
	Msg        string
	Reason     string
	Data       map[string]any
	CauseChain []string
	Origin     string
	Stack      string
}

// BuildErrorLog 提取错误码、提示语、上下文、cause 链和发生处栈，接口层统一打印。
func BuildErrorLog(err error) ErrorLog {
	if err == nil {
		return ErrorLog{}
	}
	out := ErrorLog{Error: err.Error()}

	if p, ok := as[codeTextProvider](err); ok {
		out.Code = p.CodeText()
	}
	if p, ok := as[msgProvider](err); ok {
		out.Msg = p.Msg()
	}
	if p, ok := as[dataProvider](err); ok {
		out.Data = p.Data()
	}
	if p, ok := as[reasonProvider](err); ok {
		out.Reason = p.Reason()
	}
	if p, ok := as[stackProvider](err); ok {
		out.Origin, out.Stack = formatStack(p.Stack())
	}
	out.CauseChain = causeChain(err)
	return out
}

func as[T any](err error) (T, bool) {
	var target T
	ok := errors.As(err, &target)
	return target, ok
}

func causeChain(err error) []string {
	var out []string
	for cur, i := errors.Unwrap(err), 0; cur != nil && i < maxCauseDepth; cur, i = errors.Unwrap(cur), i+1 {
		out = append(out, fmt.Sprintf("%T: %v", cur, cur))
	}
	return out
}

// formatStack 返回第一帧（origin）和完整栈文本，每帧一行 "func file:line"。
func formatStack(pcs []uintptr) (origin string, stack string) {
	if len(pcs) == 0 {
		return "", ""
	}
	frames := runtime.CallersFrames(pcs)
	lines := make([]string, 0, 8)
	for len(lines) < maxStackFrames {
		f, more := frames.Next()
		if f.Function == "" && f.File == "" {
			break
		}
		lines = append(lines, fmt.Sprintf("%s %s:%d", f.Function, f.File, f.Line))
		if !more {
			break
		}
	}
	if len(lines) == 0 {
		return "", ""
	}
	return lines[0], strings.Join(lines, "\n")
}
