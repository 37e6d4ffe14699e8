package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"

	"WordDice/internal/shared/transport"
	"WordDice/modules/kit/logx"
	"WordDice/modules/kit/tracex"

	"github.com/gin-gonic/gin"
)

type bodyCaptureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyCaptureWriter) Write(data []byte) (int, error) {
	_, _ = w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *bodyCaptureWriter) WriteString(s string) (int, error) {
	_, _ = w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// AccessLog 统一写访问日志，并从响应体中的 `code` 字段提取业务码。
// 请求头带 X-Trace-Id 时沿用，并回写到响应头。
func AccessLog(log logx.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		action := c.Request.Method + " " + route

		ctx := transport.NewContextWithTrace(c.Request.Context(), action, c.GetHeader(transport.TraceHeader))
		c.Request = c.Request.WithContext(ctx)
		if tid, ok := tracex.TraceIDFrom(ctx); ok {
			c.Header(transport.TraceHeader, tid)
		}

		bw := &bodyCaptureWriter{ResponseWriter: c.Writer}
		c.Writer = bw

		c.Next()

		if bizCode, ok := parseBizCode(bw.body.Bytes()); ok {
			transport.SetBizCode(ctx, transport.BizCode(bizCode))
		} else if c.Writer.Status() >= http.StatusBadRequest {
			transport.SetBizCode(ctx, transport.BizCode(transport.SystemError))
		} else {
			transport.SetBizCode(ctx, transport.BizCode(transport.OK))
		}

		transport.WriteAccessLog(ctx, log)
	}
}

func parseBizCode(body []byte) (int, bool) {
	if len(body) == 0 {
		return 0, false
	}

	var payload struct {
		Code *int `json:"code"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, false
	}
	if payload.Code == nil {
		return 0, false
	}
	return *payload.Code, true
}
