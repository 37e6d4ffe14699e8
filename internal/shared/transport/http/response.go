package http

import (
	nethttp "net/http"

	"WordDice/internal/shared/transport"

	"github.com/gin-gonic/gin"
)

// Resp 是所有 /api 响应的统一信封，HTTP 状态码恒为 200，结果看 code。
type Resp struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

func Success(data any) Resp {
	return Resp{Code: transport.OK, Msg: "ok", Data: data}
}

func Error(code int, msg string, data any) Resp {
	return Resp{Code: code, Msg: msg, Data: data}
}

func OK(c *gin.Context, data any) {
	c.JSON(nethttp.StatusOK, Success(data))
}

func Fail(c *gin.Context, code int, msg string, data any) {
	c.JSON(nethttp.StatusOK, Error(code, msg, data))
}
