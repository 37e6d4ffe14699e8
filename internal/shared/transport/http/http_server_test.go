package http

import (
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"WordDice/internal/shared/transport"
	"WordDice/modules/kit/logx"

	"github.com/gin-gonic/gin"
)

type pingModule struct{}

func (pingModule) HttpRegister(g *gin.RouterGroup) {
	g.GET("/ping", func(c *gin.Context) { OK(c, gin.H{"pong": true}) })
	g.GET("/boom", func(c *gin.Context) { Fail(c, transport.InvalidParam, "参数有误", nil) })
}

func TestNewHttpServer_Healthz(t *testing.T) {
	gin.SetMode(gin.TestMode)

	s := NewHttpServer(":0", gin.New(), logx.Nop())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(nethttp.MethodGet, "/healthz", nil)
	s.Handler().ServeHTTP(w, req)

	if w.Code != nethttp.StatusOK {
		t.Fatalf("unexpected status code: got=%d want=%d", w.Code, nethttp.StatusOK)
	}
}

func TestServer_Register挂在api组下(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := NewHttpServer(":0", nil, logx.Nop())
	s.Register(pingModule{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(nethttp.MethodGet, "/api/ping", nil)
	req.Header.Set(transport.TraceHeader, "trace-1")
	s.Handler().ServeHTTP(w, req)

	var resp Resp
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal err=%v body=%s", err, w.Body.String())
	}
	if resp.Code != transport.OK {
		t.Fatalf("code=%d", resp.Code)
	}
	if got := w.Header().Get(transport.TraceHeader); got != "trace-1" {
		t.Fatalf("应回写上游 trace_id, got=%q", got)
	}

	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(nethttp.MethodGet, "/api/boom", nil))
	if w.Code != nethttp.StatusOK {
		t.Fatalf("业务失败仍返回 200, got=%d", w.Code)
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Code != transport.InvalidParam {
		t.Fatalf("code=%d", resp.Code)
	}
}

func TestCors_预检请求(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := NewHttpServer(":0", nil, logx.Nop())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(nethttp.MethodOptions, "/api/battles", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	s.Handler().ServeHTTP(w, req)

	if w.Code != nethttp.StatusNoContent {
		t.Fatalf("status=%d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Fatalf("缺少 CORS 头")
	}
}
