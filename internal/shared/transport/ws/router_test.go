package ws

import (
	"context"
	"encoding/json"
	"testing"

	"WordDice/internal/shared/transport"
	"WordDice/modules/kit/logx"
)

type fakeConn struct {
	props  map[string]any
	pushed []string
	done   chan struct{}
}

func newFakeConn() *fakeConn {
	return &fakeConn{props: map[string]any{}, done: make(chan struct{})}
}

func (c *fakeConn) SetProperty(key string, value any) { c.props[key] = value }
func (c *fakeConn) GetProperty(key string) any         { return c.props[key] }
func (c *fakeConn) RemoveProperty(key string)          { delete(c.props, key) }
func (c *fakeConn) Addr() string                       { return "fake" }
func (c *fakeConn) Push(name string, data any)         { c.pushed = append(c.pushed, name) }
func (c *fakeConn) Close()                             { close(c.done) }
func (c *fakeConn) Done() <-chan struct{}              { return c.done }

func dispatch(r *Router, conn WSConn, name string) *WsMsgResp {
	resp := &WsMsgResp{Body: &RespBody{Seq: 9, Name: name}}
	r.Dispatch(&WsMsgReq{Body: &ReqBody{Seq: 9, Name: name}, Conn: conn}, resp)
	return resp
}

func TestRouter_Dispatch(t *testing.T) {
	r := NewRouter(logx.Nop())
	var gotCtx context.Context
	r.Group("rules").Handle("get", func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp) {
		gotCtx = ctx
		req.Conn.Push("rules.changed", nil)
		resp.Body.Code = transport.OK
		resp.Body.Msg = "ok"
	})
	r.Group("rules").Handle("noop", func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp) {})

	conn := newFakeConn()
	resp := dispatch(r, conn, "rules.get")
	if resp.Body.Code != transport.OK || resp.Body.Msg != "ok" || len(conn.pushed) != 1 {
		t.Fatalf("resp=%+v pushed=%v", resp.Body, conn.pushed)
	}
	if transport.FromContext(gotCtx) == nil {
		t.Fatalf("handler ctx 应携带 AccessLog")
	}
	if gotCtx.Err() == nil {
		t.Fatalf("Dispatch 返回后 ctx 应被取消")
	}

	if resp := dispatch(r, conn, "rules.noop"); resp.Body.Code != transport.SystemError {
		t.Fatalf("handler 未设置 code 时应为 SystemError, got=%d", resp.Body.Code)
	}
}

func TestRouter_非法路由(t *testing.T) {
	r := NewRouter(nil)
	r.Group("battle").Handle("simulate", func(context.Context, *WsMsgReq, *WsMsgResp) {})

	for _, name := range []string{"battle", "battle.", ".simulate", "a.b.c", "nope.simulate", "battle.nope"} {
		if resp := dispatch(r, newFakeConn(), name); resp.Body.Code != transport.InvalidParam {
			t.Fatalf("%q code=%d", name, resp.Body.Code)
		}
	}

	resp := &WsMsgResp{Body: &RespBody{}}
	r.Dispatch(&WsMsgReq{}, resp)
	if resp.Body.Code != transport.InvalidParam {
		t.Fatalf("空请求体 code=%d", resp.Body.Code)
	}
}

func TestRouter_连接关闭取消ctx(t *testing.T) {
	r := NewRouter(nil)
	conn := newFakeConn()
	r.Group("battle").Handle("wait", func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp) {
		req.Conn.Close()
		<-ctx.Done()
		resp.Body.Code = transport.Canceled
	})
	if resp := dispatch(r, conn, "battle.wait"); resp.Body.Code != transport.Canceled {
		t.Fatalf("code=%d", resp.Body.Code)
	}
}

func TestBindJSON(t *testing.T) {
	var dst struct {
		Word1 string `json:"word1"`
		Seed  uint64 `json:"seed"`
	}
	req := &WsMsgReq{Body: &ReqBody{Msg: map[string]any{"word1": "KING", "seed": json.Number("18446744073709551615")}}}
	if err := BindJSON(req, &dst); err != nil {
		t.Fatalf("BindJSON err=%v", err)
	}
	if dst.Word1 != "KING" || dst.Seed != 18446744073709551615 {
		t.Fatalf("dst=%+v", dst)
	}
	if err := BindJSON(&WsMsgReq{Body: &ReqBody{}}, &dst); err != nil {
		t.Fatalf("空 msg 不应报错: %v", err)
	}
	if err := BindJSON(nil, &dst); err == nil {
		t.Fatalf("nil 请求应报错")
	}
}
