package interfaces

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	nethttp "net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"WordDice/internal/app"
	"WordDice/internal/app/model"
	"WordDice/internal/battle"
	grpchandler "WordDice/internal/interfaces/handler/grpc"
	wshandler "WordDice/internal/interfaces/handler/ws"
	"WordDice/internal/rules"
	"WordDice/internal/shared/security"
	"WordDice/internal/shared/transport"
	transportgrpc "WordDice/internal/shared/transport/grpc"
	transporthttp "WordDice/internal/shared/transport/http"
	"WordDice/internal/shared/transport/ws"
	"WordDice/internal/shared/utils"
	"WordDice/internal/storage/memory"
	"WordDice/internal/tournament"
	"WordDice/modules/kit/logx"

	"github.com/gin-gonic/gin"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func newModule(requireToken bool) *Module {
	engine := battle.NewEngine(rules.MustDefault(), 0)
	svc := app.NewSimulationService(
		engine,
		tournament.NewLocalExecutor(engine, 2),
		memory.NewReportRepository(),
		utils.MustSnowflake(1),
		logx.Nop(),
		app.Limits{MaxTrials: 20, Timeout: 10 * time.Second},
	)
	return New(svc, logx.Nop(), func() bool { return requireToken })
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func do(t *testing.T, h nethttp.Handler, method, path string, body any, token string) envelope {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s unmarshal err=%v body=%s", method, path, err, w.Body.String())
	}
	return env
}

func newHTTP(m *Module) nethttp.Handler {
	gin.SetMode(gin.TestMode)
	s := transporthttp.NewHttpServer(":0", nil, logx.Nop())
	s.Register(m)
	return s.Handler()
}

func TestHTTP_对战与规则(t *testing.T) {
	h := newHTTP(newModule(false))

	if env := do(t, h, nethttp.MethodGet, "/api/rules", nil, ""); env.Code != transport.OK {
		t.Fatalf("rules env=%+v", env)
	}

	env := do(t, h, nethttp.MethodPost, "/api/battles", map[string]any{"word1": "king", "word2": "hex", "seed": 7, "trace": true}, "")
	if env.Code != transport.OK {
		t.Fatalf("battle env=%+v", env)
	}
	var resp model.BattleResp
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatalf("unmarshal err=%v", err)
	}
	if resp.Word1 != "KING" || resp.Seed != 7 || len(resp.Trace) != resp.Rounds+1 {
		t.Fatalf("resp=%+v", resp)
	}

	env = do(t, h, nethttp.MethodPost, "/api/battles", map[string]any{"word1": "K1NG", "word2": "HEX"}, "")
	if env.Code != transport.InvalidWord || len(env.Data) == 0 {
		t.Fatalf("非法单词 env=%+v", env)
	}

	env = do(t, h, nethttp.MethodPost, "/api/battles", "not-an-object", "")
	if env.Code != transport.InvalidParam {
		t.Fatalf("非法 body env=%+v", env)
	}
}

func TestHTTP_锦标赛保存并查询(t *testing.T) {
	h := newHTTP(newModule(false))

	env := do(t, h, nethttp.MethodPost, "/api/tournaments", map[string]any{"words": []string{"king", "hex", "quest"}, "trials": 2, "seed": 3}, "")
	if env.Code != transport.OK {
		t.Fatalf("tournament env=%+v", env)
	}
	var rep tournament.Report
	if err := json.Unmarshal(env.Data, &rep); err != nil {
		t.Fatalf("unmarshal err=%v", err)
	}
	if rep.ID == 0 || rep.Battles != 12 {
		t.Fatalf("rep id=%d battles=%d", rep.ID, rep.Battles)
	}

	env = do(t, h, nethttp.MethodGet, "/api/tournaments/"+strconv.FormatInt(rep.ID, 10), nil, "")
	if env.Code != transport.OK {
		t.Fatalf("report env=%+v", env)
	}
	env = do(t, h, nethttp.MethodGet, "/api/tournaments?limit=5", nil, "")
	var list model.ReportListResp
	if err := json.Unmarshal(env.Data, &list); err != nil || len(list.Reports) != 1 {
		t.Fatalf("list=%+v err=%v", list, err)
	}

	if env := do(t, h, nethttp.MethodGet, "/api/tournaments/999", nil, ""); env.Code != transport.ReportNotFound {
		t.Fatalf("env=%+v", env)
	}
	if env := do(t, h, nethttp.MethodGet, "/api/tournaments/abc", nil, ""); env.Code != transport.InvalidParam {
		t.Fatalf("env=%+v", env)
	}
	if env := do(t, h, nethttp.MethodPost, "/api/tournaments", map[string]any{"words": []string{"KING"}}, ""); env.Code != transport.InvalidParam {
		t.Fatalf("env=%+v", env)
	}
}

func TestHTTP_开启token校验(t *testing.T) {
	t.Setenv("JWT_SECRET", "iface-secret")
	h := newHTTP(newModule(true))

	body := map[string]any{"words": []string{"KING", "HEX"}, "trials": 1, "dry_run": true}
	if env := do(t, h, nethttp.MethodPost, "/api/tournaments", body, ""); env.Code != transport.TokenInvalid {
		t.Fatalf("无 token env=%+v", env)
	}
	tok, err := security.Award("ci", time.Hour)
	if err != nil {
		t.Fatalf("Award err=%v", err)
	}
	if env := do(t, h, nethttp.MethodPost, "/api/tournaments", body, tok); env.Code != transport.OK {
		t.Fatalf("有 token env=%+v", env)
	}
	// 单场对战不需要 token
	if env := do(t, h, nethttp.MethodPost, "/api/battles", map[string]any{"word1": "A", "word2": "B"}, ""); env.Code != transport.OK {
		t.Fatalf("battle env=%+v", env)
	}
}

func newGRPCClient(t *testing.T, m *Module, extra ...gogrpc.DialOption) (*grpchandler.SimulatorClient, func()) {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := transportgrpc.NewServer(logx.Nop(), m.GrpcServerOptions()...)
	m.GrpcRegister(srv)
	go func() { _ = srv.Serve(lis) }()

	opts := append([]gogrpc.DialOption{gogrpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	})}, extra...)
	conn, err := transportgrpc.Dial("passthrough:///bufnet", opts...)
	if err != nil {
		t.Fatalf("dial err=%v", err)
	}
	return grpchandler.NewSimulatorClient(conn), func() {
		_ = conn.Close()
		srv.Stop()
	}
}

func TestGRPC_对战与锦标赛(t *testing.T) {
	client, closeFn := newGRPCClient(t, newModule(false))
	defer closeFn()
	ctx := context.Background()

	seed := uint64(18446744073709551557)
	resp, err := client.Battle(ctx, model.BattleReq{Word1: "quest", Word2: "jinx", Seed: &seed})
	if err != nil {
		t.Fatalf("Battle err=%v", err)
	}
	if resp.Seed != seed || resp.Word1 != "QUEST" {
		t.Fatalf("resp=%+v", resp)
	}

	local, _ := battle.NewEngine(rules.MustDefault(), 0).Simulate("QUEST", "JINX", battle.NewRNG(seed), nil)
	if resp.Outcome != local {
		t.Fatalf("远程结果应与本地一致: %+v vs %+v", resp.Outcome, local)
	}

	rep, err := client.Tournament(ctx, model.TournamentReq{Words: []string{"KING", "HEX"}, Trials: 3, DryRun: true})
	if err != nil {
		t.Fatalf("Tournament err=%v", err)
	}
	if rep.Battles != 6 || len(rep.Matrix.Words) != 2 {
		t.Fatalf("rep=%+v", rep)
	}

	_, err = client.Battle(ctx, model.BattleReq{Word1: "K1NG", Word2: "HEX"})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("err=%v", err)
	}
}

func TestGRPC_开启token校验(t *testing.T) {
	t.Setenv("JWT_SECRET", "iface-secret")
	m := newModule(true)
	req := model.TournamentReq{Words: []string{"KING", "HEX"}, Trials: 1, DryRun: true}

	client, closeFn := newGRPCClient(t, m)
	defer closeFn()
	if _, err := client.Tournament(context.Background(), req); status.Code(err) != codes.Unauthenticated {
		t.Fatalf("无 token 应被拒绝, err=%v", err)
	}
	if transportgrpc.BizCodeOf(status.Error(codes.Unauthenticated, "")) != transport.TokenInvalid {
		t.Fatalf("Unauthenticated 应折算为 TokenInvalid")
	}
	// 单场对战不需要 token
	if _, err := client.Battle(context.Background(), model.BattleReq{Word1: "A", Word2: "B"}); err != nil {
		t.Fatalf("Battle err=%v", err)
	}

	readOnly, err := security.Award("ro", time.Hour, security.ScopeReports)
	if err != nil {
		t.Fatalf("Award err=%v", err)
	}
	roClient, roClose := newGRPCClient(t, m, transportgrpc.WithBearer(readOnly))
	defer roClose()
	if _, err := roClient.Tournament(context.Background(), req); status.Code(err) != codes.PermissionDenied {
		t.Fatalf("scope 不足应返回 PermissionDenied, err=%v", err)
	}

	runner, err := security.Award("ci", time.Hour, security.ScopeTournament)
	if err != nil {
		t.Fatalf("Award err=%v", err)
	}
	okClient, okClose := newGRPCClient(t, m, transportgrpc.WithBearer(runner))
	defer okClose()
	rep, err := okClient.Tournament(context.Background(), req)
	if err != nil {
		t.Fatalf("有 token 的 Tournament err=%v", err)
	}
	if rep.Battles != 2 {
		t.Fatalf("rep=%+v", rep)
	}
}

func TestWS_开启token校验(t *testing.T) {
	t.Setenv("JWT_SECRET", "iface-secret")
	r := ws.NewRouter(logx.Nop())
	newModule(true).WsRegister(r)
	conn := &recordConn{done: make(chan struct{})}

	dispatch := func(seq int64, name string, msg any) *ws.RespBody {
		resp := &ws.WsMsgResp{Body: &ws.RespBody{Seq: seq, Name: name}}
		r.Dispatch(&ws.WsMsgReq{Body: &ws.ReqBody{Seq: seq, Name: name, Msg: msg}, Conn: conn}, resp)
		return resp.Body
	}
	run := map[string]any{"words": []any{"KING", "HEX"}, "trials": json.Number("1"), "dry_run": true}

	if body := dispatch(1, "tournament.run", run); body.Code != transport.TokenInvalid {
		t.Fatalf("未登录应被拒绝, body=%+v", body)
	}
	if body := dispatch(2, "auth.login", map[string]any{"token": "not-a-jwt"}); body.Code != transport.TokenInvalid {
		t.Fatalf("非法 token 登录应失败, body=%+v", body)
	}
	if body := dispatch(3, "tournament.run", run); body.Code != transport.TokenInvalid {
		t.Fatalf("登录失败后仍应被拒绝, body=%+v", body)
	}

	readOnly, _ := security.Award("ro", time.Hour, security.ScopeReports)
	if body := dispatch(4, "auth.login", map[string]any{"token": readOnly}); body.Code != transport.OK {
		t.Fatalf("登录 body=%+v", body)
	}
	if body := dispatch(5, "tournament.run", run); body.Code != transport.TokenInvalid {
		t.Fatalf("scope 不足应被拒绝, body=%+v", body)
	}

	runner, _ := security.Award("ci", time.Hour, security.ScopeTournament)
	if body := dispatch(6, "auth.login", map[string]any{"token": runner}); body.Code != transport.OK {
		t.Fatalf("登录 body=%+v", body)
	}
	body := dispatch(7, "tournament.run", run)
	if body.Code != transport.OK {
		t.Fatalf("登录后 tournament.run body=%+v", body)
	}
	if rep, ok := body.Msg.(*model.TournamentResp); !ok || rep.Battles != 2 {
		t.Fatalf("msg=%#v", body.Msg)
	}
}

func TestWS_对战推送回合(t *testing.T) {
	m := newModule(false)
	r := ws.NewRouter(logx.Nop())
	m.WsRegister(r)

	conn := &recordConn{done: make(chan struct{})}
	resp := &ws.WsMsgResp{Body: &ws.RespBody{Seq: 1, Name: "battle.simulate"}}
	r.Dispatch(&ws.WsMsgReq{
		Body: &ws.ReqBody{Seq: 1, Name: "battle.simulate", Msg: map[string]any{"word1": "KING", "word2": "HEX", "seed": json.Number("11"), "trace": true}},
		Conn: conn,
	}, resp)

	if resp.Body.Code != transport.OK {
		t.Fatalf("resp=%+v", resp.Body)
	}
	out := resp.Body.Msg.(*model.BattleResp)
	if len(conn.pushed) != out.Rounds+1 || out.Trace != nil {
		t.Fatalf("pushed=%d rounds=%d", len(conn.pushed), out.Rounds)
	}
	for _, name := range conn.pushed {
		if name != wshandler.RoundPush {
			t.Fatalf("push name=%s", name)
		}
	}

	resp = &ws.WsMsgResp{Body: &ws.RespBody{Seq: 2, Name: "tournament.run"}}
	r.Dispatch(&ws.WsMsgReq{
		Body: &ws.ReqBody{Seq: 2, Name: "tournament.run", Msg: map[string]any{"words": []any{"KING", "KING"}}},
		Conn: conn,
	}, resp)
	if resp.Body.Code != transport.InvalidParam {
		t.Fatalf("重复单词 resp=%+v", resp.Body)
	}
}

type recordConn struct {
	pushed []string
	props  map[string]any
	done   chan struct{}
}

func (c *recordConn) SetProperty(key string, v any) {
	if c.props == nil {
		c.props = map[string]any{}
	}
	c.props[key] = v
}
func (c *recordConn) GetProperty(key string) any { return c.props[key] }
func (c *recordConn) RemoveProperty(key string)  { delete(c.props, key) }
func (c *recordConn) Addr() string               { return "test" }
func (c *recordConn) Push(name string, _ any)    { c.pushed = append(c.pushed, name) }
func (c *recordConn) Close()                     {}
func (c *recordConn) Done() <-chan struct{}      { return c.done }
