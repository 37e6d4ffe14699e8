package ws

import (
	"context"

	"WordDice/internal/app/model"
	"WordDice/internal/battle"
	"WordDice/internal/interfaces/handler"
	"WordDice/internal/shared/security"
	"WordDice/internal/shared/transport"
	"WordDice/internal/shared/transport/ws"
)

const (
	// RoundPush 是 battle.simulate 开启 trace 时逐回合推送的消息名。
	RoundPush = "battle.round"
	// ClaimsProperty auth.login 成功后 claims 挂在连接上的属性名。
	ClaimsProperty = "claims"
)

type WsHandler struct {
	sim          *handler.Simulator
	requireToken func() bool
}

type loginReq struct {
	Token string `json:"token"`
}

// NewWsHandler requireToken 为 nil 时不校验 token。
func NewWsHandler(s *handler.Simulator, requireToken func() bool) *WsHandler {
	return &WsHandler{sim: s, requireToken: requireToken}
}

func (h *WsHandler) RegisterRoutes(r *ws.Router) {
	r.Group("auth").Handle("login", h.login)

	r.Group("rules").Handle("get", h.rules)

	r.Group("battle").Handle("simulate", h.simulate)

	r.Group("tournament").Handle("run", h.run)
}

func (h *WsHandler) rules(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	h.ok(wsResp, h.sim.Service.Rules())
}

// simulate 开启 trace 时每回合推送 battle.round，全部推送先于最终回复写出。
func (h *WsHandler) simulate(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	if wsReq == nil || wsReq.Body == nil || wsReq.Conn == nil {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return
	}

	var req model.BattleReq
	if err := ws.BindJSON(wsReq, &req); err != nil {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return
	}

	conn := wsReq.Conn
	resp, err := h.sim.Service.Battle(ctx, req, func(r battle.RoundReport) {
		conn.Push(RoundPush, r)
	})
	if err != nil {
		h.error(ctx, wsResp, "ws battle.simulate", err)
		return
	}
	h.ok(wsResp, resp)
}

// login 校验 token 并把 claims 挂到连接上，之后该连接上的受限路由都按这份 claims 判断。
func (h *WsHandler) login(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	var req loginReq
	if err := ws.BindJSON(wsReq, &req); err != nil || wsReq.Conn == nil {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return
	}
	claims, err := security.ParseToken(req.Token)
	if req.Token == "" || err != nil {
		if err == nil {
			err = security.ErrTokenMissing
		}
		transport.SetErrorReason(ctx, err.Error())
		h.fail(wsResp, transport.TokenInvalid, security.DenyMessage(err))
		return
	}
	wsReq.Conn.SetProperty(ClaimsProperty, claims)
	h.ok(wsResp, map[string]any{"client": claims.Client, "scopes": claims.Scopes})
}

// authorized requireToken 关闭时恒为 true；否则要求连接先完成 auth.login 且 scope 足够。
func (h *WsHandler) authorized(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp, scope string) bool {
	if h.requireToken == nil || !h.requireToken() {
		return true
	}
	err := security.ErrTokenMissing
	if wsReq != nil && wsReq.Conn != nil {
		if claims, ok := wsReq.Conn.GetProperty(ClaimsProperty).(*security.Claims); ok {
			if claims.Allows(scope) {
				return true
			}
			err = security.ErrTokenScope
		}
	}
	transport.SetErrorReason(ctx, err.Error())
	h.fail(wsResp, transport.TokenInvalid, security.DenyMessage(err))
	return false
}

func (h *WsHandler) run(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	if !h.authorized(ctx, wsReq, wsResp, security.ScopeTournament) {
		return
	}
	var req model.TournamentReq
	if err := ws.BindJSON(wsReq, &req); err != nil {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return
	}

	resp, err := h.sim.Service.Tournament(ctx, req)
	if err != nil {
		h.error(ctx, wsResp, "ws tournament.run", err)
		return
	}
	h.ok(wsResp, resp)
}

func (h *WsHandler) ok(resp *ws.WsMsgResp, data any) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = transport.OK
	resp.Body.Msg = data
}

func (h *WsHandler) fail(resp *ws.WsMsgResp, code int, msg string) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = code
	if msg != "" {
		resp.Body.Msg = msg
	}
}

func (h *WsHandler) error(ctx context.Context, resp *ws.WsMsgResp, action string, err error) {
	f := h.sim.HandleError(ctx, action, err)
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = f.Code
	if f.Data != nil {
		resp.Body.Msg = map[string]any{"msg": f.Msg, "data": f.Data}
		return
	}
	resp.Body.Msg = f.Msg
}
