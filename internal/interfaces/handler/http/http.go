package http

import (
	"context"
	"strconv"

	"WordDice/internal/app/model"
	"WordDice/internal/interfaces/handler"
	"WordDice/internal/shared/security"
	"WordDice/internal/shared/transport"
	transporthttp "WordDice/internal/shared/transport/http"
	"WordDice/internal/shared/transport/http/middleware"

	"github.com/gin-gonic/gin"
)

type HttpHandler struct {
	sim          *handler.Simulator
	requireToken func() bool
}

// NewHttpHandler requireToken 为 nil 时不校验 token。
func NewHttpHandler(s *handler.Simulator, requireToken func() bool) *HttpHandler {
	return &HttpHandler{sim: s, requireToken: requireToken}
}

func (h *HttpHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/rules", h.Rules)
	group.POST("/battles", h.Battle)

	tournaments := group.Group("/tournaments")
	tournaments.POST("", middleware.Auth(h.tokenRequired, security.ScopeTournament), h.Tournament)
	tournaments.GET("", middleware.Auth(h.tokenRequired, security.ScopeReports), h.Reports)
	tournaments.GET("/:id", middleware.Auth(h.tokenRequired, security.ScopeReports), h.Report)
}

func (h *HttpHandler) tokenRequired() bool {
	return h.requireToken != nil && h.requireToken()
}

func (h *HttpHandler) Rules(c *gin.Context) {
	transporthttp.OK(c, h.sim.Service.Rules())
}

func (h *HttpHandler) Battle(c *gin.Context) {
	ctx := c.Request.Context()

	var req model.BattleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		transporthttp.Fail(c, transport.InvalidParam, "参数有误", nil)
		return
	}

	resp, err := h.sim.Service.Battle(ctx, req, nil)
	if err != nil {
		h.error(ctx, c, "http battle", err)
		return
	}
	transporthttp.OK(c, resp)
}

func (h *HttpHandler) Tournament(c *gin.Context) {
	ctx := c.Request.Context()

	var req model.TournamentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		transporthttp.Fail(c, transport.InvalidParam, "参数有误", nil)
		return
	}

	resp, err := h.sim.Service.Tournament(ctx, req)
	if err != nil {
		h.error(ctx, c, "http tournament", err)
		return
	}
	transporthttp.OK(c, resp)
}

func (h *HttpHandler) Reports(c *gin.Context) {
	ctx := c.Request.Context()

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			transporthttp.Fail(c, transport.InvalidParam, "limit 有误", nil)
			return
		}
		limit = n
	}

	resp, err := h.sim.Service.Reports(ctx, limit)
	if err != nil {
		h.error(ctx, c, "http reports", err)
		return
	}
	transporthttp.OK(c, resp)
}

func (h *HttpHandler) Report(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		transporthttp.Fail(c, transport.InvalidParam, "id 有误", nil)
		return
	}

	resp, err := h.sim.Service.Report(ctx, id)
	if err != nil {
		h.error(ctx, c, "http report", err)
		return
	}
	transporthttp.OK(c, resp)
}

func (h *HttpHandler) error(ctx context.Context, c *gin.Context, action string, err error) {
	f := h.sim.HandleError(ctx, action, err)
	var data any
	if f.Data != nil {
		data = f.Data
	}
	transporthttp.Fail(c, f.Code, f.Msg, data)
}
