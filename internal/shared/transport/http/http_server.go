package http

import (
	"context"
	nethttp "net/http"
	"time"

	"WordDice/internal/shared/transport/http/middleware"
	"WordDice/modules/kit/logx"

	"github.com/gin-gonic/gin"
)

// Registrar 由接口层模块实现，向 /api 组注册路由。
type Registrar interface {
	HttpRegister(g *gin.RouterGroup)
}

type Server struct {
	engine *gin.Engine
	group  *gin.RouterGroup
	srv    *nethttp.Server
}

func NewHttpServer(addr string, engine *gin.Engine, logger logx.Logger) *Server {
	if engine == nil {
		engine = gin.New()
		engine.Use(gin.Recovery())
	}
	engine.Use(middleware.Cors())
	engine.Use(middleware.AccessLog(logger))
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(nethttp.StatusOK, gin.H{"status": "ok"})
	})

	return &Server{
		engine: engine,
		group:  engine.Group("/api"),
		srv: &nethttp.Server{
			Addr:              addr,
			Handler:           engine,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			// 锦标赛可能持续较久，写超时由 simulation.timeout 兜底
			WriteTimeout: 0,
			IdleTimeout:  60 * time.Second,
		},
	}
}

func (s *Server) Register(rs ...Registrar) {
	for _, r := range rs {
		r.HttpRegister(s.group)
	}
}

// Start 启动 HTTP 服务（阻塞）。关闭时返回 net/http.ErrServerClosed。
func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) Group() *gin.RouterGroup {
	return s.group
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) Handler() nethttp.Handler {
	return s.engine
}
