package interfaces

import (
	"WordDice/internal/app"
	"WordDice/internal/interfaces/handler"
	grpchandler "WordDice/internal/interfaces/handler/grpc"
	httphandler "WordDice/internal/interfaces/handler/http"
	wshandler "WordDice/internal/interfaces/handler/ws"
	"WordDice/internal/shared/security"
	transportgrpc "WordDice/internal/shared/transport/grpc"
	transporthttp "WordDice/internal/shared/transport/http"
	"WordDice/internal/shared/transport/ws"
	"WordDice/modules/kit/logx"

	"github.com/gin-gonic/gin"
	gogrpc "google.golang.org/grpc"
)

type Module struct {
	wsHandler   *wshandler.WsHandler
	httpHandler *httphandler.HttpHandler
	grpcHandler *grpchandler.GrpcHandler

	requireToken func() bool
}

func New(svc *app.SimulationService, log logx.Logger, requireToken func() bool) *Module {
	sim := handler.NewSimulator(svc, log)
	return &Module{
		wsHandler:    wshandler.NewWsHandler(sim, requireToken),
		httpHandler:  httphandler.NewHttpHandler(sim, requireToken),
		grpcHandler:  grpchandler.NewGrpcHandler(sim),
		requireToken: requireToken,
	}
}

func (m *Module) WsRegister(r *ws.Router) {
	m.wsHandler.RegisterRoutes(r)
}

func (m *Module) HttpRegister(g *gin.RouterGroup) {
	m.httpHandler.RegisterRoutes(g)
}

func (m *Module) GrpcRegister(s gogrpc.ServiceRegistrar) {
	grpchandler.RegisterSimulatorServer(s, m.grpcHandler)
}

// GrpcServerOptions 返回与 HTTP 入口一致的 token 校验；创建 grpc.Server 时传入。
func (m *Module) GrpcServerOptions() []gogrpc.ServerOption {
	return []gogrpc.ServerOption{
		gogrpc.ChainUnaryInterceptor(transportgrpc.UnaryServerAuthInterceptor(m.requireToken, map[string]string{
			grpchandler.TournamentMethod: security.ScopeTournament,
		})),
	}
}

var _ ws.Registrar = (*Module)(nil)
var _ transporthttp.Registrar = (*Module)(nil)
