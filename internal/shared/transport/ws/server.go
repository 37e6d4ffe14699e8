package ws

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"WordDice/internal/shared/security"
	"WordDice/modules/kit/logx"
)

type Server struct {
	router     *Router
	needSecret bool
	upgrader   websocket.Upgrader
	log        logx.Logger
}

func NewServer(r *Router, needSecret bool, l logx.Logger) *Server {
	if l == nil {
		l = logx.Nop()
	}
	return &Server{
		router:     r,
		needSecret: needSecret,
		upgrader: websocket.Upgrader{
			// 允许所有CORS跨域请求
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: l,
	}
}

func (s *Server) Register(rs ...Registrar) {
	for _, r := range rs {
		r.WsRegister(s.router)
	}
}

func (s *Server) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	wsConn, err := s.upgrader.Upgrade(resp, req, nil)
	if err != nil {
		s.log.Error("websocket upgrade error", zap.Error(err))
		return
	}
	s.log.Info("websocket upgrade success", zap.String("addr", wsConn.RemoteAddr().String()))
	// 超限时 gorilla 回 1009 并让 ReadMessage 报错，读循环随之关闭连接
	wsConn.SetReadLimit(security.MaxFrameSize)

	wsServer := NewWsServer(wsConn, s.needSecret, s.log)
	wsServer.Router(s.router)
	// 先握手再开读写循环，保证客户端收到的第一帧是 handshake
	wsServer.handshake()
	wsServer.Run()
}
