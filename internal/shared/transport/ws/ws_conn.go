package ws

type ReqBody struct {
	Seq  int64  `json:"seq"`
	Name string `json:"name"`
	Msg  any    `json:"msg"`
}

type RespBody struct {
	Seq  int64  `json:"seq"`
	Name string `json:"name"`
	Code int    `json:"code"`
	Msg  any    `json:"msg"`
}

type WsMsgReq struct {
	Body *ReqBody
	Conn WSConn
}

type WsMsgResp struct {
	Body *RespBody
}

// WSConn 是 handler 可见的连接能力：连接属性读写与服务端推送。
type WSConn interface {
	SetProperty(key string, value any)
	GetProperty(key string) any
	RemoveProperty(key string)
	Addr() string
	Push(name string, data any)
	Close()
	// Done 在连接关闭时被关闭
	Done() <-chan struct{}
}

// Registrar 由接口层模块实现。
type Registrar interface {
	WsRegister(r *Router)
}

type Handshake struct {
	Key string `json:"key"`
}

type Heartbeat struct {
	CTime int64 `json:"ctime" mapstructure:"ctime"`
	STime int64 `json:"stime" mapstructure:"stime"`
}

const (
	HandshakeMsg = "handshake"
	HeartbeatMsg = "heartbeat"
	SecretKey    = "secretKey"
)
