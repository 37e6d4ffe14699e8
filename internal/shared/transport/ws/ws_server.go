package ws

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"WordDice/internal/shared/security"
	"WordDice/internal/shared/utils"
	"WordDice/modules/kit/logx"
)

const (
	outQueueSize = 1024
	keyLen       = 16
	writeWait    = 10 * time.Second
)

// WsServer 是单条连接。帧格式见 security.SealFrame；needSecret 为 false 时只压缩不加密。
type WsServer struct {
	conn       *websocket.Conn
	router     *Router
	outChan    chan *WsMsgResp
	property   map[string]any
	needSecret bool
	sync.RWMutex
	writeMu   sync.Mutex
	done      chan struct{}
	closeOnce sync.Once
	log       logx.Logger
}

func NewWsServer(wsConn *websocket.Conn, needSecret bool, l logx.Logger) *WsServer {
	if l == nil {
		l = logx.Nop()
	}
	if wsConn != nil {
		l = logx.With(l, zap.String("addr", wsConn.RemoteAddr().String()))
	}
	return &WsServer{
		conn:       wsConn,
		outChan:    make(chan *WsMsgResp, outQueueSize),
		property:   make(map[string]any),
		needSecret: needSecret,
		done:       make(chan struct{}),
		log:        l,
	}
}

func (s *WsServer) Router(router *Router) {
	s.router = router
}

func (s *WsServer) SetProperty(key string, value any) {
	s.Lock()
	defer s.Unlock()
	s.property[key] = value
}

func (s *WsServer) GetProperty(key string) any {
	s.RLock()
	defer s.RUnlock()
	return s.property[key]
}

func (s *WsServer) RemoveProperty(key string) {
	s.Lock()
	defer s.Unlock()
	delete(s.property, key)
}

func (s *WsServer) Addr() string {
	return s.conn.RemoteAddr().String()
}

// Push 发送服务端主动推送（seq=0）。连接已关闭时直接丢弃。
func (s *WsServer) Push(name string, data any) {
	s.send(&WsMsgResp{Body: &RespBody{Name: name, Msg: data}})
}

func (s *WsServer) send(msg *WsMsgResp) {
	select {
	case s.outChan <- msg:
	case <-s.done:
	}
}

func (s *WsServer) Run() {
	go s.readMsgLoop()
	go s.writeMsgLoop()
}

func (s *WsServer) readMsgLoop() {
	defer func() {
		if err := recover(); err != nil {
			s.log.Error("ws readMsgLoop panic", zap.String("err", fmt.Sprintf("%v", err)))
		}
		s.Close()
	}()
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Warn("ws_server read msg", zap.Error(err))
			}
			return
		}

		plain, err := s.open(data)
		if err != nil {
			s.log.Warn("ws_server readMsgLoop open frame", zap.Error(err))
			// 密钥不一致时重新握手
			s.handshake()
			continue
		}

		reqBody := ReqBody{}
		dec := json.NewDecoder(bytes.NewReader(plain))
		dec.UseNumber()
		if err := dec.Decode(&reqBody); err != nil {
			s.log.Warn("ws_server readMsgLoop unmarshal json error", zap.Error(err))
			continue
		}

		// req 和 resp 的 Seq 必须一致
		resp := WsMsgResp{Body: &RespBody{Seq: reqBody.Seq, Name: reqBody.Name}}
		if reqBody.Name == HeartbeatMsg {
			h := &Heartbeat{}
			if err := mapstructure.WeakDecode(reqBody.Msg, h); err != nil {
				s.log.Debug("ws_server heartbeat decode", zap.Error(err))
			}
			h.STime = time.Now().UnixMilli()
			resp.Body.Msg = h
		} else {
			s.log.Debug("ws_server read msg", zap.String("name", reqBody.Name), zap.Int64("seq", reqBody.Seq))
			s.router.Dispatch(&WsMsgReq{Body: &reqBody, Conn: s}, &resp)
		}

		s.send(&resp)
	}
}

func (s *WsServer) writeMsgLoop() {
	for {
		select {
		case msg := <-s.outChan:
			s.write(msg)
		case <-s.done:
			return
		}
	}
}

func (s *WsServer) Close() {
	s.closeOnce.Do(func() {
		_ = s.conn.Close()
		close(s.done)
	})
}

func (s *WsServer) Done() <-chan struct{} {
	return s.done
}

func (s *WsServer) key() string {
	if v, ok := s.GetProperty(SecretKey).(string); ok {
		return v
	}
	return ""
}

func (s *WsServer) open(frame []byte) ([]byte, error) {
	if !s.needSecret {
		return security.UnZip(frame)
	}
	key := s.key()
	if key == "" {
		return nil, fmt.Errorf("secret key not negotiated")
	}
	return security.OpenFrame(frame, key)
}

func (s *WsServer) seal(plain []byte) ([]byte, error) {
	if !s.needSecret {
		return security.Zip(plain)
	}
	return security.SealFrame(plain, s.key())
}

func (s *WsServer) write(msg *WsMsgResp) {
	marshal, err := json.Marshal(msg.Body)
	if err != nil {
		s.log.Error("ws_server write marshal json error", zap.Error(err))
		return
	}
	if msg.Body.Name != HeartbeatMsg {
		s.log.Debug("ws_server write msg", zap.String("name", msg.Body.Name), zap.Int("code", msg.Body.Code))
	}

	frame, err := s.seal(marshal)
	if err != nil {
		s.log.Error("ws_server write seal error", zap.Error(err))
		return
	}
	s.writeFrame(frame)
}

// writeFrame 压缩后的密文是二进制字节流，必须走 BinaryMessage。
func (s *WsServer) writeFrame(frame []byte) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		s.log.Warn("ws_server write error", zap.Error(err))
	}
}

// handshake 下发密钥。握手帧只压缩不加密；needSecret 为 false 时 key 为空。
func (s *WsServer) handshake() {
	secretKey := ""
	if s.needSecret {
		secretKey = s.key()
		if secretKey == "" {
			secretKey = utils.RandSeq(keyLen)
			s.SetProperty(SecretKey, secretKey)
		}
	}

	data, err := json.Marshal(&RespBody{Name: HandshakeMsg, Msg: &Handshake{Key: secretKey}})
	if err != nil {
		s.log.Error("ws_server handshake marshal json error", zap.Error(err))
		return
	}
	zipData, err := security.Zip(data)
	if err != nil {
		s.log.Error("ws_server handshake zip error", zap.Error(err))
		return
	}
	s.writeFrame(zipData)
}
