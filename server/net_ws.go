package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// ClientConn 负责发送（写）数据到客户端的轻量包装
type ClientConn struct {
	ws      *websocket.Conn
	send    chan []byte
	done    chan struct{}
	once    sync.Once
	limiter *rate.Limiter
}

func NewClientConn(ws *websocket.Conn, limiter *rate.Limiter) *ClientConn {
	return &ClientConn{
		ws:      ws,
		send:    make(chan []byte, 64),
		done:    make(chan struct{}),
		limiter: limiter,
	}
}

// Enqueue 将要发送的消息压入队列（非阻塞，满则丢弃）
func (c *ClientConn) Enqueue(b []byte) {
	select {
	case <-c.done:
	case c.send <- b:
	default:
		// 为了实时性，丢弃（防止阻塞 Tick）
	}
}

// Close 关闭底层连接并结束写协程，可重复调用
func (c *ClientConn) Close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.ws.Close()
	})
}

// writePump 独立协程，负责从 send 队列写出到 WS，并定期发送 ping
func (c *ClientConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer c.Close()
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump 读取客户端消息并分发；退出时通知服务端进入断线流程
func (c *ClientConn) readPump(s *Server, connID string) {
	defer c.Close()
	defer s.Disconnect(connID)
	c.ws.SetReadLimit(1 << 16)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error { c.ws.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		if !c.limiter.Allow() {
			s.metrics.IncRateLimited()
			continue
		}
		s.Dispatch(connID, payload)
	}
}

func originAllowed(allowed []string, origin string) bool {
	if origin == "" {
		return true
	}
	for _, o := range allowed {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}

// HandleWS WebSocket 接入：每个连接一个读协程与一个写协程
func HandleWS(s *Server) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return originAllowed(s.cfg.AllowedOrigins, r.Header.Get("Origin"))
		},
	}
	return func(ctx *gin.Context) {
		ws, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
		if err != nil {
			Log.Warnf("upgrade error: %v", err)
			return
		}

		client := NewClientConn(ws, rate.NewLimiter(rate.Limit(s.cfg.InputRate), s.cfg.InputBurst))
		connID := s.Connect(client)
		Log.Debugf("connection %s opened from %s", connID, ctx.ClientIP())

		go client.writePump()
		go client.readPump(s, connID)
	}
}
