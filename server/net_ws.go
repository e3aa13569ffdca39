package server

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	sendQueueSize = 64
	writeWait     = 5 * time.Second
	pongWait      = 60 * time.Second
	pingPeriod    = 25 * time.Second
	maxFrameSize  = 1 << 20 // 1MB
)

var (
	ErrSendQueueFull = errors.New("send queue full")
	ErrConnClosed    = errors.New("connection closed")
)

// ClientConn 负责发送（写）数据到客户端的轻量包装
// 通常由房间协程调用 Send/Close；接入失败时握手协程也会 Close，故加锁
type ClientConn struct {
	ws *websocket.Conn

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

func NewClientConn(ws *websocket.Conn) *ClientConn {
	return &ClientConn{
		ws:   ws,
		send: make(chan []byte, sendQueueSize),
	}
}

// Send 将要发送的消息压入队列（非阻塞，满则丢弃，防止阻塞 Tick）
func (c *ClientConn) Send(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrConnClosed
	}
	select {
	case c.send <- b:
		return nil
	default:
		return ErrSendQueueFull
	}
}

// Close 关闭发送队列，写协程随之发送 close 帧并断开底层连接
func (c *ClientConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	close(c.send)
	return nil
}

// writePump 独立协程，负责从 send 队列写出到 WS，并定时 ping
func (c *ClientConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				Log.Debugf("write: %v", err)
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump 读取客户端帧，按事件分发到房间
func (c *ClientConn) readPump(room *Room, id ConnID) {
	defer c.ws.Close()
	// 读泵退出时，通知房间在房间协程中移除该连接
	defer room.RequestLeave(id)
	c.ws.SetReadLimit(maxFrameSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error { return c.ws.SetReadDeadline(time.Now().Add(pongWait)) })

	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				Log.Debugf("room=%s conn=%s read: %v", room.ID, id, err)
			}
			return
		}
		env, err := DecodeEnvelope(payload)
		if err != nil {
			room.metrics.IncBadMessage()
			continue
		}
		switch env.T {
		case EventInputs:
			room.OnInput(id, ParseInput(env.P))
		case EventChat:
			room.OnChat(id, env.P)
		default:
			room.metrics.IncBadMessage()
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// 演示环境：允许所有来源（生产环境需严格限制）
		return true
	},
}

// HandleWS WebSocket 接入：/ws?room=room-1
// 连接 ID 由服务端生成，客户端无需也无法指定
func HandleWS(rm *RoomManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		room := rm.GetOrCreateRoom(r.URL.Query().Get("room"))

		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			Log.Warnf("upgrade error: %v", err)
			return
		}

		id := ConnID(uuid.NewString())
		client := NewClientConn(ws)
		go client.writePump()

		res, err := room.Join(r.Context(), id, client)
		if err != nil {
			Log.Warnf("room=%s conn=%s join: %v", room.ID, id, err)
			// 关闭发送队列让写协程立即退出并断开底层连接
			_ = client.Close()
			return
		}
		Log.Debugf("room=%s conn=%s from %s accepted=%v", room.ID, id, r.RemoteAddr, res.Accepted)
		go client.readPump(room, id)
	}
}
