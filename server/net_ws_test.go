package server

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func startServer(t *testing.T) (*RoomManager, string) {
	t.Helper()
	rm := NewRoomManager(RoomConfig{MatchDuration: time.Minute, TickInterval: 5 * time.Millisecond})
	srv := httptest.NewServer(HandleWS(rm))
	t.Cleanup(func() {
		srv.Close()
		rm.Close()
	})
	return rm, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?room=ws-test"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

// readEvent 读取帧直到遇到指定事件
func readEvent(t *testing.T, ws *websocket.Conn, event string, match func(Envelope) bool) Envelope {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	_ = ws.SetReadDeadline(deadline)
	for {
		_, b, err := ws.ReadMessage()
		if err != nil {
			t.Fatalf("read while waiting for %s: %v", event, err)
		}
		env, err := DecodeEnvelope(b)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if env.T == event && (match == nil || match(env)) {
			return env
		}
	}
}

func TestWSSlotAssignmentAndFull(t *testing.T) {
	_, url := startServer(t)

	a := dial(t, url)
	env := readEvent(t, a, EventPlayerType, nil)
	if slot, _ := DecodePayload[Slot](env); slot != SlotPlayer1 {
		t.Fatalf("first connection got %q", slot)
	}
	b := dial(t, url)
	env = readEvent(t, b, EventPlayerType, nil)
	if slot, _ := DecodePayload[Slot](env); slot != SlotPlayer2 {
		t.Fatalf("second connection got %q", slot)
	}
	c := dial(t, url)
	readEvent(t, c, EventFull, nil)
}

func TestWSInputsAndChat(t *testing.T) {
	_, url := startServer(t)
	a := dial(t, url)
	readEvent(t, a, EventPlayerType, nil)
	b := dial(t, url)
	readEvent(t, b, EventPlayerType, nil)

	// 非法帧被丢弃，连接保持
	if err := a.WriteMessage(websocket.TextMessage, []byte("garbage")); err != nil {
		t.Fatal(err)
	}
	if err := a.WriteMessage(websocket.TextMessage, []byte(`{"t":"inputs","p":{"right":true,"up":"x"}}`)); err != nil {
		t.Fatal(err)
	}
	readEvent(t, b, EventGameState, stateMatching(t, func(st GameState) bool {
		return len(st.Players) == 2 && st.Players[0].X > 50 && st.Players[0].Y == FieldHeight/2
	}))

	if err := a.WriteMessage(websocket.TextMessage, []byte(`{"t":"chatMessage","p":{"user":"a","msg":"gg"}}`)); err != nil {
		t.Fatal(err)
	}
	env := readEvent(t, b, EventChat, nil)
	if string(env.P) != `{"user":"a","msg":"gg"}` {
		t.Fatalf("chat payload = %s", env.P)
	}
}

func TestWSDisconnectFreesSlot(t *testing.T) {
	_, url := startServer(t)
	a := dial(t, url)
	readEvent(t, a, EventPlayerType, nil)
	b := dial(t, url)
	readEvent(t, b, EventPlayerType, nil)

	a.Close()
	readEvent(t, b, EventGameState, stateMatching(t, func(st GameState) bool {
		return len(st.Players) == 1
	}))

	c := dial(t, url)
	env := readEvent(t, c, EventPlayerType, nil)
	if slot, _ := DecodePayload[Slot](env); slot != SlotPlayer1 {
		t.Fatalf("rejoin got %q, want freed player1", slot)
	}
}

func TestClientConnCloseIsIdempotentAndStopsSends(t *testing.T) {
	c := NewClientConn(nil)
	if err := c.Send([]byte("x")); err != nil {
		t.Fatalf("send: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			_ = c.Send([]byte("y"))
		}
	}()
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	<-done
	if err := c.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if err := c.Send([]byte("z")); !errors.Is(err, ErrConnClosed) {
		t.Fatalf("send after close = %v, want ErrConnClosed", err)
	}

	// 队列关闭后写协程能立刻读到结束
	n := 0
	for range c.send {
		n++
	}
	if n == 0 {
		t.Fatalf("queued frame lost")
	}
}
