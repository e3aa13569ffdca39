package server

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrRoomClosed 房间协程已退出，命令无法投递
var ErrRoomClosed = errors.New("room closed")

// Conn 房间向连接发送数据的最小接口，ClientConn 与测试桩都实现它
type Conn interface {
	Send([]byte) error
	Close() error
}

// RoomConfig 房间级参数
type RoomConfig struct {
	MatchDuration time.Duration
	TickInterval  time.Duration
}

// Room 房间世界：一个协程独占 Session，按序处理入站命令与 Tick，二者绝不并发
type Room struct {
	ID string

	Inbox   chan any
	session *Session
	conns   map[ConnID]Conn // 全部连接：玩家 + 满员后留下的观众
	metrics *RoomMetrics

	tickInterval time.Duration
	quit         chan struct{}
	done         chan struct{}
}

// 入站命令，全部经 Inbox 串行进入房间协程
type joinCmd struct {
	ID    ConnID
	Conn  Conn
	Reply chan<- JoinResult
}

// JoinResult Accepted 为 false 时连接已收到 full，仅作为观众
type JoinResult struct {
	Slot     Slot
	Accepted bool
}

type inputCmd struct {
	ID    ConnID
	Input InputSnapshot
}

type chatCmd struct {
	ID      ConnID
	Payload json.RawMessage
}

type leaveCmd struct {
	ID ConnID
}

type configCmd struct {
	MatchDuration time.Duration // 0 表示只读取
	Reply         chan<- time.Duration
}

// NewRoom 创建房间，初始化数据结构；调用方负责 go r.Run()
func NewRoom(id string, cfg RoomConfig) *Room {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = tickInterval
	}
	return &Room{
		ID:           id,
		Inbox:        make(chan any, 256), // 足够缓冲，避免网络读阻塞影响 Tick
		session:      NewSession(cfg.MatchDuration),
		conns:        make(map[ConnID]Conn),
		metrics:      &RoomMetrics{},
		tickInterval: cfg.TickInterval,
		quit:         make(chan struct{}),
		done:         make(chan struct{}),
	}
}

func (r *Room) Metrics() *RoomMetrics { return r.metrics }

// Stop 通知房间协程退出并等待其结束
func (r *Room) Stop() {
	select {
	case <-r.quit:
	default:
		close(r.quit)
	}
	<-r.done
}

func (r *Room) send(ctx context.Context, cmd any) error {
	select {
	case r.Inbox <- cmd:
		return nil
	case <-r.quit:
		return ErrRoomClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Join 登记连接并分配席位，返回后连接已收到 playerType 或 full
func (r *Room) Join(ctx context.Context, id ConnID, c Conn) (JoinResult, error) {
	reply := make(chan JoinResult, 1)
	if err := r.send(ctx, joinCmd{ID: id, Conn: c, Reply: reply}); err != nil {
		return JoinResult{}, err
	}
	select {
	case res := <-reply:
		return res, nil
	case <-r.done:
		return JoinResult{}, ErrRoomClosed
	case <-ctx.Done():
		// 命令已入队，房间仍会登记该连接；紧随其后排一个离开，避免席位被占住
		r.RequestLeave(id)
		return JoinResult{}, ctx.Err()
	}
}

// OnInput 入站输入（不立即改变位置），仅覆盖意图，等下一次 Tick 处理
func (r *Room) OnInput(id ConnID, in InputSnapshot) {
	_ = r.send(context.Background(), inputCmd{ID: id, Input: in})
}

func (r *Room) OnChat(id ConnID, payload json.RawMessage) {
	_ = r.send(context.Background(), chatCmd{ID: id, Payload: payload})
}

// RequestLeave 请求在房间协程中移除连接，避免并发改动房间状态
func (r *Room) RequestLeave(id ConnID) {
	_ = r.send(context.Background(), leaveCmd{ID: id})
}

// MatchDuration 读取当前比赛时长
func (r *Room) MatchDuration(ctx context.Context) (time.Duration, error) {
	return r.configure(ctx, 0)
}

// SetMatchDuration 热更新比赛时长，返回生效后的值
func (r *Room) SetMatchDuration(ctx context.Context, d time.Duration) (time.Duration, error) {
	return r.configure(ctx, d)
}

func (r *Room) configure(ctx context.Context, d time.Duration) (time.Duration, error) {
	reply := make(chan time.Duration, 1)
	if err := r.send(ctx, configCmd{MatchDuration: d, Reply: reply}); err != nil {
		return 0, err
	}
	select {
	case v := <-reply:
		return v, nil
	case <-r.done:
		return 0, ErrRoomClosed
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func (r *Room) handleCommand(cmd any) {
	switch c := cmd.(type) {
	case joinCmd:
		r.handleJoin(c)
	case inputCmd:
		if r.session.SetInput(c.ID, c.Input) {
			r.metrics.IncAccepted()
		} else {
			r.metrics.IncIgnored()
		}
	case chatCmd:
		r.relayChat(c.ID, c.Payload)
	case leaveCmd:
		r.handleLeave(c.ID)
	case configCmd:
		if c.MatchDuration > 0 {
			r.session.SetMatchDuration(c.MatchDuration)
			Log.Infof("room=%s match duration set to %s", r.ID, r.session.MatchDuration())
		}
		c.Reply <- r.session.MatchDuration()
	}
}

func (r *Room) handleJoin(c joinCmd) {
	r.conns[c.ID] = c.Conn
	wasActive := r.session.MatchActive()
	slot, ok := r.session.Connect(c.ID)
	defer r.updateOnline()

	if !ok {
		r.metrics.IncRejected()
		r.sendTo(c.Conn, EventFull, nil)
		Log.Infof("room=%s conn=%s rejected: room full", r.ID, c.ID)
		c.Reply <- JoinResult{}
		return
	}
	r.sendTo(c.Conn, EventPlayerType, slot)
	Log.Infof("room=%s conn=%s joined as %s", r.ID, c.ID, slot)
	if !wasActive && r.session.MatchActive() {
		Log.Infof("room=%s match started (%s)", r.ID, r.session.MatchDuration())
	}
	c.Reply <- JoinResult{Slot: slot, Accepted: true}
}

// handleLeave 只有入座玩家离开才会重置比赛；观众离开不影响对局
func (r *Room) handleLeave(id ConnID) {
	c, ok := r.conns[id]
	if !ok {
		return
	}
	delete(r.conns, id)
	_ = c.Close()
	if r.session.Disconnect(id) {
		Log.Infof("room=%s conn=%s left; match reset", r.ID, id)
	} else {
		Log.Debugf("room=%s spectator %s left", r.ID, id)
	}
	r.updateOnline()
}

// relayChat 原样转发给除发送者外的所有连接，不改动任何状态
func (r *Room) relayChat(from ConnID, payload json.RawMessage) {
	if _, ok := r.conns[from]; !ok {
		return
	}
	if len(payload) == 0 {
		payload = json.RawMessage("null")
	}
	b, err := EncodeRaw(EventChat, payload)
	if err != nil {
		r.metrics.IncBadMessage()
		return
	}
	for id, c := range r.conns {
		if id == from {
			continue
		}
		r.deliver(c, b)
	}
	r.metrics.IncChatRelayed()
}

// step 推进一帧并记录事件
func (r *Room) step() {
	ev := r.session.Tick()
	if ev.Scored != "" {
		r.metrics.IncGoal()
		p1, p2 := r.scores()
		Log.Infof("room=%s goal for %s, score %d:%d", r.ID, ev.Scored, p1, p2)
	}
	if ev.MatchEnded {
		r.metrics.IncMatchEnded()
		p1, p2 := r.scores()
		Log.Infof("room=%s match ended %d:%d", r.ID, p1, p2)
	}
}

func (r *Room) scores() (int, int) {
	var a, b int
	if p := r.session.Player(SlotPlayer1); p != nil {
		a = p.Score
	}
	if p := r.session.Player(SlotPlayer2); p != nil {
		b = p.Score
	}
	return a, b
}

// Broadcast 将当前世界状态广播给所有连接（完整快照）
func (r *Room) Broadcast() {
	b, err := Encode(EventGameState, r.session.Snapshot())
	if err != nil {
		Log.Errorf("room=%s encode state: %v", r.ID, err)
		return
	}
	for _, c := range r.conns {
		r.deliver(c, b)
	}
}

func (r *Room) sendTo(c Conn, event string, payload any) {
	b, err := Encode(event, payload)
	if err != nil {
		Log.Errorf("room=%s encode %s: %v", r.ID, event, err)
		return
	}
	r.deliver(c, b)
}

func (r *Room) deliver(c Conn, b []byte) {
	if err := c.Send(b); err != nil {
		r.metrics.IncBroadcastDrop()
	}
}

func (r *Room) updateOnline() {
	players := r.session.NumPlayers()
	r.metrics.SetOnline(players, len(r.conns)-players)
}
