package server

import (
	"sync/atomic"
)

// RoomMetrics 记录房间运行期的关键指标（用于监控与调试）
// 计数器由房间协程写入，HTTP 协程读取，全部走 atomic
type RoomMetrics struct {
	TickCount        int64 // 统计的 Tick 次数
	TotalTickNs      int64 // Tick 累计耗时（纳秒），含广播
	InputsAccepted   int64 // 写入输入快照的次数
	InputsIgnored    int64 // 未入座连接发来的输入
	ChatsRelayed     int64 // 转发的聊天消息数
	JoinsRejected    int64 // 满员被拒（收到 full）的连接数
	Goals            int64
	MatchesEnded     int64
	BroadcastDrops   int64 // 发送队列满或连接已关闭而丢弃的帧
	BadMessages      int64 // 无法解析的入站帧
	PlayersOnline    int64
	SpectatorsOnline int64
}

func (m *RoomMetrics) IncAccepted() { atomic.AddInt64(&m.InputsAccepted, 1) }
func (m *RoomMetrics) IncIgnored() { atomic.AddInt64(&m.InputsIgnored, 1) }
func (m *RoomMetrics) IncChatRelayed() { atomic.AddInt64(&m.ChatsRelayed, 1) }
func (m *RoomMetrics) IncRejected() { atomic.AddInt64(&m.JoinsRejected, 1) }
func (m *RoomMetrics) IncGoal() { atomic.AddInt64(&m.Goals, 1) }
func (m *RoomMetrics) IncMatchEnded() { atomic.AddInt64(&m.MatchesEnded, 1) }
func (m *RoomMetrics) IncBroadcastDrop() { atomic.AddInt64(&m.BroadcastDrops, 1) }
func (m *RoomMetrics) IncBadMessage() { atomic.AddInt64(&m.BadMessages, 1) }
func (m *RoomMetrics) AddTick(ns int64) {
	atomic.AddInt64(&m.TickCount, 1)
	atomic.AddInt64(&m.TotalTickNs, ns)
}

// SetOnline 更新在线人数（玩家 / 观众）
func (m *RoomMetrics) SetOnline(players, spectators int) {
	atomic.StoreInt64(&m.PlayersOnline, int64(players))
	atomic.StoreInt64(&m.SpectatorsOnline, int64(spectators))
}

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *RoomMetrics) Snapshot() map[string]any {
	tick := atomic.LoadInt64(&m.TickCount)
	total := atomic.LoadInt64(&m.TotalTickNs)
	var avgMs float64
	if tick > 0 {
		avgMs = float64(total) / float64(tick) / 1e6
	}
	return map[string]any{
		"tick_count":        tick,
		"avg_tick_ms":       avgMs,
		"inputs_accepted":   atomic.LoadInt64(&m.InputsAccepted),
		"inputs_ignored":    atomic.LoadInt64(&m.InputsIgnored),
		"chats_relayed":     atomic.LoadInt64(&m.ChatsRelayed),
		"joins_rejected":    atomic.LoadInt64(&m.JoinsRejected),
		"goals":             atomic.LoadInt64(&m.Goals),
		"matches_ended":     atomic.LoadInt64(&m.MatchesEnded),
		"broadcast_drops":   atomic.LoadInt64(&m.BroadcastDrops),
		"bad_messages":      atomic.LoadInt64(&m.BadMessages),
		"players_online":    atomic.LoadInt64(&m.PlayersOnline),
		"spectators_online": atomic.LoadInt64(&m.SpectatorsOnline),
	}
}
