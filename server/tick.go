package server

import "time"

const (
	// TicksPerSecond 世界推进与广播频率（60 TPS）
	TicksPerSecond = 60
)

var tickInterval = time.Second / TicksPerSecond

// Run 房间主循环（单协程推进世界），直到 Stop
func (r *Room) Run() {
	defer close(r.done)
	ticker := time.NewTicker(r.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.quit:
			r.closeAll()
			return
		case cmd := <-r.Inbox:
			r.handleCommand(cmd)
		case <-ticker.C:
			// 核心循环：推进世界 → 广播结果；输入已在命令到达时写入
			start := time.Now()
			r.step()
			r.Broadcast()
			r.metrics.AddTick(time.Since(start).Nanoseconds())
		}
	}
}

func (r *Room) closeAll() {
	for id, c := range r.conns {
		_ = c.Close()
		delete(r.conns, id)
	}
	r.updateOnline()
}
