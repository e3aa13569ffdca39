package server

import "time"

// MatchClock 比赛计时：inactive -> active -> ended，重置后回到 inactive
type MatchClock struct {
	duration time.Duration
	start    time.Time
	active   bool
	ended    bool
}

func newMatchClock(d time.Duration) MatchClock {
	if d <= 0 {
		d = DefaultMatchDuration
	}
	return MatchClock{duration: d}
}

// Start 记录开赛时间并清除终场标记
func (c *MatchClock) Start(now time.Time) {
	c.start = now
	c.active = true
	c.ended = false
}

func (c *MatchClock) Reset() {
	c.start = time.Time{}
	c.active = false
	c.ended = false
}

func (c *MatchClock) Active() bool { return c.active }
func (c *MatchClock) Ended() bool  { return c.ended }

func (c *MatchClock) Duration() time.Duration { return c.duration }

func (c *MatchClock) SetDuration(d time.Duration) {
	if d > 0 {
		c.duration = d
	}
}

// Expired 已开赛且用时达到时长
func (c *MatchClock) Expired(now time.Time) bool {
	return c.active && now.Sub(c.start) >= c.duration
}

func (c *MatchClock) End() { c.ended = true }

// Remaining 剩余整秒数；未开赛时返回完整时长
func (c *MatchClock) Remaining(now time.Time) int {
	total := int(c.duration / time.Second)
	if !c.active {
		return total
	}
	left := total - int(now.Sub(c.start)/time.Second)
	if left < 0 {
		return 0
	}
	return left
}
