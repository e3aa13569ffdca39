package server

import (
	"time"

	"golang.org/x/exp/rand"
)

// TickEvents 单个 Tick 内发生的、房间需要记录的事件
type TickEvents struct {
	Scored     Slot // 本 Tick 的得分方，空表示没有进球
	MatchEnded bool
}

// Session 一场比赛的全部可变状态；不加锁，由房间协程独占访问
type Session struct {
	players [2]*Player
	inputs  map[ConnID]InputSnapshot
	ball    Ball
	effects Effects
	clock   MatchClock

	goalText  string
	goalTimer int

	now func() time.Time
	rng *rand.Rand
}

// NewSession 创建会话，球位于中圈，比赛未开始
func NewSession(matchDuration time.Duration) *Session {
	return &Session{
		inputs: make(map[ConnID]InputSnapshot),
		ball:   newBall(),
		clock:  newMatchClock(matchDuration),
		now:    time.Now,
		rng:    rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
	}
}

// Connect 分配席位：空房给 player1，一人时给剩下的席位，满员拒绝且不改动任何状态
func (s *Session) Connect(id ConnID) (Slot, bool) {
	if p := s.player(id); p != nil {
		return p.Slot, true
	}
	var slot Slot
	switch {
	case s.players[0] == nil:
		slot = SlotPlayer1
	case s.players[1] == nil:
		slot = SlotPlayer2
	default:
		return "", false
	}
	s.players[slot.index()] = newPlayer(id, slot)
	s.inputs[id] = InputSnapshot{}

	if s.NumPlayers() == 2 && !s.clock.Active() {
		s.clock.Start(s.now())
	}
	return slot, true
}

// SetInput 覆盖该连接的输入快照；未入座的连接直接忽略
func (s *Session) SetInput(id ConnID, in InputSnapshot) bool {
	if _, ok := s.inputs[id]; !ok {
		return false
	}
	s.inputs[id] = in
	return true
}

// Disconnect 移除玩家，并无条件重置比赛全局状态（计时、球、播报），比分随玩家一起离开
func (s *Session) Disconnect(id ConnID) bool {
	p := s.player(id)
	if p == nil {
		return false
	}
	s.players[p.Slot.index()] = nil
	delete(s.inputs, id)

	s.clock.Reset()
	s.ball.reset(s.rng)
	s.goalText = ""
	s.goalTimer = 0
	return true
}

// Tick 推进一帧：计时判定 → 玩家移动 → 球 → 碰撞 → 进球 → 播报计时 → 彩带
func (s *Session) Tick() TickEvents {
	var ev TickEvents
	if s.clock.Ended() {
		return ev
	}
	if s.clock.Expired(s.now()) {
		s.clock.End()
		if v, ok := s.verdict(); ok {
			s.goalText = v
		}
		ev.MatchEnded = true
		return ev
	}

	for _, p := range s.players {
		if p != nil {
			p.move(s.inputs[p.ID])
		}
	}

	s.ball.advance()
	for _, p := range s.players {
		if p != nil {
			s.ball.deflect(p)
		}
	}

	if inGoalMouth(s.ball.Y) {
		switch {
		case s.ball.X < 0:
			s.goal(SlotPlayer2, GoalTextRed, ConfettiRed)
			ev.Scored = SlotPlayer2
		case s.ball.X > FieldWidth:
			s.goal(SlotPlayer1, GoalTextBlue, ConfettiBlue)
			ev.Scored = SlotPlayer1
		}
	}

	// 进球当帧刚置满的播报计时不扣减，从下一帧开始倒数
	if ev.Scored == "" && s.goalTimer > 0 {
		s.goalTimer--
	}
	s.effects.Tick()
	return ev
}

func (s *Session) goal(scorer Slot, text, color string) {
	if p := s.players[scorer.index()]; p != nil {
		p.Score++
	}
	s.goalText = text
	s.goalTimer = GoalBannerTicks
	s.effects.SpawnBurst(FieldWidth/2, FieldHeight/2, color, s.rng)
	s.ball.reset(s.rng)
}

// verdict 终场文案，两席都在时才有意义
func (s *Session) verdict() (string, bool) {
	p1, p2 := s.players[0], s.players[1]
	if p1 == nil || p2 == nil {
		return "", false
	}
	switch {
	case p1.Score > p2.Score:
		return VerdictBlue, true
	case p2.Score > p1.Score:
		return VerdictRed, true
	default:
		return VerdictDraw, true
	}
}

func (s *Session) player(id ConnID) *Player {
	for _, p := range s.players {
		if p != nil && p.ID == id {
			return p
		}
	}
	return nil
}

// Player 返回席位上的玩家，空席返回 nil
func (s *Session) Player(slot Slot) *Player {
	return s.players[slot.index()]
}

func (s *Session) NumPlayers() int {
	n := 0
	for _, p := range s.players {
		if p != nil {
			n++
		}
	}
	return n
}

func (s *Session) MatchActive() bool { return s.clock.Active() }

func (s *Session) MatchDuration() time.Duration { return s.clock.Duration() }

// SetMatchDuration 热更新比赛时长，对进行中的比赛立即生效
func (s *Session) SetMatchDuration(d time.Duration) { s.clock.SetDuration(d) }

// Snapshot 生成广播用的完整状态副本
func (s *Session) Snapshot() GameState {
	st := GameState{
		Players:    make([]PlayerState, 0, 2),
		Confetti:   make([]ConfettiState, 0, len(s.effects.Particles)),
		GoalText:   s.goalText,
		GoalTimer:  s.goalTimer,
		Remaining:  s.clock.Remaining(s.now()),
		MatchEnded: s.clock.Ended(),
		Ball: BallState{
			X:     s.ball.X,
			Y:     s.ball.Y,
			VX:    s.ball.VX,
			VY:    s.ball.VY,
			Trail: append(make([]Point, 0, len(s.ball.Trail)), s.ball.Trail...),
		},
	}
	for _, p := range s.players {
		if p == nil {
			continue
		}
		st.Players = append(st.Players, PlayerState{
			ID:    string(p.ID),
			Type:  p.Slot,
			Name:  p.Name,
			X:     p.X,
			Y:     p.Y,
			Color: p.Color,
			Score: p.Score,
		})
	}
	for _, c := range s.effects.Particles {
		st.Confetti = append(st.Confetti, ConfettiState{
			X:     c.X,
			Y:     c.Y,
			Size:  c.Size,
			Color: c.Color,
			Life:  c.Life,
		})
	}
	return st
}
