package server

// ConnID 表示一条连接的唯一标识（玩家与观众共用）
type ConnID string

// Slot 玩家席位，只有两个固定取值
type Slot string

const (
	SlotPlayer1 Slot = "player1"
	SlotPlayer2 Slot = "player2"
)

// index 席位在 Session.players 中的下标
func (s Slot) index() int {
	if s == SlotPlayer2 {
		return 1
	}
	return 0
}

// StartX 席位对应的出生横坐标
func (s Slot) StartX() float64 {
	if s == SlotPlayer2 {
		return 750
	}
	return 50
}

func (s Slot) Name() string {
	if s == SlotPlayer2 {
		return "Czerwony"
	}
	return "Niebieski"
}

func (s Slot) Color() string {
	if s == SlotPlayer2 {
		return "red"
	}
	return "blue"
}

// Player 场上玩家实体（服务端权威状态）
type Player struct {
	ID    ConnID
	Slot  Slot
	Name  string
	Color string
	X     float64
	Y     float64
	Score int
}

func newPlayer(id ConnID, slot Slot) *Player {
	return &Player{
		ID:    id,
		Slot:  slot,
		Name:  slot.Name(),
		Color: slot.Color(),
		X:     slot.StartX(),
		Y:     FieldHeight / 2,
	}
}

// move 按输入意图移动一步并裁剪到球场范围内
func (p *Player) move(in InputSnapshot) {
	if in.Up {
		p.Y -= PlayerSpeed
	}
	if in.Down {
		p.Y += PlayerSpeed
	}
	if in.Left {
		p.X -= PlayerSpeed
	}
	if in.Right {
		p.X += PlayerSpeed
	}
	p.X = clamp(p.X, 0, FieldWidth)
	p.Y = clamp(p.Y, 0, FieldHeight)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
