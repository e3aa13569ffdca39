package server

import (
	"math"

	"golang.org/x/exp/rand"
)

// Point 平面坐标
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Ball 全局唯一的球，进程内常驻；进球或掉线时复位而不是重建
type Ball struct {
	X     float64
	Y     float64
	VX    float64
	VY    float64
	Trail []Point // 最近 TrailLength 个位置，最旧的在前
}

func newBall() Ball {
	return Ball{
		X:     FieldWidth / 2,
		Y:     FieldHeight / 2,
		VX:    ServeSpeedX,
		VY:    ServeSpeedY,
		Trail: make([]Point, 0, TrailLength+1),
	}
}

// reset 回到中圈，速度分量大小固定，方向随机
func (b *Ball) reset(rng *rand.Rand) {
	b.X = FieldWidth / 2
	b.Y = FieldHeight / 2
	b.VX = randSign(rng) * ServeSpeedX
	b.VY = randSign(rng) * ServeSpeedY
	b.Trail = b.Trail[:0]
}

// advance 积分一步：位移、按瞬时位置反弹、阻尼与限速、记录拖尾
func (b *Ball) advance() {
	b.X += b.VX
	b.Y += b.VY

	if b.Y <= 0 || b.Y >= FieldHeight {
		b.VY = -b.VY
	}
	if b.X <= 0 || b.X >= FieldWidth {
		b.VX = -b.VX
	}

	b.VX *= BallDamping
	b.VY *= BallDamping
	if sp := b.Speed(); sp > BallMaxSpeed {
		k := BallMaxSpeed / sp
		b.VX *= k
		b.VY *= k
	}

	b.Trail = append(b.Trail, Point{X: b.X, Y: b.Y})
	if len(b.Trail) > TrailLength {
		copy(b.Trail, b.Trail[1:])
		b.Trail = b.Trail[:TrailLength]
	}
}

// deflect 与玩家相撞时丢弃原速度，沿两圆心连线以固定速度弹开
func (b *Ball) deflect(p *Player) bool {
	dx := b.X - p.X
	dy := b.Y - p.Y
	if math.Hypot(dx, dy) >= PlayerRadius+BallRadius {
		return false
	}
	a := math.Atan2(dy, dx)
	b.VX = math.Cos(a) * BounceSpeed
	b.VY = math.Sin(a) * BounceSpeed
	return true
}

func (b *Ball) Speed() float64 {
	return math.Hypot(b.VX, b.VY)
}

func inGoalMouth(y float64) bool {
	return y > GoalMouthTop && y < GoalMouthBottom
}

func randSign(rng *rand.Rand) float64 {
	if rng.Float64() > 0.5 {
		return 1
	}
	return -1
}
