package server

import "time"

// 球场尺寸与物理参数（单位：像素 / Tick）
const (
	FieldWidth  = 800.0
	FieldHeight = 500.0

	PlayerRadius = 20.0
	BallRadius   = 12.0

	PlayerSpeed = 4.0 // 每个方向每 Tick 的位移，斜向不做归一化

	BallDamping  = 0.99
	BallMaxSpeed = 6.0
	BounceSpeed  = 4.0 // 碰到玩家后的固定速度
	ServeSpeedX  = 3.0
	ServeSpeedY  = 2.0
	TrailLength  = 10

	// 球门口：左右边线上 y 在 (200, 300) 之间
	GoalMouthTop    = 200.0
	GoalMouthBottom = 300.0
	GoalBannerTicks = 120

	ConfettiBurst   = 50
	ConfettiLife    = 60
	ConfettiGravity = 0.2
)

// DefaultMatchDuration 一场比赛的默认时长
const DefaultMatchDuration = 120 * time.Second

// 比分播报与终场文案，前端直接展示
const (
	GoalTextRed  = "GOOOOOL! CZERWONI!"
	GoalTextBlue = "GOOOOOL! NIEBIESCY!"
	VerdictBlue  = "Niebiescy wygrywają!"
	VerdictRed   = "Czerwoni wygrywają!"
	VerdictDraw  = "Remis!"
	ConfettiRed  = "red"
	ConfettiBlue = "cyan"
)
