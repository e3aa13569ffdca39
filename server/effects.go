package server

import "golang.org/x/exp/rand"

// Particle 进球彩带粒子，纯展示用
type Particle struct {
	X     float64
	Y     float64
	VX    float64
	VY    float64
	Size  float64
	Color string
	Life  int // 剩余 Tick 数
}

// Effects 彩带集合，无顺序约定
type Effects struct {
	Particles []Particle
}

// SpawnBurst 在指定位置一次性生成 ConfettiBurst 个粒子，初速度偏向上方
func (e *Effects) SpawnBurst(x, y float64, color string, rng *rand.Rand) {
	for i := 0; i < ConfettiBurst; i++ {
		e.Particles = append(e.Particles, Particle{
			X:     x,
			Y:     y,
			VX:    (rng.Float64() - 0.5) * 6,
			VY:    (rng.Float64() - 1) * 6,
			Size:  rng.Float64()*4 + 2,
			Color: color,
			Life:  ConfettiLife,
		})
	}
}

// Tick 推进所有粒子（重力下落），寿命耗尽即移除
func (e *Effects) Tick() {
	alive := e.Particles[:0]
	for _, p := range e.Particles {
		p.X += p.VX
		p.Y += p.VY
		p.VY += ConfettiGravity
		p.Life--
		if p.Life > 0 {
			alive = append(alive, p)
		}
	}
	e.Particles = alive
}
