package server

import (
	"math"
	"testing"

	"golang.org/x/exp/rand"
)

func TestBallTrailKeepsNewestPositions(t *testing.T) {
	b := newBall()
	var seen []Point
	for i := 0; i < 15; i++ {
		b.advance()
		seen = append(seen, Point{X: b.X, Y: b.Y})
	}
	if len(b.Trail) != TrailLength {
		t.Fatalf("trail length = %d, want %d", len(b.Trail), TrailLength)
	}
	for i, p := range b.Trail {
		if want := seen[len(seen)-TrailLength+i]; p != want {
			t.Fatalf("trail[%d] = %+v, want %+v", i, p, want)
		}
	}
}

func TestBallSpeedClampedAfterDamping(t *testing.T) {
	b := newBall()
	b.VX, b.VY = 10, 0
	b.advance()
	if math.Abs(b.Speed()-BallMaxSpeed) > 1e-9 {
		t.Fatalf("speed = %v, want %v", b.Speed(), BallMaxSpeed)
	}
	if b.VX <= 0 || b.VY != 0 {
		t.Fatalf("direction changed: (%v, %v)", b.VX, b.VY)
	}

	b.VX, b.VY = 3, 0
	b.advance()
	if math.Abs(b.VX-3*BallDamping) > 1e-12 {
		t.Fatalf("vx = %v, want damped %v", b.VX, 3*BallDamping)
	}
}

func TestBallReflectsOnInstantPosition(t *testing.T) {
	b := newBall()
	b.Y, b.VY, b.VX = 1, -3, 0
	b.advance()
	if b.Y != -2 {
		t.Fatalf("y = %v, want overshoot to -2", b.Y)
	}
	if math.Abs(b.VY-3*BallDamping) > 1e-12 {
		t.Fatalf("vy = %v, want %v", b.VY, 3*BallDamping)
	}
}

func TestBallDeflectsAwayFromPlayer(t *testing.T) {
	p := &Player{X: 100, Y: 100}
	b := newBall()
	b.X, b.Y, b.VX, b.VY = 110, 100, -6, 1

	if !b.deflect(p) {
		t.Fatalf("expected collision at distance 10")
	}
	if math.Abs(b.VX-BounceSpeed) > 1e-9 || math.Abs(b.VY) > 1e-9 {
		t.Fatalf("velocity = (%v, %v), want (%v, 0)", b.VX, b.VY, BounceSpeed)
	}

	b.X, b.Y, b.VX, b.VY = 100, 100+PlayerRadius+BallRadius, 1, 1
	if b.deflect(p) {
		t.Fatalf("touching at exactly the radius sum must not collide")
	}
	if b.VX != 1 || b.VY != 1 {
		t.Fatalf("velocity changed without collision")
	}
}

func TestBallResetRandomizesSignsOnly(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	b := newBall()
	signs := map[[2]bool]bool{}
	for i := 0; i < 200; i++ {
		b.advance()
		b.reset(rng)
		if math.Abs(b.VX) != ServeSpeedX || math.Abs(b.VY) != ServeSpeedY {
			t.Fatalf("velocity = (%v, %v)", b.VX, b.VY)
		}
		if len(b.Trail) != 0 {
			t.Fatalf("trail not cleared")
		}
		signs[[2]bool{b.VX > 0, b.VY > 0}] = true
	}
	if len(signs) != 4 {
		t.Fatalf("saw %d sign combinations, want 4", len(signs))
	}
}
