package physics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravsim/internal/dynamo"
)

const tol = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < tol }

func sun() dynamo.Attractor {
	return dynamo.Attractor{Pos: r2.Vec{}, Radius: 30, Mass: 2000}
}

func TestApplyGravity(t *testing.T) {
	p := dynamo.Particle{Pos: r2.Vec{X: 100}, Radius: 2, Mass: 1}

	if !ApplyGravity(&p, sun(), 0.1) {
		t.Fatal("expected force to be applied")
	}
	// 2000 / 100² * 0.1 along -x
	if !near(p.Vel.X, -0.02) || !near(p.Vel.Y, 0) {
		t.Errorf("expected velocity (-0.02, 0), got (%g, %g)", p.Vel.X, p.Vel.Y)
	}
}

func TestApplyGravityInverseSquare(t *testing.T) {
	near1 := dynamo.Particle{Pos: r2.Vec{Y: 100}, Radius: 2}
	far := dynamo.Particle{Pos: r2.Vec{Y: 200}, Radius: 2}
	ApplyGravity(&near1, sun(), 0.1)
	ApplyGravity(&far, sun(), 0.1)

	ratio := near1.Vel.Y / far.Vel.Y
	if !near(ratio, 4) {
		t.Errorf("expected 4x acceleration at half the distance, got %g", ratio)
	}
}

func TestApplyGravitySkipsInsideCombinedRadius(t *testing.T) {
	for _, x := range []float64{0, 10, 32} {
		p := dynamo.Particle{Pos: r2.Vec{X: x}, Vel: r2.Vec{X: 1, Y: 2}, Radius: 2}
		if ApplyGravity(&p, sun(), 0.1) {
			t.Errorf("x=%g: expected no force inside combined radius", x)
		}
		if p.Vel != (r2.Vec{X: 1, Y: 2}) {
			t.Errorf("x=%g: velocity changed to %v", x, p.Vel)
		}
	}
}

func repulsorAt(x, y float64) dynamo.Repulsor {
	return dynamo.Repulsor{Center: r2.Vec{X: x, Y: y}, Present: true, Radius: 35, BounceFactor: 1.5}
}

func TestResolveRepulsorReflectionLaw(t *testing.T) {
	tests := []struct {
		name string
		pos  r2.Vec
		vel  r2.Vec
	}{
		{"head on", r2.Vec{X: 130, Y: 100}, r2.Vec{X: -3, Y: 0}},
		{"oblique", r2.Vec{X: 120, Y: 120}, r2.Vec{X: -2, Y: 1}},
		{"from below", r2.Vec{X: 100, Y: 70}, r2.Vec{X: 0.5, Y: 4}},
	}
	rep := repulsorAt(100, 100)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := dynamo.Particle{Pos: tt.pos, Vel: tt.vel, Radius: 2}
			n := r2.Unit(r2.Sub(tt.pos, rep.Center))
			dot := r2.Dot(tt.vel, n)
			if dot >= 0 {
				t.Fatalf("bad fixture: particle not approaching (dot=%g)", dot)
			}
			want := r2.Scale(rep.BounceFactor, r2.Sub(tt.vel, r2.Scale(2*dot, n)))

			if !ResolveRepulsor(&p, rep, 2, 10) {
				t.Fatal("expected a bounce")
			}
			if !near(p.Vel.X, want.X) || !near(p.Vel.Y, want.Y) {
				t.Errorf("expected velocity %v, got %v", want, p.Vel)
			}
			if p.FlashFrames != 10 {
				t.Errorf("expected flash 10, got %d", p.FlashFrames)
			}
			if d := r2.Norm(r2.Sub(p.Pos, rep.Center)); !near(d, 35+2+2) {
				t.Errorf("expected particle pushed to distance 39, got %g", d)
			}
		})
	}
}

func TestResolveRepulsorNoBounceWhenReceding(t *testing.T) {
	rep := repulsorAt(100, 100)
	p := dynamo.Particle{Pos: r2.Vec{X: 120, Y: 100}, Vel: r2.Vec{X: 3, Y: 1}, Radius: 2}

	if !Probe(p, rep).Colliding {
		t.Fatal("bad fixture: particle should be inside the repulsor")
	}
	if ResolveRepulsor(&p, rep, 2, 10) {
		t.Error("expected no bounce for a receding particle")
	}
	if p.Vel != (r2.Vec{X: 3, Y: 1}) || p.Pos != (r2.Vec{X: 120, Y: 100}) || p.FlashFrames != 0 {
		t.Errorf("particle modified: %+v", p)
	}
}

func TestResolveRepulsorTangentialIsNotReflected(t *testing.T) {
	rep := repulsorAt(100, 100)
	p := dynamo.Particle{Pos: r2.Vec{X: 120, Y: 100}, Vel: r2.Vec{X: 0, Y: 5}, Radius: 2}
	if ResolveRepulsor(&p, rep, 2, 10) {
		t.Error("expected no bounce when v·n == 0")
	}
}

func TestProbeLookAhead(t *testing.T) {
	rep := repulsorAt(100, 100)
	// 100 away now, 10 away after one frame
	p := dynamo.Particle{Pos: r2.Vec{X: 200, Y: 100}, Vel: r2.Vec{X: -90, Y: 0}, Radius: 2}

	c := Probe(p, rep)
	if c.Dist < c.Reach {
		t.Fatalf("bad fixture: already inside (dist=%g)", c.Dist)
	}
	if !c.Colliding {
		t.Fatal("expected look-ahead to detect the collision")
	}

	if !ResolveRepulsor(&p, rep, 2, 10) {
		t.Fatal("expected a bounce")
	}
	if p.Vel.X <= 0 {
		t.Errorf("expected particle sent back, got vx=%g", p.Vel.X)
	}
	if !near(p.Vel.X, 135) {
		t.Errorf("expected vx=135, got %g", p.Vel.X)
	}
}

func TestProbeMissesWithoutOverlap(t *testing.T) {
	rep := repulsorAt(100, 100)
	p := dynamo.Particle{Pos: r2.Vec{X: 200, Y: 100}, Vel: r2.Vec{X: -1, Y: 0}, Radius: 2}
	if Probe(p, rep).Colliding {
		t.Error("expected no collision")
	}
}

func TestResolveRepulsorAtCentre(t *testing.T) {
	rep := repulsorAt(100, 100)
	p := dynamo.Particle{Pos: r2.Vec{X: 100, Y: 100}, Vel: r2.Vec{X: 2, Y: 0}, Radius: 2}

	if !ResolveRepulsor(&p, rep, 2, 10) {
		t.Fatal("expected a bounce at the centre")
	}
	for _, v := range []float64{p.Vel.X, p.Vel.Y, p.Pos.X, p.Pos.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("non-finite state after centre hit: %+v", p)
		}
	}
	if !near(p.Vel.X, -3) {
		t.Errorf("expected velocity reversed and amplified to -3, got %g", p.Vel.X)
	}
	if !near(p.Pos.X, 100-39) {
		t.Errorf("expected particle pushed against its motion to x=61, got %g", p.Pos.X)
	}
}

func TestResolveRepulsorAbsent(t *testing.T) {
	rep := repulsorAt(100, 100)
	rep.Present = false
	p := dynamo.Particle{Pos: r2.Vec{X: 110, Y: 100}, Vel: r2.Vec{X: -1}, Radius: 2}
	if ResolveRepulsor(&p, rep, 2, 10) {
		t.Error("expected no bounce without a pointer")
	}
}

func TestReflectEdges(t *testing.T) {
	tests := []struct {
		name       string
		pos, vel   r2.Vec
		want       r2.Vec
		hitX, hitY bool
	}{
		{"inside", r2.Vec{X: 50, Y: 50}, r2.Vec{X: -5, Y: 5}, r2.Vec{X: -5, Y: 5}, false, false},
		{"left", r2.Vec{X: -1, Y: 50}, r2.Vec{X: -5, Y: 1}, r2.Vec{X: 4.5, Y: 1}, true, false},
		{"right", r2.Vec{X: 101, Y: 50}, r2.Vec{X: 10, Y: 1}, r2.Vec{X: -9, Y: 1}, true, false},
		{"top", r2.Vec{X: 50, Y: -2}, r2.Vec{X: 1, Y: -2}, r2.Vec{X: 1, Y: 1.8}, false, true},
		{"corner", r2.Vec{X: 101, Y: 101}, r2.Vec{X: 1, Y: 1}, r2.Vec{X: -0.9, Y: -0.9}, true, true},
		{"on edge", r2.Vec{X: 0, Y: 100}, r2.Vec{X: -1, Y: 1}, r2.Vec{X: -1, Y: 1}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := dynamo.Particle{Pos: tt.pos, Vel: tt.vel}
			hx, hy := ReflectEdges(&p, 100, 100, 0.9)
			if hx != tt.hitX || hy != tt.hitY {
				t.Errorf("expected hits (%v, %v), got (%v, %v)", tt.hitX, tt.hitY, hx, hy)
			}
			if !near(p.Vel.X, tt.want.X) || !near(p.Vel.Y, tt.want.Y) {
				t.Errorf("expected velocity %v, got %v", tt.want, p.Vel)
			}
			if p.Pos != tt.pos {
				t.Errorf("position must not be clamped, got %v", p.Pos)
			}
		})
	}
}
