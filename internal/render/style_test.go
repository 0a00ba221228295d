package render

import (
	"math"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravsim/internal/dynamo"
)

func TestLineAlpha(t *testing.T) {
	s := DefaultStyle()
	tests := []struct {
		dist   float64
		alpha  float64
		linked bool
	}{
		{0, 1, true},
		{125, 0.5, true},
		{200, 0.2, true},
		{250, 0, false},
		{400, 0, false},
	}

	for _, tt := range tests {
		a, ok := s.LineAlpha(tt.dist)
		if ok != tt.linked {
			t.Errorf("dist %f: expected linked=%v, got %v", tt.dist, tt.linked, ok)
		}
		if math.Abs(a-tt.alpha) > 1e-12 {
			t.Errorf("dist %f: expected alpha %f, got %f", tt.dist, tt.alpha, a)
		}
	}
}

func TestParticleColor(t *testing.T) {
	s := DefaultStyle()
	red := colorful.Color{R: 1}
	p := dynamo.Particle{Color: red}

	if got := s.ParticleColor(p); got != red {
		t.Errorf("expected own color, got %v", got.Hex())
	}
	p.FlashFrames = 3
	if got := s.ParticleColor(p); got.Hex() != "#ffffff" {
		t.Errorf("expected highlight, got %v", got.Hex())
	}
}

func TestOver(t *testing.T) {
	s := DefaultStyle()
	white := colorful.Color{R: 1, G: 1, B: 1}

	if got := s.Over(white, 0).Hex(); got != dynamo.DefaultBackground {
		t.Errorf("alpha 0 should be background, got %s", got)
	}
	if got := s.Over(white, 1).Hex(); got != "#ffffff" {
		t.Errorf("alpha 1 should be foreground, got %s", got)
	}
}

func TestLinks(t *testing.T) {
	snap := dynamo.Snapshot{
		Attractor: dynamo.Attractor{Pos: r2.Vec{X: 0, Y: 0}},
		Particles: []dynamo.Particle{
			{Pos: r2.Vec{X: 100}},
			{Pos: r2.Vec{X: 300}},
			{Pos: r2.Vec{Y: 50}},
		},
	}

	links := DefaultStyle().Links(snap)
	if len(links) != 2 {
		t.Fatalf("expected 2 links, got %d", len(links))
	}
	if math.Abs(links[0].Alpha-0.6) > 1e-12 {
		t.Errorf("expected alpha 0.6, got %f", links[0].Alpha)
	}
	if links[1].From != (r2.Vec{Y: 50}) {
		t.Errorf("expected second link from the third particle, got %v", links[1].From)
	}
}

func TestRingEaser(t *testing.T) {
	e := NewRingEaser(60)
	if got := e.Update(35); got != 35 {
		t.Fatalf("first update should snap, got %f", got)
	}

	var r float64
	for i := 0; i < 240; i++ {
		r = e.Update(60)
	}
	if math.Abs(r-60) > 0.5 {
		t.Errorf("expected ring to settle near 60, got %f", r)
	}

	e.Snap(10)
	if got := e.Update(10); math.Abs(got-10) > 1e-9 {
		t.Errorf("expected 10 after snap, got %f", got)
	}
}
