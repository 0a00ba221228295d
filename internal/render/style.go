package render

import (
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravsim/internal/dynamo"
)

const (
	// MarkerRadius is the solid dot drawn at the repulsor centre.
	MarkerRadius = 3.0
	RingFill     = 0.3
	RingStroke   = 0.8
	RingWidth    = 2.0
)

type Style struct {
	Background  colorful.Color
	Highlight   colorful.Color
	Line        colorful.Color
	Ring        colorful.Color
	LineMaxDist float64
}

func DefaultStyle() Style {
	white := dynamo.MustColor(dynamo.DefaultHighlightColor)
	return Style{
		Background:  dynamo.MustColor(dynamo.DefaultBackground),
		Highlight:   white,
		Line:        white,
		Ring:        white,
		LineMaxDist: dynamo.DefaultLineMaxDist,
	}
}

// ParticleColor is the highlight while a bounce flash lasts, the particle's
// own color otherwise.
func (s Style) ParticleColor(p dynamo.Particle) colorful.Color {
	if p.Flashing() {
		return s.Highlight
	}
	return p.Color
}

// LineAlpha is 1 - d/LineMaxDist for d below the threshold. ok is false when
// no link is drawn.
func (s Style) LineAlpha(dist float64) (alpha float64, ok bool) {
	if s.LineMaxDist <= 0 || dist >= s.LineMaxDist {
		return 0, false
	}
	if dist < 0 {
		dist = 0
	}
	return 1 - dist/s.LineMaxDist, true
}

// Over composites c at alpha onto the background, for targets without an
// alpha channel.
func (s Style) Over(c colorful.Color, alpha float64) colorful.Color {
	return s.Background.BlendRgb(c, clamp01(alpha)).Clamped()
}

// Link is a particle-to-attractor line.
type Link struct {
	From, To r2.Vec
	Alpha    float64
}

// Links returns one Link per particle close enough to the attractor, in
// particle order.
func (s Style) Links(snap dynamo.Snapshot) []Link {
	links := make([]Link, 0, len(snap.Particles))
	for _, p := range snap.Particles {
		d := r2.Norm(r2.Sub(p.Pos, snap.Attractor.Pos))
		if a, ok := s.LineAlpha(d); ok {
			links = append(links, Link{From: p.Pos, To: snap.Attractor.Pos, Alpha: a})
		}
	}
	return links
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
