package render

import "github.com/charmbracelet/harmonica"

// RingEaser springs the drawn repulsor radius toward the configured one so a
// +/- key press animates instead of jumping. It only affects drawing; the
// collision test always uses the configured radius.
type RingEaser struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
	primed bool
}

func NewRingEaser(fps int) *RingEaser {
	if fps <= 0 {
		fps = 60
	}
	return &RingEaser{spring: harmonica.NewSpring(harmonica.FPS(fps), 8.0, 0.9)}
}

// Update advances one frame toward target and returns the radius to draw.
// The first call snaps to target.
func (e *RingEaser) Update(target float64) float64 {
	if !e.primed {
		e.Snap(target)
		return e.pos
	}
	e.pos, e.vel = e.spring.Update(e.pos, e.vel, target)
	if e.pos < 0 {
		e.pos, e.vel = 0, 0
	}
	return e.pos
}

func (e *RingEaser) Snap(r float64) {
	e.pos, e.vel, e.primed = r, 0, true
}
