package dynamo

import (
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"
)

// Attractor is the fixed central mass. It is created once per run.
type Attractor struct {
	Pos    r2.Vec
	Radius float64
	Mass   float64
	Color  colorful.Color
}

// Particle is a moving point mass. FlashFrames counts down the frames left
// in the highlight that follows a bounce; it has no physical effect.
type Particle struct {
	Pos         r2.Vec
	Vel         r2.Vec
	Radius      float64
	Mass        float64
	Color       colorful.Color
	FlashFrames int
}

// Flashing reports whether the renderer should use the highlight color.
func (p Particle) Flashing() bool { return p.FlashFrames > 0 }

// KineticEnergy returns 0.5*m*|v|^2.
func (p Particle) KineticEnergy() float64 {
	return 0.5 * p.Mass * r2.Norm2(p.Vel)
}

// Pointer is a pointer position as delivered by an input feed. Present is
// false when the pointer has left the surface.
type Pointer struct {
	X, Y    float64
	Present bool
}

// At returns a present pointer at (x, y).
func At(x, y float64) Pointer { return Pointer{X: x, Y: y, Present: true} }

// Absent is the pointer value for "not on the surface".
var Absent = Pointer{}

// Vec returns the pointer position as a vector.
func (p Pointer) Vec() r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }

// Repulsor is the pointer proxy. Center is only meaningful when Present.
type Repulsor struct {
	Center       r2.Vec
	Present      bool
	Radius       float64
	BounceFactor float64
}

// Snapshot is the state of one frame. Particles is a private copy.
type Snapshot struct {
	Frame     uint64
	Width     float64
	Height    float64
	Attractor Attractor
	Particles []Particle
	Repulsor  Repulsor
	Bounces   int
}

// KineticEnergy sums the kinetic energy of every particle.
func (s Snapshot) KineticEnergy() float64 {
	total := 0.0
	for _, p := range s.Particles {
		total += p.KineticEnergy()
	}
	return total
}

// Flashing counts particles currently highlighted.
func (s Snapshot) Flashing() int {
	n := 0
	for _, p := range s.Particles {
		if p.Flashing() {
			n++
		}
	}
	return n
}
