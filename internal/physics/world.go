package physics

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// StepInput is everything a frame reads from outside the world: the pointer
// and the repulsor settings current at the time of the step.
type StepInput struct {
	Pointer      dynamo.Pointer
	BounceFactor float64
	Radius       float64
}

// World is the state of one run. It is not safe for concurrent use.
type World struct {
	tuning    dynamo.Tuning
	attractor dynamo.Attractor
	particles []dynamo.Particle
	width     float64
	height    float64
	frame     uint64
	repulsor  dynamo.Repulsor
	bounces   int
}

// NewWorld builds a fresh run: the attractor at the centre of the surface and
// a newly sampled particle batch.
func NewWorld(t dynamo.Tuning, width, height float64, rng *rand.Rand) (*World, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: surface %gx%g", dynamo.ErrSurfaceUnavailable, width, height)
	}
	color, palette := t.Colors()
	a := dynamo.Attractor{
		Pos:    r2.Vec{X: width / 2, Y: height / 2},
		Radius: t.AttractorRadius,
		Mass:   t.AttractorMass,
		Color:  color,
	}
	return NewWorldFrom(t, a, Spawn(rng, t, a, palette), width, height), nil
}

// NewWorldFrom builds a world around explicit bodies. The particle slice is
// copied.
func NewWorldFrom(t dynamo.Tuning, a dynamo.Attractor, particles []dynamo.Particle, width, height float64) *World {
	ps := make([]dynamo.Particle, len(particles))
	copy(ps, particles)
	return &World{
		tuning:    t,
		attractor: a,
		particles: ps,
		width:     width,
		height:    height,
	}
}

func (w *World) Len() int                    { return len(w.particles) }
func (w *World) Frame() uint64               { return w.frame }
func (w *World) Attractor() dynamo.Attractor { return w.attractor }
func (w *World) Size() (float64, float64)    { return w.width, w.height }

// Resize changes the bounds used by the edge test. Bodies are not moved.
func (w *World) Resize(width, height float64) {
	if width > 0 {
		w.width = width
	}
	if height > 0 {
		w.height = height
	}
}

// Step advances every particle by one frame and returns the new snapshot.
func (w *World) Step(in StepInput) dynamo.Snapshot {
	t := w.tuning
	w.repulsor = dynamo.Repulsor{
		Center:       in.Pointer.Vec(),
		Present:      in.Pointer.Present,
		Radius:       in.Radius,
		BounceFactor: in.BounceFactor,
	}
	w.bounces = 0

	for i := range w.particles {
		p := &w.particles[i]

		ApplyGravity(p, w.attractor, t.Gravity)
		if ResolveRepulsor(p, w.repulsor, t.PushOut, t.FlashFrames) {
			w.bounces++
		}

		p.Vel = r2.Scale(t.Damping, p.Vel)
		p.Pos = r2.Add(p.Pos, p.Vel)
		ReflectEdges(p, w.width, w.height, t.Restitution)

		if p.FlashFrames > 0 {
			p.FlashFrames--
		}
	}

	w.frame++
	return w.Snapshot()
}

// Snapshot copies the current state.
func (w *World) Snapshot() dynamo.Snapshot {
	ps := make([]dynamo.Particle, len(w.particles))
	copy(ps, w.particles)
	return dynamo.Snapshot{
		Frame:     w.frame,
		Width:     w.width,
		Height:    w.height,
		Attractor: w.attractor,
		Particles: ps,
		Repulsor:  w.repulsor,
		Bounces:   w.bounces,
	}
}
