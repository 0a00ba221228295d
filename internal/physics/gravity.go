package physics

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// ApplyGravity accelerates p toward the attractor by a.Mass/d² * k. It does
// nothing and returns false when p has sunk inside the combined radius, which
// keeps the force bounded near the centre.
func ApplyGravity(p *dynamo.Particle, a dynamo.Attractor, k float64) bool {
	d := r2.Sub(a.Pos, p.Pos)
	d2 := r2.Norm2(d)
	dist := r2.Norm(d)
	if dist <= a.Radius+p.Radius {
		return false
	}
	accel := a.Mass / d2 * k
	p.Vel = r2.Add(p.Vel, r2.Scale(accel/dist, d))
	return true
}
