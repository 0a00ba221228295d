package physics

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// minContactDist is the distance below which the centre-to-particle normal is
// undefined and the velocity is used to pick one instead.
const minContactDist = 1e-9

// Contact describes a particle/repulsor overlap test.
type Contact struct {
	Dist      float64 // current centre distance
	NextDist  float64 // centre distance after one more frame at the current velocity
	Reach     float64 // repulsor radius plus particle radius
	Normal    r2.Vec  // unit vector from the repulsor centre to the particle
	Colliding bool
}

// Probe tests p against the repulsor using a one-frame look-ahead, so a fast
// particle that would cross the circle between two frames still collides.
func Probe(p dynamo.Particle, rep dynamo.Repulsor) Contact {
	off := r2.Sub(p.Pos, rep.Center)
	next := r2.Sub(r2.Add(p.Pos, p.Vel), rep.Center)
	c := Contact{
		Dist:     r2.Norm(off),
		NextDist: r2.Norm(next),
		Reach:    rep.Radius + p.Radius,
	}
	c.Colliding = c.Dist < c.Reach || c.NextDist < c.Reach

	switch {
	case c.Dist > minContactDist:
		c.Normal = r2.Scale(1/c.Dist, off)
	case r2.Norm(p.Vel) > 0:
		// sitting on the centre: treat the particle as arriving head-on
		c.Normal = r2.Scale(-1, r2.Unit(p.Vel))
	default:
		c.Normal = r2.Vec{X: 1}
	}
	return c
}

// ResolveRepulsor reflects p off the repulsor when it collides and is moving
// toward the centre. The reflected velocity is scaled by rep.BounceFactor and
// the particle is moved to pushOut beyond the contact distance. It reports
// whether a bounce happened; flash is written to p.FlashFrames on a bounce.
func ResolveRepulsor(p *dynamo.Particle, rep dynamo.Repulsor, pushOut float64, flash int) bool {
	if !rep.Present {
		return false
	}
	c := Probe(*p, rep)
	if !c.Colliding {
		return false
	}
	dot := r2.Dot(p.Vel, c.Normal)
	if dot >= 0 {
		return false
	}

	p.Vel = r2.Scale(rep.BounceFactor, Reflect(p.Vel, c.Normal))
	p.Pos = r2.Add(p.Pos, r2.Scale(c.Reach-c.Dist+pushOut, c.Normal))
	p.FlashFrames = flash
	return true
}

// Reflect mirrors v about the plane with unit normal n: v - 2(v·n)n.
func Reflect(v, n r2.Vec) r2.Vec {
	return r2.Sub(v, r2.Scale(2*r2.Dot(v, n), n))
}
