package physics

import (
	"math"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// Spawn places t.ParticleCount particles on a ring around the attractor with
// roughly circular-orbit speed. Radius, color and orbit distance are drawn
// independently per particle.
func Spawn(rng *rand.Rand, t dynamo.Tuning, a dynamo.Attractor, palette []colorful.Color) []dynamo.Particle {
	particles := make([]dynamo.Particle, t.ParticleCount)
	for i := range particles {
		angle := rng.Float64() * 2 * math.Pi
		dist := t.OrbitMin + rng.Float64()*t.OrbitSpan
		sin, cos := math.Sincos(angle)

		speed := 0.0
		if dist > 0 {
			speed = math.Sqrt(a.Mass/dist) * t.OrbitSpeed
		}

		particles[i] = dynamo.Particle{
			Pos:    r2.Add(a.Pos, r2.Vec{X: cos * dist, Y: sin * dist}),
			Vel:    r2.Vec{X: sin * speed, Y: -cos * speed},
			Radius: t.RadiusMin + rng.Float64()*t.RadiusSpan,
			Mass:   1,
			Color:  palette[rng.Intn(len(palette))],
		}
	}
	return particles
}
