package physics

import "github.com/san-kum/gravsim/internal/dynamo"

// ReflectEdges flips and damps the velocity component whose coordinate lies
// outside [0, width] or [0, height]. The position is left where it is, so a
// particle may be drawn just past the edge for a frame.
func ReflectEdges(p *dynamo.Particle, width, height, restitution float64) (hitX, hitY bool) {
	if p.Pos.X < 0 || p.Pos.X > width {
		p.Vel.X *= -restitution
		hitX = true
	}
	if p.Pos.Y < 0 || p.Pos.Y > height {
		p.Vel.Y *= -restitution
		hitY = true
	}
	return hitX, hitY
}
