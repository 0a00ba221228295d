package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/render"
)

// windowRenderer keeps the latest snapshot; App.Draw paints it between
// BeginDrawing and EndDrawing.
type windowRenderer struct {
	style   render.Style
	ring    *render.RingEaser
	visible bool
	last    dynamo.Snapshot
}

func newWindowRenderer(style render.Style, fps int) *windowRenderer {
	return &windowRenderer{style: style, ring: render.NewRingEaser(fps)}
}

func (r *windowRenderer) Attach(width, height float64) error {
	if !rl.IsWindowReady() {
		return dynamo.ErrRendererUnavailable
	}
	r.visible = true
	return nil
}

func (r *windowRenderer) Draw(snap dynamo.Snapshot) { r.last = snap }

func (r *windowRenderer) Hide() { r.visible = false }

func (r *windowRenderer) paint() {
	snap := r.last
	st := r.style

	for _, l := range st.Links(snap) {
		rl.DrawLineV(vec(l.From), vec(l.To), toRL(st.Line, l.Alpha))
	}

	a := snap.Attractor
	rl.DrawCircleV(vec(a.Pos), float32(a.Radius), toRL(a.Color, 1))

	if rep := snap.Repulsor; rep.Present {
		c := vec(rep.Center)
		radius := float32(r.ring.Update(rep.Radius))
		rl.DrawCircleV(c, radius, toRL(st.Ring, render.RingFill))
		rl.DrawRing(c, radius-render.RingWidth/2, radius+render.RingWidth/2, 0, 360, 64, toRL(st.Ring, render.RingStroke))
		rl.DrawCircleV(c, render.MarkerRadius, toRL(st.Highlight, 1))
	}

	for _, p := range snap.Particles {
		rl.DrawCircleV(vec(p.Pos), float32(p.Radius), toRL(st.ParticleColor(p), 1))
	}
}

func (r *windowRenderer) paintDrift(d *render.Drift) {
	st := r.style
	for _, l := range d.Links() {
		rl.DrawLineV(vec(l.From), vec(l.To), toRL(st.Line, l.Alpha))
	}
	for _, p := range d.Dots() {
		rl.DrawCircleV(vec(p.Pos), float32(p.Radius), toRL(st.Highlight, d.Opacity()))
	}
}

func vec(v r2.Vec) rl.Vector2 { return rl.NewVector2(float32(v.X), float32(v.Y)) }

func toRL(c colorful.Color, alpha float64) rl.Color {
	r, g, b := c.Clamped().RGB255()
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	return rl.NewColor(r, g, b, uint8(alpha*255+0.5))
}
