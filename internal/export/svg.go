package export

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/render"
)

// SnapshotToSVG draws one frame the way the window host does.
func SnapshotToSVG(snap dynamo.Snapshot, style render.Style) string {
	return svgDocument(snap, style, nil)
}

// SVGRenderer is a sim.Renderer that keeps the last frame and, optionally,
// the recent path of every particle, and writes them as an SVG document.
type SVGRenderer struct {
	style    render.Style
	trailLen int
	last     dynamo.Snapshot
	trails   [][]r2.Vec
	frames   int
}

// NewSVGRenderer records up to trailLen positions per particle; zero
// disables trails.
func NewSVGRenderer(style render.Style, trailLen int) *SVGRenderer {
	return &SVGRenderer{style: style, trailLen: trailLen}
}

func (r *SVGRenderer) Attach(width, height float64) error {
	r.last = dynamo.Snapshot{Width: width, Height: height}
	r.trails = nil
	r.frames = 0
	return nil
}

func (r *SVGRenderer) Draw(snap dynamo.Snapshot) {
	r.last = snap
	r.frames++
	if r.trailLen <= 0 {
		return
	}
	if len(r.trails) != len(snap.Particles) {
		r.trails = make([][]r2.Vec, len(snap.Particles))
	}
	for i, p := range snap.Particles {
		t := append(r.trails[i], p.Pos)
		if len(t) > r.trailLen {
			t = t[1:]
		}
		r.trails[i] = t
	}
}

func (r *SVGRenderer) Hide() {}

// Frames returns the number of snapshots drawn since Attach.
func (r *SVGRenderer) Frames() int { return r.frames }

func (r *SVGRenderer) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, svgDocument(r.last, r.style, r.trails))
	return int64(n), err
}

// WriteFile writes the document to path.
func (r *SVGRenderer) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := r.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func svgDocument(snap dynamo.Snapshot, st render.Style, trails [][]r2.Vec) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, snap.Width, snap.Height, snap.Width, snap.Height, st.Background.Hex()))

	for i, t := range trails {
		if len(t) < 2 || i >= len(snap.Particles) {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-opacity="0.35" stroke-width="1" d="%s"/>
`, snap.Particles[i].Color.Hex(), pathData(t)))
	}

	a := snap.Attractor
	for _, l := range st.Links(snap) {
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-opacity="%.3f" stroke-width="1"/>
`, l.From.X, l.From.Y, l.To.X, l.To.Y, st.Line.Hex(), l.Alpha))
	}

	sb.WriteString(circle(a.Pos, a.Radius, a.Color, 1))

	if rep := snap.Repulsor; rep.Present {
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" fill-opacity="%.1f" stroke="%s" stroke-opacity="%.1f" stroke-width="%.0f"/>
`, rep.Center.X, rep.Center.Y, rep.Radius, st.Ring.Hex(), render.RingFill, st.Ring.Hex(), render.RingStroke, render.RingWidth))
		sb.WriteString(circle(rep.Center, render.MarkerRadius, st.Highlight, 1))
	}

	for _, p := range snap.Particles {
		sb.WriteString(circle(p.Pos, p.Radius, st.ParticleColor(p), 1))
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

func circle(c r2.Vec, r float64, fill colorful.Color, opacity float64) string {
	if opacity >= 1 {
		return fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, c.X, c.Y, r, fill.Hex())
	}
	return fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" fill-opacity="%.2f"/>
`, c.X, c.Y, r, fill.Hex(), opacity)
}

func pathData(points []r2.Vec) string {
	var sb strings.Builder
	for i, p := range points {
		if i == 0 {
			sb.WriteString(fmt.Sprintf("M%.1f,%.1f", p.X, p.Y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", p.X, p.Y))
		}
	}
	return sb.String()
}

// OnFrame records snap, so the renderer can also observe a headless run.
func (r *SVGRenderer) OnFrame(snap dynamo.Snapshot) { r.Draw(snap) }
