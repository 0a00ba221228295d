package analysis

import (
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravsim/internal/dynamo"
)

type Point struct{ X, Y float64 }

// PhasePortrait2D is a cloud of points in a 2D phase space.
type PhasePortrait2D struct {
	XLabel, YLabel string
	Points         []Point
}

// RadialPortrait places each particle by its distance to the attractor
// and its velocity along that direction. Settled orbits sit near Y=0;
// bounced particles show up as outliers.
func RadialPortrait(snap dynamo.Snapshot) *PhasePortrait2D {
	portrait := &PhasePortrait2D{
		XLabel: "distance",
		YLabel: "radial velocity",
		Points: make([]Point, 0, len(snap.Particles)),
	}
	for _, p := range snap.Particles {
		d := r2.Sub(p.Pos, snap.Attractor.Pos)
		dist := r2.Norm(d)
		vr := 0.0
		if dist > 0 {
			vr = r2.Dot(p.Vel, d) / dist
		}
		portrait.Points = append(portrait.Points, Point{X: dist, Y: vr})
	}
	return portrait
}

// PhasePortraitToASCII draws the portrait on a width x height grid, with
// axes where zero is in range.
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y
	for _, p := range portrait.Points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	// pad by 10%
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, p := range portrait.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
