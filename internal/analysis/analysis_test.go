package analysis

import (
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravsim/internal/dynamo"
)

func TestDominantPeriod(t *testing.T) {
	series := make([]float64, 200)
	for i := range series {
		series[i] = 50 + 3*math.Sin(2*math.Pi*float64(i)/20)
	}

	period, ok := DominantPeriod(series)
	if !ok {
		t.Fatal("expected a period")
	}
	if math.Abs(period-20) > 1e-9 {
		t.Errorf("expected period 20, got %f", period)
	}
}

func TestDominantPeriodFlat(t *testing.T) {
	flat := []float64{4, 4, 4, 4, 4, 4, 4, 4}
	if _, ok := DominantPeriod(flat); ok {
		t.Error("expected no period for a flat series")
	}
	if _, ok := DominantPeriod([]float64{1, 2}); ok {
		t.Error("expected no period for a short series")
	}
}

func TestEnergySpectrumLength(t *testing.T) {
	ps := EnergySpectrum(make([]float64, 101))
	if len(ps) != 50 {
		t.Errorf("expected 50 bins, got %d", len(ps))
	}
	if EnergySpectrum(nil) != nil {
		t.Error("expected nil spectrum for empty series")
	}
}

func TestRadialPortrait(t *testing.T) {
	snap := dynamo.Snapshot{
		Attractor: dynamo.Attractor{Pos: r2.Vec{X: 100, Y: 100}},
		Particles: []dynamo.Particle{
			{Pos: r2.Vec{X: 110, Y: 100}, Vel: r2.Vec{X: 2, Y: 5}},
			{Pos: r2.Vec{X: 100, Y: 70}, Vel: r2.Vec{X: 1, Y: 3}},
			{Pos: r2.Vec{X: 100, Y: 100}, Vel: r2.Vec{X: 1, Y: 1}},
		},
	}

	portrait := RadialPortrait(snap)
	if len(portrait.Points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(portrait.Points))
	}
	if got := portrait.Points[0]; got != (Point{X: 10, Y: 2}) {
		t.Errorf("expected (10, 2), got %+v", got)
	}
	if got := portrait.Points[1]; got != (Point{X: 30, Y: -3}) {
		t.Errorf("expected (30, -3), got %+v", got)
	}
	if got := portrait.Points[2]; got != (Point{}) {
		t.Errorf("expected origin for a particle on the attractor, got %+v", got)
	}
}

func TestPhasePortraitToASCII(t *testing.T) {
	portrait := &PhasePortrait2D{Points: []Point{{X: 10, Y: -2}, {X: 40, Y: 3}}}

	out := PhasePortraitToASCII(portrait, 30, 8)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 8 {
		t.Fatalf("expected 8 rows, got %d", len(lines))
	}
	for i, l := range lines {
		if n := utf8.RuneCountInString(l); n != 30 {
			t.Errorf("row %d: expected 30 runes, got %d", i, n)
		}
	}
	if strings.Count(out, "•") != 2 {
		t.Errorf("expected 2 points drawn, got %d", strings.Count(out, "•"))
	}
	if !strings.Contains(out, "─") {
		t.Error("expected the zero velocity axis")
	}

	if PhasePortraitToASCII(&PhasePortrait2D{}, 30, 8) != "" {
		t.Error("expected empty output for an empty portrait")
	}
}
