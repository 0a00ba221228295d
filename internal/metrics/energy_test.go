package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravsim/internal/dynamo"
)

func snapWith(speeds ...float64) dynamo.Snapshot {
	ps := make([]dynamo.Particle, len(speeds))
	for i, v := range speeds {
		ps[i] = dynamo.Particle{Vel: r2.Vec{X: v}, Mass: 1}
	}
	return dynamo.Snapshot{Particles: ps}
}

func TestKineticEnergyAverage(t *testing.T) {
	m := NewKineticEnergy()

	m.Observe(snapWith(2))    // 2
	m.Observe(snapWith(2, 2)) // 4

	if got := m.Value(); math.Abs(got-3) > 1e-12 {
		t.Errorf("expected mean energy 3, got %f", got)
	}
}

func TestKineticEnergyReset(t *testing.T) {
	m := NewKineticEnergy()
	m.Observe(snapWith(1, 1))
	if m.Value() == 0 {
		t.Error("expected non-zero energy")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyGrowth(t *testing.T) {
	tests := []struct {
		name   string
		speeds []float64
		want   float64
	}{
		{"single frame", []float64{3}, 0},
		{"decaying", []float64{4, 3, 2}, 0},
		{"one rise", []float64{2, 4, 3}, 6},
		{"largest rise wins", []float64{1, 2, 1, 3}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewEnergyGrowth()
			for _, v := range tt.speeds {
				m.Observe(snapWith(v))
			}
			if got := m.Value(); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("expected %f, got %f", tt.want, got)
			}
		})
	}
}

func TestBounces(t *testing.T) {
	m := NewBounces()
	m.Observe(dynamo.Snapshot{Bounces: 2})
	m.Observe(dynamo.Snapshot{Bounces: 0})
	m.Observe(dynamo.Snapshot{Bounces: 3})

	if m.Value() != 5 {
		t.Errorf("expected 5 bounces, got %f", m.Value())
	}
	m.Reset()
	if m.Value() != 0 {
		t.Errorf("expected 0 after reset, got %f", m.Value())
	}
}

func TestDefaultNames(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Default() {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %q", m.Name())
		}
		seen[m.Name()] = true
	}
	for _, name := range []string{"kinetic_energy", "energy_growth", "bounces"} {
		if !seen[name] {
			t.Errorf("missing metric %q", name)
		}
	}
}
