package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// KineticEnergy averages the total kinetic energy of the swarm over the
// observed frames.
type KineticEnergy struct {
	name    string
	total   float64
	samples int
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(snap dynamo.Snapshot) {
	k.total += snap.KineticEnergy()
	k.samples++
}

func (k *KineticEnergy) Value() float64 {
	if k.samples == 0 {
		return 0
	}
	return k.total / float64(k.samples)
}

func (k *KineticEnergy) Reset() {
	k.total = 0
	k.samples = 0
}

// EnergyGrowth tracks the largest frame-to-frame increase in kinetic energy.
// Gravity alone can raise it as particles fall inward; a bounce with a factor
// above one adds energy from outside.
type EnergyGrowth struct {
	name     string
	previous float64
	maxRise  float64
	samples  int
}

func NewEnergyGrowth() *EnergyGrowth {
	return &EnergyGrowth{name: "energy_growth"}
}

func (e *EnergyGrowth) Name() string { return e.name }

func (e *EnergyGrowth) Observe(snap dynamo.Snapshot) {
	ke := snap.KineticEnergy()
	if e.samples > 0 {
		e.maxRise = math.Max(e.maxRise, ke-e.previous)
	}
	e.previous = ke
	e.samples++
}

func (e *EnergyGrowth) Value() float64 { return e.maxRise }

func (e *EnergyGrowth) Reset() {
	e.previous = 0
	e.maxRise = 0
	e.samples = 0
}
