package metrics

import "github.com/san-kum/gravsim/internal/dynamo"

// Bounces counts repulsor reflections across all observed frames.
type Bounces struct {
	name  string
	count int
}

func NewBounces() *Bounces {
	return &Bounces{name: "bounces"}
}

func (b *Bounces) Name() string { return b.name }

func (b *Bounces) Observe(snap dynamo.Snapshot) { b.count += snap.Bounces }

func (b *Bounces) Value() float64 { return float64(b.count) }

func (b *Bounces) Reset() { b.count = 0 }

// Default returns a fresh set of every metric in this package.
func Default() []Metric {
	return []Metric{NewKineticEnergy(), NewEnergyGrowth(), NewBounces()}
}
