// Package metrics provides per-frame observers that summarise a run.
//
// Every type here satisfies sim.Metric and can be registered on a
// sim.Runner or handed to sim.Ensemble through Default.
package metrics

import "github.com/san-kum/gravsim/internal/dynamo"

// Metric mirrors sim.Metric so this package does not import sim.
type Metric interface {
	Name() string
	Observe(snap dynamo.Snapshot)
	Value() float64
	Reset()
}
