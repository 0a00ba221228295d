package render

import (
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/spatial/r2"
)

// DriftConfig tunes the ambient field shown while gravity is stopped.
type DriftConfig struct {
	Count       int
	Speed       float64
	RadiusMax   float64
	Opacity     float64
	LinkDist    float64
	LinkOpacity float64
}

func DefaultDrift() DriftConfig {
	return DriftConfig{
		Count:       80,
		Speed:       6,
		RadiusMax:   5,
		Opacity:     0.5,
		LinkDist:    150,
		LinkOpacity: 0.4,
	}
}

type Dot struct {
	Pos    r2.Vec
	Vel    r2.Vec
	Radius float64
}

// Drift is a field of dots wandering in straight lines and linked to their
// neighbours. It implements sim.Sibling: Destroy drops the dots, Show
// reseeds them when needed.
type Drift struct {
	mu      sync.Mutex
	cfg     DriftConfig
	rng     *rand.Rand
	width   float64
	height  float64
	dots    []Dot
	visible bool
}

func NewDrift(cfg DriftConfig, width, height float64, rng *rand.Rand) *Drift {
	return &Drift{cfg: cfg, rng: rng, width: width, height: height}
}

func (d *Drift) Show() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.dots == nil {
		d.seed()
	}
	d.visible = true
}

func (d *Drift) Hide() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.visible = false
}

func (d *Drift) Destroy() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dots = nil
	d.visible = false
}

func (d *Drift) Visible() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.visible
}

func (d *Drift) Resize(width, height float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.width, d.height = width, height
}

// Step moves every dot one frame. A dot leaving one edge re-enters at the
// opposite one.
func (d *Drift) Step() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.visible {
		return
	}
	for i := range d.dots {
		p := &d.dots[i]
		p.Pos = r2.Add(p.Pos, p.Vel)
		p.Pos.X = wrap(p.Pos.X, p.Radius, d.width)
		p.Pos.Y = wrap(p.Pos.Y, p.Radius, d.height)
	}
}

// Dots returns a copy of the field.
func (d *Drift) Dots() []Dot {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Dot, len(d.dots))
	copy(out, d.dots)
	return out
}

// Links pairs every two dots closer than LinkDist, fading with distance.
func (d *Drift) Links() []Link {
	d.mu.Lock()
	defer d.mu.Unlock()
	var links []Link
	for i := 0; i < len(d.dots); i++ {
		for j := i + 1; j < len(d.dots); j++ {
			a, b := d.dots[i].Pos, d.dots[j].Pos
			dist := r2.Norm(r2.Sub(a, b))
			if dist >= d.cfg.LinkDist {
				continue
			}
			links = append(links, Link{From: a, To: b, Alpha: d.cfg.LinkOpacity * (1 - dist/d.cfg.LinkDist)})
		}
	}
	return links
}

func (d *Drift) Opacity() float64 { return d.cfg.Opacity }

func (d *Drift) seed() {
	d.dots = make([]Dot, d.cfg.Count)
	for i := range d.dots {
		d.dots[i] = Dot{
			Pos: r2.Vec{X: d.rng.Float64() * d.width, Y: d.rng.Float64() * d.height},
			Vel: r2.Vec{
				X: (d.rng.Float64() - 0.5) * d.cfg.Speed,
				Y: (d.rng.Float64() - 0.5) * d.cfg.Speed,
			},
			Radius: 1 + d.rng.Float64()*(d.cfg.RadiusMax-1),
		}
	}
}

func wrap(v, r, limit float64) float64 {
	switch {
	case v-r > limit:
		return -r
	case v+r < 0:
		return limit + r
	}
	return v
}
