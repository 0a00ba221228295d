package dynamo

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	DefaultGravity        = 0.1
	DefaultDamping        = 0.999
	DefaultRestitution    = 0.9
	DefaultFlashFrames    = 10
	DefaultParticleCount  = 150
	DefaultOrbitMin       = 100.0
	DefaultOrbitSpan      = 150.0
	DefaultRadiusMin      = 2.0
	DefaultRadiusSpan     = 4.0
	DefaultOrbitSpeed     = 0.5
	DefaultPushOut        = 2.0
	DefaultLineMaxDist    = 250.0
	DefaultAttractorR     = 30.0
	DefaultAttractorMass  = 2000.0
	DefaultAttractorColor = "#ffdd00"
	DefaultHighlightColor = "#ffffff"
	DefaultBackground     = "#0a192f"
)

// DefaultPalette is the set of particle colors picked from at spawn.
var DefaultPalette = []string{"#ff7e7e", "#7eff8e", "#7ee0ff", "#ffffff"}

// Tuning holds the numeric constants of a run. The defaults reproduce the
// visual tuning the simulation was designed around.
type Tuning struct {
	Gravity       float64
	Damping       float64
	Restitution   float64
	FlashFrames   int
	ParticleCount int
	OrbitMin      float64
	OrbitSpan     float64
	RadiusMin     float64
	RadiusSpan    float64
	OrbitSpeed    float64
	PushOut       float64

	AttractorRadius float64
	AttractorMass   float64
	AttractorColor  string
	Palette         []string
}

func DefaultTuning() Tuning {
	return Tuning{
		Gravity:         DefaultGravity,
		Damping:         DefaultDamping,
		Restitution:     DefaultRestitution,
		FlashFrames:     DefaultFlashFrames,
		ParticleCount:   DefaultParticleCount,
		OrbitMin:        DefaultOrbitMin,
		OrbitSpan:       DefaultOrbitSpan,
		RadiusMin:       DefaultRadiusMin,
		RadiusSpan:      DefaultRadiusSpan,
		OrbitSpeed:      DefaultOrbitSpeed,
		PushOut:         DefaultPushOut,
		AttractorRadius: DefaultAttractorR,
		AttractorMass:   DefaultAttractorMass,
		AttractorColor:  DefaultAttractorColor,
		Palette:         append([]string(nil), DefaultPalette...),
	}
}

// Validate checks every field and returns a *TuningError for the first
// offending one.
func (t Tuning) Validate() error {
	checks := []struct {
		field string
		value float64
		ok    bool
	}{
		{"gravity", t.Gravity, t.Gravity >= 0},
		{"damping", t.Damping, t.Damping > 0 && t.Damping <= 1},
		{"restitution", t.Restitution, t.Restitution >= 0 && t.Restitution <= 1},
		{"flash_frames", float64(t.FlashFrames), t.FlashFrames >= 0},
		{"particles", float64(t.ParticleCount), t.ParticleCount > 0},
		{"orbit_min", t.OrbitMin, t.OrbitMin >= 0},
		{"orbit_span", t.OrbitSpan, t.OrbitSpan >= 0},
		{"radius_min", t.RadiusMin, t.RadiusMin > 0},
		{"radius_span", t.RadiusSpan, t.RadiusSpan >= 0},
		{"orbit_speed", t.OrbitSpeed, t.OrbitSpeed >= 0},
		{"push_out", t.PushOut, t.PushOut >= 0},
		{"attractor.radius", t.AttractorRadius, t.AttractorRadius >= 0},
		{"attractor.mass", t.AttractorMass, t.AttractorMass >= 0},
	}
	for _, c := range checks {
		if !c.ok || math.IsNaN(c.value) || math.IsInf(c.value, 0) {
			return &TuningError{Field: c.field, Value: c.value, Wrapped: ErrInvalidTuning}
		}
	}
	if _, err := colorful.Hex(t.AttractorColor); err != nil {
		return &TuningError{Field: "attractor.color", Value: t.AttractorColor, Wrapped: err}
	}
	if len(t.Palette) == 0 {
		return &TuningError{Field: "palette", Value: t.Palette, Wrapped: ErrInvalidTuning}
	}
	for i, hex := range t.Palette {
		if _, err := colorful.Hex(hex); err != nil {
			return &TuningError{Field: fmt.Sprintf("palette[%d]", i), Value: hex, Wrapped: err}
		}
	}
	return nil
}

// Colors parses the attractor color and the palette. Call Validate first;
// unparsable entries fall back to white here.
func (t Tuning) Colors() (attractor colorful.Color, palette []colorful.Color) {
	attractor = MustColor(t.AttractorColor)
	palette = make([]colorful.Color, len(t.Palette))
	for i, hex := range t.Palette {
		palette[i] = MustColor(hex)
	}
	return attractor, palette
}

// MustColor parses a #rrggbb string, returning white when it does not parse.
func MustColor(hex string) colorful.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{R: 1, G: 1, B: 1}
	}
	return c
}
