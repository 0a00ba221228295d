package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravsim/internal/dynamo"
)

const (
	DefaultFPS    = 60
	DefaultWidth  = 1280.0
	DefaultHeight = 800.0
	DefaultFrames = 600
)

type Config struct {
	Particles    int             `yaml:"particles"`
	Seed         int64           `yaml:"seed"`
	Bounce       bool            `yaml:"bounce"`
	FPS          int             `yaml:"fps"`
	Width        float64         `yaml:"width"`
	Height       float64         `yaml:"height"`
	Frames       int             `yaml:"frames"`
	BounceFactor float64         `yaml:"bounce_factor"`
	Radius       float64         `yaml:"radius"`
	Attractor    AttractorConfig `yaml:"attractor"`
	Physics      PhysicsConfig   `yaml:"physics"`
	Palette      []string        `yaml:"palette"`
}

type AttractorConfig struct {
	Radius float64 `yaml:"radius"`
	Mass   float64 `yaml:"mass"`
	Color  string  `yaml:"color"`
}

type PhysicsConfig struct {
	Gravity     float64 `yaml:"gravity"`
	Damping     float64 `yaml:"damping"`
	Restitution float64 `yaml:"restitution"`
	FlashFrames int     `yaml:"flash_frames"`
	OrbitMin    float64 `yaml:"orbit_min"`
	OrbitSpan   float64 `yaml:"orbit_span"`
	RadiusMin   float64 `yaml:"radius_min"`
	RadiusSpan  float64 `yaml:"radius_span"`
	OrbitSpeed  float64 `yaml:"orbit_speed"`
	PushOut     float64 `yaml:"push_out"`
	LineMaxDist float64 `yaml:"line_max_dist"`
}

func DefaultConfig() *Config {
	return &Config{
		Particles:    dynamo.DefaultParticleCount,
		FPS:          DefaultFPS,
		Width:        DefaultWidth,
		Height:       DefaultHeight,
		Frames:       DefaultFrames,
		BounceFactor: dynamo.DefaultBounceFactor,
		Radius:       dynamo.DefaultRadius,
		Attractor: AttractorConfig{
			Radius: dynamo.DefaultAttractorR,
			Mass:   dynamo.DefaultAttractorMass,
			Color:  dynamo.DefaultAttractorColor,
		},
		Physics: PhysicsConfig{
			Gravity:     dynamo.DefaultGravity,
			Damping:     dynamo.DefaultDamping,
			Restitution: dynamo.DefaultRestitution,
			FlashFrames: dynamo.DefaultFlashFrames,
			OrbitMin:    dynamo.DefaultOrbitMin,
			OrbitSpan:   dynamo.DefaultOrbitSpan,
			RadiusMin:   dynamo.DefaultRadiusMin,
			RadiusSpan:  dynamo.DefaultRadiusSpan,
			OrbitSpeed:  dynamo.DefaultOrbitSpeed,
			PushOut:     dynamo.DefaultPushOut,
			LineMaxDist: dynamo.DefaultLineMaxDist,
		},
		Palette: append([]string(nil), dynamo.DefaultPalette...),
	}
}

// Load reads a YAML file over the defaults. Keys absent from the file keep
// their default value.
func Load(path string) (*Config, error) {
	return LoadOver(DefaultConfig(), path)
}

// LoadOver reads a YAML file over base, which is modified in place.
func LoadOver(base *Config, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, base); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return base, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Palette = append([]string(nil), c.Palette...)
	return &cp
}

// Tuning converts the physics and population fields.
func (c *Config) Tuning() dynamo.Tuning {
	return dynamo.Tuning{
		Gravity:         c.Physics.Gravity,
		Damping:         c.Physics.Damping,
		Restitution:     c.Physics.Restitution,
		FlashFrames:     c.Physics.FlashFrames,
		ParticleCount:   c.Particles,
		OrbitMin:        c.Physics.OrbitMin,
		OrbitSpan:       c.Physics.OrbitSpan,
		RadiusMin:       c.Physics.RadiusMin,
		RadiusSpan:      c.Physics.RadiusSpan,
		OrbitSpeed:      c.Physics.OrbitSpeed,
		PushOut:         c.Physics.PushOut,
		AttractorRadius: c.Attractor.Radius,
		AttractorMass:   c.Attractor.Mass,
		AttractorColor:  c.Attractor.Color,
		Palette:         append([]string(nil), c.Palette...),
	}
}

// Validate checks the run fields and the tuning. BounceFactor and Radius
// are not checked; settings fall back to defaults on their own.
func (c *Config) Validate() error {
	if c.FPS <= 0 {
		return fmt.Errorf("config: fps must be positive, got %d", c.FPS)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("config: surface must be positive, got %gx%g", c.Width, c.Height)
	}
	if c.Frames < 0 {
		return fmt.Errorf("config: frames must not be negative, got %d", c.Frames)
	}
	if c.Physics.LineMaxDist < 0 {
		return fmt.Errorf("config: line_max_dist must not be negative, got %g", c.Physics.LineMaxDist)
	}
	if err := c.Tuning().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
