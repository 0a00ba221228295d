package config

import "sort"

var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"swarm": derive(func(c *Config) {
		c.Particles = 400
		c.Physics.RadiusMin = 1
		c.Physics.RadiusSpan = 2
		c.Physics.OrbitSpan = 250
	}),
	"bumper": derive(func(c *Config) {
		c.Bounce = true
		c.BounceFactor = 2.5
		c.Radius = 60
	}),
	"lazy": derive(func(c *Config) {
		c.Physics.Gravity = 0.05
		c.Physics.OrbitSpeed = 0.35
		c.Physics.Damping = 0.995
	}),
	"pinball": derive(func(c *Config) {
		c.Bounce = true
		c.BounceFactor = 1.1
		c.Radius = 25
		c.Physics.Restitution = 1
		c.Physics.Damping = 1
		c.Palette = []string{"#ff6ec7", "#00f0ff", "#f9f871"}
	}),
}

func derive(fn func(*Config)) *Config {
	c := DefaultConfig()
	fn(c)
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
