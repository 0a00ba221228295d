package automation

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/export"
	"github.com/san-kum/gravsim/internal/render"
	"github.com/san-kum/gravsim/internal/sim"
)

// Scenario is a scripted sequence of headless runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run. Zero fields keep the value of the preset, or of
// the base config when no preset is named.
type ScenarioStep struct {
	Name         string  `yaml:"name"`
	Preset       string  `yaml:"preset"`
	Frames       int     `yaml:"frames"`
	Seed         int64   `yaml:"seed"`
	Bounce       *bool   `yaml:"bounce"`
	BounceFactor float64 `yaml:"bounce_factor"`
	Radius       float64 `yaml:"radius"`
	Pointer      string  `yaml:"pointer"`
	SVG          string  `yaml:"svg"`
	Trail        int     `yaml:"trail"`
}

// StepResult pairs a step with its run. Escaped counts particles outside
// the surface after the last frame.
type StepResult struct {
	Name    string
	Result  *sim.Result
	Escaped int
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s: no steps", path)
	}
	return &scenario, nil
}

// Runner executes scenarios on top of a base config.
type Runner struct {
	Base       *config.Config
	NewMetrics func() []sim.Metric
	Logger     *log.Logger
}

// Run executes every step in order and stops at the first failing one.
func (r *Runner) Run(ctx context.Context, scenario *Scenario) ([]StepResult, error) {
	logger := r.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step %d", i+1)
		}
		logger.Info("running scenario step", "scenario", scenario.Name, "step", name, "n", i+1, "of", len(scenario.Steps))

		res, err := r.runStep(ctx, step)
		if err != nil {
			return results, fmt.Errorf("step %d (%s): %w", i+1, name, err)
		}
		results = append(results, StepResult{Name: name, Result: res, Escaped: Escaped(res.Final)})
	}

	return results, nil
}

func (r *Runner) runStep(ctx context.Context, step ScenarioStep) (*sim.Result, error) {
	cfg, err := r.stepConfig(step)
	if err != nil {
		return nil, err
	}

	rc := sim.RunConfig{
		Frames:        cfg.Frames,
		Width:         cfg.Width,
		Height:        cfg.Height,
		Seed:          cfg.Seed,
		BounceEnabled: cfg.Bounce,
		BounceFactor:  cfg.BounceFactor,
		Radius:        cfg.Radius,
	}
	if step.Pointer != "" {
		path, err := sim.ParsePointerPath(step.Pointer, cfg.Width, cfg.Height)
		if err != nil {
			return nil, err
		}
		rc.Pointer = path
		rc.BounceEnabled = true
	}

	runner := sim.NewRunner(cfg.Tuning())
	if r.Logger != nil {
		runner.SetLogger(r.Logger)
	}
	if r.NewMetrics != nil {
		for _, m := range r.NewMetrics() {
			runner.AddMetric(m)
		}
	}
	var svg *export.SVGRenderer
	if step.SVG != "" {
		style := render.DefaultStyle()
		style.LineMaxDist = cfg.Physics.LineMaxDist
		svg = export.NewSVGRenderer(style, step.Trail)
		runner.AddObserver(svg)
	}

	res, err := runner.Run(ctx, rc)
	if err != nil {
		return nil, err
	}
	if svg != nil {
		if err := svg.WriteFile(step.SVG); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (r *Runner) stepConfig(step ScenarioStep) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if r.Base != nil {
		cfg = r.Base.Clone()
	}
	if step.Preset != "" {
		cfg = config.GetPreset(step.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", step.Preset)
		}
	}

	if step.Frames != 0 {
		cfg.Frames = step.Frames
	}
	if step.Seed != 0 {
		cfg.Seed = step.Seed
	}
	if step.Bounce != nil {
		cfg.Bounce = *step.Bounce
	}
	if step.BounceFactor != 0 {
		cfg.BounceFactor = step.BounceFactor
	}
	if step.Radius != 0 {
		cfg.Radius = step.Radius
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Escaped counts particles outside the surface of snap.
func Escaped(snap dynamo.Snapshot) int {
	n := 0
	for _, p := range snap.Particles {
		if p.Pos.X < 0 || p.Pos.Y < 0 || p.Pos.X > snap.Width || p.Pos.Y > snap.Height {
			n++
		}
	}
	return n
}
