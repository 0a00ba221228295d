package sim

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// PointerPath yields the pointer position for a frame of a headless run.
type PointerPath func(frame int) dynamo.Pointer

// StaticPointer parks the pointer at (x, y) for the whole run.
func StaticPointer(x, y float64) PointerPath {
	return func(int) dynamo.Pointer { return dynamo.At(x, y) }
}

// OrbitPointer circles (cx, cy) at the given radius, advancing speed
// radians per frame.
func OrbitPointer(cx, cy, radius, speed float64) PointerPath {
	return func(frame int) dynamo.Pointer {
		a := float64(frame) * speed
		return dynamo.At(cx+radius*math.Cos(a), cy+radius*math.Sin(a))
	}
}

// RunConfig configures a headless run. Zero BounceFactor or Radius use the
// defaults.
type RunConfig struct {
	Frames        int
	Width         float64
	Height        float64
	Seed          int64
	BounceEnabled bool
	BounceFactor  float64
	Radius        float64
	Pointer       PointerPath
}

type Result struct {
	Seed          int64
	Frames        int
	KineticEnergy []float64
	Bounces       int
	Metrics       map[string]float64
	Final         dynamo.Snapshot
}

// FixedSurface is a Surface of constant size.
type FixedSurface struct {
	Width, Height float64
}

func (s FixedSurface) Viewport() (float64, float64, error) {
	if s.Width <= 0 || s.Height <= 0 {
		return 0, 0, fmt.Errorf("viewport %gx%g", s.Width, s.Height)
	}
	return s.Width, s.Height, nil
}

// Runner drives a Loop off-screen with a manual scheduler, one tick per
// frame.
type Runner struct {
	tuning    dynamo.Tuning
	logger    *log.Logger
	metrics   []Metric
	observers []Observer
}

func NewRunner(t dynamo.Tuning) *Runner {
	return &Runner{tuning: t, logger: log.New(io.Discard)}
}

func (r *Runner) AddMetric(m Metric)           { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer)       { r.observers = append(r.observers, o) }
func (r *Runner) SetLogger(logger *log.Logger) { r.logger = logger }

func (r *Runner) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if err := validateRunConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Seed:          cfg.Seed,
		KineticEnergy: make([]float64, 0, cfg.Frames),
		Metrics:       make(map[string]float64),
	}
	for _, m := range r.metrics {
		m.Reset()
	}

	rec := &recorder{result: result, metrics: r.metrics, observers: r.observers}
	sched := NewManualScheduler()
	feed := NewPointerFeed()
	loop := New(rec, FixedSurface{Width: cfg.Width, Height: cfg.Height}, sched,
		WithInputFeed(feed),
		WithTuning(r.tuning),
		WithSeed(cfg.Seed),
		WithLogger(r.logger),
	)
	loop.Settings().Set(cfg.BounceFactor, cfg.Radius)

	if err := loop.Start(StartConfig{BounceEnabled: cfg.BounceEnabled}); err != nil {
		return nil, err
	}
	defer loop.Stop()

	for i := 0; i < cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			r.finish(result, loop)
			return result, ctx.Err()
		default:
		}
		if cfg.Pointer != nil {
			feed.Publish(cfg.Pointer(i))
		}
		if !sched.Tick() {
			break
		}
	}

	r.finish(result, loop)
	return result, nil
}

func (r *Runner) finish(result *Result, loop *Loop) {
	result.Final = loop.Snapshot()
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validateRunConfig(cfg RunConfig) error {
	if cfg.Frames <= 0 {
		return fmt.Errorf("%w: frames must be positive, got %d", dynamo.ErrInvalidRunConfig, cfg.Frames)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("%w: surface must be positive, got %gx%g", dynamo.ErrInvalidRunConfig, cfg.Width, cfg.Height)
	}
	return nil
}

// recorder is the Renderer of a headless run.
type recorder struct {
	result    *Result
	metrics   []Metric
	observers []Observer
}

func (rec *recorder) Attach(float64, float64) error { return nil }
func (rec *recorder) Hide()                         {}

func (rec *recorder) Draw(snap dynamo.Snapshot) {
	rec.result.Frames++
	rec.result.Bounces += snap.Bounces
	rec.result.KineticEnergy = append(rec.result.KineticEnergy, snap.KineticEnergy())
	for _, m := range rec.metrics {
		m.Observe(snap)
	}
	for _, o := range rec.observers {
		o.OnFrame(snap)
	}
}

// ParsePointerPath reads "x,y" as a StaticPointer and "orbit" as an
// OrbitPointer circling the centre of a width x height surface.
func ParsePointerPath(s string, width, height float64) (PointerPath, error) {
	if s == "orbit" {
		return OrbitPointer(width/2, height/2, math.Min(width, height)/4, 0.02), nil
	}
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return nil, fmt.Errorf("pointer must be x,y or orbit, got %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return nil, fmt.Errorf("pointer x: %w", err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return nil, fmt.Errorf("pointer y: %w", err)
	}
	return StaticPointer(x, y), nil
}
