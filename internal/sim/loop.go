package sim

import (
	"fmt"
	"io"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
)

// Loop drives one World per run: a step and a draw per scheduled frame.
//
// Start, Stop and the settings calls may come from any goroutine. A frame
// that is already executing when Stop is called finishes, but no frame is
// scheduled after Stop returns.
type Loop struct {
	renderer  Renderer
	surface   Surface
	scheduler Scheduler
	feed      InputFeed
	sibling   Sibling
	tuning    dynamo.Tuning
	settings  *dynamo.Settings
	logger    *log.Logger
	seed      int64

	debug   atomic.Bool
	pointer atomic.Pointer[dynamo.Pointer]

	mu     sync.Mutex
	run    *run
	last   dynamo.Snapshot
	starts int64
}

type run struct {
	world  *physics.World
	bounce bool
	token  FrameToken
	sub    Subscription
}

type Option func(*Loop)

// WithInputFeed sets the pointer source used when bounce is enabled.
func WithInputFeed(f InputFeed) Option { return func(l *Loop) { l.feed = f } }

func WithSibling(s Sibling) Option { return func(l *Loop) { l.sibling = s } }

func WithTuning(t dynamo.Tuning) Option { return func(l *Loop) { l.tuning = t } }

// WithSettings shares a settings value with the caller.
func WithSettings(s *dynamo.Settings) Option { return func(l *Loop) { l.settings = s } }

func WithLogger(lg *log.Logger) Option { return func(l *Loop) { l.logger = lg } }

// WithSeed makes particle sampling reproducible. Run n uses seed+n; zero
// seeds from the clock.
func WithSeed(seed int64) Option { return func(l *Loop) { l.seed = seed } }

func New(renderer Renderer, surface Surface, scheduler Scheduler, opts ...Option) *Loop {
	l := &Loop{
		renderer:  renderer,
		surface:   surface,
		scheduler: scheduler,
		tuning:    dynamo.DefaultTuning(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.settings == nil {
		l.settings = dynamo.NewSettings()
	}
	if l.logger == nil {
		l.logger = log.New(io.Discard)
	}
	l.clearPointer()
	return l
}

// Start tears down any active run and begins a new one. When the surface or
// renderer cannot be used it returns an error and the previous run keeps
// going untouched.
func (l *Loop) Start(cfg StartConfig) error {
	if l.renderer == nil {
		return dynamo.ErrRendererUnavailable
	}
	if l.surface == nil || l.scheduler == nil {
		return dynamo.ErrSurfaceUnavailable
	}
	width, height, err := l.surface.Viewport()
	if err != nil {
		return fmt.Errorf("%w: %w", dynamo.ErrSurfaceUnavailable, err)
	}
	world, err := physics.NewWorld(l.tuning, width, height, l.nextRand())
	if err != nil {
		return err
	}
	if err := l.renderer.Attach(width, height); err != nil {
		return fmt.Errorf("%w: %w", dynamo.ErrRendererUnavailable, err)
	}

	r := &run{world: world, bounce: cfg.BounceEnabled}

	l.mu.Lock()
	prev := l.run
	if prev != nil {
		l.scheduler.CancelFrame(prev.token)
	}
	l.run = r
	l.last = world.Snapshot()
	l.mu.Unlock()

	if prev != nil && prev.sub != nil {
		prev.sub.Unsubscribe()
	}
	l.clearPointer()

	if l.sibling != nil {
		l.sibling.Destroy()
		l.sibling.Hide()
	}

	if cfg.BounceEnabled && l.feed != nil {
		sub := l.feed.Subscribe(l.setPointer)
		l.mu.Lock()
		if l.run == r {
			r.sub = sub
			sub = nil
		}
		l.mu.Unlock()
		if sub != nil {
			sub.Unsubscribe()
		}
	}

	l.mu.Lock()
	if l.run == r {
		r.token = l.scheduler.ScheduleNextFrame(func() { l.frame(r) })
	}
	l.mu.Unlock()

	l.logger.Info("started gravity simulation",
		"bounce", cfg.BounceEnabled,
		"particles", world.Len(),
		"surface", fmt.Sprintf("%.0fx%.0f", width, height),
		"radius", l.settings.Radius())
	return nil
}

// Stop halts the active run, detaches the input feed, hides the renderer and
// gives the surface back to the sibling effect. Without an active run only
// the visibility reset happens.
func (l *Loop) Stop() {
	l.mu.Lock()
	r := l.run
	l.run = nil
	if r != nil {
		l.scheduler.CancelFrame(r.token)
		r.token = 0
	}
	l.mu.Unlock()

	if r != nil && r.sub != nil {
		r.sub.Unsubscribe()
	}
	l.clearPointer()

	if l.renderer != nil {
		l.renderer.Hide()
	}
	if l.sibling != nil {
		l.sibling.Show()
	}
	if r != nil {
		l.logger.Info("stopped gravity simulation", "frames", r.world.Frame())
	}
}

// TeardownHook returns a hook that runs the existing teardown and then
// stops this loop, so a host can chain both effects' cleanup.
func (l *Loop) TeardownHook(existing func()) func() {
	return ComposeHooks(existing, l.Stop)
}

// UpdateSettings applies text settings; anything unusable falls back to the
// defaults. The new values apply from the next frame.
func (l *Loop) UpdateSettings(bounceFactor, radius string) {
	bf, r := l.settings.Parse(bounceFactor, radius)
	l.logger.Info("bounce settings updated", "strength", bf, "radius", r)
}

// SetSettings is UpdateSettings for typed callers.
func (l *Loop) SetSettings(bounceFactor, radius float64) {
	bf, r := l.settings.Set(bounceFactor, radius)
	l.logger.Info("bounce settings updated", "strength", bf, "radius", r)
}

// AdjustRadius nudges the repulsor radius, keeping it at or above
// dynamo.MinRadius.
func (l *Loop) AdjustRadius(delta float64) float64 {
	r := l.settings.AdjustRadius(delta)
	l.logger.Info("cursor radius changed", "radius", r)
	return r
}

func (l *Loop) Settings() *dynamo.Settings { return l.settings }

// OnSurfaceResize updates the bounds of the active run.
func (l *Loop) OnSurfaceResize(width, height float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.run == nil {
		return
	}
	l.run.world.Resize(width, height)
}

// SetDebug toggles per-frame bounce logging.
func (l *Loop) SetDebug(on bool) {
	l.debug.Store(on)
	if on {
		l.logger.SetLevel(log.DebugLevel)
	} else {
		l.logger.SetLevel(log.InfoLevel)
	}
	l.logger.Info("debug mode", "enabled", on)
}

func (l *Loop) Debug() bool { return l.debug.Load() }

func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.run != nil
}

// BounceEnabled reports whether the active run tracks the pointer.
func (l *Loop) BounceEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.run != nil && l.run.bounce
}

// Snapshot returns the most recent frame of the active or last run.
func (l *Loop) Snapshot() dynamo.Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.last
}

// Frame is the frame number of the latest snapshot.
func (l *Loop) Frame() uint64 { return l.Snapshot().Frame }

// Pointer returns the last pointer value delivered by the feed.
func (l *Loop) Pointer() dynamo.Pointer { return *l.pointer.Load() }

func (l *Loop) frame(r *run) {
	l.mu.Lock()
	if l.run != r {
		l.mu.Unlock()
		return
	}
	r.token = 0
	in := physics.StepInput{
		BounceFactor: l.settings.BounceFactor(),
		Radius:       l.settings.Radius(),
	}
	if r.bounce {
		in.Pointer = *l.pointer.Load()
	}
	snap := r.world.Step(in)
	l.last = snap
	l.mu.Unlock()

	l.renderer.Draw(snap)
	if snap.Bounces > 0 && l.debug.Load() {
		l.logger.Debug("bounces this frame", "count", snap.Bounces, "frame", snap.Frame)
	}

	l.mu.Lock()
	if l.run == r {
		r.token = l.scheduler.ScheduleNextFrame(func() { l.frame(r) })
	}
	l.mu.Unlock()
}

func (l *Loop) setPointer(p dynamo.Pointer) { l.pointer.Store(&p) }

func (l *Loop) clearPointer() {
	p := dynamo.Absent
	l.pointer.Store(&p)
}

func (l *Loop) nextRand() *rand.Rand {
	l.mu.Lock()
	n := l.starts
	l.starts++
	l.mu.Unlock()

	seed := l.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	} else {
		seed += n
	}
	return rand.New(rand.NewSource(seed))
}
