package gui

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/gravsim/internal/audio"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/render"
	"github.com/san-kum/gravsim/internal/sim"
)

var (
	ColText    = rl.NewColor(224, 240, 255, 255)
	ColTextDim = rl.NewColor(74, 99, 130, 255)
	ColAccent  = rl.NewColor(126, 224, 255, 255)
	ColSelect  = rl.NewColor(255, 221, 0, 255) // Sun
)

const telemetryCapacity = 300

type Options struct {
	Width    int32
	Height   int32
	FPS      int32
	Bounce   bool
	Seed     int64
	Tuning   dynamo.Tuning
	Settings *dynamo.Settings
	Style    render.Style
	Logger   *log.Logger
	Debug    bool
	Audio    bool
}

func DefaultOptions() Options {
	return Options{
		Width:  1280,
		Height: 720,
		FPS:    60,
		Tuning: dynamo.DefaultTuning(),
		Style:  render.DefaultStyle(),
	}
}

// FrameScheduler is a sim.Scheduler ticked once per window frame.
type FrameScheduler struct {
	*sim.ManualScheduler
}

func NewFrameScheduler() *FrameScheduler {
	return &FrameScheduler{ManualScheduler: sim.NewManualScheduler()}
}

// windowSurface reports the current screen size.
type windowSurface struct{}

func (windowSurface) Viewport() (float64, float64, error) {
	if !rl.IsWindowReady() {
		return 0, 0, fmt.Errorf("window not open")
	}
	w, h := rl.GetScreenWidth(), rl.GetScreenHeight()
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("window is %dx%d", w, h)
	}
	return float64(w), float64(h), nil
}

type App struct {
	Loop      *sim.Loop
	Sched     *FrameScheduler
	Feed      *sim.PointerFeed
	Drift     *render.Drift
	Bounce    bool
	Font      rl.Font
	Audio     *audio.Player
	Err       error
	renderer  *windowRenderer
	telemetry []float64
	bounces   int
}

func initWindow(opts Options) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(opts.Width, opts.Height, "gravsim")
	rl.SetTargetFPS(opts.FPS)
	rl.SetExitKey(0)
}

// loadFont loads Liberation Mono when present, the raylib default font
// otherwise.
func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	if font.Texture.ID == 0 {
		return rl.GetFontDefault()
	}
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// NewApp builds the host and starts the first run. The window must be open.
func NewApp(opts Options) (*App, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	w, h, err := windowSurface{}.Viewport()
	if err != nil {
		return nil, err
	}

	a := &App{
		Sched:     NewFrameScheduler(),
		Feed:      sim.NewPointerFeed(),
		Drift:     render.NewDrift(render.DefaultDrift(), w, h, rand.New(rand.NewSource(seed))),
		Bounce:    opts.Bounce,
		Font:      loadFont(),
		renderer:  newWindowRenderer(opts.Style, int(opts.FPS)),
		telemetry: make([]float64, 0, telemetryCapacity),
	}
	loopOpts := []sim.Option{
		sim.WithInputFeed(a.Feed),
		sim.WithSibling(a.Drift),
		sim.WithTuning(opts.Tuning),
		sim.WithSeed(opts.Seed),
		sim.WithLogger(opts.Logger),
	}
	if opts.Settings != nil {
		loopOpts = append(loopOpts, sim.WithSettings(opts.Settings))
	}
	a.Loop = sim.New(a.renderer, windowSurface{}, a.Sched, loopOpts...)

	if err := a.Loop.Start(sim.StartConfig{BounceEnabled: a.Bounce}); err != nil {
		return nil, err
	}
	if opts.Debug {
		a.Loop.SetDebug(true)
	}
	if opts.Audio {
		player := audio.NewPlayer(opts.Logger)
		if err := player.Start(); err != nil {
			opts.Logger.Warn("audio unavailable", "err", err)
		} else {
			a.Audio = player
		}
	}
	return a, nil
}

// Run opens the window and blocks until it is closed.
func Run(opts Options) error {
	initWindow(opts)
	defer rl.CloseWindow()

	app, err := NewApp(opts)
	if err != nil {
		return err
	}
	var stopAudio func()
	if app.Audio != nil {
		stopAudio = app.Audio.Stop
	}
	defer app.Loop.TeardownHook(stopAudio)()
	app.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if !a.Update() {
			return
		}
		a.Draw()
	}
}

// Update handles input and runs the pending frame. It returns false when
// the user asked to quit.
func (a *App) Update() bool {
	if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
		return false
	}

	if rl.IsWindowResized() {
		w, h := float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight())
		a.Loop.OnSurfaceResize(w, h)
		a.Drift.Resize(w, h)
	}

	if rl.IsCursorOnScreen() {
		a.Feed.Move(float64(rl.GetMouseX()), float64(rl.GetMouseY()))
	} else {
		a.Feed.Leave()
	}

	switch {
	case rl.IsKeyPressed(rl.KeyB):
		a.Bounce = !a.Bounce
		a.restart()
	case rl.IsKeyPressed(rl.KeyR):
		a.restart()
	case rl.IsKeyPressed(rl.KeyS):
		if a.Loop.Running() {
			a.Loop.Stop()
		} else {
			a.restart()
		}
	case rl.IsKeyPressed(rl.KeyEqual), rl.IsKeyPressed(rl.KeyKpAdd):
		a.Loop.AdjustRadius(5)
	case rl.IsKeyPressed(rl.KeyMinus), rl.IsKeyPressed(rl.KeyKpSubtract):
		a.Loop.AdjustRadius(-5)
	case rl.IsKeyPressed(rl.KeyD):
		a.Loop.SetDebug(!a.Loop.Debug())
	}

	if a.Sched.Tick() {
		snap := a.renderer.last
		a.bounces += snap.Bounces
		a.telemetry = append(a.telemetry, snap.KineticEnergy())
		if len(a.telemetry) > telemetryCapacity {
			a.telemetry = a.telemetry[1:]
		}
		if a.Audio != nil {
			a.Audio.Update(snap.KineticEnergy(), snap.Bounces)
		}
	} else {
		a.Drift.Step()
	}
	return true
}

func (a *App) restart() {
	a.Err = a.Loop.Start(sim.StartConfig{BounceEnabled: a.Bounce})
	a.telemetry = a.telemetry[:0]
	a.bounces = 0
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(toRL(a.renderer.style.Background, 1))

	if a.renderer.visible {
		a.renderer.paint()
	} else if a.Drift.Visible() {
		a.renderer.paintDrift(a.Drift)
	}
	a.DrawHUD()

	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	a.drawText("gravsim", 30, 30, 24, ColSelect)

	status, col := "RUNNING", ColText
	if !a.Loop.Running() {
		status, col = "STOPPED", ColTextDim
	}
	if a.Loop.BounceEnabled() {
		status += "  bounce"
	}
	a.drawText(status, 140, 34, 16, col)

	set := a.Loop.Settings()
	snap := a.renderer.last
	a.drawText(fmt.Sprintf("frame %d  particles %d  flashing %d  bounces %d",
		snap.Frame, len(snap.Particles), snap.Flashing(), a.bounces), 30, 60, 14, ColText)
	a.drawText(fmt.Sprintf("strength %.2f  radius %.0f", set.BounceFactor(), set.Radius()), 30, 80, 14, ColText)
	if a.Loop.Debug() {
		a.drawText("DEBUG", 30, 100, 14, ColSelect)
	}
	if a.Err != nil {
		a.drawText(a.Err.Error(), 30, 120, 14, rl.Red)
	}

	a.DrawTelemetry()

	h := int(rl.GetScreenHeight())
	a.drawText("[B] BOUNCE  [R] RESTART  [S] STOP  [+/-] RADIUS  [D] DEBUG  [Q] QUIT", 30, h-30, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), int(rl.GetScreenWidth())-90, h-30, 14, ColTextDim)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

// DrawTelemetry plots kinetic energy as a line strip.
func (a *App) DrawTelemetry() {
	if len(a.telemetry) < 2 {
		return
	}

	rectX, rectY := 30, int(rl.GetScreenHeight())-110
	width, height := 400, 60

	minVal, maxVal := a.telemetry[0], a.telemetry[0]
	for _, v := range a.telemetry {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.telemetry))
	for i, val := range a.telemetry {
		px := float32(rectX) + (float32(i)/float32(len(a.telemetry)))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	a.drawText(fmt.Sprintf("KE: %.0f", a.telemetry[len(a.telemetry)-1]), rectX+width+10, rectY+height-10, 14, ColText)
}
