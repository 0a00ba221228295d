package viz

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/export"
	"github.com/san-kum/gravsim/internal/render"
	"github.com/san-kum/gravsim/internal/sim"
)

const (
	panelWidth      = 40
	historyCapacity = 300
	defaultCols     = 80
	defaultRows     = 24
	minCols         = 10
	minRows         = 5
)

type TickMsg time.Time

// TickScheduler is a sim.Scheduler driven by Bubble Tea ticks: the pending
// frame runs when the model receives a TickMsg.
type TickScheduler struct {
	*sim.ManualScheduler
	interval time.Duration
}

func NewTickScheduler(fps int) *TickScheduler {
	if fps <= 0 {
		fps = 60
	}
	return &TickScheduler{ManualScheduler: sim.NewManualScheduler(), interval: time.Second / time.Duration(fps)}
}

func (s *TickScheduler) Cmd() tea.Cmd {
	return tea.Tick(s.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

type Options struct {
	FPS      int
	Bounce   bool
	Scale    float64 // world units per braille dot
	Theme    string
	Seed     int64
	Tuning   dynamo.Tuning
	Settings *dynamo.Settings
	Style    render.Style
	Logger   *log.Logger
	Debug    bool
	OnExit   func() // host teardown run before the loop stops
}

func DefaultOptions() Options {
	return Options{
		FPS:    60,
		Scale:  4,
		Theme:  ThemeNight.Name,
		Tuning: dynamo.DefaultTuning(),
		Style:  render.DefaultStyle(),
	}
}

// Model is the terminal host. The simulation runs inside a sim.Loop; the
// model only forwards input, ticks and resizes to it.
type Model struct {
	loop     *sim.Loop
	sched    *TickScheduler
	feed     *sim.PointerFeed
	surface  *gridSurface
	renderer *canvasRenderer
	drift    *render.Drift
	theme    Theme
	styles   Styles
	bounce   bool
	sized    bool
	teardown func()
	err      error
	note     string
}

func NewModel(opts Options) (*Model, error) {
	if opts.Scale <= 0 {
		opts.Scale = 4
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	canvas := NewCanvas(defaultCols, defaultRows)
	surface := &gridSurface{canvas: canvas, scale: opts.Scale}
	w, h, _ := surface.Viewport()

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	theme := GetTheme(opts.Theme)
	m := &Model{
		sched:    NewTickScheduler(opts.FPS),
		feed:     sim.NewPointerFeed(),
		surface:  surface,
		renderer: newCanvasRenderer(canvas, opts.Style, opts.Scale, opts.FPS),
		drift:    render.NewDrift(render.DefaultDrift(), w, h, rand.New(rand.NewSource(seed))),
		theme:    theme,
		styles:   NewStyles(theme),
		bounce:   opts.Bounce,
	}
	loopOpts := []sim.Option{
		sim.WithInputFeed(m.feed),
		sim.WithSibling(m.drift),
		sim.WithTuning(opts.Tuning),
		sim.WithSeed(opts.Seed),
		sim.WithLogger(opts.Logger),
	}
	if opts.Settings != nil {
		loopOpts = append(loopOpts, sim.WithSettings(opts.Settings))
	}
	m.loop = sim.New(m.renderer, surface, m.sched, loopOpts...)
	m.teardown = sync.OnceFunc(m.loop.TeardownHook(opts.OnExit))

	if err := m.loop.Start(sim.StartConfig{BounceEnabled: m.bounce}); err != nil {
		return nil, err
	}
	if opts.Debug {
		m.loop.SetDebug(true)
	}
	return m, nil
}

// Loop exposes the simulation for callers that need its settings.
func (m *Model) Loop() *sim.Loop { return m.loop }

func (m *Model) Init() tea.Cmd { return m.sched.Cmd() }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width-panelWidth, msg.Height)
		// The run started against the default grid; restart it once the
		// real size is known so the attractor sits at the centre.
		if !m.sized {
			m.sized = true
			if m.loop.Running() {
				m.restart()
			}
		}
	case tea.MouseMsg:
		m.pointer(msg.X, msg.Y)
	case tea.BlurMsg:
		m.feed.Leave()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.teardown()
			return m, tea.Quit
		case "b":
			m.bounce = !m.bounce
			m.restart()
		case "r":
			m.restart()
		case "s":
			if m.loop.Running() {
				m.loop.Stop()
			} else {
				m.restart()
			}
		case "+", "=":
			m.loop.AdjustRadius(5)
		case "-", "_":
			m.loop.AdjustRadius(-5)
		case "d":
			m.loop.SetDebug(!m.loop.Debug())
		case "t":
			m.theme = NextTheme(m.theme)
			m.styles = NewStyles(m.theme)
		case "e":
			m.exportFrame()
		}
	case TickMsg:
		if !m.sched.Tick() && m.drift.Visible() {
			m.drift.Step()
			m.renderer.paintDrift(m.drift)
		}
		return m, m.sched.Cmd()
	}
	return m, nil
}

func (m *Model) restart() {
	m.err = m.loop.Start(sim.StartConfig{BounceEnabled: m.bounce})
}

// exportFrame writes the last frame to gravsim-<frame>.svg in the working
// directory.
func (m *Model) exportFrame() {
	snap := m.renderer.last
	path := fmt.Sprintf("gravsim-%d.svg", snap.Frame)
	if err := os.WriteFile(path, []byte(export.SnapshotToSVG(snap, m.renderer.style)), 0644); err != nil {
		m.err = err
		return
	}
	m.note = "saved " + path
}

func (m *Model) resize(cols, rows int) {
	cols = max(cols, minCols)
	rows = max(rows, minRows)
	m.renderer.canvas.Resize(cols, rows)
	w, h, _ := m.surface.Viewport()
	m.loop.OnSurfaceResize(w, h)
	m.drift.Resize(w, h)
}

// pointer maps a terminal cell to the centre of its braille block.
func (m *Model) pointer(col, row int) {
	c := m.renderer.canvas
	if col < 0 || row < 0 || col >= c.Width || row >= c.Height {
		m.feed.Leave()
		return
	}
	s := m.surface.scale
	m.feed.Move(float64(col*2+1)*s, float64(row*4+2)*s)
}

func (m *Model) View() string {
	canvasView := m.renderer.canvas.Render(m.renderer.style.Background)
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.panel())
}

func (m *Model) panel() string {
	st := m.styles
	r := m.renderer
	snap := r.last
	set := m.loop.Settings()

	var s strings.Builder
	s.WriteString(st.Heading("GRAVITY") + "\n")

	status := st.Stopped.Render("STOPPED")
	if m.loop.Running() {
		status = st.Running.Render("RUNNING")
	}
	bounce := "off"
	if m.loop.BounceEnabled() {
		bounce = "on"
	}
	s.WriteString(status + st.Subtle.Render("  bounce "+bounce) + "\n\n")

	row := func(label, value string) {
		s.WriteString(st.MetricLabel.Render(label) + st.MetricValue.Render(value) + "\n")
	}
	row("Frame", fmt.Sprintf("%d", snap.Frame))
	row("Particles", fmt.Sprintf("%d", len(snap.Particles)))
	row("Energy", fmt.Sprintf("%.1f", snap.KineticEnergy()))
	row("Flashing", fmt.Sprintf("%d", snap.Flashing()))
	row("Bounces", fmt.Sprintf("%d", r.totalBounces))
	row("Strength", fmt.Sprintf("%.2f", set.BounceFactor()))
	row("Radius", fmt.Sprintf("%.0f ", set.Radius())+st.ProgressBar(set.Radius()/150, 12))
	debug := "off"
	if m.loop.Debug() {
		debug = "on"
	}
	row("Debug", debug)

	if len(r.energy) > 1 {
		chart := asciigraph.Plot(r.energy,
			asciigraph.Height(5),
			asciigraph.Width(panelWidth-14),
			asciigraph.Caption("kinetic energy"))
		s.WriteString("\n" + st.Graph.Render(chart) + "\n")
	}
	s.WriteString("\n" + st.Sparkline(r.bounces, panelWidth-6) + "\n")
	s.WriteString(st.Separator(panelWidth-6) + "\n")
	s.WriteString(st.KeyHint.Render("b:bounce r:restart s:stop e:svg\n+/-:radius d:debug t:theme q:quit"))
	if m.note != "" {
		s.WriteString("\n" + st.Subtle.Render(m.note))
	}
	if m.err != nil {
		s.WriteString("\n" + st.Stopped.Render(m.err.Error()))
	}
	return st.Panel.Render(s.String())
}

// Run starts a full-screen program and blocks until the user quits.
func Run(opts Options) error {
	m, err := NewModel(opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithReportFocus())
	_, err = p.Run()
	m.teardown()
	return err
}

// gridSurface reports the canvas size in world units.
type gridSurface struct {
	canvas *Canvas
	scale  float64
}

func (g *gridSurface) Viewport() (float64, float64, error) {
	w := float64(g.canvas.SubWidth()) * g.scale
	h := float64(g.canvas.SubHeight()) * g.scale
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("terminal too small")
	}
	return w, h, nil
}

// canvasRenderer draws snapshots onto the braille canvas.
type canvasRenderer struct {
	canvas       *Canvas
	style        render.Style
	scale        float64
	ring         *render.RingEaser
	visible      bool
	last         dynamo.Snapshot
	energy       []float64
	bounces      []int
	totalBounces int
}

func newCanvasRenderer(c *Canvas, style render.Style, scale float64, fps int) *canvasRenderer {
	return &canvasRenderer{canvas: c, style: style, scale: scale, ring: render.NewRingEaser(fps)}
}

func (r *canvasRenderer) Attach(width, height float64) error {
	r.visible = true
	r.energy = r.energy[:0]
	r.bounces = r.bounces[:0]
	r.totalBounces = 0
	r.canvas.Clear()
	return nil
}

func (r *canvasRenderer) Hide() {
	r.visible = false
	r.canvas.Clear()
}

func (r *canvasRenderer) Draw(snap dynamo.Snapshot) {
	r.last = snap
	r.totalBounces += snap.Bounces
	r.energy = appendCapped(r.energy, snap.KineticEnergy())
	r.bounces = appendCapped(r.bounces, snap.Bounces)
	if r.visible {
		r.paint(snap)
	}
}

func (r *canvasRenderer) paint(snap dynamo.Snapshot) {
	c := r.canvas
	st := r.style
	c.Clear()

	ax, ay := r.dot(snap.Attractor.Pos)
	for _, l := range st.Links(snap) {
		x, y := r.dot(l.From)
		c.DrawLine(x, y, ax, ay, st.Over(st.Line, l.Alpha))
	}
	c.FillCircle(ax, ay, r.dots(snap.Attractor.Radius), snap.Attractor.Color)

	for _, p := range snap.Particles {
		x, y := r.dot(p.Pos)
		c.FillCircle(x, y, r.dots(p.Radius), st.ParticleColor(p))
	}

	if rep := snap.Repulsor; rep.Present {
		x, y := r.dot(rep.Center)
		c.Circle(x, y, r.dots(r.ring.Update(rep.Radius)), st.Over(st.Ring, render.RingStroke))
		c.FillCircle(x, y, r.dots(render.MarkerRadius), st.Highlight)
	}
}

func (r *canvasRenderer) paintDrift(d *render.Drift) {
	c := r.canvas
	st := r.style
	c.Clear()
	for _, l := range d.Links() {
		x0, y0 := r.dot(l.From)
		x1, y1 := r.dot(l.To)
		c.DrawLine(x0, y0, x1, y1, st.Over(st.Line, l.Alpha))
	}
	for _, p := range d.Dots() {
		x, y := r.dot(p.Pos)
		c.FillCircle(x, y, r.dots(p.Radius), st.Over(st.Highlight, d.Opacity()))
	}
}

func (r *canvasRenderer) dot(v r2.Vec) (int, int) {
	return int(math.Floor(v.X / r.scale)), int(math.Floor(v.Y / r.scale))
}

func (r *canvasRenderer) dots(radius float64) int {
	return int(math.Round(radius / r.scale))
}

func appendCapped[T any](s []T, v T) []T {
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[1:]
	}
	return s
}
