package engine

import (
	"io"
	"math"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/meshdrift/pkg/config"
	"github.com/matzehuels/meshdrift/pkg/errors"
	"github.com/matzehuels/meshdrift/pkg/layout"
	"github.com/matzehuels/meshdrift/pkg/mesh"
	"github.com/matzehuels/meshdrift/pkg/motion"
	"github.com/matzehuels/meshdrift/pkg/observability"
	"github.com/matzehuels/meshdrift/pkg/pulse"
	"github.com/matzehuels/meshdrift/pkg/theme"
)

// Option configures an [Engine].
type Option func(*Engine)

// WithSink sets the frame sink. The default discards frames.
func WithSink(s Sink) Option { return func(e *Engine) { e.sink = s } }

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option { return func(e *Engine) { e.logger = l } }

// WithThemeLookup sets where colours are read from. Without one the palette
// from the options is used as is.
func WithThemeLookup(l theme.Lookup) Option { return func(e *Engine) { e.lookup = l } }

// Engine is a single owned simulation.
type Engine struct {
	opts    config.Options
	surface Surface
	sink    Sink
	logger  *log.Logger
	lookup  theme.Lookup

	rng     *rand.Rand
	layout  *layout.Manager
	motion  *motion.Model
	pulses  *pulse.Scheduler
	scene   layout.Scene
	palette theme.Palette

	stepMs  float64
	running bool
	last    float64
	lag     float64
	ticks   uint64

	frame    Frame
	pulseBuf []pulse.Pulse
}

// New validates opts, binds the surface, reads the theme and lays out the
// first scene. Options must already carry defaults (see [config.Default]).
func New(opts config.Options, surface Surface, options ...Option) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if surface == nil {
		return nil, errors.New(errors.ErrCodeInvalidSurface, "no surface to draw on")
	}

	e := &Engine{
		opts:    opts,
		surface: surface,
		sink:    nopSink{},
		logger:  log.New(io.Discard),
		stepMs:  opts.StepMs(),
	}
	for _, o := range options {
		o(e)
	}
	if e.sink == nil {
		e.sink = nopSink{}
	}

	e.rng = rand.New(rand.NewPCG(opts.Seed, opts.Seed^0xdeadbeef))
	e.layout = layout.NewManager(opts.Layout, opts.Motion.Bands, e.rng)
	e.motion = motion.New(opts.Motion)
	e.pulses = pulse.NewScheduler(opts.Pulse, e.rng)
	e.pulses.OnEvent = func(ev pulse.Event) {
		if ev.Spawn {
			observability.Pulse().OnSpawn(ev.Edge)
		} else {
			observability.Pulse().OnArrive(ev.Edge)
		}
	}
	e.palette = theme.Read(e.lookup, opts.Theme)

	if _, err := e.Resize(); err != nil {
		return nil, err
	}
	return e, nil
}

// Start begins scheduling at time now (ms). Calling Start on a running
// engine does nothing; otherwise the elapsed-time baseline is reset so time
// spent stopped is not replayed.
func (e *Engine) Start(now float64) {
	if e.running {
		return
	}
	e.running = true
	e.last = now
	e.lag = 0
	e.logger.Debug("engine started", "tick", e.ticks)
}

// Stop halts scheduling. Stopping a stopped engine does nothing.
func (e *Engine) Stop() {
	if !e.running {
		return
	}
	e.running = false
	e.logger.Debug("engine stopped", "tick", e.ticks)
}

// Running reports whether the engine is started.
func (e *Engine) Running() bool { return e.running }

// Frame advances the simulation to now (ms) and draws once. It returns the
// number of ticks executed. A stopped engine neither ticks nor draws.
func (e *Engine) Frame(now float64) int {
	if !e.running {
		return 0
	}
	elapsed := now - e.last
	e.last = now
	if elapsed > 0 {
		e.lag += elapsed
	}

	n := 0
	for e.lag >= e.stepMs && n < e.opts.MaxTicksPerFrame {
		e.tick()
		e.lag -= e.stepMs
		n++
	}
	dropped := e.lag >= e.stepMs
	if dropped {
		e.lag = math.Mod(e.lag, e.stepMs)
	}

	e.draw()
	observability.Engine().OnFrame(n, dropped)
	return n
}

// Advance runs n ticks at once and draws a single frame, whether or not the
// engine is started. Offline renderers use it to reach a point in time
// without a clock.
func (e *Engine) Advance(n int) {
	for range n {
		e.tick()
	}
	e.draw()
}

func (e *Engine) tick() {
	e.ticks++
	t := e.SimTime()
	fg := &e.scene.Foreground
	e.motion.Step(t, fg.Nodes)
	e.pulses.Tick(t, e.stepMs, &fg.Graph, fg.Nodes)
}

// SimTime returns the simulation clock in ms.
func (e *Engine) SimTime() float64 { return float64(e.ticks) * e.stepMs }

// Ticks returns the number of ticks run so far.
func (e *Engine) Ticks() uint64 { return e.ticks }

// Resize re-reads the surface size and updates the layout. Any edge rebuild
// clears live pulses because their edge indices are stale.
func (e *Engine) Resize() (layout.Outcome, error) {
	w, h, ok := e.surface.Size()
	if !ok {
		return layout.Unchanged, errors.New(errors.ErrCodeInvalidSurface, "surface has no size")
	}

	start := time.Now()
	outcome, err := e.layout.Resize(&e.scene, layout.Viewport{W: w, H: h})
	if err != nil {
		return outcome, err
	}
	if outcome == layout.Unchanged {
		return outcome, nil
	}

	e.pulses.Clear()
	targets := e.layout.Targets()
	e.pulses.SetMaxActive(targets.MaxPulses)
	e.motion.SetViewport(w, h)
	e.motion.Place(e.scene.Foreground.Nodes)

	fg, bg := len(e.scene.Foreground.Nodes), len(e.scene.Background.Nodes)
	e.logger.Debug("layout", "outcome", outcome, "width", w, "height", h,
		"foreground", fg, "background", bg,
		"edges", e.scene.Foreground.Graph.Len(), "compact", targets.Compact)
	if e.logger.GetLevel() <= log.DebugLevel {
		e.checkGraphs(targets)
	}
	observability.Engine().OnLayout(outcome.String(), fg, bg, time.Since(start))
	return outcome, nil
}

func (e *Engine) checkGraphs(t layout.Targets) {
	fg, bg := &e.scene.Foreground, &e.scene.Background
	lo := e.opts.Layout
	if err := mesh.Validate(&fg.Graph, fg.Nodes, mesh.Caps(fg.Nodes, lo.MovingCap, lo.StaticCap), t.ForegroundEdge); err != nil {
		e.logger.Warn("foreground graph", "err", err)
	}
	if err := mesh.Validate(&bg.Graph, bg.Nodes, mesh.UniformCaps(len(bg.Nodes), lo.BackgroundCap), t.BackgroundEdge); err != nil {
		e.logger.Warn("background graph", "err", err)
	}
}

// RefreshTheme re-reads the palette without touching the simulation.
func (e *Engine) RefreshTheme() theme.Palette {
	e.palette = theme.Read(e.lookup, e.opts.Theme)
	e.logger.Debug("theme refreshed", "node", e.palette.Node, "edge", e.palette.Edge, "pulse", e.palette.Pulse)
	observability.Engine().OnThemeRefresh()
	return e.palette
}

// Palette returns the current palette.
func (e *Engine) Palette() theme.Palette { return e.palette }

// Targets returns the current layout targets.
func (e *Engine) Targets() layout.Targets { return e.layout.Targets() }

// Options returns the options the engine was built with.
func (e *Engine) Options() config.Options { return e.opts }

// Snapshot returns a deep copy of the current state.
func (e *Engine) Snapshot() *Frame {
	e.fill()
	return e.frame.Clone()
}

func (e *Engine) draw() {
	e.fill()
	e.sink.Draw(&e.frame)
}

func (e *Engine) fill() {
	e.pulseBuf = e.pulseBuf[:0]
	e.pulses.Pool().Each(func(p *pulse.Pulse) {
		e.pulseBuf = append(e.pulseBuf, *p)
	})
	e.frame = Frame{
		Viewport:   e.layout.Viewport(),
		Tick:       e.ticks,
		TimeMs:     e.SimTime(),
		Theta:      e.motion.Theta(),
		Foreground: e.scene.Foreground,
		Background: e.scene.Background,
		Pulses:     e.pulseBuf,
		Palette:    e.palette,
	}
}
