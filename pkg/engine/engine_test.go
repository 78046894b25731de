package engine

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/meshdrift/pkg/config"
	"github.com/matzehuels/meshdrift/pkg/errors"
	"github.com/matzehuels/meshdrift/pkg/layout"
	"github.com/matzehuels/meshdrift/pkg/theme"
)

// testOptions uses a 10 Hz tick so step arithmetic is exact.
func testOptions() config.Options {
	o := config.Default()
	o.TickHz = 10
	return o
}

type countingSink struct {
	draws  int
	pulses int
	last   uint64
}

func (s *countingSink) Draw(f *Frame) {
	s.draws++
	s.pulses = len(f.Pulses)
	s.last = f.Tick
}

func newEngine(t *testing.T, opts ...Option) (*Engine, *countingSink) {
	t.Helper()
	sink := &countingSink{}
	e, err := New(testOptions(), FixedSurface{W: 1440, H: 900}, append([]Option{WithSink(sink)}, opts...)...)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return e, sink
}

func TestNewRejectsBadInput(t *testing.T) {
	if _, err := New(testOptions(), nil); !errors.Is(err, errors.ErrCodeInvalidSurface) {
		t.Errorf("New(nil surface) = %v, want INVALID_SURFACE", err)
	}
	if _, err := New(testOptions(), FixedSurface{}); !errors.Is(err, errors.ErrCodeInvalidSurface) {
		t.Errorf("New(empty surface) = %v, want INVALID_SURFACE", err)
	}

	bad := testOptions()
	bad.Motion.Bands[0].CyclesPerLoop = 0
	if _, err := New(bad, FixedSurface{W: 100, H: 100}); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("New(bad options) = %v, want INVALID_CONFIG", err)
	}
}

func TestFrameLagAccumulator(t *testing.T) {
	e, sink := newEngine(t)
	e.Start(0)

	steps := []struct {
		now  float64
		want int
	}{
		{50, 0},   // lag 50
		{100, 1},  // lag 100
		{350, 2},  // lag 250, 50 left
		{1000, 2}, // lag 700, excess dropped
		{1050, 0}, // lag 50
		{1150, 1}, // lag 150, 50 left
		{1150, 0}, // no time passed
		{1100, 0}, // clock went backwards
		{1200, 1}, // lag 50 + 100
	}
	for i, s := range steps {
		if got := e.Frame(s.now); got != s.want {
			t.Fatalf("step %d: Frame(%v) = %d, want %d", i, s.now, got, s.want)
		}
	}
	if sink.draws != len(steps) {
		t.Errorf("draws = %d, want one per Frame (%d)", sink.draws, len(steps))
	}
	if e.Ticks() != 7 {
		t.Errorf("Ticks() = %d, want 7", e.Ticks())
	}
	if e.SimTime() != 700 {
		t.Errorf("SimTime() = %v, want 700", e.SimTime())
	}
}

func TestStoppedEngineIsIdle(t *testing.T) {
	e, sink := newEngine(t)
	if n := e.Frame(1000); n != 0 {
		t.Errorf("Frame before Start = %d, want 0", n)
	}
	if sink.draws != 0 {
		t.Errorf("draws = %d, want 0 while stopped", sink.draws)
	}
}

func TestStartStopIdempotent(t *testing.T) {
	e, _ := newEngine(t)

	e.Start(0)
	e.Frame(100)
	e.Start(5000) // already running: baseline kept
	if n := e.Frame(200); n != 1 {
		t.Errorf("Frame after repeated Start = %d, want 1", n)
	}

	e.Stop()
	e.Stop()
	if e.Running() {
		t.Error("Running() = true after Stop")
	}

	// Restart resets the baseline: the 10s pause is not replayed.
	e.Start(10000)
	if n := e.Frame(10100); n != 1 {
		t.Errorf("Frame after restart = %d, want 1", n)
	}
	if e.Ticks() != 3 {
		t.Errorf("Ticks() = %d, want 3", e.Ticks())
	}
}

func TestAdvanceMatchesFrames(t *testing.T) {
	live, _ := newEngine(t)
	live.Start(0)
	for now := 100.0; now <= 1000; now += 100 {
		live.Frame(now)
	}

	offline, sink := newEngine(t)
	offline.Advance(10)
	if sink.draws != 1 {
		t.Errorf("draws = %d, want 1", sink.draws)
	}
	if offline.Running() {
		t.Error("Advance started the engine")
	}

	a, b := live.Snapshot(), offline.Snapshot()
	if a.Tick != b.Tick || a.Theta != b.Theta {
		t.Errorf("Advance(10) = tick %d theta %v, want tick %d theta %v", b.Tick, b.Theta, a.Tick, a.Theta)
	}
	for i := range a.Foreground.Nodes {
		if a.Foreground.Nodes[i] != b.Foreground.Nodes[i] {
			t.Fatalf("node %d = %+v, want %+v", i, b.Foreground.Nodes[i], a.Foreground.Nodes[i])
		}
	}
	if len(a.Pulses) != len(b.Pulses) {
		t.Errorf("pulses = %d, want %d", len(b.Pulses), len(a.Pulses))
	}
}

func TestPauseDoesNotJump(t *testing.T) {
	e, _ := newEngine(t)
	e.Start(0)
	for now := 100.0; now <= 500; now += 100 {
		e.Frame(now)
	}
	theta := e.Snapshot().Theta

	e.Stop()
	e.Start(60000)
	e.Frame(60000)
	if got := e.Snapshot().Theta; got != theta {
		t.Errorf("Theta after pause = %v, want %v", got, theta)
	}
}

func TestPulsesStayWithinCap(t *testing.T) {
	e, sink := newEngine(t)
	e.Start(0)
	maxActive := e.Targets().MaxPulses
	seen := 0
	for now := 100.0; now <= 20000; now += 100 {
		e.Frame(now)
		if sink.pulses > maxActive {
			t.Fatalf("t=%v: %d pulses, cap %d", now, sink.pulses, maxActive)
		}
		seen = max(seen, sink.pulses)
	}
	if seen == 0 {
		t.Error("no pulse was ever spawned")
	}
}

type mutableSurface struct {
	w, h float64
}

func (s *mutableSurface) Size() (float64, float64, bool) { return s.w, s.h, true }

func TestResizeClearsPulses(t *testing.T) {
	surface := &mutableSurface{w: 1440, h: 900}
	e, err := New(testOptions(), surface)
	if err != nil {
		t.Fatal(err)
	}
	e.Start(0)
	for now := 100.0; now <= 3000; now += 100 {
		e.Frame(now)
	}
	if len(e.Snapshot().Pulses) == 0 {
		t.Fatal("expected live pulses before resize")
	}

	outcome, err := e.Resize()
	if err != nil || outcome != layout.Unchanged {
		t.Fatalf("Resize() = %v, %v; want unchanged", outcome, err)
	}

	surface.w = 1444
	outcome, err = e.Resize()
	if err != nil {
		t.Fatal(err)
	}
	if outcome != layout.Rescaled {
		t.Errorf("outcome = %v, want rescaled", outcome)
	}
	if n := len(e.Snapshot().Pulses); n != 0 {
		t.Errorf("pulses after rescale = %d, want 0", n)
	}
	if vp := e.Snapshot().Viewport; vp.W != 1444 {
		t.Errorf("viewport width = %v, want 1444", vp.W)
	}
}

func TestRefreshTheme(t *testing.T) {
	lookup := theme.MapLookup{}
	e, _ := newEngine(t, WithThemeLookup(lookup))
	if e.Palette() != theme.DefaultPalette() {
		t.Errorf("initial palette = %+v, want defaults", e.Palette())
	}

	lookup[theme.KeyEdge] = "1, 2, 3"
	ticks := e.Ticks()
	p := e.RefreshTheme()
	if p.Edge != (theme.RGB{R: 1, G: 2, B: 3}) {
		t.Errorf("Edge = %v, want 1, 2, 3", p.Edge)
	}
	if e.Ticks() != ticks {
		t.Error("RefreshTheme should not touch the simulation")
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	e, _ := newEngine(t)
	s := e.Snapshot()
	if len(s.Foreground.Nodes) == 0 {
		t.Fatal("empty snapshot")
	}
	s.Foreground.Nodes[0].X = -1
	if e.Snapshot().Foreground.Nodes[0].X == -1 {
		t.Error("Snapshot aliases engine state")
	}
}

func TestDebugLoggingQuietAcrossSeeds(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		var buf bytes.Buffer
		logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
		opts := testOptions()
		opts.Seed = seed
		e, err := New(opts, FixedSurface{W: 1440, H: 900}, WithLogger(logger))
		if err != nil {
			t.Fatalf("seed %d: New() error: %v", seed, err)
		}
		e.Advance(30)
		if bytes.Contains(buf.Bytes(), []byte("graph")) {
			t.Errorf("seed %d: unexpected graph warning: %q", seed, buf.String())
		}
	}
}

func TestDebugLoggingValidatesGraphs(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	if _, err := New(testOptions(), FixedSurface{W: 800, H: 600}, WithLogger(logger)); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("layout")) {
		t.Errorf("expected layout debug line, got %q", buf.String())
	}
	if bytes.Contains(buf.Bytes(), []byte("graph")) {
		t.Errorf("unexpected graph warning: %q", buf.String())
	}
}
