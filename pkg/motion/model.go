package motion

import (
	"math"

	"github.com/matzehuels/meshdrift/pkg/errors"
	"github.com/matzehuels/meshdrift/pkg/geom"
	"github.com/matzehuels/meshdrift/pkg/mesh"
)

// DefaultLoopDurationMs is the default loop period.
const DefaultLoopDurationMs = 24000

// Options configures a [Model].
type Options struct {
	LoopDurationMs float64 `toml:"loop_duration_ms" json:"loop_duration_ms"`
	Bands          Bands   `toml:"bands" json:"bands"`
}

// SetDefaults fills zero values.
func (o *Options) SetDefaults() {
	if o.LoopDurationMs == 0 {
		o.LoopDurationMs = DefaultLoopDurationMs
	}
	if len(o.Bands) == 0 {
		o.Bands = DefaultBands()
	}
}

// Validate checks the loop period and every band.
func (o Options) Validate() error {
	if err := errors.ValidatePositive("loop_duration_ms", o.LoopDurationMs); err != nil {
		return err
	}
	if len(o.Bands) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "at least one depth band is required")
	}
	return o.Bands.Validate()
}

// LoopPhase returns θ in [0, 2π) for time t, loop start and period d.
// Times before loopStart wrap backwards.
func LoopPhase(t, loopStart, d float64) float64 {
	r := math.Mod(t-loopStart, d)
	if r < 0 {
		r += d
	}
	return r / d * 2 * math.Pi
}

// Model computes node positions from the loop phase.
type Model struct {
	opts      Options
	loopStart float64
	minDim    float64
	theta     float64
}

// New returns a model with loopStart 0 and no viewport. Options are expected
// to be validated already.
func New(opts Options) *Model {
	return &Model{opts: opts}
}

// Reset moves the loop start to t.
func (m *Model) Reset(loopStart float64) {
	m.loopStart = loopStart
	m.theta = 0
}

// SetViewport records the viewport so orbit radii track its shorter side.
func (m *Model) SetViewport(w, h float64) {
	m.minDim = min(w, h)
}

// Theta returns the loop phase of the last Step.
func (m *Model) Theta() float64 { return m.theta }

// Bands returns the configured bands.
func (m *Model) Bands() Bands { return m.opts.Bands }

// Step recomputes every moving node's position for time now. Static nodes
// and nodes without a band are left alone.
func (m *Model) Step(now float64, nodes []mesh.Node) {
	m.theta = LoopPhase(now, m.loopStart, m.opts.LoopDurationMs)
	m.Place(nodes)
}

// Place positions moving nodes for the current θ without advancing time.
// Used after a resize moved the origins.
func (m *Model) Place(nodes []mesh.Node) {
	for i := range nodes {
		n := &nodes[i]
		if !n.Moving {
			continue
		}
		dx, dy := m.Displacement(n, m.theta)
		n.X = n.OX + dx
		n.Y = n.OY + dy
	}
}

// Displacement returns the offset of n from its origin at phase theta.
func (m *Model) Displacement(n *mesh.Node, theta float64) (float64, float64) {
	if !n.Moving || n.Band < 0 || n.Band >= len(m.opts.Bands) {
		return 0, 0
	}
	b := &m.opts.Bands[n.Band]
	bandTheta := theta*float64(b.CyclesPerLoop*b.Direction) + b.PhaseOffset
	s, c := math.Sincos(bandTheta + n.Seed)
	return geom.Rotate(c*b.RadiusX*m.minDim, s*b.RadiusY*m.minDim, geom.Radians(b.HeadingDeg))
}
