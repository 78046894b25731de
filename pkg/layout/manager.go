package layout

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/meshdrift/pkg/geom"
	"github.com/matzehuels/meshdrift/pkg/mesh"
	"github.com/matzehuels/meshdrift/pkg/motion"
	"github.com/matzehuels/meshdrift/pkg/sample"
)

// Outcome reports what a [Manager.Resize] did.
type Outcome int

const (
	Unchanged Outcome = iota
	Rescaled
	Rebuilt
)

func (o Outcome) String() string {
	switch o {
	case Rescaled:
		return "rescaled"
	case Rebuilt:
		return "rebuilt"
	default:
		return "unchanged"
	}
}

// EdgesChanged reports whether edge indices from before the resize are stale.
func (o Outcome) EdgesChanged() bool { return o != Unchanged }

// Scene holds both node layers.
type Scene struct {
	Foreground mesh.Layer
	Background mesh.Layer
}

// Manager applies layout targets to a scene.
type Manager struct {
	opts  Options
	bands motion.Bands
	rng   *rand.Rand

	vp      Viewport
	targets Targets
	built   bool
}

// NewManager returns a manager classifying foreground depth with bands.
// Options are expected to be validated already.
func NewManager(opts Options, bands motion.Bands, rng *rand.Rand) *Manager {
	return &Manager{opts: opts, bands: bands, rng: rng}
}

// Viewport returns the viewport of the last successful Resize.
func (m *Manager) Viewport() Viewport { return m.vp }

// Targets returns the targets of the last successful Resize.
func (m *Manager) Targets() Targets { return m.targets }

// Resize brings s in line with vp.
func (m *Manager) Resize(s *Scene, vp Viewport) (Outcome, error) {
	if err := vp.Validate(); err != nil {
		return Unchanged, err
	}
	if m.built && vp == m.vp {
		return Unchanged, nil
	}

	targets := ComputeTargets(vp, m.opts)
	if !m.built || !targets.sameCounts(m.targets) {
		if err := m.rebuild(s, vp, targets); err != nil {
			return Unchanged, err
		}
		m.vp, m.targets, m.built = vp, targets, true
		return Rebuilt, nil
	}

	sx, sy := vp.W/m.vp.W, vp.H/m.vp.H
	rescale(s.Foreground.Nodes, sx, sy)
	rescale(s.Background.Nodes, sx, sy)
	m.connect(s, targets)
	m.vp, m.targets = vp, targets
	return Rescaled, nil
}

func (m *Manager) rebuild(s *Scene, vp Viewport, t Targets) error {
	fg, err := m.place(vp, t.Foreground)
	if err != nil {
		return err
	}
	bg, err := m.place(vp, t.Background)
	if err != nil {
		return err
	}

	s.Foreground.Nodes = make([]mesh.Node, len(fg))
	for i, p := range fg {
		z := m.rng.Float64()
		band, moving := m.bands.Classify(z)
		s.Foreground.Nodes[i] = m.node(i, p, z, band, moving)
	}

	s.Background.Nodes = make([]mesh.Node, len(bg))
	zSpan := m.opts.BackgroundZMax - m.opts.BackgroundZMin
	for i, p := range bg {
		z := m.opts.BackgroundZMin + m.rng.Float64()*zSpan
		s.Background.Nodes[i] = m.node(i, p, z, -1, false)
	}

	m.connect(s, t)
	return nil
}

func (m *Manager) node(id int, p geom.Point, z float64, band int, moving bool) mesh.Node {
	return mesh.Node{
		ID: id, X: p.X, Y: p.Y, OX: p.X, OY: p.Y, Z: z,
		Seed: m.rng.Float64() * 2 * math.Pi, Band: band, Moving: moving,
	}
}

// place samples count points spread across vp.
func (m *Manager) place(vp Viewport, count int) ([]geom.Point, error) {
	if count <= 0 {
		return nil, nil
	}
	spacing := m.opts.SpacingFactor * math.Sqrt(vp.Area()/float64(count))
	pts, err := sample.Poisson(vp.W, vp.H, spacing, m.opts.Attempts, m.rng)
	if err != nil {
		return nil, err
	}
	m.rng.Shuffle(len(pts), func(i, j int) { pts[i], pts[j] = pts[j], pts[i] })
	if len(pts) > count {
		pts = pts[:count]
	}
	return pts, nil
}

func (m *Manager) connect(s *Scene, t Targets) {
	fg := &s.Foreground
	fgCaps := mesh.Caps(fg.Nodes, m.opts.MovingCap, m.opts.StaticCap)
	fg.Graph = mesh.Build(fg.Nodes, fgCaps, mesh.BuildOptions{MaxLength: t.ForegroundEdge, Jitter: m.opts.Jitter}, m.rng)
	mesh.Partition(&fg.Graph, fg.Nodes)

	bg := &s.Background
	bgCaps := mesh.UniformCaps(len(bg.Nodes), m.opts.BackgroundCap)
	bg.Graph = mesh.Build(bg.Nodes, bgCaps, mesh.BuildOptions{MaxLength: t.BackgroundEdge, Jitter: m.opts.Jitter}, m.rng)
	mesh.Partition(&bg.Graph, bg.Nodes)
}

func rescale(nodes []mesh.Node, sx, sy float64) {
	for i := range nodes {
		n := &nodes[i]
		n.X *= sx
		n.Y *= sy
		n.OX *= sx
		n.OY *= sy
	}
}
