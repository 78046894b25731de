package pulse

import (
	"math/rand/v2"

	"github.com/matzehuels/meshdrift/pkg/errors"
	"github.com/matzehuels/meshdrift/pkg/mesh"
)

// minLength keeps the per-tick increment finite on degenerate edges.
const minLength = 1e-6

// Options configures a [Scheduler].
type Options struct {
	SpeedPxPerSec   float64 `toml:"speed_px_per_sec" json:"speed_px_per_sec"`
	SpawnIntervalMs float64 `toml:"spawn_interval_ms" json:"spawn_interval_ms"`
	PoolSize        int     `toml:"pool_size" json:"pool_size"`
}

// Default pulse values.
const (
	DefaultSpeedPxPerSec   = 120
	DefaultSpawnIntervalMs = 700
	DefaultPoolSize        = 32
)

// SetDefaults fills zero values.
func (o *Options) SetDefaults() {
	if o.SpeedPxPerSec == 0 {
		o.SpeedPxPerSec = DefaultSpeedPxPerSec
	}
	if o.SpawnIntervalMs == 0 {
		o.SpawnIntervalMs = DefaultSpawnIntervalMs
	}
	if o.PoolSize == 0 {
		o.PoolSize = DefaultPoolSize
	}
}

// Validate checks the options against the largest active cap the layout can
// request. The pool must be strictly larger than that cap.
func (o Options) Validate(maxActive int) error {
	if err := errors.ValidatePositive("speed_px_per_sec", o.SpeedPxPerSec); err != nil {
		return err
	}
	if err := errors.ValidatePositive("spawn_interval_ms", o.SpawnIntervalMs); err != nil {
		return err
	}
	if err := errors.ValidatePositiveInt("pool_size", o.PoolSize); err != nil {
		return err
	}
	if o.PoolSize <= maxActive {
		return errors.New(errors.ErrCodeInvalidConfig,
			"pool_size %d must exceed the maximum active pulse count %d", o.PoolSize, maxActive)
	}
	return nil
}

// Event is reported for every spawn and arrival.
type Event struct {
	Edge  int
	Spawn bool // false means arrival
}

// Scheduler spawns, advances and releases pulses once per tick.
type Scheduler struct {
	opts      Options
	pool      *Pool
	rng       *rand.Rand
	maxActive int

	lastSpawn float64
	spawned   bool

	// OnEvent, when set, is called for each spawn and arrival.
	OnEvent func(Event)
}

// NewScheduler returns a scheduler with its own pool of opts.PoolSize slots.
func NewScheduler(opts Options, rng *rand.Rand) *Scheduler {
	return &Scheduler{opts: opts, pool: NewPool(opts.PoolSize), rng: rng}
}

// Pool returns the underlying pool.
func (s *Scheduler) Pool() *Pool { return s.pool }

// SetMaxActive sets the simultaneous pulse cap.
func (s *Scheduler) SetMaxActive(n int) { s.maxActive = n }

// MaxActive returns the simultaneous pulse cap.
func (s *Scheduler) MaxActive() int { return s.maxActive }

// Clear releases every live pulse. Call it whenever the edge set is rebuilt.
func (s *Scheduler) Clear() { s.pool.Clear() }

// Reset clears pulses and makes the next tick eligible to spawn.
func (s *Scheduler) Reset() {
	s.pool.Clear()
	s.spawned = false
	s.lastSpawn = 0
}

// Tick runs one step at time now (ms) with step dt (ms) on graph g.
// A spawn needs strictly more than SpawnIntervalMs since the last one.
func (s *Scheduler) Tick(now, dt float64, g *mesh.Graph, nodes []mesh.Node) {
	if !s.spawned || now-s.lastSpawn > s.opts.SpawnIntervalMs {
		s.spawn(now, g, nodes)
	}
	s.advance(dt)
}

func (s *Scheduler) spawn(now float64, g *mesh.Graph, nodes []mesh.Node) {
	if s.pool.Len() >= s.maxActive {
		return
	}
	var edge int
	switch {
	case len(g.Dynamic) > 0:
		edge = g.Dynamic[s.rng.IntN(len(g.Dynamic))]
	case len(g.Edges) > 0:
		edge = s.rng.IntN(len(g.Edges))
	default:
		return
	}
	slot, ok := s.pool.Acquire()
	if !ok {
		return
	}
	p := s.pool.Get(slot)
	p.Edge = edge
	p.T = 0
	p.Length = g.CurrentLength(edge, nodes)

	s.lastSpawn = now
	s.spawned = true
	if s.OnEvent != nil {
		s.OnEvent(Event{Edge: edge, Spawn: true})
	}
}

func (s *Scheduler) advance(dt float64) {
	step := s.opts.SpeedPxPerSec * dt / 1000
	active := s.pool.Active()
	for i := len(active) - 1; i >= 0; i-- {
		slot := active[i]
		p := s.pool.Get(slot)
		p.T += step / max(p.Length, minLength)
		if p.T >= 1 {
			edge := p.Edge
			s.pool.Release(slot)
			if s.OnEvent != nil {
				s.OnEvent(Event{Edge: edge})
			}
		}
	}
}
