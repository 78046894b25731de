package pulse

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/meshdrift/pkg/errors"
	"github.com/matzehuels/meshdrift/pkg/mesh"
)

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// lineGraph returns nodes on a horizontal line joined by one edge per
// neighbouring pair. Node 0 is moving so edge 0 is dynamic.
func lineGraph(n int, spacing float64) (mesh.Graph, []mesh.Node) {
	nodes := make([]mesh.Node, n)
	for i := range nodes {
		nodes[i] = mesh.Node{ID: i, X: float64(i) * spacing, Moving: i == 0}
	}
	var g mesh.Graph
	for i := 0; i+1 < n; i++ {
		g.Edges = append(g.Edges, mesh.Edge{A: i, B: i + 1, Length: spacing})
	}
	mesh.Partition(&g, nodes)
	return g, nodes
}

func TestPoolConservation(t *testing.T) {
	const size = 16
	p := NewPool(size)
	rng := newRNG(1)
	held := map[int]bool{}

	for step := range 5000 {
		if rng.IntN(2) == 0 {
			slot, ok := p.Acquire()
			if ok {
				if held[slot] {
					t.Fatalf("step %d: slot %d handed out twice", step, slot)
				}
				held[slot] = true
			} else if len(held) != size {
				t.Fatalf("step %d: Acquire failed with %d of %d held", step, len(held), size)
			}
		} else {
			slot := rng.IntN(size)
			released := p.Release(slot)
			if released != held[slot] {
				t.Fatalf("step %d: Release(%d) = %v, held = %v", step, slot, released, held[slot])
			}
			delete(held, slot)
		}

		if p.Len()+p.Free() != size {
			t.Fatalf("step %d: active %d + free %d != %d", step, p.Len(), p.Free(), size)
		}
		if p.Len() != len(held) {
			t.Fatalf("step %d: Len() = %d, want %d", step, p.Len(), len(held))
		}
	}
}

func TestPoolDoubleRelease(t *testing.T) {
	p := NewPool(2)
	slot, _ := p.Acquire()
	if !p.Release(slot) {
		t.Fatal("first Release should succeed")
	}
	if p.Release(slot) {
		t.Error("second Release should be a no-op")
	}
	if p.Release(-1) || p.Release(9) {
		t.Error("Release of an unknown slot should be a no-op")
	}
	if p.Free() != 2 {
		t.Errorf("Free() = %d, want 2", p.Free())
	}
}

func TestPoolExhaustion(t *testing.T) {
	p := NewPool(3)
	for range 3 {
		if _, ok := p.Acquire(); !ok {
			t.Fatal("Acquire failed before exhaustion")
		}
	}
	if _, ok := p.Acquire(); ok {
		t.Error("Acquire should fail on an empty pool")
	}
	p.Clear()
	if p.Len() != 0 || p.Free() != 3 {
		t.Errorf("after Clear: Len = %d, Free = %d", p.Len(), p.Free())
	}
}

func TestArrivalTicks(t *testing.T) {
	tests := []struct {
		length, speed, dt float64
	}{
		{100, 120, 1000.0 / 30},
		{37.5, 120, 1000.0 / 30},
		{240, 60, 1000.0 / 60},
		{10, 500, 1000.0 / 30},
	}
	for _, tt := range tests {
		nodes := []mesh.Node{{ID: 0, Moving: true}, {ID: 1, X: tt.length}}
		g := mesh.Graph{Edges: []mesh.Edge{{A: 0, B: 1, Length: tt.length}}}
		mesh.Partition(&g, nodes)

		s := NewScheduler(Options{SpeedPxPerSec: tt.speed, SpawnIntervalMs: 1e9, PoolSize: 2}, newRNG(1))
		s.SetMaxActive(1)

		arrivals := 0
		s.OnEvent = func(e Event) {
			if !e.Spawn {
				arrivals++
			}
		}

		ticks := 0
		for arrivals == 0 && ticks < 10000 {
			s.Tick(float64(ticks)*tt.dt, tt.dt, &g, nodes)
			ticks++
		}

		want := int(math.Ceil(tt.length / tt.speed / (tt.dt / 1000)))
		if ticks < want-1 || ticks > want+1 {
			t.Errorf("L=%v s=%v: arrived after %d ticks, want %d±1", tt.length, tt.speed, ticks, want)
		}
		if s.Pool().Len() != 0 {
			t.Errorf("L=%v: pulse still active after arrival", tt.length)
		}
	}
}

func TestSpawnRespectsIntervalAndCap(t *testing.T) {
	g, nodes := lineGraph(10, 1000)
	s := NewScheduler(Options{SpeedPxPerSec: 1, SpawnIntervalMs: 100, PoolSize: 8}, newRNG(2))
	s.SetMaxActive(3)

	spawns := 0
	s.OnEvent = func(e Event) {
		if e.Spawn {
			spawns++
		}
	}

	const dt = 10.0
	for tick := range 100 {
		s.Tick(float64(tick)*dt, dt, &g, nodes)
		if s.Pool().Len() > 3 {
			t.Fatalf("tick %d: %d active, cap 3", tick, s.Pool().Len())
		}
	}
	// Spawns at 0, 110 and 220 ms, then the cap holds.
	if spawns != 3 {
		t.Errorf("spawns = %d, want 3", spawns)
	}
}

func TestSpawnNeedsIntervalExceeded(t *testing.T) {
	g, nodes := lineGraph(4, 1e6)
	s := NewScheduler(Options{SpeedPxPerSec: 1, SpawnIntervalMs: 100, PoolSize: 8}, newRNG(7))
	s.SetMaxActive(4)

	tests := []struct {
		now  float64
		want int
	}{
		{0, 1},
		{50, 1},
		{100, 1}, // exactly the interval
		{100.5, 2},
		{200, 2},
		{201, 3},
	}
	for _, tt := range tests {
		s.Tick(tt.now, 0.5, &g, nodes)
		if got := s.Pool().Len(); got != tt.want {
			t.Errorf("now=%v: active = %d, want %d", tt.now, got, tt.want)
		}
	}
}

func TestSpawnPrefersDynamicEdges(t *testing.T) {
	g, nodes := lineGraph(6, 50)
	s := NewScheduler(Options{SpeedPxPerSec: 1, SpawnIntervalMs: 1, PoolSize: 64}, newRNG(3))
	s.SetMaxActive(50)

	for tick := range 40 {
		s.Tick(float64(tick)*10, 10, &g, nodes)
	}
	s.Pool().Each(func(p *Pulse) {
		if p.Edge != 0 {
			t.Errorf("pulse on static edge %d while a dynamic edge exists", p.Edge)
		}
		if p.Length != 50 {
			t.Errorf("cached Length = %v, want 50", p.Length)
		}
	})
}

func TestSpawnFallsBackToAnyEdge(t *testing.T) {
	g, nodes := lineGraph(4, 50)
	nodes[0].Moving = false
	mesh.Partition(&g, nodes)

	s := NewScheduler(Options{SpeedPxPerSec: 1, SpawnIntervalMs: 1, PoolSize: 8}, newRNG(4))
	s.SetMaxActive(4)
	s.Tick(0, 10, &g, nodes)
	if s.Pool().Len() != 1 {
		t.Errorf("active = %d, want 1 on a static-only graph", s.Pool().Len())
	}

	var empty mesh.Graph
	s.Reset()
	s.Tick(0, 10, &empty, nil)
	if s.Pool().Len() != 0 {
		t.Errorf("active = %d, want 0 without edges", s.Pool().Len())
	}
}

func TestSpawnPausesWhenPoolEmpty(t *testing.T) {
	g, nodes := lineGraph(4, 1e6)
	// Misconfigured on purpose: cap larger than the pool.
	s := NewScheduler(Options{SpeedPxPerSec: 1, SpawnIntervalMs: 1, PoolSize: 2}, newRNG(5))
	s.SetMaxActive(10)
	for tick := range 20 {
		s.Tick(float64(tick)*10, 10, &g, nodes)
	}
	if s.Pool().Len() != 2 {
		t.Errorf("active = %d, want 2", s.Pool().Len())
	}
}

func TestClearAndReset(t *testing.T) {
	g, nodes := lineGraph(4, 1e6)
	s := NewScheduler(Options{SpeedPxPerSec: 1, SpawnIntervalMs: 1, PoolSize: 8}, newRNG(6))
	s.SetMaxActive(4)
	for tick := range 4 {
		s.Tick(float64(tick)*10, 10, &g, nodes)
	}
	if s.Pool().Len() == 0 {
		t.Fatal("expected live pulses")
	}
	s.Clear()
	if s.Pool().Len() != 0 || s.Pool().Free() != 8 {
		t.Errorf("after Clear: Len = %d, Free = %d", s.Pool().Len(), s.Pool().Free())
	}

	// After Reset the very next tick may spawn regardless of the clock.
	s.Reset()
	s.Tick(0, 10, &g, nodes)
	if s.Pool().Len() != 1 {
		t.Errorf("after Reset: active = %d, want 1", s.Pool().Len())
	}
}

func TestOptionsValidate(t *testing.T) {
	var o Options
	o.SetDefaults()
	if err := o.Validate(12); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	o.PoolSize = 12
	if err := o.Validate(12); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Validate() = %v, want INVALID_CONFIG for pool == cap", err)
	}
}
