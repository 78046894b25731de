package pulse

// Pulse is one traveller on an edge.
type Pulse struct {
	Edge   int     // Index into the graph's Edges
	T      float64 // Progress along the edge in [0, 1)
	Length float64 // Edge length cached at spawn
	Active bool
}

// Pool is a fixed set of pulse slots with a free list.
type Pool struct {
	slots  []Pulse
	free   []int
	active []int
}

// NewPool returns a pool of size slots, all free.
func NewPool(size int) *Pool {
	p := &Pool{
		slots:  make([]Pulse, size),
		free:   make([]int, size),
		active: make([]int, 0, size),
	}
	// Pop from the end so slot 0 is handed out first.
	for i := range p.free {
		p.free[i] = size - 1 - i
	}
	return p
}

// Cap returns the number of slots.
func (p *Pool) Cap() int { return len(p.slots) }

// Len returns the number of active pulses.
func (p *Pool) Len() int { return len(p.active) }

// Free returns the number of free slots.
func (p *Pool) Free() int { return len(p.free) }

// Acquire takes a free slot, marks it active and returns its index.
// It returns false when the pool is exhausted.
func (p *Pool) Acquire() (int, bool) {
	if len(p.free) == 0 {
		return -1, false
	}
	slot := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	p.slots[slot] = Pulse{Active: true}
	p.active = append(p.active, slot)
	return slot, true
}

// Release returns slot to the pool. Releasing a free or unknown slot is a
// no-op and reports false.
func (p *Pool) Release(slot int) bool {
	if slot < 0 || slot >= len(p.slots) || !p.slots[slot].Active {
		return false
	}
	p.slots[slot].Active = false
	for i, s := range p.active {
		if s == slot {
			last := len(p.active) - 1
			p.active[i] = p.active[last]
			p.active = p.active[:last]
			break
		}
	}
	p.free = append(p.free, slot)
	return true
}

// Get returns the slot's pulse.
func (p *Pool) Get(slot int) *Pulse { return &p.slots[slot] }

// Active returns the active slot indices. The slice is owned by the pool and
// is only valid until the next Acquire or Release.
func (p *Pool) Active() []int { return p.active }

// Each calls fn for every active pulse.
func (p *Pool) Each(fn func(*Pulse)) {
	for _, slot := range p.active {
		fn(&p.slots[slot])
	}
}

// Clear releases every active pulse.
func (p *Pool) Clear() {
	for len(p.active) > 0 {
		p.Release(p.active[len(p.active)-1])
	}
}
