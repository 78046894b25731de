package render

import "sync"

// Capture is a sink that composes every frame and keeps the latest result.
// It is safe to read from other goroutines while the engine draws.
type Capture struct {
	opts Options

	mu    sync.RWMutex
	scene Scene
	frame *Frame
	count uint64
}

// NewCapture returns an empty capture composing with opts.
func NewCapture(opts Options) *Capture {
	return &Capture{opts: opts}
}

// Draw composes f and stores a copy.
func (c *Capture) Draw(f *Frame) {
	scene := Compose(f, c.opts)
	clone := f.Clone()

	c.mu.Lock()
	c.scene, c.frame = scene, clone
	c.count++
	c.mu.Unlock()
}

// Latest returns the last scene and frame; ok is false before the first draw.
func (c *Capture) Latest() (scene Scene, frame *Frame, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.scene, c.frame, c.frame != nil
}

// Count returns the number of frames drawn.
func (c *Capture) Count() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.count
}
