package engine

import "github.com/matzehuels/meshdrift/pkg/render"

// Frame is the snapshot handed to sinks.
type Frame = render.Frame

// Surface is the host area the mesh is drawn on.
type Surface interface {
	// Size returns the drawable size in pixels; ok is false when the host
	// has nothing to draw on.
	Size() (w, h float64, ok bool)
}

// FixedSurface is a surface of constant size.
type FixedSurface struct {
	W, H float64
}

func (s FixedSurface) Size() (float64, float64, bool) { return s.W, s.H, s.W > 0 && s.H > 0 }

// SurfaceFunc adapts a function to [Surface].
type SurfaceFunc func() (w, h float64, ok bool)

func (f SurfaceFunc) Size() (float64, float64, bool) { return f() }

// Sink receives one frame per [Engine.Frame] call. The frame aliases engine
// state and must not be retained after Draw returns.
type Sink interface {
	Draw(f *Frame)
}

// SinkFunc adapts a function to [Sink].
type SinkFunc func(f *Frame)

func (fn SinkFunc) Draw(f *Frame) { fn(f) }

type nopSink struct{}

func (nopSink) Draw(*Frame) {}
