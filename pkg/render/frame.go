package render

import (
	"github.com/matzehuels/meshdrift/pkg/layout"
	"github.com/matzehuels/meshdrift/pkg/mesh"
	"github.com/matzehuels/meshdrift/pkg/pulse"
	"github.com/matzehuels/meshdrift/pkg/theme"
)

// Frame is a read-only view of the simulation handed to sinks. Slices alias
// engine state and are only valid during the sink call; use [Frame.Clone] to
// keep one.
type Frame struct {
	Viewport layout.Viewport
	Tick     uint64
	TimeMs   float64 // Simulation time
	Theta    float64 // Loop phase in [0, 2π)

	Foreground mesh.Layer
	Background mesh.Layer
	Pulses     []pulse.Pulse
	Palette    theme.Palette
}

// Clone returns a deep copy.
func (f *Frame) Clone() *Frame {
	c := *f
	c.Foreground = cloneLayer(f.Foreground)
	c.Background = cloneLayer(f.Background)
	c.Pulses = append([]pulse.Pulse(nil), f.Pulses...)
	return &c
}

func cloneLayer(l mesh.Layer) mesh.Layer {
	return mesh.Layer{
		Nodes: append([]mesh.Node(nil), l.Nodes...),
		Graph: mesh.Graph{
			Edges:   append([]mesh.Edge(nil), l.Graph.Edges...),
			Dynamic: append([]int(nil), l.Graph.Dynamic...),
			Static:  append([]int(nil), l.Graph.Static...),
		},
	}
}
