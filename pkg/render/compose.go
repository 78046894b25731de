package render

import (
	"github.com/matzehuels/meshdrift/pkg/geom"
	"github.com/matzehuels/meshdrift/pkg/mesh"
	"github.com/matzehuels/meshdrift/pkg/theme"
)

// Layer names in paint order.
const (
	LayerBackground = "background"
	LayerStatic     = "static"
	LayerDynamic    = "dynamic"
)

// Circle is a filled disc.
type Circle struct {
	X, Y  float64
	R     float64
	Alpha float64
}

// Segment is a stroked line.
type Segment struct {
	X1, Y1 float64
	X2, Y2 float64
	Width  float64
	Alpha  float64
}

// Layer is one render target.
type Layer struct {
	Name   string
	Mask   Mask
	Edges  []Segment
	Nodes  []Circle
	Pulses []Circle

	// Occluders are the node circles under which edge pixels are erased.
	Occluders []Circle
}

// Scene is a composed frame: three layers painted back to front.
type Scene struct {
	Width, Height float64
	Palette       theme.Palette
	Layers        [3]Layer
}

// Compose builds the three layers of f.
func Compose(f *Frame, opts Options) Scene {
	s := Scene{
		Width:   f.Viewport.W,
		Height:  f.Viewport.H,
		Palette: f.Palette,
	}

	bg := &s.Layers[0]
	bg.Name, bg.Mask = LayerBackground, opts.BackgroundMask
	for i := range f.Background.Graph.Edges {
		bg.Edges = append(bg.Edges, segment(f.Background.Nodes, f.Background.Graph.Edges[i], opts))
	}
	for i := range f.Background.Nodes {
		bg.Nodes = append(bg.Nodes, circle(&f.Background.Nodes[i], opts))
	}

	fg := &f.Foreground
	st := &s.Layers[1]
	st.Name, st.Mask = LayerStatic, opts.StaticMask
	for _, i := range fg.Graph.Static {
		st.Edges = append(st.Edges, segment(fg.Nodes, fg.Graph.Edges[i], opts))
	}

	dy := &s.Layers[2]
	dy.Name, dy.Mask = LayerDynamic, opts.DynamicMask
	for _, i := range fg.Graph.Dynamic {
		dy.Edges = append(dy.Edges, segment(fg.Nodes, fg.Graph.Edges[i], opts))
	}
	for i := range fg.Nodes {
		c := circle(&fg.Nodes[i], opts)
		if fg.Nodes[i].Moving {
			dy.Nodes = append(dy.Nodes, c)
		} else {
			st.Nodes = append(st.Nodes, c)
		}
	}

	for _, p := range f.Pulses {
		if p.Edge < 0 || p.Edge >= len(fg.Graph.Edges) {
			continue
		}
		e := fg.Graph.Edges[p.Edge]
		a, b := fg.Nodes[e.A].Pos(), fg.Nodes[e.B].Pos()
		t := geom.Clamp(p.T, 0, 1)
		dy.Pulses = append(dy.Pulses, Circle{
			X:     geom.Lerp(a.X, b.X, t),
			Y:     geom.Lerp(a.Y, b.Y, t),
			R:     opts.PulseRadius,
			Alpha: opts.PulseAlpha,
		})
	}

	bg.Occluders = bg.Nodes
	st.Occluders = st.Nodes
	dy.Occluders = dynamicOccluders(fg, dy.Nodes, opts)
	return s
}

// dynamicOccluders returns the moving node glyphs plus the static endpoints
// of dynamic edges. Those static glyphs sit in the layer below, so the
// dynamic edges must be cut around them too.
func dynamicOccluders(fg *mesh.Layer, moving []Circle, opts Options) []Circle {
	out := append([]Circle(nil), moving...)
	seen := make(map[int]bool)
	for _, i := range fg.Graph.Dynamic {
		e := fg.Graph.Edges[i]
		for _, n := range [2]int{e.A, e.B} {
			if fg.Nodes[n].Moving || seen[n] {
				continue
			}
			seen[n] = true
			out = append(out, circle(&fg.Nodes[n], opts))
		}
	}
	return out
}

func circle(n *mesh.Node, opts Options) Circle {
	return Circle{
		X:     n.X,
		Y:     n.Y,
		R:     opts.NodeRadius.At(n.Z),
		Alpha: opts.NodeAlpha.At(n.Z),
	}
}

func segment(nodes []mesh.Node, e mesh.Edge, opts Options) Segment {
	a, b := &nodes[e.A], &nodes[e.B]
	z := (a.Z + b.Z) / 2
	return Segment{
		X1: a.X, Y1: a.Y,
		X2: b.X, Y2: b.Y,
		Width: opts.EdgeWidth.At(z),
		Alpha: opts.EdgeAlpha.At(z),
	}
}
