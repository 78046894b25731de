// Package topology exports the mesh graphs as Graphviz DOT.
//
// Node positions are pinned (pos="x,y!") and laid out with neato, so the
// rendered diagram matches the frame it came from. Background nodes are
// drawn smaller and dimmer; dynamic edges are solid, static edges dashed.
//
//	dot := topology.ToDOT(frame, topology.Options{})
//	svg, err := topology.RenderSVG(ctx, dot)
package topology
