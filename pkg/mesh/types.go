package mesh

import "github.com/matzehuels/meshdrift/pkg/geom"

// Node is a point of either layer.
type Node struct {
	ID     int     // Stable index within its layer
	X, Y   float64 // Current position
	OX, OY float64 // Orbit origin; written only by layout and rescale
	Z      float64 // Depth in [0, 1); larger is farther
	Seed   float64 // Per-node orbit phase offset in radians
	Band   int     // Depth band index, -1 when no band matched
	Moving bool    // Orbit role, fixed for the node's lifetime
}

// Pos returns the current position.
func (n *Node) Pos() geom.Point { return geom.Point{X: n.X, Y: n.Y} }

// Origin returns the orbit origin.
func (n *Node) Origin() geom.Point { return geom.Point{X: n.OX, Y: n.OY} }

// Edge is an undirected pair of node indices. Orientation A→B is the
// traversal direction for pulses.
type Edge struct {
	A, B   int
	Length float64 // Endpoint distance at construction time
}

// Graph is the edge set of one layer.
type Graph struct {
	Edges   []Edge
	Dynamic []int // Indices of edges with at least one moving endpoint
	Static  []int // Indices of edges with both endpoints static
}

// Len returns the number of edges.
func (g *Graph) Len() int { return len(g.Edges) }

// CurrentLength returns the live endpoint distance of edge i.
func (g *Graph) CurrentLength(i int, nodes []Node) float64 {
	e := g.Edges[i]
	return geom.Dist(nodes[e.A].Pos(), nodes[e.B].Pos())
}

// Degrees returns the incident edge count per node.
func (g *Graph) Degrees(n int) []int {
	deg := make([]int, n)
	for _, e := range g.Edges {
		deg[e.A]++
		deg[e.B]++
	}
	return deg
}

// Layer is a node population together with its graph.
type Layer struct {
	Nodes []Node
	Graph Graph
}

// MovingCount returns how many nodes in the layer orbit.
func (l *Layer) MovingCount() int {
	n := 0
	for i := range l.Nodes {
		if l.Nodes[i].Moving {
			n++
		}
	}
	return n
}
