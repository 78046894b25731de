package mesh

import "github.com/matzehuels/meshdrift/pkg/errors"

// lengthTolerance absorbs float rounding in stored lengths.
const lengthTolerance = 1e-9

// Validate checks the structural invariants of a built graph: endpoint
// range, self-edges, duplicate pairs, degree caps and the length limit.
// Length is the construction-time Edge.Length, so orbit displacement after
// the build never counts against the limit. It returns the first violation
// as an INVALID_GEOMETRY error.
func Validate(g *Graph, nodes []Node, caps []int, maxLength float64) error {
	seen := make(map[[2]int]struct{}, len(g.Edges))
	deg := make([]int, len(nodes))

	for i, e := range g.Edges {
		if e.A < 0 || e.B < 0 || e.A >= len(nodes) || e.B >= len(nodes) {
			return errors.New(errors.ErrCodeInvalidGeometry, "edge %d: endpoint out of range (%d, %d)", i, e.A, e.B)
		}
		if e.A == e.B {
			return errors.New(errors.ErrCodeInvalidGeometry, "edge %d: self-edge on node %d", i, e.A)
		}
		key := [2]int{min(e.A, e.B), max(e.A, e.B)}
		if _, dup := seen[key]; dup {
			return errors.New(errors.ErrCodeInvalidGeometry, "edge %d: duplicate pair (%d, %d)", i, key[0], key[1])
		}
		seen[key] = struct{}{}

		if e.Length > maxLength+lengthTolerance {
			return errors.New(errors.ErrCodeInvalidGeometry, "edge %d: length %.3f exceeds limit %.3f", i, e.Length, maxLength)
		}
		deg[e.A]++
		deg[e.B]++
	}

	for i, d := range deg {
		if d > caps[i] {
			return errors.New(errors.ErrCodeInvalidGeometry, "node %d: degree %d exceeds cap %d", i, d, caps[i])
		}
	}

	if len(g.Dynamic)+len(g.Static) != len(g.Edges) && (len(g.Dynamic) > 0 || len(g.Static) > 0) {
		return errors.New(errors.ErrCodeInvalidGeometry, "partition covers %d of %d edges", len(g.Dynamic)+len(g.Static), len(g.Edges))
	}
	return nil
}
