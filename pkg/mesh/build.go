package mesh

import (
	"cmp"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/meshdrift/pkg/geom"
)

// scoreExponent controls how strongly short edges are preferred.
const scoreExponent = 1.2

// BuildOptions configures [Build].
type BuildOptions struct {
	// MaxLength is the longest permitted edge in pixels.
	MaxLength float64

	// Jitter is the width of the random score multiplier: scores are scaled
	// by a factor drawn uniformly from [1-Jitter/2, 1+Jitter/2]. Default 0.
	Jitter float64
}

type candidate struct {
	idx   int
	dist  float64
	score float64
}

// Caps returns per-node degree caps from the moving/static role.
func Caps(nodes []Node, movingCap, staticCap int) []int {
	caps := make([]int, len(nodes))
	for i := range nodes {
		if nodes[i].Moving {
			caps[i] = movingCap
		} else {
			caps[i] = staticCap
		}
	}
	return caps
}

// UniformCaps returns the same cap for every node (background layer).
func UniformCaps(n, limit int) []int {
	caps := make([]int, n)
	for i := range caps {
		caps[i] = limit
	}
	return caps
}

// Build connects nodes greedily under per-node caps and a length limit.
// The returned graph is not partitioned; call [Partition] afterwards.
//
// Zero-distance pairs are never candidates. A population of zero or one node
// yields an empty graph.
func Build(nodes []Node, caps []int, opts BuildOptions, rng *rand.Rand) Graph {
	n := len(nodes)
	if n < 2 || opts.MaxLength <= 0 {
		return Graph{}
	}

	deg := make([]int, n)
	seen := make(map[[2]int]struct{}, n*2)
	edges := make([]Edge, 0, n*2)
	maxSq := opts.MaxLength * opts.MaxLength
	cands := make([]candidate, 0, 32)

	for _, i := range rng.Perm(n) {
		if deg[i] >= caps[i] {
			continue
		}
		pi := nodes[i].Pos()

		cands = cands[:0]
		for j := range nodes {
			if j == i || deg[j] >= caps[j] {
				continue
			}
			dSq := geom.DistSq(pi, nodes[j].Pos())
			if dSq == 0 || dSq > maxSq {
				continue
			}
			d := math.Sqrt(dSq)
			score := 1 / math.Pow(d, scoreExponent)
			if opts.Jitter > 0 {
				score *= 1 - opts.Jitter/2 + rng.Float64()*opts.Jitter
			}
			cands = append(cands, candidate{idx: j, dist: d, score: score})
		}

		slices.SortFunc(cands, func(a, b candidate) int {
			return cmp.Compare(b.score, a.score)
		})

		for _, c := range cands {
			if deg[i] >= caps[i] {
				break
			}
			j := c.idx
			if deg[j] >= caps[j] {
				continue
			}
			key := [2]int{min(i, j), max(i, j)}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			edges = append(edges, Edge{A: i, B: j, Length: c.dist})
			deg[i]++
			deg[j]++
		}
	}

	return Graph{Edges: edges}
}

// Partition splits g's edges into Dynamic and Static index lists.
// It must be re-run whenever the edge set changes.
func Partition(g *Graph, nodes []Node) {
	g.Dynamic = g.Dynamic[:0]
	g.Static = g.Static[:0]
	for i, e := range g.Edges {
		if nodes[e.A].Moving || nodes[e.B].Moving {
			g.Dynamic = append(g.Dynamic, i)
		} else {
			g.Static = append(g.Static, i)
		}
	}
}
