// Package mesh holds the node and edge model and the greedy graph builder.
//
// # Model
//
// A [Node] carries its current position, its orbit origin, a depth z, a
// phase seed and an immutable moving/static role decided at layout time.
// An [Edge] joins two nodes of the same layer and caches its length.
// A [Graph] holds the edge list plus the Dynamic/Static index partition used
// by rendering and pulse spawning.
//
// # Construction
//
// [Build] is a local greedy heuristic, not a matching or spanning-tree
// algorithm. Nodes are visited in shuffled order; each under-cap node scores
// its reachable under-cap neighbours by 1/d^1.2 with a small random jitter
// and connects to the best ones while both endpoints have capacity:
//
//	caps := mesh.Caps(nodes, 3, 4)
//	g := mesh.Build(nodes, caps, mesh.BuildOptions{MaxLength: 180, Jitter: 0.25}, rng)
//	mesh.Partition(&g, nodes)
//
// The exponent favours short edges supralinearly without starving medium
// ones, which keeps the mesh organic rather than strictly minimal.
//
// Guarantees after every Build: no node exceeds its cap, no edge exceeds
// MaxLength, no self-edges, no duplicate unordered pairs. [Validate] checks
// exactly these.
package mesh
