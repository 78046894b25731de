// Package render turns engine frames into pictures.
//
// # Composition
//
// [Compose] splits a [Frame] into three depth-ordered layers:
//
//   - background: background nodes and their edges
//   - static: static foreground edges and static foreground nodes
//   - dynamic: dynamic edges, moving nodes and pulses
//
// Node radius, node alpha, edge width and edge alpha are interpolated
// between near and far values by depth; an edge uses the mean depth of its
// endpoints. Every layer carries an occlusion list of its node circles so a
// sink can erase line pixels under node glyphs, plus an optional radial
// [Mask] the host may apply as an edge fade.
//
// # Sinks
//
//	scene := render.Compose(frame, opts)
//	svg := render.RenderSVG(scene)
//	png, err := render.ToPNG(svg, 2.0)
//	pdf, err := render.ToPDF(svg)
//	js, err := render.RenderJSON(frame, scene, runID)
//
// [Canvas] rasterizes a scene into braille cells for terminals, and
// [Capture] keeps the most recent scene for hosts that serve it on demand.
// Topology export through Graphviz lives in the [topology] subpackage.
package render
