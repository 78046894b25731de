// Package pkg provides the core libraries for meshdrift, an ambient network
// mesh animation.
//
// # Overview
//
// Meshdrift scatters nodes over a viewport, connects them with a
// degree-capped graph, moves the near ones on closed orbits that repeat
// seamlessly, and sends light pulses along the moving edges. The pkg
// directory is organized into four areas:
//
//  1. Simulation - sampling, graph building, layout, motion and pulses
//  2. [engine] - The owned simulation context and fixed-step scheduler
//  3. [render] - Scene composition and output (SVG, PNG, PDF, JSON, DOT, terminal)
//  4. Infrastructure - configuration, caching, errors and observability
//
// # Architecture
//
// The data flow of one frame:
//
//	Surface size
//	     ↓
//	[layout] targets → [sample] points → [mesh] graphs
//	     ↓
//	[engine] fixed ticks: [motion] positions, [pulse] spawn/advance
//	     ↓
//	[render] Compose → SVG / canvas / JSON / [render/topology] DOT
//
// # Quick Start
//
// Render one frame after a full loop:
//
//	import (
//	    "github.com/matzehuels/meshdrift/pkg/config"
//	    "github.com/matzehuels/meshdrift/pkg/engine"
//	    "github.com/matzehuels/meshdrift/pkg/render"
//	)
//
//	opts := config.Default()
//	capture := render.NewCapture(opts.Render)
//	e, _ := engine.New(opts, engine.FixedSurface{W: 1440, H: 900}, engine.WithSink(capture))
//	e.Advance(720) // 24 s at 30 Hz
//	scene, _, _ := capture.Latest()
//	svg := render.RenderSVG(scene)
//
// Or let the pipeline do it, with caching:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	result, _ := runner.Execute(ctx, pipeline.Options{Config: opts, AtMs: 24000})
//
// # Main Packages
//
// ## Simulation
//
// [geom] - Points, distances, rotation and interpolation.
//
// [sample] - Poisson-disc point sampling with a minimum spacing.
//
// [mesh] - Nodes, edges, greedy degree-capped graph building and the
// dynamic/static edge partition.
//
// [layout] - Viewport-driven density targets and the rebuild-or-rescale
// decision on resize.
//
// [motion] - Depth bands and the seamless elliptical orbit model.
//
// [pulse] - Fixed-size pulse pool and the spawn/advance scheduler.
//
// ## Engine
//
// [engine] - Lag-accumulating fixed-step loop with lifecycle, resize and
// theme refresh.
//
// ## Visualization
//
// [render] - Three depth layers with occlusion and edge-fade masks, written
// as SVG, rasterized through rsvg-convert, exported as JSON, or drawn as
// braille in a terminal.
//
// [render/topology] - DOT export pinned to node positions and Graphviz SVG.
//
// ## Infrastructure
//
// [pipeline] - Offline simulate → render runs with artifact caching, shared
// by every command that writes files.
//
// [config] - One TOML-serializable options tree for every component.
//
// [theme] - Colour parsing and lookup with literal fallbacks.
//
// [cache] - Artifact caches: file, redis and null backends.
//
// [errors] - Structured error codes.
//
// [observability] - Hook registry for layout, frame, pulse, cache and
// server events.
//
// [buildinfo] - Version information set at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                 # All tests
//	go test ./pkg/motion/...          # Specific package
//	go test -run Example ./pkg/...    # Examples only
//
// Redis cache tests need MESHDRIFT_REDIS_ADDR and skip otherwise.
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/meshdrift/pkg/geom
// [sample]: https://pkg.go.dev/github.com/matzehuels/meshdrift/pkg/sample
// [mesh]: https://pkg.go.dev/github.com/matzehuels/meshdrift/pkg/mesh
// [layout]: https://pkg.go.dev/github.com/matzehuels/meshdrift/pkg/layout
// [motion]: https://pkg.go.dev/github.com/matzehuels/meshdrift/pkg/motion
// [pulse]: https://pkg.go.dev/github.com/matzehuels/meshdrift/pkg/pulse
// [engine]: https://pkg.go.dev/github.com/matzehuels/meshdrift/pkg/engine
// [render]: https://pkg.go.dev/github.com/matzehuels/meshdrift/pkg/render
// [render/topology]: https://pkg.go.dev/github.com/matzehuels/meshdrift/pkg/render/topology
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/meshdrift/pkg/pipeline
// [config]: https://pkg.go.dev/github.com/matzehuels/meshdrift/pkg/config
// [theme]: https://pkg.go.dev/github.com/matzehuels/meshdrift/pkg/theme
// [cache]: https://pkg.go.dev/github.com/matzehuels/meshdrift/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/meshdrift/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/meshdrift/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/meshdrift/pkg/buildinfo
package pkg
