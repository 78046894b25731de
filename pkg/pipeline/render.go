package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/meshdrift/pkg/engine"
	"github.com/matzehuels/meshdrift/pkg/render"
	"github.com/matzehuels/meshdrift/pkg/render/topology"
)

// Simulate builds an engine on a fixed viewport and advances it to
// opts.AtMs. The returned frame is owned by the caller.
func Simulate(opts Options) (*render.Frame, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	e, err := engine.New(opts.Config, engine.FixedSurface{W: opts.Width, H: opts.Height}, engine.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	e.Advance(opts.Ticks())
	return e.Snapshot(), nil
}

// Render encodes f in every requested format.
func Render(ctx context.Context, f *render.Frame, opts Options) (map[string][]byte, error) {
	scene := render.Compose(f, opts.Config.Render)

	var svg []byte
	vector := func() []byte {
		if svg == nil {
			svg = render.RenderSVG(scene)
		}
		return svg
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = vector()
		case FormatPNG:
			data, err = render.ToPNGContext(ctx, vector(), opts.Scale)
		case FormatPDF:
			data, err = render.ToPDFContext(ctx, vector())
		case FormatJSON:
			data, err = renderJSON(f, scene, opts)
		case FormatDOT:
			data = []byte(topology.ToDOT(f, topology.Options{Background: opts.Background}))
		case FormatDOTSVG:
			data, err = topology.RenderSVG(ctx, topology.ToDOT(f, topology.Options{Background: opts.Background}))
		default:
			return nil, ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderJSON(f *render.Frame, scene render.Scene, opts Options) ([]byte, error) {
	jsonOpts := []render.JSONOption{
		render.WithSeed(opts.Config.Seed),
		render.WithScene(scene),
	}
	if opts.RunID != uuid.Nil {
		jsonOpts = append(jsonOpts, render.WithRunID(opts.RunID))
	}
	return render.RenderJSON(f, jsonOpts...)
}
