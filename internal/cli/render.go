package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/meshdrift/pkg/config"
	"github.com/matzehuels/meshdrift/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string   // output file (single artifact) or base path
	formats    []string // svg, png, pdf, json, dot, dot-svg
	width      float64  // viewport width in pixels
	height     float64  // viewport height in pixels
	at         float64  // simulation time in ms; negative means one full loop
	frames     int      // evenly spaced frames over one loop
	scale      float64  // png pixel density
	background bool     // include the background layer in DOT output
	seed       uint64   // overrides the configured seed when set
	noCache    bool
	redis      string
}

// formatExt maps formats to file suffixes.
var formatExt = map[string]string{
	pipeline.FormatSVG:    ".svg",
	pipeline.FormatPNG:    ".png",
	pipeline.FormatPDF:    ".pdf",
	pipeline.FormatJSON:   ".json",
	pipeline.FormatDOT:    ".dot",
	pipeline.FormatDOTSVG: ".topology.svg",
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{
		width:  pipeline.DefaultWidth,
		height: pipeline.DefaultHeight,
		at:     -1,
		frames: 1,
		scale:  pipeline.DefaultScale,
	}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render frames of the mesh to files",
		Long: `Render simulates the mesh offline and writes frames to disk.

By default one SVG frame is written after a full loop. Use --at to pick a
simulation time, or --frames to write an evenly spaced sequence over one
loop (which, because the motion is seamless, can be played back forever).

Results are cached locally; --redis shares the cache between machines.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			if opts.frames < 1 {
				return fmt.Errorf("--frames must be at least 1 (got %d)", opts.frames)
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if opts.frames > 1 && cmd.Flags().Changed("at") {
				printWarning("--at is ignored when --frames is set")
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed = opts.seed
			}
			return c.runRender(cmd.Context(), cfg, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single artifact) or base path (default: meshdrift)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot, dot-svg (comma-separated)")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "viewport width")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "viewport height")
	cmd.Flags().Float64Var(&opts.at, "at", opts.at, "simulation time in ms (default: one full loop)")
	cmd.Flags().IntVar(&opts.frames, "frames", opts.frames, "number of evenly spaced frames over one loop")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "png scale factor")
	cmd.Flags().BoolVar(&opts.background, "background", false, "include the background layer in dot output")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed (overrides config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&opts.redis, "redis", "", "redis address for a shared cache (default: $"+redisEnv+")")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, cfg config.Options, opts renderOpts) error {
	runner, err := c.newRunner(ctx, opts.noCache, opts.redis)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	times := frameTimes(cfg.Motion.LoopDurationMs, opts.at, opts.frames)
	runID := uuid.New()
	prog := newProgress(c.Logger)

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	var written []string
	var stats sceneStats
	for i, at := range times {
		if len(times) > 1 {
			spinner.SetMessage(fmt.Sprintf("Rendering frame %d/%d...", i+1, len(times)))
		}
		result, err := runner.Execute(ctx, pipeline.Options{
			Config:     cfg,
			Width:      opts.width,
			Height:     opts.height,
			AtMs:       at,
			Formats:    opts.formats,
			Scale:      opts.scale,
			Background: opts.background,
			RunID:      runID,
		})
		if err != nil {
			spinner.StopWithError("Render failed")
			return err
		}

		for _, format := range opts.formats {
			path := outputPath(opts.output, format, i, len(times), len(opts.formats))
			if err := writeArtifact(path, result.Artifacts[format]); err != nil {
				spinner.StopWithError("Write failed")
				return err
			}
			written = append(written, path)
		}

		stats.cached = result.CacheHit
		if f := result.Frame; f != nil {
			stats.foreground = len(f.Foreground.Nodes)
			stats.background = len(f.Background.Nodes)
			stats.edges = f.Foreground.Graph.Len() + f.Background.Graph.Len()
			stats.pulses = len(f.Pulses)
		}
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	prog.done(fmt.Sprintf("Rendered %d frame(s)", len(times)))
	printSuccess("Render complete")
	for _, path := range written {
		printFile(path)
	}
	printStats(stats)
	if len(times) == 1 {
		printNewline()
		printNextStep("Watch it move", appName+" animate")
	}
	return nil
}

// frameTimes returns the simulation times to render. A single frame uses at,
// or one full loop when at is negative. Sequences split one loop evenly and
// leave out the end, which equals the start.
func frameTimes(loopMs, at float64, frames int) []float64 {
	if frames <= 1 {
		if at < 0 {
			at = loopMs
		}
		return []float64{at}
	}
	times := make([]float64, frames)
	for i := range times {
		times[i] = loopMs * float64(i) / float64(frames)
	}
	return times
}

// outputPath derives the file for one artifact. A single artifact with an
// explicit extension is written as given; otherwise the extension is
// replaced and sequences get a zero-padded frame number.
func outputPath(base, format string, frame, frames, formats int) string {
	if base == "" {
		base = appName
	}
	if frames == 1 && formats == 1 && filepath.Ext(base) != "" {
		return base
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if frames > 1 {
		base = fmt.Sprintf("%s-%03d", base, frame)
	}
	return base + formatExt[format]
}

func writeArtifact(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
