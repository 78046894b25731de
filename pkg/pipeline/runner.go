package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/meshdrift/pkg/cache"
)

// Runner executes renders with caching.
// It keeps no per-run state, so one Runner may serve many goroutines as long
// as its cache does.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute simulates and renders, serving every format from cache when it can.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}

	hash, err := opts.configHash()
	if err != nil {
		return nil, err
	}

	if artifacts, ok := r.lookup(ctx, hash, opts); ok {
		r.Logger.Debug("render cache hit", "formats", opts.Formats, "at", opts.AtMs)
		return &Result{Artifacts: artifacts, CacheHit: true}, nil
	}

	result := &Result{Stats: Stats{Ticks: opts.Ticks()}}

	start := time.Now()
	frame, err := Simulate(opts)
	if err != nil {
		return nil, err
	}
	result.Frame = frame
	result.Stats.SimulateTime = time.Since(start)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start = time.Now()
	artifacts, err := Render(ctx, frame, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(start)

	for format, data := range artifacts {
		key := r.Keyer.FrameKey(hash, opts.KeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "err", err)
		}
	}

	r.Logger.Debug("rendered",
		"ticks", result.Stats.Ticks,
		"simulate", result.Stats.SimulateTime,
		"render", result.Stats.RenderTime)
	return result, nil
}

// lookup returns the artifacts only if every format is cached.
func (r *Runner) lookup(ctx context.Context, hash string, opts Options) (map[string][]byte, bool) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, hit, err := r.Cache.Get(ctx, r.Keyer.FrameKey(hash, opts.KeyOpts(format)))
		if err != nil || !hit {
			return nil, false
		}
		artifacts[format] = data
	}
	return artifacts, true
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
