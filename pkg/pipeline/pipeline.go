// Package pipeline renders artifacts from a configuration offline.
//
// A run has two stages:
//
//  1. Simulate: build an engine on a fixed viewport and advance it to the
//     requested simulation time
//  2. Render: compose the frame and encode it in each requested format
//
// Because a frame is a pure function of the configuration, viewport and
// time, the [Runner] caches every artifact and skips both stages when all
// formats are already stored.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Config:  config.Default(),
//	    Width:   1440,
//	    Height:  900,
//	    AtMs:    12000,
//	    Formats: []string{"svg", "json"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/meshdrift/pkg/cache"
	"github.com/matzehuels/meshdrift/pkg/config"
	"github.com/matzehuels/meshdrift/pkg/errors"
	"github.com/matzehuels/meshdrift/pkg/render"
)

const (
	// DefaultWidth is the default viewport width in pixels.
	DefaultWidth = 1440.0

	// DefaultHeight is the default viewport height in pixels.
	DefaultHeight = 900.0

	// DefaultScale is the PNG pixel density.
	DefaultScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG    = "svg"
	FormatPNG    = "png"
	FormatPDF    = "pdf"
	FormatJSON   = "json"
	FormatDOT    = "dot"
	FormatDOTSVG = "dot-svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:    true,
	FormatPNG:    true,
	FormatPDF:    true,
	FormatJSON:   true,
	FormatDOT:    true,
	FormatDOTSVG: true,
}

// Options describes one offline render.
type Options struct {
	Config config.Options `json:"config"`

	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	AtMs   float64 `json:"at_ms"`

	Formats    []string `json:"formats,omitempty"`
	Scale      float64  `json:"scale,omitempty"`
	Background bool     `json:"background,omitempty"` // include the background layer in DOT output

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
	RunID  uuid.UUID   `json:"-"`
}

// Result contains the outputs of a run.
type Result struct {
	// Frame is the simulated frame; nil when every artifact came from cache.
	Frame *render.Frame

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// CacheHit reports whether all artifacts came from cache.
	CacheHit bool

	Stats Stats
}

// Stats contains timing information.
type Stats struct {
	Ticks        int
	SimulateTime time.Duration
	RenderTime   time.Duration
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, pdf, json, dot, dot-svg)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// SetDefaults fills zero values. It is idempotent.
func (o *Options) SetDefaults() {
	o.Config.SetDefaults()
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
}

// Validate checks the options after defaults are applied.
func (o *Options) Validate() error {
	if err := errors.ValidateDimensions(o.Width, o.Height); err != nil {
		return err
	}
	if o.AtMs < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "time must not be negative (got %g ms)", o.AtMs)
	}
	if err := errors.ValidatePositive("scale", o.Scale); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return o.Config.Validate()
}

// Ticks returns the number of fixed ticks needed to reach AtMs.
func (o *Options) Ticks() int {
	return int(o.AtMs/o.Config.StepMs() + 0.5)
}

// KeyOpts returns the cache key options for one format.
func (o *Options) KeyOpts(format string) cache.FrameKeyOpts {
	k := cache.FrameKeyOpts{
		Format: format,
		Width:  o.Width,
		Height: o.Height,
		AtMs:   o.AtMs,
	}
	switch format {
	case FormatPNG:
		k.Scale = o.Scale
	case FormatDOT, FormatDOTSVG:
		if o.Background {
			k.Format += "+bg"
		}
	}
	return k
}

// configHash identifies the configuration in cache keys.
func (o *Options) configHash() (string, error) {
	data, err := config.Marshal(o.Config)
	if err != nil {
		return "", fmt.Errorf("serialize config for cache key: %w", err)
	}
	return cache.Hash(data), nil
}
