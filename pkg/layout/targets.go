package layout

import (
	"math"

	"github.com/matzehuels/meshdrift/pkg/errors"
	"github.com/matzehuels/meshdrift/pkg/sample"
)

// Viewport is the drawing surface size in pixels.
type Viewport struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Area returns W×H.
func (v Viewport) Area() float64 { return v.W * v.H }

// MinDim returns the shorter side.
func (v Viewport) MinDim() float64 { return min(v.W, v.H) }

// Validate rejects empty or non-finite viewports.
func (v Viewport) Validate() error {
	return errors.ValidateDimensions(v.W, v.H)
}

// Range is a baseline value with clamping bounds.
type Range struct {
	Base float64 `toml:"base" json:"base"`
	Min  float64 `toml:"min" json:"min"`
	Max  float64 `toml:"max" json:"max"`
}

func (r Range) scaled(f float64) float64 {
	return max(r.Min, min(r.Base*f, r.Max))
}

func (r Range) validate(name string) error {
	if err := errors.ValidateRange(name, r.Min, r.Max); err != nil {
		return err
	}
	if r.Base < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "%s base cannot be negative (got %g)", name, r.Base)
	}
	return nil
}

// Options holds the baseline layout parameters.
type Options struct {
	BaseWidth  float64 `toml:"base_width" json:"base_width"`
	BaseHeight float64 `toml:"base_height" json:"base_height"`

	Foreground     Range `toml:"foreground" json:"foreground"`
	Background     Range `toml:"background" json:"background"`
	ForegroundEdge Range `toml:"foreground_edge" json:"foreground_edge"`
	BackgroundEdge Range `toml:"background_edge" json:"background_edge"`
	Pulses         Range `toml:"pulses" json:"pulses"`

	// CompactBelow is the shorter-side threshold for compact layouts.
	CompactBelow float64 `toml:"compact_below" json:"compact_below"`
	// CompactDensity multiplies counts in compact layouts.
	CompactDensity float64 `toml:"compact_density" json:"compact_density"`

	// SpacingFactor scales the ideal spacing sqrt(area/count) into the
	// sampler's minimum distance. Values below one oversample; the surplus
	// is shuffled and truncated.
	SpacingFactor float64 `toml:"spacing_factor" json:"spacing_factor"`
	Attempts      int     `toml:"attempts" json:"attempts"`

	MovingCap     int     `toml:"moving_cap" json:"moving_cap"`
	StaticCap     int     `toml:"static_cap" json:"static_cap"`
	BackgroundCap int     `toml:"background_cap" json:"background_cap"`
	Jitter        float64 `toml:"jitter" json:"jitter"`

	// Background nodes draw depth from [BackgroundZMin, BackgroundZMax).
	BackgroundZMin float64 `toml:"background_z_min" json:"background_z_min"`
	BackgroundZMax float64 `toml:"background_z_max" json:"background_z_max"`
}

// Default layout values.
const (
	DefaultBaseWidth      = 1440
	DefaultBaseHeight     = 900
	DefaultCompactBelow   = 640
	DefaultCompactDensity = 0.7
	DefaultSpacingFactor  = 0.7
	DefaultMovingCap      = 3
	DefaultStaticCap      = 4
	DefaultBackgroundCap  = 2
	DefaultJitter         = 0.25
)

// SetDefaults fills zero values.
func (o *Options) SetDefaults() {
	if o.BaseWidth == 0 {
		o.BaseWidth = DefaultBaseWidth
	}
	if o.BaseHeight == 0 {
		o.BaseHeight = DefaultBaseHeight
	}
	setRange(&o.Foreground, Range{Base: 70, Min: 16, Max: 140})
	setRange(&o.Background, Range{Base: 110, Min: 24, Max: 220})
	setRange(&o.ForegroundEdge, Range{Base: 180, Min: 110, Max: 240})
	setRange(&o.BackgroundEdge, Range{Base: 140, Min: 90, Max: 200})
	setRange(&o.Pulses, Range{Base: 6, Min: 2, Max: 12})
	if o.CompactBelow == 0 {
		o.CompactBelow = DefaultCompactBelow
	}
	if o.CompactDensity == 0 {
		o.CompactDensity = DefaultCompactDensity
	}
	if o.SpacingFactor == 0 {
		o.SpacingFactor = DefaultSpacingFactor
	}
	if o.Attempts == 0 {
		o.Attempts = sample.DefaultAttempts
	}
	if o.MovingCap == 0 {
		o.MovingCap = DefaultMovingCap
	}
	if o.StaticCap == 0 {
		o.StaticCap = DefaultStaticCap
	}
	if o.BackgroundCap == 0 {
		o.BackgroundCap = DefaultBackgroundCap
	}
	if o.Jitter == 0 {
		o.Jitter = DefaultJitter
	}
	if o.BackgroundZMin == 0 && o.BackgroundZMax == 0 {
		o.BackgroundZMin, o.BackgroundZMax = 0.9, 1
	}
}

func setRange(r *Range, def Range) {
	if *r == (Range{}) {
		*r = def
	}
}

// Validate checks the options.
func (o Options) Validate() error {
	if err := errors.ValidatePositive("base_width", o.BaseWidth); err != nil {
		return err
	}
	if err := errors.ValidatePositive("base_height", o.BaseHeight); err != nil {
		return err
	}
	for _, r := range []struct {
		name string
		r    Range
	}{
		{"foreground", o.Foreground},
		{"background", o.Background},
		{"foreground_edge", o.ForegroundEdge},
		{"background_edge", o.BackgroundEdge},
		{"pulses", o.Pulses},
	} {
		if err := r.r.validate(r.name); err != nil {
			return err
		}
	}
	if o.Foreground.Min < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "foreground minimum must be at least 1 (got %g)", o.Foreground.Min)
	}
	if err := errors.ValidateFraction("compact_density", o.CompactDensity); err != nil {
		return err
	}
	if o.CompactDensity == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "compact_density must be positive")
	}
	if err := errors.ValidatePositive("spacing_factor", o.SpacingFactor); err != nil {
		return err
	}
	for name, v := range map[string]int{
		"attempts":       o.Attempts,
		"moving_cap":     o.MovingCap,
		"static_cap":     o.StaticCap,
		"background_cap": o.BackgroundCap,
	} {
		if err := errors.ValidatePositiveInt(name, v); err != nil {
			return err
		}
	}
	if err := errors.ValidateFraction("jitter", o.Jitter); err != nil {
		return err
	}
	if err := errors.ValidateRange("background_z", o.BackgroundZMin, o.BackgroundZMax); err != nil {
		return err
	}
	if o.BackgroundZMax > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "background_z maximum must not exceed 1 (got %g)", o.BackgroundZMax)
	}
	return nil
}

// Targets are the per-viewport layout values.
type Targets struct {
	Foreground     int     `json:"foreground"`
	Background     int     `json:"background"`
	ForegroundEdge float64 `json:"foreground_edge"`
	BackgroundEdge float64 `json:"background_edge"`
	MaxPulses      int     `json:"max_pulses"`
	Compact        bool    `json:"compact"`
}

// sameCounts reports whether both populations match.
func (t Targets) sameCounts(o Targets) bool {
	return t.Foreground == o.Foreground && t.Background == o.Background
}

// ComputeTargets scales the baseline values to vp.
func ComputeTargets(vp Viewport, opts Options) Targets {
	areaRatio := vp.Area() / (opts.BaseWidth * opts.BaseHeight)
	lengthRatio := math.Sqrt(areaRatio)

	density := areaRatio
	compact := vp.MinDim() < opts.CompactBelow
	if compact {
		density *= opts.CompactDensity
	}

	return Targets{
		Foreground:     int(math.Round(opts.Foreground.scaled(density))),
		Background:     int(math.Round(opts.Background.scaled(density))),
		ForegroundEdge: opts.ForegroundEdge.scaled(lengthRatio),
		BackgroundEdge: opts.BackgroundEdge.scaled(lengthRatio),
		MaxPulses:      int(math.Round(opts.Pulses.scaled(areaRatio))),
		Compact:        compact,
	}
}
