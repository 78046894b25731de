// Package config aggregates every component's options into one flat,
// TOML-backed option set.
//
// Options are consumed at engine construction and on resize. Changing them
// means building a new engine.
//
//	opts, err := config.Load("meshdrift.toml")
//	if err != nil {
//	    return err
//	}
//	eng, err := engine.New(opts, surface)
package config

import (
	"bytes"
	"io"
	"math"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/meshdrift/pkg/errors"
	"github.com/matzehuels/meshdrift/pkg/layout"
	"github.com/matzehuels/meshdrift/pkg/motion"
	"github.com/matzehuels/meshdrift/pkg/pulse"
	"github.com/matzehuels/meshdrift/pkg/render"
	"github.com/matzehuels/meshdrift/pkg/theme"
)

// Engine defaults.
const (
	DefaultTickHz           = 30
	DefaultMaxTicksPerFrame = 2
	DefaultSeed             = 1
)

// Options is the complete configuration surface.
type Options struct {
	// Seed feeds every random choice; equal seeds reproduce equal scenes.
	Seed uint64 `toml:"seed" json:"seed"`

	// TickHz is the fixed simulation rate.
	TickHz float64 `toml:"tick_hz" json:"tick_hz"`

	// MaxTicksPerFrame caps catch-up work per frame. Lag beyond the cap is
	// dropped.
	MaxTicksPerFrame int `toml:"max_ticks_per_frame" json:"max_ticks_per_frame"`

	Theme  theme.Palette  `toml:"theme" json:"theme"`
	Layout layout.Options `toml:"layout" json:"layout"`
	Motion motion.Options `toml:"motion" json:"motion"`
	Pulse  pulse.Options  `toml:"pulse" json:"pulse"`
	Render render.Options `toml:"render" json:"render"`
}

// Default returns options with every default applied.
func Default() Options {
	var o Options
	o.Seed = DefaultSeed
	o.SetDefaults()
	return o
}

// SetDefaults fills zero values. It is idempotent. A zero colour means
// "unset" and is replaced by the literal fallback.
func (o *Options) SetDefaults() {
	if o.TickHz == 0 {
		o.TickHz = DefaultTickHz
	}
	if o.MaxTicksPerFrame == 0 {
		o.MaxTicksPerFrame = DefaultMaxTicksPerFrame
	}
	def := theme.DefaultPalette()
	if o.Theme.Node == (theme.RGB{}) {
		o.Theme.Node = def.Node
	}
	if o.Theme.Edge == (theme.RGB{}) {
		o.Theme.Edge = def.Edge
	}
	if o.Theme.Pulse == (theme.RGB{}) {
		o.Theme.Pulse = def.Pulse
	}
	o.Layout.SetDefaults()
	o.Motion.SetDefaults()
	o.Pulse.SetDefaults()
	o.Render.SetDefaults()
}

// Validate checks every section and the cross-section constraints.
func (o Options) Validate() error {
	if err := errors.ValidatePositive("tick_hz", o.TickHz); err != nil {
		return err
	}
	if err := errors.ValidatePositiveInt("max_ticks_per_frame", o.MaxTicksPerFrame); err != nil {
		return err
	}
	if err := o.Layout.Validate(); err != nil {
		return wrap(err, "layout")
	}
	if err := o.Motion.Validate(); err != nil {
		return wrap(err, "motion")
	}
	if err := o.Pulse.Validate(o.MaxPulses()); err != nil {
		return wrap(err, "pulse")
	}
	if err := o.Render.Validate(); err != nil {
		return wrap(err, "render")
	}
	return nil
}

// MaxPulses is the largest active pulse cap any viewport can produce.
func (o Options) MaxPulses() int {
	return int(math.Round(o.Layout.Pulses.Max))
}

// StepMs returns the fixed tick length in milliseconds.
func (o Options) StepMs() float64 {
	return 1000 / o.TickHz
}

func wrap(err error, section string) error {
	return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[%s]", section)
}

// Decode reads TOML from r on top of zero options, then applies defaults and
// validates. A missing seed key means DefaultSeed; an explicit 0 is kept.
// Unknown keys are rejected.
func Decode(r io.Reader) (Options, error) {
	var o Options
	md, err := toml.NewDecoder(r).Decode(&o)
	if err != nil {
		return Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Options{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if !md.IsDefined("seed") {
		o.Seed = DefaultSeed
	}
	o.SetDefaults()
	if err := o.Validate(); err != nil {
		return Options{}, err
	}
	return o, nil
}

// Load reads a TOML file.
func Load(path string) (Options, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Options{}, errors.Wrap(errors.ErrCodeNotFound, err, "config file %s", path)
		}
		return Options{}, errors.Wrap(errors.ErrCodeInternal, err, "open config %s", path)
	}
	defer f.Close()

	o, err := Decode(f)
	if err != nil {
		return Options{}, errors.Wrap(errors.GetCode(err), err, "load %s", path)
	}
	return o, nil
}

// Write encodes o as TOML.
func Write(w io.Writer, o Options) error {
	if err := toml.NewEncoder(w).Encode(o); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode config")
	}
	return nil
}

// Marshal returns o as TOML text.
func Marshal(o Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, o); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
