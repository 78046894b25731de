package render

import (
	"github.com/matzehuels/meshdrift/pkg/errors"
	"github.com/matzehuels/meshdrift/pkg/geom"
)

// Depth is a value interpolated from Near (z = 0) to Far (z = 1).
type Depth struct {
	Near float64 `toml:"near" json:"near"`
	Far  float64 `toml:"far" json:"far"`
}

// At returns the value at depth z.
func (d Depth) At(z float64) float64 {
	return geom.Lerp(d.Near, d.Far, geom.Clamp(z, 0, 1))
}

// Mask is a radial fade given as fractions of the half-diagonal: fully
// opaque inside Inner, fully transparent beyond Outer.
type Mask struct {
	Inner float64 `toml:"inner" json:"inner"`
	Outer float64 `toml:"outer" json:"outer"`
}

// Enabled reports whether the mask does anything.
func (m Mask) Enabled() bool { return m.Outer > 0 }

// Options controls the look of composed layers.
type Options struct {
	NodeRadius Depth `toml:"node_radius" json:"node_radius"`
	NodeAlpha  Depth `toml:"node_alpha" json:"node_alpha"`
	EdgeWidth  Depth `toml:"edge_width" json:"edge_width"`
	EdgeAlpha  Depth `toml:"edge_alpha" json:"edge_alpha"`

	PulseRadius float64 `toml:"pulse_radius" json:"pulse_radius"`
	PulseAlpha  float64 `toml:"pulse_alpha" json:"pulse_alpha"`

	BackgroundMask Mask `toml:"background_mask" json:"background_mask"`
	StaticMask     Mask `toml:"static_mask" json:"static_mask"`
	DynamicMask    Mask `toml:"dynamic_mask" json:"dynamic_mask"`
}

// SetDefaults fills zero values.
func (o *Options) SetDefaults() {
	setDepth(&o.NodeRadius, Depth{Near: 3.2, Far: 1.2})
	setDepth(&o.NodeAlpha, Depth{Near: 0.95, Far: 0.35})
	setDepth(&o.EdgeWidth, Depth{Near: 1.4, Far: 0.5})
	setDepth(&o.EdgeAlpha, Depth{Near: 0.55, Far: 0.15})
	if o.PulseRadius == 0 {
		o.PulseRadius = 2.4
	}
	if o.PulseAlpha == 0 {
		o.PulseAlpha = 0.95
	}
	if o.BackgroundMask == (Mask{}) {
		o.BackgroundMask = Mask{Inner: 0.35, Outer: 1}
	}
	if o.StaticMask == (Mask{}) {
		o.StaticMask = Mask{Inner: 0.5, Outer: 1.1}
	}
}

func setDepth(d *Depth, def Depth) {
	if *d == (Depth{}) {
		*d = def
	}
}

// Validate checks ranges.
func (o Options) Validate() error {
	for _, d := range []struct {
		name string
		d    Depth
	}{{"node_radius", o.NodeRadius}, {"edge_width", o.EdgeWidth}} {
		if d.d.Near < 0 || d.d.Far < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "%s cannot be negative", d.name)
		}
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"node_alpha.near", o.NodeAlpha.Near},
		{"node_alpha.far", o.NodeAlpha.Far},
		{"edge_alpha.near", o.EdgeAlpha.Near},
		{"edge_alpha.far", o.EdgeAlpha.Far},
		{"pulse_alpha", o.PulseAlpha},
	} {
		if err := errors.ValidateFraction(f.name, f.v); err != nil {
			return err
		}
	}
	if o.PulseRadius < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "pulse_radius cannot be negative")
	}
	for _, m := range []struct {
		name string
		m    Mask
	}{
		{"background_mask", o.BackgroundMask},
		{"static_mask", o.StaticMask},
		{"dynamic_mask", o.DynamicMask},
	} {
		if err := errors.ValidateRange(m.name, m.m.Inner, m.m.Outer); err != nil {
			return err
		}
	}
	return nil
}
