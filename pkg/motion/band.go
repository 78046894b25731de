package motion

import (
	"github.com/matzehuels/meshdrift/pkg/errors"
)

// Band is a depth range with its own orbit parameters.
type Band struct {
	Name string `toml:"name" json:"name"`

	// ZMin and ZMax bound the band as [ZMin, ZMax).
	ZMin float64 `toml:"z_min" json:"z_min"`
	ZMax float64 `toml:"z_max" json:"z_max"`

	// Moving marks nodes of this band as orbiting. Nodes of a static band
	// stay on their origin.
	Moving bool `toml:"moving" json:"moving"`

	// HeadingDeg rotates the whole ellipse.
	HeadingDeg float64 `toml:"heading_deg" json:"heading_deg"`

	// CyclesPerLoop is the number of full orbits per loop period.
	CyclesPerLoop int `toml:"cycles_per_loop" json:"cycles_per_loop"`

	// Direction is +1 (counter-clockwise in screen space) or -1.
	Direction int `toml:"direction" json:"direction"`

	// PhaseOffset shifts the band's phase in radians.
	PhaseOffset float64 `toml:"phase_offset" json:"phase_offset"`

	// RadiusX and RadiusY are ellipse radii as fractions of the viewport's
	// shorter side.
	RadiusX float64 `toml:"radius_x" json:"radius_x"`
	RadiusY float64 `toml:"radius_y" json:"radius_y"`
}

// Bands is an ordered band list; the first match wins.
type Bands []Band

// DefaultBands returns the near/mid/far setup.
func DefaultBands() Bands {
	return Bands{
		{
			Name: "near", ZMin: 0, ZMax: 0.35, Moving: true,
			HeadingDeg: 20, CyclesPerLoop: 1, Direction: 1,
			RadiusX: 0.035, RadiusY: 0.02,
		},
		{
			Name: "mid", ZMin: 0.35, ZMax: 0.7, Moving: true,
			HeadingDeg: -35, CyclesPerLoop: 2, Direction: -1, PhaseOffset: 1.3,
			RadiusX: 0.022, RadiusY: 0.014,
		},
		{
			Name: "far", ZMin: 0.7, ZMax: 1,
		},
	}
}

// Classify returns the index of the first band whose range contains z and
// whether that band moves. A z outside every band is static with index -1.
func (b Bands) Classify(z float64) (int, bool) {
	for i := range b {
		if z >= b[i].ZMin && z < b[i].ZMax {
			return i, b[i].Moving
		}
	}
	return -1, false
}

// Validate checks every band.
func (b Bands) Validate() error {
	for i := range b {
		if err := b[i].validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "band %d (%s)", i, b[i].Name)
		}
	}
	return nil
}

func (b *Band) validate() error {
	if err := errors.ValidateRange("z range", b.ZMin, b.ZMax); err != nil {
		return err
	}
	if b.ZMin == b.ZMax {
		return errors.New(errors.ErrCodeInvalidConfig, "z range is empty (%g)", b.ZMin)
	}
	if !b.Moving {
		return nil
	}
	if err := errors.ValidatePositiveInt("cycles_per_loop", b.CyclesPerLoop); err != nil {
		return err
	}
	if b.Direction != 1 && b.Direction != -1 {
		return errors.New(errors.ErrCodeInvalidConfig, "direction must be 1 or -1 (got %d)", b.Direction)
	}
	if err := errors.ValidateFraction("radius_x", b.RadiusX); err != nil {
		return err
	}
	return errors.ValidateFraction("radius_y", b.RadiusY)
}
