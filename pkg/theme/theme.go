// Package theme reads the three mesh colours from a named-key lookup.
//
// Hosts expose their styling layer as a [Lookup]. Keys that are missing or
// do not parse fall back to a literal palette, so a half-configured theme
// never stops the animation. Values are either "r, g, b" triples or hex
// strings understood by go-colorful.
package theme

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/meshdrift/pkg/errors"
)

// Lookup keys.
const (
	KeyNode  = "--mesh-node-rgb"
	KeyEdge  = "--mesh-edge-rgb"
	KeyPulse = "--mesh-pulse-rgb"
)

// Default colours.
var (
	DefaultNode  = RGB{148, 163, 184}
	DefaultEdge  = RGB{100, 116, 139}
	DefaultPulse = RGB{56, 189, 248}
)

// RGB is an 8-bit colour.
type RGB struct {
	R, G, B uint8
}

// Parse reads "r, g, b" or "#rrggbb".
func Parse(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RGB{}, errors.New(errors.ErrCodeInvalidFormat, "empty colour")
	}
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return RGB{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "colour %q", s)
		}
		return FromColor(c), nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return RGB{}, errors.New(errors.ErrCodeInvalidFormat, "colour %q: want \"r, g, b\" or #rrggbb", s)
	}
	var ch [3]uint8
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 || v > 255 {
			return RGB{}, errors.New(errors.ErrCodeInvalidFormat, "colour %q: channel %d out of range", s, i)
		}
		ch[i] = uint8(v)
	}
	return RGB{ch[0], ch[1], ch[2]}, nil
}

// FromColor converts a go-colorful colour, clamping out-of-gamut values.
func FromColor(c colorful.Color) RGB {
	r, g, b := c.Clamped().RGB255()
	return RGB{r, g, b}
}

// Color returns the colour as a go-colorful value.
func (c RGB) Color() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Hex returns "#rrggbb".
func (c RGB) Hex() string { return c.Color().Hex() }

// String returns "r, g, b".
func (c RGB) String() string { return fmt.Sprintf("%d, %d, %d", c.R, c.G, c.B) }

// Blend mixes c toward o by t in [0, 1].
func (c RGB) Blend(o RGB, t float64) RGB {
	return FromColor(c.Color().BlendRgb(o.Color(), t))
}

// MarshalText implements encoding.TextMarshaler.
func (c RGB) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *RGB) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Palette holds the three mesh colours.
type Palette struct {
	Node  RGB `toml:"node" json:"node"`
	Edge  RGB `toml:"edge" json:"edge"`
	Pulse RGB `toml:"pulse" json:"pulse"`
}

// DefaultPalette returns the literal fallback palette.
func DefaultPalette() Palette {
	return Palette{Node: DefaultNode, Edge: DefaultEdge, Pulse: DefaultPulse}
}

// Lookup resolves a theme key to its raw value.
type Lookup interface {
	Lookup(key string) (string, bool)
}

// LookupFunc adapts a function to [Lookup].
type LookupFunc func(key string) (string, bool)

func (f LookupFunc) Lookup(key string) (string, bool) { return f(key) }

// MapLookup serves keys from a map.
type MapLookup map[string]string

func (m MapLookup) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// EnvLookup reads keys from the environment: "--mesh-node-rgb" becomes
// Prefix + "NODE_RGB".
type EnvLookup struct {
	Prefix string
}

// DefaultEnvPrefix is the environment prefix used by the CLI.
const DefaultEnvPrefix = "MESHDRIFT_"

// EnvName returns the variable name for key.
func (e EnvLookup) EnvName(key string) string {
	name := strings.TrimPrefix(key, "--mesh-")
	name = strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
	return e.Prefix + name
}

func (e EnvLookup) Lookup(key string) (string, bool) {
	return os.LookupEnv(e.EnvName(key))
}

// Chain tries each lookup in order.
type Chain []Lookup

func (c Chain) Lookup(key string) (string, bool) {
	for _, l := range c {
		if l == nil {
			continue
		}
		if v, ok := l.Lookup(key); ok {
			return v, true
		}
	}
	return "", false
}

// Read resolves all three colours, using fallback for keys that are missing
// or unparsable. A nil lookup returns fallback.
func Read(l Lookup, fallback Palette) Palette {
	if l == nil {
		return fallback
	}
	return Palette{
		Node:  read(l, KeyNode, fallback.Node),
		Edge:  read(l, KeyEdge, fallback.Edge),
		Pulse: read(l, KeyPulse, fallback.Pulse),
	}
}

func read(l Lookup, key string, fallback RGB) RGB {
	raw, ok := l.Lookup(key)
	if !ok {
		return fallback
	}
	c, err := Parse(raw)
	if err != nil {
		return fallback
	}
	return c
}
