package render

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/meshdrift/pkg/theme"
)

// Braille cells are 2 dots wide and 4 dots tall.
const (
	cellDotsX = 2
	cellDotsY = 4
)

var brailleBits = [cellDotsY][cellDotsX]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// minInk keeps faint far-away elements visible on a dark terminal.
const minInk = 0.35

// Canvas rasterizes scenes into braille terminal cells. Each cell keeps a
// colour blended from every element that touched it.
type Canvas struct {
	cols, rows int
	bits       []uint8
	color      []colorful.Color
	stamp      []int
	mask       []bool
	gen        int
	backdrop   colorful.Color
}

// NewCanvas returns a canvas of cols×rows terminal cells.
func NewCanvas(cols, rows int) *Canvas {
	c := &Canvas{}
	c.Resize(cols, rows)
	return c
}

// Resize changes the cell grid and clears it.
func (c *Canvas) Resize(cols, rows int) {
	c.cols, c.rows = max(cols, 0), max(rows, 0)
	n := c.cols * c.rows
	c.bits = make([]uint8, n)
	c.color = make([]colorful.Color, n)
	c.stamp = make([]int, n)
	c.mask = make([]bool, n*cellDotsX*cellDotsY)
	c.Clear()
}

// Size returns the grid in cells.
func (c *Canvas) Size() (cols, rows int) { return c.cols, c.rows }

// DotSize returns the grid in braille dots.
func (c *Canvas) DotSize() (w, h int) { return c.cols * cellDotsX, c.rows * cellDotsY }

// SetBackdrop sets the colour elements are blended onto.
func (c *Canvas) SetBackdrop(rgb theme.RGB) { c.backdrop = rgb.Color() }

// Clear erases every dot.
func (c *Canvas) Clear() {
	for i := range c.bits {
		c.bits[i] = 0
		c.color[i] = c.backdrop
		c.stamp[i] = 0
	}
	c.gen = 0
}

// Draw rasterizes s, stretching it over the whole grid.
func (c *Canvas) Draw(s Scene) {
	c.Clear()
	if c.cols == 0 || c.rows == 0 || s.Width <= 0 || s.Height <= 0 {
		return
	}
	dw, dh := c.DotSize()
	sx, sy := float64(dw)/s.Width, float64(dh)/s.Height
	sr := min(sx, sy)

	for li := range s.Layers {
		l := &s.Layers[li]

		clear(c.mask)
		for _, o := range l.Occluders {
			c.disc(o.X*sx, o.Y*sy, o.R*sr, func(i int) { c.mask[i] = true })
		}

		edge := s.Palette.Edge.Color()
		for _, e := range l.Edges {
			c.gen++
			c.line(e.X1*sx, e.Y1*sy, e.X2*sx, e.Y2*sy, edge, e.Alpha)
		}

		node := s.Palette.Node.Color()
		for _, n := range l.Nodes {
			c.gen++
			c.disc(n.X*sx, n.Y*sy, n.R*sr, func(i int) { c.ink(i, node, n.Alpha) })
		}
		pulse := s.Palette.Pulse.Color()
		for _, p := range l.Pulses {
			c.gen++
			c.disc(p.X*sx, p.Y*sy, p.R*sr, func(i int) { c.ink(i, pulse, p.Alpha) })
		}
	}
}

// line plots a DDA line, skipping dots under the layer's occluders.
func (c *Canvas) line(x1, y1, x2, y2 float64, col colorful.Color, alpha float64) {
	steps := int(math.Ceil(max(math.Abs(x2-x1), math.Abs(y2-y1))))
	if steps == 0 {
		steps = 1
	}
	for s := 0; s <= steps; s++ {
		t := float64(s) / float64(steps)
		i, ok := c.dotIndex(x1+(x2-x1)*t, y1+(y2-y1)*t)
		if !ok || c.mask[i] {
			continue
		}
		c.ink(i, col, alpha)
	}
}

// disc calls fn for every dot inside the circle; a circle smaller than a dot
// still covers its centre dot.
func (c *Canvas) disc(cx, cy, r float64, fn func(int)) {
	hit := false
	x0, x1 := int(math.Floor(cx-r)), int(math.Ceil(cx+r))
	y0, y1 := int(math.Floor(cy-r)), int(math.Ceil(cy+r))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			if dx*dx+dy*dy > r*r {
				continue
			}
			if i, ok := c.dotIndex(float64(x), float64(y)); ok {
				fn(i)
				hit = true
			}
		}
	}
	if !hit {
		if i, ok := c.dotIndex(cx, cy); ok {
			fn(i)
		}
	}
}

// dotIndex maps dot coordinates to a flat dot index.
func (c *Canvas) dotIndex(x, y float64) (int, bool) {
	dw, dh := c.DotSize()
	xi, yi := int(math.Floor(x)), int(math.Floor(y))
	if xi < 0 || yi < 0 || xi >= dw || yi >= dh {
		return 0, false
	}
	return yi*dw + xi, true
}

// ink sets a dot and blends the element colour into its cell once per element.
func (c *Canvas) ink(dot int, col colorful.Color, alpha float64) {
	dw, _ := c.DotSize()
	x, y := dot%dw, dot/dw
	cell := (y/cellDotsY)*c.cols + x/cellDotsX
	c.bits[cell] |= brailleBits[y%cellDotsY][x%cellDotsX]
	if c.stamp[cell] == c.gen {
		return
	}
	c.stamp[cell] = c.gen
	c.color[cell] = c.color[cell].BlendRgb(col, minInk+(1-minInk)*alpha)
}

// Rune returns the braille glyph of a cell, or a space when empty.
func (c *Canvas) Rune(col, row int) rune {
	b := c.bits[row*c.cols+col]
	if b == 0 {
		return ' '
	}
	return rune(0x2800 + int(b))
}

// Lines returns the raster without colour.
func (c *Canvas) Lines() []string {
	out := make([]string, c.rows)
	var sb strings.Builder
	for row := range c.rows {
		sb.Reset()
		for col := range c.cols {
			sb.WriteRune(c.Rune(col, row))
		}
		out[row] = sb.String()
	}
	return out
}

// Render returns the raster with per-cell foreground colours. Runs of equal
// colour share one style.
func (c *Canvas) Render() string {
	var sb strings.Builder
	var run strings.Builder
	for row := range c.rows {
		if row > 0 {
			sb.WriteByte('\n')
		}
		cur := ""
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if cur == "" {
				sb.WriteString(run.String())
			} else {
				sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(cur)).Render(run.String()))
			}
			run.Reset()
		}
		for col := range c.cols {
			i := row*c.cols + col
			hex := ""
			if c.bits[i] != 0 {
				hex = c.color[i].Clamped().Hex()
			}
			if hex != cur {
				flush()
				cur = hex
			}
			run.WriteRune(c.Rune(col, row))
		}
		flush()
	}
	return sb.String()
}
