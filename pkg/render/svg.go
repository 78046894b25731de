package render

import (
	"bytes"
	"fmt"
	"math"

	"github.com/matzehuels/meshdrift/pkg/theme"
)

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	background string
	masks      bool
	occlusion  bool
}

// WithBackground paints a solid backdrop; by default the SVG is transparent.
func WithBackground(hex string) SVGOption { return func(r *svgRenderer) { r.background = hex } }

// WithoutMasks drops the radial edge-fade masks.
func WithoutMasks() SVGOption { return func(r *svgRenderer) { r.masks = false } }

// WithoutOcclusion keeps edge pixels under node glyphs.
func WithoutOcclusion() SVGOption { return func(r *svgRenderer) { r.occlusion = false } }

// RenderSVG writes the scene as three stacked groups, back to front.
func RenderSVG(s Scene, opts ...SVGOption) []byte {
	r := &svgRenderer{masks: true, occlusion: true}
	for _, opt := range opts {
		opt(r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		s.Width, s.Height, s.Width, s.Height)

	buf.WriteString("  <defs>\n")
	for i := range s.Layers {
		r.renderDefs(&buf, &s, &s.Layers[i])
	}
	buf.WriteString("  </defs>\n")

	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", r.background)
	}
	for i := range s.Layers {
		r.renderLayer(&buf, &s, &s.Layers[i])
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) hasFade(l *Layer) bool { return r.masks && l.Mask.Enabled() }

func (r *svgRenderer) hasOcclusion(l *Layer) bool {
	return r.occlusion && len(l.Occluders) > 0 && len(l.Edges) > 0
}

func (r *svgRenderer) renderDefs(buf *bytes.Buffer, s *Scene, l *Layer) {
	if r.hasFade(l) {
		reach := math.Hypot(s.Width, s.Height) / 2 * l.Mask.Outer
		inner := 0.0
		if l.Mask.Outer > 0 {
			inner = l.Mask.Inner / l.Mask.Outer
		}
		fmt.Fprintf(buf, `    <radialGradient id="fade-%s" gradientUnits="userSpaceOnUse" cx="%.1f" cy="%.1f" r="%.1f">`+"\n",
			l.Name, s.Width/2, s.Height/2, reach)
		fmt.Fprintf(buf, `      <stop offset="%.3f" stop-color="#fff" stop-opacity="1"/>`+"\n", inner)
		buf.WriteString(`      <stop offset="1" stop-color="#fff" stop-opacity="0"/>` + "\n")
		buf.WriteString("    </radialGradient>\n")
		fmt.Fprintf(buf, `    <mask id="mask-%s" maskUnits="userSpaceOnUse" x="0" y="0" width="%.1f" height="%.1f">`+"\n",
			l.Name, s.Width, s.Height)
		fmt.Fprintf(buf, `      <rect width="100%%" height="100%%" fill="url(#fade-%s)"/>`+"\n", l.Name)
		buf.WriteString("    </mask>\n")
	}

	if r.hasOcclusion(l) {
		fmt.Fprintf(buf, `    <mask id="occlude-%s" maskUnits="userSpaceOnUse" x="0" y="0" width="%.1f" height="%.1f">`+"\n",
			l.Name, s.Width, s.Height)
		buf.WriteString(`      <rect width="100%" height="100%" fill="#fff"/>` + "\n")
		for _, c := range l.Occluders {
			fmt.Fprintf(buf, `      <circle cx="%.2f" cy="%.2f" r="%.2f" fill="#000"/>`+"\n", c.X, c.Y, c.R)
		}
		buf.WriteString("    </mask>\n")
	}
}

func (r *svgRenderer) renderLayer(buf *bytes.Buffer, s *Scene, l *Layer) {
	if r.hasFade(l) {
		fmt.Fprintf(buf, `  <g id="layer-%s" mask="url(#mask-%s)">`+"\n", l.Name, l.Name)
	} else {
		fmt.Fprintf(buf, `  <g id="layer-%s">`+"\n", l.Name)
	}

	if len(l.Edges) > 0 {
		occ := ""
		if r.hasOcclusion(l) {
			occ = fmt.Sprintf(` mask="url(#occlude-%s)"`, l.Name)
		}
		fmt.Fprintf(buf, `    <g class="edges" stroke="%s" stroke-linecap="round"%s>`+"\n", rgb(s.Palette.Edge), occ)
		for _, e := range l.Edges {
			fmt.Fprintf(buf, `      <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke-width="%.2f" stroke-opacity="%.3f"/>`+"\n",
				e.X1, e.Y1, e.X2, e.Y2, e.Width, e.Alpha)
		}
		buf.WriteString("    </g>\n")
	}

	writeCircles(buf, "nodes", s.Palette.Node, l.Nodes)
	writeCircles(buf, "pulses", s.Palette.Pulse, l.Pulses)
	buf.WriteString("  </g>\n")
}

func writeCircles(buf *bytes.Buffer, class string, c theme.RGB, circles []Circle) {
	if len(circles) == 0 {
		return
	}
	fmt.Fprintf(buf, `    <g class="%s" fill="%s">`+"\n", class, rgb(c))
	for _, p := range circles {
		fmt.Fprintf(buf, `      <circle cx="%.2f" cy="%.2f" r="%.2f" fill-opacity="%.3f"/>`+"\n", p.X, p.Y, p.R, p.Alpha)
	}
	buf.WriteString("    </g>\n")
}

func rgb(c theme.RGB) string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}
