package topology

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/meshdrift/pkg/mesh"
	"github.com/matzehuels/meshdrift/pkg/render"
)

// Options configures DOT export.
type Options struct {
	// Background includes the background layer.
	Background bool

	// Labels prints node indices.
	Labels bool
}

// ToDOT converts the frame's graphs to an undirected DOT graph.
// Positions are in points with Y flipped, since Graphviz grows upward.
func ToDOT(f *render.Frame, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph mesh {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  bb=\"0,0,%.1f,%.1f\";\n", f.Viewport.W, f.Viewport.H)
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, fontsize=6];\n")
	buf.WriteString("\n")

	if opts.Background {
		writeLayer(&buf, "b", f.Background, f.Viewport.H, f.Palette.Node.Hex()+"66", f.Palette.Edge.Hex()+"44", opts)
	}
	writeLayer(&buf, "f", f.Foreground, f.Viewport.H, f.Palette.Node.Hex(), f.Palette.Edge.Hex(), opts)

	buf.WriteString("}\n")
	return buf.String()
}

func writeLayer(buf *bytes.Buffer, prefix string, l mesh.Layer, height float64, nodeColor, edgeColor string, opts Options) {
	for _, n := range l.Nodes {
		label := ""
		if opts.Labels {
			label = fmt.Sprint(n.ID)
		}
		size := 0.12
		if prefix == "b" {
			size = 0.06
		}
		fmt.Fprintf(buf, "  %s%d [pos=\"%.2f,%.2f!\", width=%.2f, label=%q, fillcolor=%q, color=%q];\n",
			prefix, n.ID, n.X, height-n.Y, size, label, nodeColor, nodeColor)
	}

	dynamic := make(map[int]bool, len(l.Graph.Dynamic))
	for _, i := range l.Graph.Dynamic {
		dynamic[i] = true
	}
	for i, e := range l.Graph.Edges {
		style := "dashed"
		if dynamic[i] {
			style = "solid"
		}
		fmt.Fprintf(buf, "  %s%d -- %s%d [color=%q, style=%s];\n", prefix, e.A, prefix, e.B, edgeColor, style)
	}
}

// RenderSVG lays out a DOT graph with neato and returns SVG bytes ready for
// [render.ToPNG] or [render.ToPDF].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
