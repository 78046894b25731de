package topology

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/meshdrift/pkg/layout"
	"github.com/matzehuels/meshdrift/pkg/mesh"
	"github.com/matzehuels/meshdrift/pkg/render"
	"github.com/matzehuels/meshdrift/pkg/theme"
)

func testFrame() *render.Frame {
	fg := []mesh.Node{
		{ID: 0, X: 100, Y: 100, Moving: true},
		{ID: 1, X: 200, Y: 100},
		{ID: 2, X: 200, Y: 250},
	}
	g := mesh.Graph{Edges: []mesh.Edge{{A: 0, B: 1, Length: 100}, {A: 1, B: 2, Length: 150}}}
	mesh.Partition(&g, fg)

	bg := []mesh.Node{{ID: 0, X: 10, Y: 10}, {ID: 1, X: 50, Y: 10}}
	bgGraph := mesh.Graph{Edges: []mesh.Edge{{A: 0, B: 1, Length: 40}}}
	mesh.Partition(&bgGraph, bg)

	return &render.Frame{
		Viewport:   layout.Viewport{W: 400, H: 300},
		Foreground: mesh.Layer{Nodes: fg, Graph: g},
		Background: mesh.Layer{Nodes: bg, Graph: bgGraph},
		Palette:    theme.DefaultPalette(),
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testFrame(), Options{})

	for _, want := range []string{
		"graph mesh {",
		"layout=neato;",
		`bb="0,0,400.0,300.0";`,
		`f0 [pos="100.00,200.00!"`,
		`f2 [pos="200.00,50.00!"`,
		"f0 -- f1 [",
		"style=solid]",
		"style=dashed]",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "b0") {
		t.Error("background layer exported without Options.Background")
	}
	if !strings.HasSuffix(dot, "}\n") {
		t.Error("DOT not closed")
	}
}

func TestToDOTOptions(t *testing.T) {
	dot := ToDOT(testFrame(), Options{Background: true, Labels: true})

	if !strings.Contains(dot, "b0 -- b1 [") {
		t.Error("background edge missing")
	}
	if !strings.Contains(dot, `label="2"`) {
		t.Error("node label missing")
	}
	if !strings.Contains(dot, theme.DefaultPalette().Node.Hex()+"66") {
		t.Error("background nodes should be translucent")
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(testFrame(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Errorf("output is not SVG: %.80s", svg)
	}
}
