package render

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/matzehuels/meshdrift/pkg/layout"
	"github.com/matzehuels/meshdrift/pkg/mesh"
	"github.com/matzehuels/meshdrift/pkg/theme"
)

// JSONOption configures [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	runID   uuid.UUID
	seed    uint64
	hasSeed bool
	scene   *Scene
}

// WithRunID tags the export with the run that produced it.
func WithRunID(id uuid.UUID) JSONOption { return func(r *jsonRenderer) { r.runID = id } }

// WithSeed records the RNG seed so the frame can be reproduced.
func WithSeed(seed uint64) JSONOption {
	return func(r *jsonRenderer) { r.seed = seed; r.hasSeed = true }
}

// WithScene includes the composed layers.
func WithScene(s Scene) JSONOption { return func(r *jsonRenderer) { r.scene = &s } }

type jsonOutput struct {
	RunID    string          `json:"run_id,omitempty"`
	Seed     *uint64         `json:"seed,omitempty"`
	Viewport layout.Viewport `json:"viewport"`
	Tick     uint64          `json:"tick"`
	TimeMs   float64         `json:"time_ms"`
	Theta    float64         `json:"theta"`
	Palette  jsonPalette     `json:"palette"`

	Foreground jsonLayer   `json:"foreground"`
	Background jsonLayer   `json:"background"`
	Pulses     []jsonPulse `json:"pulses"`
	Layers     []jsonScene `json:"layers,omitempty"`
}

type jsonPalette struct {
	Node  string `json:"node"`
	Edge  string `json:"edge"`
	Pulse string `json:"pulse"`
}

type jsonLayer struct {
	Nodes []jsonNode `json:"nodes"`
	Edges []jsonEdge `json:"edges"`
}

type jsonNode struct {
	ID     int     `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	OX     float64 `json:"ox"`
	OY     float64 `json:"oy"`
	Z      float64 `json:"z"`
	Band   int     `json:"band"`
	Moving bool    `json:"moving,omitempty"`
}

type jsonEdge struct {
	A       int     `json:"a"`
	B       int     `json:"b"`
	Length  float64 `json:"length"`
	Dynamic bool    `json:"dynamic,omitempty"`
}

type jsonPulse struct {
	Edge   int     `json:"edge"`
	T      float64 `json:"t"`
	Length float64 `json:"length"`
}

type jsonScene struct {
	Name      string  `json:"name"`
	Mask      *Mask   `json:"mask,omitempty"`
	Edges     int     `json:"edges"`
	Nodes     int     `json:"nodes"`
	Pulses    int     `json:"pulses"`
	Occluders int     `json:"occluders"`
	MaxRadius float64 `json:"max_radius"`
}

// RenderJSON exports a frame snapshot.
func RenderJSON(f *Frame, opts ...JSONOption) ([]byte, error) {
	r := &jsonRenderer{}
	for _, opt := range opts {
		opt(r)
	}

	out := jsonOutput{
		Viewport:   f.Viewport,
		Tick:       f.Tick,
		TimeMs:     f.TimeMs,
		Theta:      f.Theta,
		Palette:    paletteJSON(f.Palette),
		Foreground: layerJSON(f.Foreground),
		Background: layerJSON(f.Background),
		Pulses:     make([]jsonPulse, 0, len(f.Pulses)),
	}
	if r.runID != uuid.Nil {
		out.RunID = r.runID.String()
	}
	if r.hasSeed {
		out.Seed = &r.seed
	}
	for _, p := range f.Pulses {
		out.Pulses = append(out.Pulses, jsonPulse{Edge: p.Edge, T: p.T, Length: p.Length})
	}
	if r.scene != nil {
		for i := range r.scene.Layers {
			out.Layers = append(out.Layers, sceneJSON(&r.scene.Layers[i]))
		}
	}

	return json.MarshalIndent(out, "", "  ")
}

func paletteJSON(p theme.Palette) jsonPalette {
	return jsonPalette{Node: p.Node.Hex(), Edge: p.Edge.Hex(), Pulse: p.Pulse.Hex()}
}

func layerJSON(l mesh.Layer) jsonLayer {
	out := jsonLayer{
		Nodes: make([]jsonNode, 0, len(l.Nodes)),
		Edges: make([]jsonEdge, 0, len(l.Graph.Edges)),
	}
	for _, n := range l.Nodes {
		out.Nodes = append(out.Nodes, jsonNode{
			ID: n.ID, X: n.X, Y: n.Y, OX: n.OX, OY: n.OY, Z: n.Z, Band: n.Band, Moving: n.Moving,
		})
	}
	dynamic := make(map[int]bool, len(l.Graph.Dynamic))
	for _, i := range l.Graph.Dynamic {
		dynamic[i] = true
	}
	for i, e := range l.Graph.Edges {
		out.Edges = append(out.Edges, jsonEdge{A: e.A, B: e.B, Length: e.Length, Dynamic: dynamic[i]})
	}
	return out
}

func sceneJSON(l *Layer) jsonScene {
	s := jsonScene{
		Name:      l.Name,
		Edges:     len(l.Edges),
		Nodes:     len(l.Nodes),
		Pulses:    len(l.Pulses),
		Occluders: len(l.Occluders),
	}
	if l.Mask.Enabled() {
		m := l.Mask
		s.Mask = &m
	}
	for _, c := range l.Occluders {
		s.MaxRadius = max(s.MaxRadius, c.R)
	}
	return s
}
