package cli

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/meshdrift/pkg/config"
	"github.com/matzehuels/meshdrift/pkg/engine"
	"github.com/matzehuels/meshdrift/pkg/layout"
	"github.com/matzehuels/meshdrift/pkg/render"
	"github.com/matzehuels/meshdrift/pkg/theme"
)

const (
	// cellPxX and cellPxY approximate one terminal cell in pixels, so the
	// layout sees a realistic surface instead of a grid of dots.
	cellPxX = 8
	cellPxY = 16

	defaultFPS = 30
)

// animateCommand creates the terminal animation command.
func (c *CLI) animateCommand() *cobra.Command {
	var fps int

	cmd := &cobra.Command{
		Use:   "animate",
		Short: "Run the mesh live in the terminal",
		Long: `Run the mesh live in the terminal using braille cells.

Keys:
  space  start / stop
  t      reload the theme (environment and --config file)
  q      quit

Colours are read from MESHDRIFT_NODE_RGB, MESHDRIFT_EDGE_RGB and
MESHDRIFT_PULSE_RGB ("r, g, b" or #rrggbb) before falling back to the
configuration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if fps <= 0 {
				return fmt.Errorf("--fps must be positive (got %d)", fps)
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			m, err := newAnimateModel(cfg, c.themeLookup(), time.Second/time.Duration(fps))
			if err != nil {
				return err
			}
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().IntVar(&fps, "fps", defaultFPS, "display refresh rate")
	return cmd
}

// themeLookup reads colours from the environment, then from the --config
// file, re-reading the file on every call so edits apply on refresh.
func (c *CLI) themeLookup() theme.Lookup {
	env := theme.EnvLookup{Prefix: theme.DefaultEnvPrefix}
	if c.configPath == "" {
		return env
	}
	path := c.configPath
	file := theme.LookupFunc(func(key string) (string, bool) {
		cfg, err := config.Load(path)
		if err != nil {
			return "", false
		}
		switch key {
		case theme.KeyNode:
			return cfg.Theme.Node.String(), true
		case theme.KeyEdge:
			return cfg.Theme.Edge.String(), true
		case theme.KeyPulse:
			return cfg.Theme.Pulse.String(), true
		}
		return "", false
	})
	return theme.Chain{env, file}
}

// =============================================================================
// animateModel - bubbletea host for the engine
// =============================================================================

type frameMsg time.Time

// animateModel drives the engine from display ticks and rasterizes the
// captured scene into a braille canvas.
type animateModel struct {
	engine   *engine.Engine
	capture  *render.Capture
	canvas   *render.Canvas
	interval time.Duration
	start    time.Time

	outcome layout.Outcome
	err     error
}

func newAnimateModel(cfg config.Options, lookup theme.Lookup, interval time.Duration) (*animateModel, error) {
	m := &animateModel{
		capture:  render.NewCapture(cfg.Render),
		canvas:   render.NewCanvas(80, 23),
		interval: interval,
		start:    time.Now(),
	}
	surface := engine.SurfaceFunc(func() (float64, float64, bool) {
		cols, rows := m.canvas.Size()
		return float64(cols * cellPxX), float64(rows * cellPxY), cols > 0 && rows > 0
	})

	e, err := engine.New(cfg, surface,
		engine.WithSink(m.capture),
		engine.WithLogger(log.New(io.Discard)),
		engine.WithThemeLookup(lookup))
	if err != nil {
		return nil, err
	}
	m.engine = e
	m.outcome = layout.Rebuilt
	e.Start(m.now())
	m.refresh()
	return m, nil
}

// now returns milliseconds since the model was created.
func (m *animateModel) now() float64 {
	return float64(time.Since(m.start)) / float64(time.Millisecond)
}

func (m *animateModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m *animateModel) Init() tea.Cmd {
	return m.tick()
}

func (m *animateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "space":
			if m.engine.Running() {
				m.engine.Stop()
			} else {
				m.engine.Start(m.now())
			}
		case "t":
			m.engine.RefreshTheme()
			m.refresh()
		}

	case tea.WindowSizeMsg:
		m.canvas.Resize(msg.Width, max(msg.Height-1, 1))
		m.outcome, m.err = m.engine.Resize()
		m.refresh()

	case frameMsg:
		m.engine.Frame(m.now())
		m.redraw()
		return m, m.tick()
	}
	return m, nil
}

// redraw rasterizes the latest captured scene.
func (m *animateModel) redraw() {
	if scene, _, ok := m.capture.Latest(); ok {
		m.canvas.Draw(scene)
	}
}

// refresh captures the current state without ticking, for changes that
// must show even while paused.
func (m *animateModel) refresh() {
	m.capture.Draw(m.engine.Snapshot())
	m.redraw()
}

func (m *animateModel) View() string {
	var b strings.Builder
	b.WriteString(m.canvas.Render())
	b.WriteString("\n")
	b.WriteString(m.status())
	return b.String()
}

func (m *animateModel) status() string {
	if m.err != nil {
		return StyleWarning.Render(m.err.Error())
	}

	state := StyleNumber.Render("▶ running")
	if !m.engine.Running() {
		state = StyleDim.Render("❚❚ paused")
	}

	t := m.engine.Targets()
	phase := 0.0
	if _, f, ok := m.capture.Latest(); ok {
		phase = f.Theta / (2 * math.Pi)
	}
	info := fmt.Sprintf("tick %d · loop %3.0f%% · %d nodes · %d pulses max · %s",
		m.engine.Ticks(), phase*100, t.Foreground, t.MaxPulses, m.outcome)
	return state + "  " + StyleDim.Render(info) + "  " + StyleDim.Render("space pause · t theme · q quit")
}
