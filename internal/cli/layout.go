package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/meshdrift/pkg/errors"
	"github.com/matzehuels/meshdrift/pkg/layout"
)

// defaultViewports covers desktop, tablet, small and phone surfaces.
var defaultViewports = []string{"1440x900", "1024x768", "500x400", "390x844"}

// layoutCommand creates the layout command for inspecting density targets.
func (c *CLI) layoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "layout [WxH...]",
		Short: "Print node counts, edge lengths and pulse caps per viewport",
		Long: `Print the density targets the layout manager computes for each viewport.

Counts scale with area and edge lengths with its square root, both clamped
to the configured ranges. Viewports narrower than the compact threshold use
the compact density.`,
		Example: `  meshdrift layout
  meshdrift layout 1920x1080 360x640`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				args = defaultViewports
			}

			viewports := make([]layout.Viewport, len(args))
			for i, a := range args {
				if viewports[i], err = parseViewport(a); err != nil {
					return err
				}
			}
			fmt.Println(targetsTable(viewports, cfg.Layout))
			return nil
		},
	}
}

// parseViewport parses "WxH".
func parseViewport(s string) (layout.Viewport, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return layout.Viewport{}, errors.New(errors.ErrCodeInvalidGeometry, "viewport %q: want WIDTHxHEIGHT", s)
	}
	w, errW := strconv.ParseFloat(ws, 64)
	h, errH := strconv.ParseFloat(hs, 64)
	if errW != nil || errH != nil {
		return layout.Viewport{}, errors.New(errors.ErrCodeInvalidGeometry, "viewport %q: want WIDTHxHEIGHT", s)
	}
	vp := layout.Viewport{W: w, H: h}
	if err := vp.Validate(); err != nil {
		return layout.Viewport{}, err
	}
	return vp, nil
}

// targetsTable renders the targets of each viewport as a table.
func targetsTable(viewports []layout.Viewport, opts layout.Options) string {
	rows := make([][]string, len(viewports))
	for i, vp := range viewports {
		t := layout.ComputeTargets(vp, opts)
		compact := ""
		if t.Compact {
			compact = "✓"
		}
		rows[i] = []string{
			fmt.Sprintf("%.0f×%.0f", vp.W, vp.H),
			strconv.Itoa(t.Foreground),
			strconv.Itoa(t.Background),
			fmt.Sprintf("%.0f", t.ForegroundEdge),
			fmt.Sprintf("%.0f", t.BackgroundEdge),
			strconv.Itoa(t.MaxPulses),
			compact,
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Viewport", "Nodes", "Background", "Edge px", "Bg edge px", "Pulses", "Compact").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle.Padding(0, 1)
			case col == 0:
				return cellStyle.Foreground(colorWhite)
			case col == 6:
				return cellStyle.Foreground(colorGreen)
			default:
				return cellStyle.Foreground(colorCyan)
			}
		}).
		String()
}
