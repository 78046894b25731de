package sample

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/meshdrift/pkg/errors"
	"github.com/matzehuels/meshdrift/pkg/geom"
)

// DefaultAttempts is the number of candidates tried around a frontier point
// before it is retired.
const DefaultAttempts = 30

// Poisson fills [0,w)×[0,h) with points no closer than r to each other.
//
// Sampling starts from the region centre and grows a frontier: a random
// frontier point proposes up to k candidates at distance [r, 2r) and random
// angle; the first in-bounds candidate with no placed neighbour closer than r
// is accepted. A frontier point whose k candidates all fail is dropped.
// Neighbour checks only look at the 5×5 block of grid cells around the
// candidate (cell size r/√2 holds at most one point).
//
// An r larger than the region diagonal yields just the centre point.
func Poisson(w, h, r float64, k int, rng *rand.Rand) ([]geom.Point, error) {
	if err := errors.ValidateDimensions(w, h); err != nil {
		return nil, err
	}
	if r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return nil, errors.New(errors.ErrCodeInvalidGeometry, "minimum distance must be positive (got %g)", r)
	}
	if k < 1 {
		return nil, errors.New(errors.ErrCodeInvalidGeometry, "attempts must be at least 1 (got %d)", k)
	}

	g := newGrid(w, h, r)
	points := make([]geom.Point, 0, g.cols*g.rows/2+1)
	active := make([]int, 0, 64)

	place := func(p geom.Point) {
		idx := len(points)
		points = append(points, p)
		g.put(p, idx)
		active = append(active, idx)
	}

	place(geom.Point{X: w / 2, Y: h / 2})

	rSq := r * r
	for len(active) > 0 {
		slot := rng.IntN(len(active))
		origin := points[active[slot]]

		found := false
		for range k {
			angle := rng.Float64() * 2 * math.Pi
			dist := r * (1 + rng.Float64())
			c := geom.Point{
				X: origin.X + dist*math.Cos(angle),
				Y: origin.Y + dist*math.Sin(angle),
			}
			if c.X < 0 || c.X >= w || c.Y < 0 || c.Y >= h {
				continue
			}
			if g.crowded(c, points, rSq) {
				continue
			}
			place(c)
			found = true
			break
		}

		if !found {
			last := len(active) - 1
			active[slot] = active[last]
			active = active[:last]
		}
	}

	return points, nil
}

// grid is the acceleration structure: one point index per cell, -1 if empty.
type grid struct {
	cell       float64
	cols, rows int
	cells      []int
}

func newGrid(w, h, r float64) *grid {
	cell := r / math.Sqrt2
	cols := max(1, int(math.Ceil(w/cell)))
	rows := max(1, int(math.Ceil(h/cell)))
	cells := make([]int, cols*rows)
	for i := range cells {
		cells[i] = -1
	}
	return &grid{cell: cell, cols: cols, rows: rows, cells: cells}
}

func (g *grid) coords(p geom.Point) (int, int) {
	cx := min(g.cols-1, int(p.X/g.cell))
	cy := min(g.rows-1, int(p.Y/g.cell))
	return cx, cy
}

func (g *grid) put(p geom.Point, idx int) {
	cx, cy := g.coords(p)
	g.cells[cy*g.cols+cx] = idx
}

// crowded reports whether any placed point within the 5×5 neighbourhood of
// c is closer than sqrt(rSq).
func (g *grid) crowded(c geom.Point, points []geom.Point, rSq float64) bool {
	cx, cy := g.coords(c)
	for y := max(0, cy-2); y <= min(g.rows-1, cy+2); y++ {
		for x := max(0, cx-2); x <= min(g.cols-1, cx+2); x++ {
			idx := g.cells[y*g.cols+x]
			if idx < 0 {
				continue
			}
			if geom.DistSq(c, points[idx]) < rSq {
				return true
			}
		}
	}
	return false
}
