package sample

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/meshdrift/pkg/errors"
)

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

func TestPoissonSpacing(t *testing.T) {
	const r = 50.0
	pts, err := Poisson(1000, 1000, r, DefaultAttempts, newRNG(1))
	if err != nil {
		t.Fatalf("Poisson error: %v", err)
	}
	if len(pts) < 100 {
		t.Fatalf("Poisson produced %d points, expected a filled region", len(pts))
	}

	for i := range pts {
		for j := i + 1; j < len(pts); j++ {
			d := math.Hypot(pts[i].X-pts[j].X, pts[i].Y-pts[j].Y)
			if d < r-1e-9 {
				t.Fatalf("points %d and %d are %.3f apart, want >= %v", i, j, d, r)
			}
		}
	}
}

func TestPoissonBounds(t *testing.T) {
	pts, err := Poisson(640, 360, 24, DefaultAttempts, newRNG(7))
	if err != nil {
		t.Fatalf("Poisson error: %v", err)
	}
	for i, p := range pts {
		if p.X < 0 || p.X >= 640 || p.Y < 0 || p.Y >= 360 {
			t.Errorf("point %d = %+v is outside the region", i, p)
		}
	}
}

func TestPoissonStartsAtCentre(t *testing.T) {
	pts, err := Poisson(200, 100, 10, DefaultAttempts, newRNG(3))
	if err != nil {
		t.Fatalf("Poisson error: %v", err)
	}
	if pts[0].X != 100 || pts[0].Y != 50 {
		t.Errorf("first point = %+v, want region centre (100, 50)", pts[0])
	}
}

func TestPoissonLargeRadius(t *testing.T) {
	pts, err := Poisson(30, 40, 51, DefaultAttempts, newRNG(5))
	if err != nil {
		t.Fatalf("Poisson error: %v", err)
	}
	if len(pts) != 1 {
		t.Errorf("len(pts) = %d, want 1 when r exceeds the diagonal", len(pts))
	}
}

func TestPoissonDensity(t *testing.T) {
	// Denser spacing must never yield fewer points on the same region.
	sparse, _ := Poisson(800, 600, 60, DefaultAttempts, newRNG(11))
	dense, _ := Poisson(800, 600, 30, DefaultAttempts, newRNG(11))
	if len(dense) <= len(sparse) {
		t.Errorf("dense = %d points, sparse = %d points; want dense > sparse", len(dense), len(sparse))
	}
}

func TestPoissonInvalid(t *testing.T) {
	tests := []struct {
		name    string
		w, h, r float64
		k       int
	}{
		{"zero width", 0, 10, 1, 5},
		{"negative height", 10, -1, 1, 5},
		{"zero radius", 10, 10, 0, 5},
		{"no attempts", 10, 10, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Poisson(tt.w, tt.h, tt.r, tt.k, newRNG(1))
			if !errors.Is(err, errors.ErrCodeInvalidGeometry) {
				t.Errorf("Poisson error = %v, want %s", err, errors.ErrCodeInvalidGeometry)
			}
		})
	}
}
