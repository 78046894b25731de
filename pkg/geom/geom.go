// Package geom provides the small set of 2D helpers shared by the sampler,
// graph builder, motion model and renderer.
package geom

import "math"

// Point is a position in viewport pixels.
type Point struct {
	X, Y float64
}

// Dist returns the Euclidean distance between a and b.
func Dist(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// DistSq returns the squared distance between a and b.
func DistSq(a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	return dx*dx + dy*dy
}

// Rotate rotates (x, y) around the origin by angle radians.
func Rotate(x, y, angle float64) (float64, float64) {
	s, c := math.Sincos(angle)
	return x*c - y*s, x*s + y*c
}

// Lerp interpolates between a and b; t is not clamped. The endpoints are
// returned exactly for t = 0 and t = 1.
func Lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}
