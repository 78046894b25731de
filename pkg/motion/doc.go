// Package motion maps simulation time to foreground node positions.
//
// A single loop-phase angle θ is the only time-varying input:
//
//	θ(t) = ((t − loopStart) mod D) / D × 2π
//
// Every depth [Band] derives its own phase from θ and moves its nodes along a
// rotated ellipse around their origin. Positions are recomputed from scratch
// on every [Model.Step], so a node sits at exactly the same place at t and at
// t + D as long as each band's CyclesPerLoop is a whole number.
//
// CyclesPerLoop is an int for that reason; [Options.Validate] rejects values
// below one. A fractional cycle count would leave a visible jump at the loop
// boundary.
package motion
