// Package sample places points evenly across a rectangle.
//
// [Poisson] implements Bridson-style Poisson-disc sampling: every emitted
// point is at least r away from every other, and the region fills with
// roughly uniform density instead of the clumps and gaps of uniform random
// placement. The layout manager uses it to seed both node layers.
//
//	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
//	pts, err := sample.Poisson(1440, 900, 80, sample.DefaultAttempts, rng)
//
// Output order is insertion order and carries no spatial meaning.
package sample
