// Package pulse moves short-lived pulses along graph edges.
//
// Pulses live in a fixed-capacity [Pool]; nothing is allocated per spawn.
// A [Scheduler] spawns at most one pulse per interval while the active count
// is below its cap, advances every live pulse at constant pixel speed from
// endpoint A toward endpoint B, and returns it to the pool on arrival.
//
// When the pool runs dry the scheduler simply stops spawning until a slot is
// released. Configuration validation keeps the pool larger than the cap so
// this does not happen in practice.
package pulse
