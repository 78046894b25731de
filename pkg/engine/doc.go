// Package engine owns one running mesh: its layers, motion model, pulse
// scheduler and palette, driven by a fixed-timestep loop.
//
// Hosts supply time. Each call to [Engine.Frame] adds the elapsed wall time
// to a lag accumulator, runs up to MaxTicksPerFrame fixed ticks, drops any
// lag left beyond that, and draws exactly once through the [Sink]:
//
//	eng, err := engine.New(config.Default(), surface, engine.WithSink(sink))
//	if err != nil {
//	    return err
//	}
//	eng.Start(nowMs)
//	for range ticker.C {
//	    eng.Frame(nowMs)
//	}
//
// Simulation time is the tick count times the step length, so stopping and
// restarting the engine never makes nodes jump.
//
// An Engine is not safe for concurrent use. Hosts that call it from several
// goroutines serialize access themselves.
package engine
