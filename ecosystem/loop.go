package ecosystem

import (
	"log/slog"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/wriggle/config"
)

// StartMoving transitions to Running and launches the background step
// loop. A no-op when the population is empty or a loop is already
// running. Already-dead organisms are pruned before the first step.
func (w *World) StartMoving() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.reap(nil)
	if w.organismCount == 0 {
		w.mu.Unlock()
		slog.Info("start ignored, population empty")
		return
	}

	w.running = true
	w.stop = make(chan struct{})
	w.done = make(chan struct{})
	w.sampler.Reset()
	iterations := w.sim.IterationCount
	gain := w.sim.EnergyGainRate
	stop, done := w.stop, w.done
	w.mu.Unlock()

	slog.Info("movement started", "iterations_per_step", iterations, "energy_gain", gain)
	go w.runLoop(stop, done, iterations, gain)
}

// runLoop steps as fast as possible until cancelled. Cancellation is
// observed once per step, so a requested stop can complete up to one full
// step late; that latency is the documented trade-off of never
// interrupting a dispatch mid-kernel.
func (w *World) runLoop(stop, done chan struct{}, iterations, gain int) {
	defer close(done)
	for {
		select {
		case <-stop:
			return
		default:
		}

		w.Step(iterations, gain)

		if w.sampler.Observe(w.MoveCounter(), time.Now()) {
			snap := w.Latest()
			w.sampler.LogSample(snap.MoveCounter, len(snap.Organisms), len(snap.Shelters))
		}
	}
}

// StopMoving cancels the loop and returns to Idle. Idempotent; blocks
// until the in-flight step, if any, has finished.
func (w *World) StopMoving() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	stop, done := w.stop, w.done
	w.stop, w.done = nil, nil
	w.mu.Unlock()

	close(stop)
	<-done
	slog.Info("movement stopped")
}

// Running reports whether the background loop is active.
func (w *World) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// Reset forces Idle, clears organisms and shelters, applies the new
// parameters, and reseeds the arena.
func (w *World) Reset(sim config.SimulationConfig) {
	w.StopMoving()

	w.mu.Lock()
	defer w.mu.Unlock()

	var toRemove []ecs.Entity
	query := w.filter.Query()
	for query.Next() {
		toRemove = append(toRemove, query.Entity())
	}
	for _, e := range toRemove {
		w.world.RemoveEntity(e)
	}
	w.organismCount = 0
	w.shelters = w.shelters[:0]

	w.sim = sim
	w.moveCounter = 0
	w.lastShelterReset = 0
	w.sampler.Reset()

	w.seed()
	w.publishSnapshot()
	slog.Info("world reset",
		"organisms", w.organismCount,
		"shelters", len(w.shelters),
		"division_threshold", sim.DivisionThreshold,
	)
}
