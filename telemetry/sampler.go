// Package telemetry tracks simulation throughput and population statistics.
package telemetry

import (
	"log/slog"
	"sync"
	"time"
)

// MovesSampler derives a moves-per-second metric from the coordinator's
// monotone move counter. A sample is produced whenever at least Interval
// of real time has elapsed since the previous one. Safe for concurrent
// use; the step loop observes while snapshot publication reads.
type MovesSampler struct {
	interval time.Duration

	mu        sync.Mutex
	lastTime  time.Time
	lastMoves int64
	mps       float64
}

// NewMovesSampler creates a sampler with the given window. Windows under
// a millisecond fall back to one second.
func NewMovesSampler(interval time.Duration) *MovesSampler {
	if interval < time.Millisecond {
		interval = time.Second
	}
	return &MovesSampler{interval: interval}
}

// Observe feeds the current move counter. Returns true when a new sample
// was taken. The first observation only arms the sampler.
func (s *MovesSampler) Observe(moves int64, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastTime.IsZero() {
		s.lastTime = now
		s.lastMoves = moves
		return false
	}
	elapsed := now.Sub(s.lastTime)
	if elapsed < s.interval {
		return false
	}
	s.mps = float64(moves-s.lastMoves) / elapsed.Seconds()
	s.lastTime = now
	s.lastMoves = moves
	return true
}

// MovesPerSecond returns the most recent sample, zero before the first.
func (s *MovesSampler) MovesPerSecond() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mps
}

// Reset clears sampler state, keeping the interval.
func (s *MovesSampler) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastTime = time.Time{}
	s.lastMoves = 0
	s.mps = 0
}

// LogSample emits the current throughput via slog.
func (s *MovesSampler) LogSample(moves int64, organisms, shelters int) {
	slog.Info("throughput",
		"moves_per_sec", int64(s.MovesPerSecond()),
		"move_counter", moves,
		"organisms", organisms,
		"shelters", shelters,
	)
}
