// Package kernel implements the per-organism chain relaxation algorithm.
// Each invocation operates on exactly one organism's slice of the flattened
// population buffers and reads nothing outside it, which is what makes the
// dispatcher's lock-free parallelism safe.
package kernel

import (
	"github.com/pthm-cable/wriggle/components"
	"github.com/pthm-cable/wriggle/geom"
)

// Default check cadences. Both are configurable through Params; these are
// the values the motion model was tuned with.
const (
	DefaultOccupancyCadence = 10
	DefaultBoundaryCadence  = 100
)

// Params holds the read-only inputs shared by every kernel invocation of
// one dispatch.
type Params struct {
	// Boundary is the arena size; points are clamped into [0,Boundary]^2.
	Boundary float32
	// Iterations is the inner wiggle count per dispatch. Zero or negative
	// is a no-op.
	Iterations int
	// EnergyGain is added to energy on each sheltered cadence check;
	// unsheltered checks decay energy by one instead.
	EnergyGain int
	// OccupancyCadence controls how often shelter occupancy and energy are
	// re-evaluated. Zero falls back to DefaultOccupancyCadence.
	OccupancyCadence int
	// BoundaryCadence controls how often the boundary clamp runs. Zero
	// falls back to DefaultBoundaryCadence.
	BoundaryCadence int
}

func (p Params) occupancyCadence() int {
	if p.OccupancyCadence <= 0 {
		return DefaultOccupancyCadence
	}
	return p.OccupancyCadence
}

func (p Params) boundaryCadence() int {
	if p.BoundaryCadence <= 0 {
		return DefaultBoundaryCadence
	}
	return p.BoundaryCadence
}

// sheltered reports whether any point lies inside any shelter.
func sheltered(points []geom.Vec2, shelters []components.Shelter) bool {
	for _, p := range points {
		for _, s := range shelters {
			if s.Contains(p) {
				return true
			}
		}
	}
	return false
}

// clampToBoundary translates the whole point set by the minimal vector
// that brings its bounding box back into the arena. A hard teleport, not
// a bounce: a chain pushed against a wall sticks to it.
func clampToBoundary(points []geom.Vec2, bound float32) {
	if len(points) == 0 {
		return
	}
	box := geom.BoxAt(points[0])
	for _, p := range points[1:] {
		box = box.Union(p)
	}
	d := box.ClampOffset(bound)
	if d == (geom.Vec2{}) {
		return
	}
	for i := range points {
		points[i] = points[i].Add(d)
	}
}

// Step runs the wiggle kernel for one organism. points and segs are the
// organism's slices of the flattened buffers; points is updated in place.
// Returns the updated energy value.
//
// The occupancy flag is evaluated on iteration 0, every cadence-th
// iteration, and the final iteration; between checks the previous flag is
// reused. That staleness is a deliberate accuracy/cost trade: membership
// tests are O(points * shelters) while a relaxation pass is O(points^2).
// Energy updates happen only on the cadence iterations, not on the extra
// final-iteration recheck.
func Step(points []geom.Vec2, segs []components.Segment, shelters []components.Shelter, energy int, p Params) int {
	if p.Iterations <= 0 {
		return energy
	}
	// Shape violation: treat as a clamped no-op rather than index out of
	// bounds. Correct construction never reaches this.
	if len(points) != len(segs)+1 || len(segs) == 0 {
		return energy
	}

	occCadence := p.occupancyCadence()
	boundCadence := p.boundaryCadence()
	last := p.Iterations - 1

	inShelter := false
	for it := 0; it < p.Iterations; it++ {
		onCadence := it%occCadence == 0
		if onCadence || it == last {
			inShelter = sheltered(points, shelters)
		}

		// Forward pass: a pivot bend at each joint propagates head to tail.
		for i := range segs {
			pair := &segs[i].Roam
			if inShelter {
				pair = &segs[i].Sheltered
			}
			pivot := points[i]
			for j := i + 1; j < len(points); j++ {
				points[j] = geom.RotateAround(points[j], pivot, pair.Cos, pair.Sin)
			}
		}

		// Backward pass: the inverse rotation pivoted one joint further
		// along cancels the drift, leaving a net oscillation.
		for i := len(segs) - 1; i >= 0; i-- {
			pair := &segs[i].Roam
			if inShelter {
				pair = &segs[i].Sheltered
			}
			pivot := points[i+1]
			for j := 0; j <= i; j++ {
				points[j] = geom.RotateAround(points[j], pivot, pair.CosInv, pair.SinInv)
			}
		}

		if onCadence {
			if sheltered(points, shelters) {
				energy += p.EnergyGain
			} else if energy > 0 {
				energy--
			}
		}

		if it%boundCadence == 0 || it == last {
			clampToBoundary(points, p.Boundary)
		}
	}
	return energy
}
