package kernel

import (
	"math"
	"testing"

	"github.com/pthm-cable/wriggle/components"
	"github.com/pthm-cable/wriggle/geom"
)

// buildOrganism lays out n connected segments of the given length starting
// at origin, pointing along +x.
func buildOrganism(n int, length float32, origin geom.Vec2) ([]geom.Vec2, []components.Segment) {
	segs := make([]components.Segment, 0, n)
	head := origin
	for i := 0; i < n; i++ {
		s := components.NewSegment(head, length, 0, 0.05, 0.01)
		segs = append(segs, s)
		head = s.Tail
	}
	points := make([]geom.Vec2, n+1)
	points[0] = segs[0].Head
	for i, s := range segs {
		points[i+1] = s.Tail
	}
	return points, segs
}

func TestStepNoOpOnZeroIterations(t *testing.T) {
	points, segs := buildOrganism(3, 10, geom.Vec2{X: 100, Y: 100})
	before := append([]geom.Vec2(nil), points...)

	for _, iters := range []int{0, -5} {
		got := Step(points, segs, nil, 7, Params{Boundary: 500, Iterations: iters, EnergyGain: 1})
		if got != 7 {
			t.Errorf("iterations=%d: energy = %d, want 7", iters, got)
		}
		for i := range points {
			if points[i] != before[i] {
				t.Fatalf("iterations=%d: points mutated", iters)
			}
		}
	}
}

func TestStepShapeMismatchIsNoOp(t *testing.T) {
	points, segs := buildOrganism(3, 10, geom.Vec2{X: 100, Y: 100})
	before := append([]geom.Vec2(nil), points...)

	// One point too many for the segment count.
	bad := append(points, geom.Vec2{X: 0, Y: 0})
	got := Step(bad, segs, nil, 5, Params{Boundary: 500, Iterations: 10, EnergyGain: 1})
	if got != 5 {
		t.Errorf("energy = %d, want 5 unchanged", got)
	}
	for i := range before {
		if bad[i] != before[i] {
			t.Fatal("points mutated on shape mismatch")
		}
	}
}

func TestStepSingleSegment(t *testing.T) {
	// The degenerate 2-point chain must run both passes without panicking
	// and keep its segment length.
	points, segs := buildOrganism(1, 10, geom.Vec2{X: 250, Y: 250})
	Step(points, segs, nil, 10, Params{Boundary: 500, Iterations: 50, EnergyGain: 1})

	dx := float64(points[1].X - points[0].X)
	dy := float64(points[1].Y - points[0].Y)
	if got := math.Sqrt(dx*dx + dy*dy); math.Abs(got-10) > 0.01 {
		t.Errorf("segment length after wiggle = %.4f, want 10", got)
	}
}

func TestStepPreservesSegmentLengths(t *testing.T) {
	// Rotations are rigid: every link must keep its length through many
	// iterations, sheltered or not.
	points, segs := buildOrganism(5, 10, geom.Vec2{X: 200, Y: 200})
	shelters := []components.Shelter{{Pos: geom.Vec2{X: 150, Y: 150}, Size: geom.Vec2{X: 200, Y: 200}}}

	Step(points, segs, shelters, 10, Params{Boundary: 500, Iterations: 137, EnergyGain: 2})

	for i := 0; i < len(segs); i++ {
		dx := float64(points[i+1].X - points[i].X)
		dy := float64(points[i+1].Y - points[i].Y)
		if got := math.Sqrt(dx*dx + dy*dy); math.Abs(got-10) > 0.05 {
			t.Errorf("segment %d length = %.4f, want 10", i, got)
		}
	}
}

func TestStepShelteredEnergyScenario(t *testing.T) {
	// 4 segments of length 10, energy 0, one shelter covering the start,
	// gain 1, 10 iterations at cadence 10: exactly one energy update.
	points, segs := buildOrganism(4, 10, geom.Vec2{X: 200, Y: 200})
	shelters := []components.Shelter{{Pos: geom.Vec2{X: 100, Y: 100}, Size: geom.Vec2{X: 200, Y: 200}}}

	got := Step(points, segs, shelters, 0, Params{
		Boundary:         500,
		Iterations:       10,
		EnergyGain:       1,
		OccupancyCadence: 10,
	})
	if got != 1 {
		t.Errorf("energy = %d, want 1", got)
	}
	for i, p := range points {
		if p.X < 0 || p.X > 500 || p.Y < 0 || p.Y > 500 {
			t.Errorf("point %d out of bounds: %v", i, p)
		}
	}
}

func TestStepEnergyDecayFloor(t *testing.T) {
	// No shelters: every cadence check decays energy by one, never below 0.
	points, segs := buildOrganism(3, 10, geom.Vec2{X: 200, Y: 200})

	got := Step(points, segs, nil, 2, Params{
		Boundary:         500,
		Iterations:       100,
		EnergyGain:       1,
		OccupancyCadence: 10,
	})
	if got != 0 {
		t.Errorf("energy = %d, want 0 (floored)", got)
	}
}

func TestStepEnergyDecayCount(t *testing.T) {
	// 25 iterations at cadence 10 hit the cadence at 0, 10, 20: three
	// decay updates.
	points, segs := buildOrganism(3, 10, geom.Vec2{X: 200, Y: 200})

	got := Step(points, segs, nil, 50, Params{
		Boundary:         500,
		Iterations:       25,
		EnergyGain:       1,
		OccupancyCadence: 10,
	})
	if got != 47 {
		t.Errorf("energy = %d, want 47", got)
	}
}

func TestStepClampKeepsPointsInArena(t *testing.T) {
	// Start the chain outside the arena; the clamp on the final iteration
	// must pull everything back in.
	points, segs := buildOrganism(4, 10, geom.Vec2{X: -30, Y: 520})

	Step(points, segs, nil, 0, Params{Boundary: 500, Iterations: 5, EnergyGain: 1})

	for i, p := range points {
		if p.X < -0.01 || p.X > 500.01 || p.Y < -0.01 || p.Y > 500.01 {
			t.Errorf("point %d out of bounds after clamp: %v", i, p)
		}
	}
}

func TestClampToBoundaryIdempotent(t *testing.T) {
	points := []geom.Vec2{{X: -20, Y: 30}, {X: -10, Y: 40}, {X: 5, Y: 55}}
	clampToBoundary(points, 100)
	once := append([]geom.Vec2(nil), points...)
	clampToBoundary(points, 100)

	for i := range points {
		if points[i] != once[i] {
			t.Errorf("point %d moved on second clamp: %v != %v", i, points[i], once[i])
		}
	}
}

func TestStepDoesNotMutateAngles(t *testing.T) {
	points, segs := buildOrganism(3, 10, geom.Vec2{X: 200, Y: 200})
	before := make([]components.AnglePair, len(segs))
	for i, s := range segs {
		before[i] = s.Roam
	}

	Step(points, segs, nil, 10, Params{Boundary: 500, Iterations: 30, EnergyGain: 1})

	for i, s := range segs {
		if s.Roam != before[i] {
			t.Errorf("segment %d roam angles mutated", i)
		}
	}
}
