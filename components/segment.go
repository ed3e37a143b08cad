// Package components defines the data model shared by the kernel,
// dispatcher, and ecosystem: segments, organism chain state, and shelters.
package components

import (
	"math"

	"github.com/pthm-cable/wriggle/geom"
)

// AnglePair holds the precomputed trig quad for one rotation angle.
// Cos/Sin drive the forward relaxation pass, CosInv/SinInv the backward
// pass (the same angle negated). Computed once at segment creation;
// recomputing cos/sin per iteration is both slower and numerically noisier.
type AnglePair struct {
	Cos, Sin       float32
	CosInv, SinInv float32
}

// NewAnglePair precomputes the quad for theta radians.
func NewAnglePair(theta float64) AnglePair {
	return AnglePair{
		Cos:    float32(math.Cos(theta)),
		Sin:    float32(math.Sin(theta)),
		CosInv: float32(math.Cos(-theta)),
		SinInv: float32(math.Sin(-theta)),
	}
}

// Segment is one rigid link of an organism chain. Head and Tail are
// rewritten from the organism point buffer after every step; the angle
// pairs are fixed for the segment's lifetime.
type Segment struct {
	Head, Tail geom.Vec2
	Length     float32

	// Roam drives free movement, Sheltered drives the calmer in-shelter
	// wiggle. The kernel picks one per iteration from the occupancy flag.
	Roam      AnglePair
	Sheltered AnglePair
}

// NewSegment creates a segment anchored at head, laid out along the
// placement angle phi. Tail = head + length*(cos phi, sin phi) holds at
// creation time only; afterwards head/tail are derived from points.
func NewSegment(head geom.Vec2, length float32, phi, roamTheta, shelterTheta float64) Segment {
	return Segment{
		Head: head,
		Tail: geom.Vec2{
			X: head.X + length*float32(math.Cos(phi)),
			Y: head.Y + length*float32(math.Sin(phi)),
		},
		Length:    length,
		Roam:      NewAnglePair(roamTheta),
		Sheltered: NewAnglePair(shelterTheta),
	}
}
