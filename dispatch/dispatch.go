package dispatch

import (
	"log/slog"

	"github.com/pthm-cable/wriggle/components"
	"github.com/pthm-cable/wriggle/geom"
	"github.com/pthm-cable/wriggle/kernel"
)

// parallelThreshold is the minimum organism count to use the parallel
// backend. Below this, serial is faster than the dispatch overhead.
const parallelThreshold = 64

// Batch holds the whole population flattened into contiguous buffers.
// Offset tables have organismCount+1 monotone entries; organism i owns
// [PointOffsets[i], PointOffsets[i+1]) of Points and the corresponding
// range of Segments. The layout is deliberately offset-table flat: it
// keeps worker slices disjoint and cache lines contiguous.
type Batch struct {
	Points         []geom.Vec2
	Segments       []components.Segment
	Energy         []int
	PointOffsets   []int32
	SegmentOffsets []int32
}

// Len returns the organism count.
func (b *Batch) Len() int { return len(b.Energy) }

// valid checks the shape invariants: table lengths, monotonicity, and
// final offsets matching the buffer lengths. A malformed batch is treated
// as a no-op rather than a panic.
func (b *Batch) valid() bool {
	n := b.Len()
	if len(b.PointOffsets) != n+1 || len(b.SegmentOffsets) != n+1 {
		return false
	}
	for i := 0; i < n; i++ {
		if b.PointOffsets[i] > b.PointOffsets[i+1] || b.SegmentOffsets[i] > b.SegmentOffsets[i+1] {
			return false
		}
	}
	return int(b.PointOffsets[n]) == len(b.Points) && int(b.SegmentOffsets[n]) == len(b.Segments)
}

// Dispatcher runs the kernel across a batch on a pluggable backend.
type Dispatcher struct {
	backend Backend
}

// New creates a dispatcher on the given backend; nil selects automatically.
func New(backend Backend) *Dispatcher {
	if backend == nil {
		backend = AutoSelect()
	}
	return &Dispatcher{backend: backend}
}

// Backend returns the active execution backend.
func (d *Dispatcher) Backend() Backend { return d.backend }

// Close releases backend resources, if any.
func (d *Dispatcher) Close() {
	if p, ok := d.backend.(*Pool); ok {
		p.Stop()
	}
}

// Run executes the kernel once per organism, in place on the batch
// buffers. Shelters and params are shared read-only.
//
// The defined no-op paths: an empty population, empty buffers, or an
// offset table with fewer than two entries all return the batch unchanged.
// A missing or unavailable backend degrades the same way: movement stalls,
// the simulation does not crash.
func (d *Dispatcher) Run(b *Batch, shelters []components.Shelter, p kernel.Params) {
	n := b.Len()
	if n == 0 || len(b.Points) == 0 || len(b.Segments) == 0 ||
		len(b.PointOffsets) < 2 || len(b.SegmentOffsets) < 2 {
		return
	}
	if !b.valid() {
		slog.Warn("dispatch: malformed batch, skipping",
			"organisms", n,
			"point_offsets", len(b.PointOffsets),
			"segment_offsets", len(b.SegmentOffsets),
		)
		return
	}
	if d.backend == nil || !d.backend.Available() {
		return
	}

	step := func(i int) {
		points := b.Points[b.PointOffsets[i]:b.PointOffsets[i+1]]
		segs := b.Segments[b.SegmentOffsets[i]:b.SegmentOffsets[i+1]]
		b.Energy[i] = kernel.Step(points, segs, shelters, b.Energy[i], p)
	}

	if n < parallelThreshold {
		Serial{}.For(n, step)
		return
	}
	d.backend.For(n, step)
}
