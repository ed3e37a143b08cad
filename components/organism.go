package components

import "github.com/pthm-cable/wriggle/geom"

// Identity carries the organism's stable unique id.
type Identity struct {
	ID uint64
}

// Chain holds an organism's segment list and its derived point buffer.
// Invariant: len(Points) == len(Segments)+1, with Points[0] mirroring
// Segments[0].Head and Points[i+1] mirroring Segments[i].Tail. The kernel
// mutates Points; SyncSegments re-derives head/tail afterwards.
type Chain struct {
	Segments []Segment
	Points   []geom.Vec2
}

// NewChain builds the point buffer from an already-constructed segment
// list. The segments must be connected head to tail.
func NewChain(segments []Segment) Chain {
	points := make([]geom.Vec2, len(segments)+1)
	if len(segments) > 0 {
		points[0] = segments[0].Head
		for i, s := range segments {
			points[i+1] = s.Tail
		}
	}
	return Chain{Segments: segments, Points: points}
}

// SyncSegments rewrites each segment's head/tail from the point buffer.
// Called after the dispatcher scatters updated points back.
func (c *Chain) SyncSegments() {
	for i := range c.Segments {
		c.Segments[i].Head = c.Points[i]
		c.Segments[i].Tail = c.Points[i+1]
	}
}

// Append grows the chain by one segment anchored at the current tail,
// keeping the point-count invariant.
func (c *Chain) Append(s Segment) {
	c.Segments = append(c.Segments, s)
	c.Points = append(c.Points, s.Tail)
}

// Bounds returns the axis-aligned bounding box of the point buffer.
// Returns a degenerate box at the origin for an empty chain.
func (c *Chain) Bounds() geom.Box {
	if len(c.Points) == 0 {
		return geom.Box{}
	}
	b := geom.BoxAt(c.Points[0])
	for _, p := range c.Points[1:] {
		b = b.Union(p)
	}
	return b
}

// Translate shifts every point and segment endpoint by d.
func (c *Chain) Translate(d geom.Vec2) {
	for i := range c.Points {
		c.Points[i] = c.Points[i].Add(d)
	}
	c.SyncSegments()
}

// Vitality is the per-organism energy counter. Zero means death during
// the next maintenance pass; the division threshold caps useful growth.
type Vitality struct {
	Energy int
}
