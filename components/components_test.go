package components

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/wriggle/geom"
)

func TestNewSegmentTailPlacement(t *testing.T) {
	tests := []struct {
		name   string
		head   geom.Vec2
		length float32
		phi    float64
		want   geom.Vec2
	}{
		{"along x", geom.Vec2{X: 0, Y: 0}, 10, 0, geom.Vec2{X: 10, Y: 0}},
		{"along y", geom.Vec2{X: 5, Y: 5}, 4, math.Pi / 2, geom.Vec2{X: 5, Y: 9}},
		{"diagonal", geom.Vec2{X: 1, Y: 1}, float32(math.Sqrt2), math.Pi / 4, geom.Vec2{X: 2, Y: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSegment(tt.head, tt.length, tt.phi, 0.1, 0.02)
			if math.Abs(float64(s.Tail.X-tt.want.X)) > 1e-4 ||
				math.Abs(float64(s.Tail.Y-tt.want.Y)) > 1e-4 {
				t.Errorf("tail = %v, want %v", s.Tail, tt.want)
			}
		})
	}
}

func TestAnglePairInverse(t *testing.T) {
	p := NewAnglePair(0.42)

	// Forward then inverse rotation must cancel out.
	orig := geom.Vec2{X: 3, Y: 4}
	pivot := geom.Vec2{X: 1, Y: 2}
	fwd := geom.RotateAround(orig, pivot, p.Cos, p.Sin)
	back := geom.RotateAround(fwd, pivot, p.CosInv, p.SinInv)
	if math.Abs(float64(back.X-orig.X)) > 1e-4 || math.Abs(float64(back.Y-orig.Y)) > 1e-4 {
		t.Errorf("inverse pair does not cancel: %v != %v", back, orig)
	}
}

func buildChain(t *testing.T, n int) Chain {
	t.Helper()
	segs := make([]Segment, 0, n)
	head := geom.Vec2{X: 50, Y: 50}
	for i := 0; i < n; i++ {
		s := NewSegment(head, 10, 0, 0.1, 0.02)
		segs = append(segs, s)
		head = s.Tail
	}
	return NewChain(segs)
}

func TestChainPointInvariant(t *testing.T) {
	for _, n := range []int{1, 2, 6} {
		c := buildChain(t, n)
		if len(c.Points) != len(c.Segments)+1 {
			t.Fatalf("n=%d: points=%d segments=%d, want points == segments+1",
				n, len(c.Points), len(c.Segments))
		}
		if c.Points[0] != c.Segments[0].Head {
			t.Errorf("points[0] = %v, want head %v", c.Points[0], c.Segments[0].Head)
		}
		for i, s := range c.Segments {
			if c.Points[i+1] != s.Tail {
				t.Errorf("points[%d] = %v, want tail %v", i+1, c.Points[i+1], s.Tail)
			}
		}
	}
}

func TestChainAppendKeepsInvariant(t *testing.T) {
	c := buildChain(t, 2)
	tail := c.Points[len(c.Points)-1]
	c.Append(NewSegment(tail, 10, 0, 0.1, 0.02))

	if len(c.Points) != len(c.Segments)+1 {
		t.Fatalf("after append: points=%d segments=%d", len(c.Points), len(c.Segments))
	}
}

func TestChainSyncSegments(t *testing.T) {
	c := buildChain(t, 3)
	for i := range c.Points {
		c.Points[i] = c.Points[i].Add(geom.Vec2{X: 7, Y: -2})
	}
	c.SyncSegments()

	for i, s := range c.Segments {
		if s.Head != c.Points[i] || s.Tail != c.Points[i+1] {
			t.Errorf("segment %d head/tail not synced: %+v", i, s)
		}
	}
}

func TestChainTranslateBounds(t *testing.T) {
	c := buildChain(t, 4)
	before := c.Bounds()
	c.Translate(geom.Vec2{X: -10, Y: 5})
	after := c.Bounds()

	if math.Abs(float64(after.Min.X-(before.Min.X-10))) > 1e-4 ||
		math.Abs(float64(after.Min.Y-(before.Min.Y+5))) > 1e-4 {
		t.Errorf("bounds after translate = %+v, before = %+v", after, before)
	}
}

func TestShelterContainsInclusive(t *testing.T) {
	s := Shelter{Pos: geom.Vec2{X: 10, Y: 20}, Size: geom.Vec2{X: 30, Y: 40}}

	inside := []geom.Vec2{{X: 10, Y: 20}, {X: 40, Y: 60}, {X: 25, Y: 30}}
	outside := []geom.Vec2{{X: 9.9, Y: 20}, {X: 40.1, Y: 60}, {X: 25, Y: 61}}

	for _, p := range inside {
		if !s.Contains(p) {
			t.Errorf("Contains(%v) = false, want true", p)
		}
	}
	for _, p := range outside {
		if s.Contains(p) {
			t.Errorf("Contains(%v) = true, want false", p)
		}
	}
}

func TestRandomShelterInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		s := RandomShelter(rng, 500, 20, 80)
		if s.Pos.X < 0 || s.Pos.Y < 0 ||
			s.Pos.X+s.Size.X > 500 || s.Pos.Y+s.Size.Y > 500 {
			t.Fatalf("shelter out of bounds: %+v", s)
		}
		if s.Size.X < 20 || s.Size.X > 80 || s.Size.Y < 20 || s.Size.Y > 80 {
			t.Fatalf("shelter size out of range: %+v", s)
		}
	}
}

func TestShelterFromBox(t *testing.T) {
	b := geom.Box{Min: geom.Vec2{X: 5, Y: 10}, Max: geom.Vec2{X: 25, Y: 18}}
	s := ShelterFromBox(b)
	if s.Pos != (geom.Vec2{X: 5, Y: 10}) || s.Size != (geom.Vec2{X: 20, Y: 8}) {
		t.Errorf("shelter = %+v", s)
	}
}
