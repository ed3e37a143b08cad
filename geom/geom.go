// Package geom provides the 2D primitives used by the movement kernel.
package geom

// Vec2 is a 2D point or displacement in world units.
type Vec2 struct {
	X, Y float32
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// RotateAround rotates p around pivot by the angle whose precomputed
// cosine and sine are given. Allocation-free; this is the kernel hot path.
func RotateAround(p, pivot Vec2, cos, sin float32) Vec2 {
	dx := p.X - pivot.X
	dy := p.Y - pivot.Y
	return Vec2{
		X: pivot.X + dx*cos - dy*sin,
		Y: pivot.Y + dx*sin + dy*cos,
	}
}

// Box is an axis-aligned bounding box.
type Box struct {
	Min, Max Vec2
}

// BoxAt returns a degenerate box containing only p.
func BoxAt(p Vec2) Box {
	return Box{Min: p, Max: p}
}

// Union expands the box to include p.
func (b Box) Union(p Vec2) Box {
	if p.X < b.Min.X {
		b.Min.X = p.X
	}
	if p.X > b.Max.X {
		b.Max.X = p.X
	}
	if p.Y < b.Min.Y {
		b.Min.Y = p.Y
	}
	if p.Y > b.Max.Y {
		b.Max.Y = p.Y
	}
	return b
}

// Contains reports whether p lies inside the box, bounds inclusive.
func (b Box) Contains(p Vec2) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Translate returns the box shifted by d.
func (b Box) Translate(d Vec2) Box {
	return Box{Min: b.Min.Add(d), Max: b.Max.Add(d)}
}

// Width returns the box extent on the X axis.
func (b Box) Width() float32 { return b.Max.X - b.Min.X }

// Height returns the box extent on the Y axis.
func (b Box) Height() float32 { return b.Max.Y - b.Min.Y }

// ClampOffset returns the minimal translation that moves the box into
// [0, bound] on both axes. Returns the zero vector for a box already
// inside, which makes the boundary clamp idempotent.
func (b Box) ClampOffset(bound float32) Vec2 {
	var d Vec2
	if b.Min.X < 0 {
		d.X = -b.Min.X
	} else if b.Max.X > bound {
		d.X = bound - b.Max.X
	}
	if b.Min.Y < 0 {
		d.Y = -b.Min.Y
	} else if b.Max.Y > bound {
		d.Y = bound - b.Max.Y
	}
	return d
}
