package components

import (
	"math/rand"

	"github.com/pthm-cable/wriggle/geom"
)

// Shelter is a rectangular safe zone. Pos is the top-left corner.
type Shelter struct {
	Pos  geom.Vec2
	Size geom.Vec2
}

// Contains reports whether p lies inside the shelter, bounds inclusive.
func (s Shelter) Contains(p geom.Vec2) bool {
	return p.X >= s.Pos.X && p.X <= s.Pos.X+s.Size.X &&
		p.Y >= s.Pos.Y && p.Y <= s.Pos.Y+s.Size.Y
}

// ShelterFromBox converts a bounding box into a shelter, used when a dead
// organism's last extent becomes a safe zone.
func ShelterFromBox(b geom.Box) Shelter {
	return Shelter{
		Pos:  b.Min,
		Size: geom.Vec2{X: b.Width(), Y: b.Height()},
	}
}

// RandomShelter places a shelter with side lengths in [minSize, maxSize]
// fully inside the [0, bound] arena.
func RandomShelter(rng *rand.Rand, bound, minSize, maxSize float32) Shelter {
	w := minSize + rng.Float32()*(maxSize-minSize)
	h := minSize + rng.Float32()*(maxSize-minSize)
	return Shelter{
		Pos: geom.Vec2{
			X: rng.Float32() * (bound - w),
			Y: rng.Float32() * (bound - h),
		},
		Size: geom.Vec2{X: w, Y: h},
	}
}
