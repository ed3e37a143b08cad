package ecosystem

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/wriggle/components"
	"github.com/pthm-cable/wriggle/geom"
)

// Externally triggered mutators. Each serializes through the world mutex,
// the same owner the step loop uses, so structural mutation never races a
// dispatch.

// AddOrganism synthesizes one organism at a random position and publishes
// an updated snapshot. Returns its id.
func (w *World) AddOrganism() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := w.spawnOrganism()
	w.publishSnapshot()
	return id
}

// AddShelter places one random shelter.
func (w *World) AddShelter() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.shelters = append(w.shelters, components.RandomShelter(
		w.rng, w.boundary,
		float32(w.sim.ShelterMinSize), float32(w.sim.ShelterMaxSize)))
	w.publishSnapshot()
}

// findByID scans for the entity with the given organism id. Caller holds
// the lock.
func (w *World) findByID(id uint64) (ecs.Entity, bool) {
	var found ecs.Entity
	ok := false
	query := w.filter.Query()
	for query.Next() {
		ident, _, _ := query.Get()
		if ident.ID == id && !ok {
			found = query.Entity()
			ok = true
		}
	}
	return found, ok
}

// Grow appends one segment to the organism's tail, keeping the
// point-count invariant. Returns false for an unknown id.
func (w *World) Grow(id uint64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	e, ok := w.findByID(id)
	if !ok {
		return false
	}
	chain := w.chainMap.Get(e)

	tail := chain.Points[len(chain.Points)-1]
	prev := chain.Points[len(chain.Points)-2]
	// Continue along the last link's direction.
	d := tail.Sub(prev)
	roam, shelter := w.randomAngles()
	seg := components.Segment{
		Head:      tail,
		Tail:      tail.Add(d),
		Length:    float32(w.sim.SegmentSize),
		Roam:      components.NewAnglePair(roam),
		Sheltered: components.NewAnglePair(shelter),
	}
	chain.Append(seg)
	w.publishSnapshot()
	return true
}

// Duplicate clones the organism the way division does, without touching
// its energy threshold: both copies end up with half the original energy.
// Returns the duplicate's id, or false for an unknown id.
func (w *World) Duplicate(id uint64) (uint64, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	e, ok := w.findByID(id)
	if !ok {
		return 0, false
	}

	vit := w.vitMap.Get(e)
	half := vit.Energy / 2
	vit.Energy = half
	dup := w.duplicateChain(w.chainMap.Get(e))

	childID := w.spawnChain(dup, half)
	w.publishSnapshot()
	return childID, true
}

// Shelters returns a copy of the current shelter list.
func (w *World) Shelters() []components.Shelter {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]components.Shelter(nil), w.shelters...)
}

// Bounds returns the arena boundary.
func (w *World) Bounds() geom.Vec2 {
	return geom.Vec2{X: w.boundary, Y: w.boundary}
}
