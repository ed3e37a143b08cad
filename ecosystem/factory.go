package ecosystem

import (
	"math"

	"github.com/pthm-cable/wriggle/components"
	"github.com/pthm-cable/wriggle/geom"
)

// shelterAngleScale calms the in-shelter wiggle relative to roaming.
const shelterAngleScale = 0.25

// jitterRadius is the translation applied to a division duplicate so the
// two halves separate visibly.
const jitterRadius = 20.0

// randomAngles draws a roam/sheltered angle pair within the movement limit.
func (w *World) randomAngles() (roam, sheltered float64) {
	limit := w.sim.MovementLimit
	roam = (w.rng.Float64()*2 - 1) * limit
	sheltered = (w.rng.Float64()*2 - 1) * limit * shelterAngleScale
	return roam, sheltered
}

// buildChain lays out segmentCount connected links from origin with a
// random initial heading and per-segment random angle pairs.
func (w *World) buildChain(origin geom.Vec2, segmentCount int) components.Chain {
	length := float32(w.sim.SegmentSize)
	phi := w.rng.Float64() * 2 * math.Pi

	segs := make([]components.Segment, 0, segmentCount)
	head := origin
	for i := 0; i < segmentCount; i++ {
		roam, shelter := w.randomAngles()
		s := components.NewSegment(head, length, phi, roam, shelter)
		segs = append(segs, s)
		head = s.Tail
	}
	return components.NewChain(segs)
}

// spawnOrganism synthesizes an organism at a random position with a
// random segment count and starting energy. Caller holds the world lock.
func (w *World) spawnOrganism() uint64 {
	count := w.sim.MinSegmentCount
	if spread := w.sim.MaxSegmentCount - w.sim.MinSegmentCount; spread > 0 {
		count += w.rng.Intn(spread + 1)
	}
	margin := float32(w.sim.SegmentSize) * float32(count)
	span := w.boundary - 2*margin
	if span < 0 {
		span = w.boundary
		margin = 0
	}
	origin := geom.Vec2{
		X: margin + w.rng.Float32()*span,
		Y: margin + w.rng.Float32()*span,
	}

	energy := w.sim.StartingEnergyMin
	if spread := w.sim.StartingEnergyMax - w.sim.StartingEnergyMin; spread > 0 {
		energy += w.rng.Intn(spread + 1)
	}

	return w.spawnChain(w.buildChain(origin, count), energy)
}

// spawnChain registers a prepared chain as a new entity and returns its
// assigned organism id.
func (w *World) spawnChain(chain components.Chain, energy int) uint64 {
	id := components.Identity{ID: w.nextID}
	w.nextID++
	vit := components.Vitality{Energy: energy}

	w.mapper.NewEntity(&id, &chain, &vit)
	w.organismCount++
	return id.ID
}

// duplicateChain builds the division copy: same geometry translated by a
// random jitter vector, with freshly randomized angle pairs so the two
// halves drift apart over time.
func (w *World) duplicateChain(src *components.Chain) components.Chain {
	theta := w.rng.Float64() * 2 * math.Pi
	jitter := geom.Vec2{
		X: float32(math.Cos(theta) * jitterRadius),
		Y: float32(math.Sin(theta) * jitterRadius),
	}

	segs := make([]components.Segment, len(src.Segments))
	for i, s := range src.Segments {
		roam, shelter := w.randomAngles()
		segs[i] = components.Segment{
			Head:      s.Head.Add(jitter),
			Tail:      s.Tail.Add(jitter),
			Length:    s.Length,
			Roam:      components.NewAnglePair(roam),
			Sheltered: components.NewAnglePair(shelter),
		}
	}
	c := components.Chain{Segments: segs, Points: make([]geom.Vec2, len(src.Points))}
	for i, p := range src.Points {
		c.Points[i] = p.Add(jitter)
	}
	return c
}

// regenerateShelters discards all shelters and places the same count anew.
func (w *World) regenerateShelters() {
	n := len(w.shelters)
	w.shelters = w.shelters[:0]
	for i := 0; i < n; i++ {
		w.shelters = append(w.shelters, components.RandomShelter(
			w.rng, w.boundary,
			float32(w.sim.ShelterMinSize), float32(w.sim.ShelterMaxSize)))
	}
	w.collector.RecordShelterReset()
}
