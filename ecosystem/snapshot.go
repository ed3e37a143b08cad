package ecosystem

import (
	"github.com/pthm-cable/wriggle/components"
	"github.com/pthm-cable/wriggle/geom"
)

// OrganismState is one organism's published state: the polyline to draw
// and the energy driving its survival.
type OrganismState struct {
	ID     uint64
	Points []geom.Vec2
	Energy int
}

// Snapshot is the immutable published view of the ecosystem. Produced
// once per step after maintenance; observers never see intermediate
// state and must not mutate it.
type Snapshot struct {
	MoveCounter    int64
	MovesPerSecond float64
	Organisms      []OrganismState
	Shelters       []components.Shelter
}

// publishSnapshot builds and stores a deep-copied snapshot. Caller holds
// the world lock.
func (w *World) publishSnapshot() {
	snap := &Snapshot{
		MoveCounter:    w.moveCounter,
		MovesPerSecond: w.sampler.MovesPerSecond(),
		Organisms:      make([]OrganismState, 0, w.organismCount),
		Shelters:       append([]components.Shelter(nil), w.shelters...),
	}

	query := w.filter.Query()
	for query.Next() {
		id, chain, vit := query.Get()
		snap.Organisms = append(snap.Organisms, OrganismState{
			ID:     id.ID,
			Points: append([]geom.Vec2(nil), chain.Points...),
			Energy: vit.Energy,
		})
	}

	w.snapshot.Store(snap)
}

// Latest returns the most recently published snapshot. Lock-free; safe
// from any goroutine.
func (w *World) Latest() *Snapshot {
	return w.snapshot.Load()
}
