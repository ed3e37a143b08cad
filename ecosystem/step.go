package ecosystem

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/wriggle/components"
	"github.com/pthm-cable/wriggle/geom"
	"github.com/pthm-cable/wriggle/kernel"
)

// Step advances the simulation by one dispatch of iterations inner
// wiggles plus the maintenance pass, and publishes a fresh snapshot.
// Safe to call concurrently with the loop and external mutators; all of
// them serialize on the world mutex.
func (w *World) Step(iterations, energyGain int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.step(iterations, energyGain)
}

// step is the locked body of Step.
func (w *World) step(iterations, energyGain int) {
	w.moveCounter += int64(iterations)

	if w.sim.ShelterResetInterval > 0 &&
		w.moveCounter-w.lastShelterReset >= w.sim.ShelterResetInterval {
		w.regenerateShelters()
		w.lastShelterReset = w.moveCounter
	}

	w.flatten()
	w.dispatcher.Run(&w.batch, w.shelters, kernel.Params{
		Boundary:         w.boundary,
		Iterations:       iterations,
		EnergyGain:       energyGain,
		OccupancyCadence: w.sim.OccupancyCheckCadence,
		BoundaryCadence:  w.sim.BoundaryCheckCadence,
	})
	w.scatter()

	newborn := w.divide()
	w.reap(newborn)
	w.replenish()

	// Snapshot strictly after maintenance, never interleaved with it.
	w.publishSnapshot()
}

// flatten packs the population into the contiguous batch buffers with
// offset tables. The entity list records the iteration order so scatter
// can write back by index.
func (w *World) flatten() {
	b := &w.batch
	b.Points = b.Points[:0]
	b.Segments = b.Segments[:0]
	b.Energy = b.Energy[:0]
	b.PointOffsets = append(b.PointOffsets[:0], 0)
	b.SegmentOffsets = append(b.SegmentOffsets[:0], 0)
	w.entities = w.entities[:0]

	query := w.filter.Query()
	for query.Next() {
		_, chain, vit := query.Get()

		b.Points = append(b.Points, chain.Points...)
		b.Segments = append(b.Segments, chain.Segments...)
		b.Energy = append(b.Energy, vit.Energy)
		b.PointOffsets = append(b.PointOffsets, int32(len(b.Points)))
		b.SegmentOffsets = append(b.SegmentOffsets, int32(len(b.Segments)))
		w.entities = append(w.entities, query.Entity())
	}
}

// scatter writes the dispatched batch back into the organisms, in the
// index order recorded by flatten, and re-derives segment head/tail.
func (w *World) scatter() {
	b := &w.batch
	for i, e := range w.entities {
		chain := w.chainMap.Get(e)
		copy(chain.Points, b.Points[b.PointOffsets[i]:b.PointOffsets[i+1]])
		chain.SyncSegments()
		w.vitMap.Get(e).Energy = b.Energy[i]
	}
}

// divide splits every organism at or above the division threshold.
// Original and duplicate each receive half the energy, truncated: an odd
// value loses one unit to the division itself. Duplicates join the
// population after this pass and become eligible for maintenance on a
// later step, not the current one; the returned id set lets reap honor
// that.
func (w *World) divide() map[uint64]struct{} {
	if w.sim.DivisionThreshold <= 0 {
		return nil
	}

	var parents []ecs.Entity
	query := w.filter.Query()
	for query.Next() {
		_, _, vit := query.Get()
		if vit.Energy >= w.sim.DivisionThreshold {
			parents = append(parents, query.Entity())
		}
	}

	var newborn map[uint64]struct{}
	for _, e := range parents {
		vit := w.vitMap.Get(e)
		half := vit.Energy / 2
		vit.Energy = half

		dup := w.duplicateChain(w.chainMap.Get(e))
		id := w.spawnChain(dup, half)
		if newborn == nil {
			newborn = make(map[uint64]struct{}, len(parents))
		}
		newborn[id] = struct{}{}
		w.collector.RecordDivision()
	}
	return newborn
}

// reap removes organisms whose energy reached zero, optionally converting
// each one's final bounding box into a shelter. Ids in skip are this
// step's division newborns; they stay until the next maintenance pass.
func (w *World) reap(skip map[uint64]struct{}) {
	type dead struct {
		entity ecs.Entity
		bounds geom.Box
	}
	var toRemove []dead

	// Bounds are captured during the query; entity removal invalidates
	// component pointers.
	query := w.filter.Query()
	for query.Next() {
		ident, chain, vit := query.Get()
		if _, fresh := skip[ident.ID]; fresh {
			continue
		}
		if vit.Energy <= 0 {
			toRemove = append(toRemove, dead{entity: query.Entity(), bounds: chain.Bounds()})
		}
	}

	for _, d := range toRemove {
		if w.sim.DeadOrganismsBecomeShelters {
			w.shelters = append(w.shelters, components.ShelterFromBox(d.bounds))
		}
		w.world.RemoveEntity(d.entity)
		w.organismCount--
		w.collector.RecordDeath()
	}
}

// replenish synthesizes organisms until the population holds the
// configured minimum.
func (w *World) replenish() {
	n := 0
	for w.organismCount < w.sim.MinOrganismCount {
		w.spawnOrganism()
		n++
	}
	if n > 0 {
		w.collector.RecordReplenished(n)
	}
}
