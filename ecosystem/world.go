// Package ecosystem owns the simulated population: organisms, shelters,
// parameters, and the step loop. All mutation is serialized through the
// World's mutex (single-writer discipline); the dispatcher and kernel only
// ever see borrowed flattened views of the state.
package ecosystem

import (
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/wriggle/components"
	"github.com/pthm-cable/wriggle/config"
	"github.com/pthm-cable/wriggle/dispatch"
	"github.com/pthm-cable/wriggle/telemetry"
)

// World is the ecosystem coordinator.
type World struct {
	mu  sync.Mutex
	rng *rand.Rand

	world  *ecs.World
	mapper *ecs.Map3[components.Identity, components.Chain, components.Vitality]
	filter *ecs.Filter3[components.Identity, components.Chain, components.Vitality]

	chainMap *ecs.Map1[components.Chain]
	vitMap   *ecs.Map1[components.Vitality]

	sim      config.SimulationConfig
	boundary float32
	shelters []components.Shelter

	moveCounter      int64
	lastShelterReset int64
	nextID           uint64
	organismCount    int

	dispatcher *dispatch.Dispatcher
	collector  *telemetry.Collector
	sampler    *telemetry.MovesSampler

	// Loop control. cancel is non-nil while Running.
	running bool
	stop    chan struct{}
	done    chan struct{}

	snapshot atomic.Pointer[Snapshot]

	// Reused flatten buffers, valid only within one Step.
	batch    dispatch.Batch
	entities []ecs.Entity
}

// Options configures World construction.
type Options struct {
	Seed    int64
	Backend dispatch.Backend // nil selects automatically
	Sampler *telemetry.MovesSampler
}

// NewWorld creates a coordinator for the given arena and parameters and
// seeds the initial population and shelters.
func NewWorld(cfg *config.Config, opts Options) *World {
	world := ecs.NewWorld()

	w := &World{
		rng:      rand.New(rand.NewSource(opts.Seed)),
		world:    world,
		boundary: float32(cfg.Arena.Size),
		sim:      cfg.Simulation,

		dispatcher: dispatch.New(opts.Backend),
		collector:  telemetry.NewCollector(),
		sampler:    opts.Sampler,
		nextID:     1,
	}
	w.mapper = ecs.NewMap3[components.Identity, components.Chain, components.Vitality](w.world)
	w.filter = ecs.NewFilter3[components.Identity, components.Chain, components.Vitality](w.world)
	w.chainMap = ecs.NewMap1[components.Chain](w.world)
	w.vitMap = ecs.NewMap1[components.Vitality](w.world)

	if w.sampler == nil {
		w.sampler = telemetry.NewMovesSampler(0)
	}

	w.seed()
	w.publishSnapshot()
	return w
}

// seed populates the arena per the current parameters. Caller holds no
// lock yet (construction) or the world lock (reset).
func (w *World) seed() {
	for i := 0; i < w.sim.ShelterCount; i++ {
		w.shelters = append(w.shelters, components.RandomShelter(
			w.rng, w.boundary,
			float32(w.sim.ShelterMinSize), float32(w.sim.ShelterMaxSize)))
	}
	for i := 0; i < w.sim.OrganismCount; i++ {
		w.spawnOrganism()
	}
}

// Close stops the loop and releases dispatcher resources.
func (w *World) Close() {
	w.StopMoving()
	w.dispatcher.Close()
}

// Params returns a copy of the active simulation parameters.
func (w *World) Params() config.SimulationConfig {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sim
}

// MoveCounter returns the monotone move counter.
func (w *World) MoveCounter() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.moveCounter
}

// OrganismCount returns the current population size.
func (w *World) OrganismCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.organismCount
}

// ShelterCount returns the current number of shelters.
func (w *World) ShelterCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.shelters)
}
