package ecosystem

import (
	"math"
	"testing"
	"time"

	"github.com/pthm-cable/wriggle/config"
	"github.com/pthm-cable/wriggle/geom"
)

func testConfig() *config.Config {
	return &config.Config{
		Arena: config.ArenaConfig{Size: 1000},
		Simulation: config.SimulationConfig{
			IterationCount:        10,
			MovementLimit:         0.06,
			SegmentSize:           12,
			OrganismCount:         4,
			MinOrganismCount:      0,
			MinSegmentCount:       3,
			MaxSegmentCount:       3,
			StartingEnergyMin:     100,
			StartingEnergyMax:     100,
			EnergyGainRate:        2,
			DivisionThreshold:     0,
			ShelterCount:          2,
			ShelterMinSize:        40,
			ShelterMaxSize:        80,
			OccupancyCheckCadence: 10,
			BoundaryCheckCadence:  100,
		},
	}
}

func newTestWorld(t *testing.T, cfg *config.Config) *World {
	t.Helper()
	w := NewWorld(cfg, Options{Seed: 42})
	t.Cleanup(w.Close)
	return w
}

func TestSeededPopulation(t *testing.T) {
	cfg := testConfig()
	w := newTestWorld(t, cfg)

	if got := w.OrganismCount(); got != cfg.Simulation.OrganismCount {
		t.Fatalf("organisms = %d, want %d", got, cfg.Simulation.OrganismCount)
	}
	if got := w.ShelterCount(); got != cfg.Simulation.ShelterCount {
		t.Fatalf("shelters = %d, want %d", got, cfg.Simulation.ShelterCount)
	}

	snap := w.Latest()
	if snap == nil {
		t.Fatal("no snapshot published after construction")
	}
	if len(snap.Organisms) != cfg.Simulation.OrganismCount {
		t.Fatalf("snapshot organisms = %d, want %d", len(snap.Organisms), cfg.Simulation.OrganismCount)
	}
	for _, o := range snap.Organisms {
		if len(o.Points) != cfg.Simulation.MinSegmentCount+1 {
			t.Fatalf("organism %d has %d points, want %d", o.ID, len(o.Points), cfg.Simulation.MinSegmentCount+1)
		}
		if o.Energy != 100 {
			t.Fatalf("organism %d energy = %d, want 100", o.ID, o.Energy)
		}
	}
}

func TestStepPreservesShape(t *testing.T) {
	cfg := testConfig()
	w := newTestWorld(t, cfg)

	w.Step(cfg.Simulation.IterationCount, cfg.Simulation.EnergyGainRate)

	if got := w.MoveCounter(); got != int64(cfg.Simulation.IterationCount) {
		t.Fatalf("move counter = %d, want %d", got, cfg.Simulation.IterationCount)
	}

	snap := w.Latest()
	want := float64(cfg.Simulation.SegmentSize)
	for _, o := range snap.Organisms {
		if len(o.Points) != cfg.Simulation.MinSegmentCount+1 {
			t.Fatalf("organism %d has %d points after step", o.ID, len(o.Points))
		}
		for i := 0; i < len(o.Points)-1; i++ {
			d := o.Points[i+1].Sub(o.Points[i])
			got := math.Hypot(float64(d.X), float64(d.Y))
			if math.Abs(got-want) > 0.01 {
				t.Fatalf("organism %d link %d length = %v, want %v", o.ID, i, got, want)
			}
		}
	}
}

func TestUnshelteredEnergyDecay(t *testing.T) {
	cfg := testConfig()
	cfg.Simulation.ShelterCount = 0
	cfg.Simulation.StartingEnergyMin = 5
	cfg.Simulation.StartingEnergyMax = 5
	w := newTestWorld(t, cfg)

	// One occupancy check per step with cadence 10 and 10 iterations.
	w.Step(10, 3)

	for _, o := range w.Latest().Organisms {
		if o.Energy != 4 {
			t.Fatalf("organism %d energy = %d, want 4", o.ID, o.Energy)
		}
	}
}

func TestDivisionAtThreshold(t *testing.T) {
	cfg := testConfig()
	cfg.Simulation.OrganismCount = 4
	cfg.Simulation.StartingEnergyMin = 100
	cfg.Simulation.StartingEnergyMax = 100
	cfg.Simulation.DivisionThreshold = 100
	w := newTestWorld(t, cfg)

	// Zero iterations: dispatch is a no-op, maintenance still runs.
	w.Step(0, 0)

	if got := w.OrganismCount(); got != 8 {
		t.Fatalf("organisms after division = %d, want 8", got)
	}
	for _, o := range w.Latest().Organisms {
		if o.Energy != 50 {
			t.Fatalf("organism %d energy = %d, want 50", o.ID, o.Energy)
		}
	}
}

func TestDivisionOddEnergyTruncates(t *testing.T) {
	cfg := testConfig()
	cfg.Simulation.OrganismCount = 1
	cfg.Simulation.StartingEnergyMin = 101
	cfg.Simulation.StartingEnergyMax = 101
	cfg.Simulation.DivisionThreshold = 101
	w := newTestWorld(t, cfg)

	w.Step(0, 0)

	snap := w.Latest()
	if len(snap.Organisms) != 2 {
		t.Fatalf("organisms = %d, want 2", len(snap.Organisms))
	}
	total := snap.Organisms[0].Energy + snap.Organisms[1].Energy
	if total != 100 {
		t.Fatalf("total energy after odd division = %d, want 100", total)
	}
}

func TestDivisionNewbornsOutliveDividingStep(t *testing.T) {
	cfg := testConfig()
	cfg.Simulation.OrganismCount = 1
	cfg.Simulation.MinOrganismCount = 0
	cfg.Simulation.StartingEnergyMin = 1
	cfg.Simulation.StartingEnergyMax = 1
	cfg.Simulation.DivisionThreshold = 1
	w := newTestWorld(t, cfg)

	// Splitting energy 1 leaves parent and duplicate both at 0. The parent
	// is reaped in the same step; the duplicate joins the population after
	// this maintenance pass and must survive until the next one.
	w.Step(0, 0)
	if got := w.OrganismCount(); got != 1 {
		t.Fatalf("organisms after dividing step = %d, want 1", got)
	}

	w.Step(0, 0)
	if got := w.OrganismCount(); got != 0 {
		t.Fatalf("organisms after following step = %d, want 0", got)
	}
}

func TestDeadOrganismBecomesShelter(t *testing.T) {
	cfg := testConfig()
	cfg.Simulation.OrganismCount = 3
	cfg.Simulation.StartingEnergyMin = 0
	cfg.Simulation.StartingEnergyMax = 0
	cfg.Simulation.ShelterCount = 0
	cfg.Simulation.DeadOrganismsBecomeShelters = true
	w := newTestWorld(t, cfg)

	before := w.Latest()

	w.Step(0, 0)

	if got := w.OrganismCount(); got != 0 {
		t.Fatalf("organisms after reap = %d, want 0", got)
	}
	shelters := w.Shelters()
	if len(shelters) != 3 {
		t.Fatalf("shelters after reap = %d, want 3", len(shelters))
	}
	// Each dead organism's points must lie inside some new shelter.
	for _, o := range before.Organisms {
		covered := false
		for _, s := range shelters {
			all := true
			for _, p := range o.Points {
				if !s.Contains(p) {
					all = false
					break
				}
			}
			if all {
				covered = true
				break
			}
		}
		if !covered {
			t.Fatalf("organism %d not covered by any converted shelter", o.ID)
		}
	}
}

func TestDeadOrganismDiscardedWhenConversionOff(t *testing.T) {
	cfg := testConfig()
	cfg.Simulation.OrganismCount = 2
	cfg.Simulation.StartingEnergyMin = 0
	cfg.Simulation.StartingEnergyMax = 0
	cfg.Simulation.ShelterCount = 1
	cfg.Simulation.DeadOrganismsBecomeShelters = false
	w := newTestWorld(t, cfg)

	w.Step(0, 0)

	if got := w.OrganismCount(); got != 0 {
		t.Fatalf("organisms = %d, want 0", got)
	}
	if got := w.ShelterCount(); got != 1 {
		t.Fatalf("shelters = %d, want 1", got)
	}
}

func TestReplenishToMinimum(t *testing.T) {
	cfg := testConfig()
	cfg.Simulation.OrganismCount = 2
	cfg.Simulation.MinOrganismCount = 5
	w := newTestWorld(t, cfg)

	w.Step(0, 0)

	if got := w.OrganismCount(); got != 5 {
		t.Fatalf("organisms after replenish = %d, want 5", got)
	}
}

func TestShelterRotation(t *testing.T) {
	cfg := testConfig()
	cfg.Simulation.ShelterCount = 3
	cfg.Simulation.ShelterResetInterval = 5
	w := newTestWorld(t, cfg)

	before := w.Shelters()
	w.Step(10, 0)
	after := w.Shelters()

	if len(after) != len(before) {
		t.Fatalf("shelter count changed: %d -> %d", len(before), len(after))
	}
	same := true
	for i := range after {
		if after[i] != before[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("shelters not regenerated after reset interval elapsed")
	}
}

func TestStartStopLoop(t *testing.T) {
	cfg := testConfig()
	w := newTestWorld(t, cfg)

	w.StartMoving()
	if !w.Running() {
		t.Fatal("not running after StartMoving")
	}

	deadline := time.Now().Add(2 * time.Second)
	for w.MoveCounter() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	w.StopMoving()
	if w.Running() {
		t.Fatal("still running after StopMoving")
	}
	if w.MoveCounter() == 0 {
		t.Fatal("loop never stepped")
	}

	frozen := w.MoveCounter()
	time.Sleep(10 * time.Millisecond)
	if got := w.MoveCounter(); got != frozen {
		t.Fatalf("move counter advanced after stop: %d -> %d", frozen, got)
	}
}

func TestStartWithEmptyPopulationIsNoop(t *testing.T) {
	cfg := testConfig()
	cfg.Simulation.OrganismCount = 0
	w := newTestWorld(t, cfg)

	w.StartMoving()
	if w.Running() {
		t.Fatal("running with empty population")
	}
}

func TestStopWithoutStartIsNoop(t *testing.T) {
	w := newTestWorld(t, testConfig())
	w.StopMoving()
	w.StopMoving()
}

func TestReset(t *testing.T) {
	cfg := testConfig()
	w := newTestWorld(t, cfg)

	w.Step(10, 2)
	if w.MoveCounter() == 0 {
		t.Fatal("precondition: counter should have advanced")
	}

	sim := cfg.Simulation
	sim.OrganismCount = 7
	sim.ShelterCount = 1
	w.Reset(sim)

	if got := w.MoveCounter(); got != 0 {
		t.Fatalf("move counter after reset = %d, want 0", got)
	}
	if got := w.OrganismCount(); got != 7 {
		t.Fatalf("organisms after reset = %d, want 7", got)
	}
	if got := w.ShelterCount(); got != 1 {
		t.Fatalf("shelters after reset = %d, want 1", got)
	}
	if w.Running() {
		t.Fatal("running after reset")
	}
}

func TestAddOrganismAndShelter(t *testing.T) {
	cfg := testConfig()
	w := newTestWorld(t, cfg)

	before := w.OrganismCount()
	id := w.AddOrganism()
	if got := w.OrganismCount(); got != before+1 {
		t.Fatalf("organisms = %d, want %d", got, before+1)
	}

	found := false
	for _, o := range w.Latest().Organisms {
		if o.ID == id {
			found = true
		}
	}
	if !found {
		t.Fatalf("added organism %d missing from snapshot", id)
	}

	shelters := w.ShelterCount()
	w.AddShelter()
	if got := w.ShelterCount(); got != shelters+1 {
		t.Fatalf("shelters = %d, want %d", got, shelters+1)
	}
}

func TestGrowAppendsSegment(t *testing.T) {
	cfg := testConfig()
	w := newTestWorld(t, cfg)
	id := w.AddOrganism()

	var points int
	for _, o := range w.Latest().Organisms {
		if o.ID == id {
			points = len(o.Points)
		}
	}

	if !w.Grow(id) {
		t.Fatal("Grow failed for known id")
	}
	for _, o := range w.Latest().Organisms {
		if o.ID == id && len(o.Points) != points+1 {
			t.Fatalf("points = %d, want %d", len(o.Points), points+1)
		}
	}

	if w.Grow(999999) {
		t.Fatal("Grow succeeded for unknown id")
	}
}

func TestDuplicateHalvesEnergy(t *testing.T) {
	cfg := testConfig()
	cfg.Simulation.OrganismCount = 1
	cfg.Simulation.StartingEnergyMin = 80
	cfg.Simulation.StartingEnergyMax = 80
	w := newTestWorld(t, cfg)

	parent := w.Latest().Organisms[0]
	childID, ok := w.Duplicate(parent.ID)
	if !ok {
		t.Fatal("Duplicate failed for known id")
	}
	if childID == parent.ID {
		t.Fatal("duplicate shares parent id")
	}

	snap := w.Latest()
	if len(snap.Organisms) != 2 {
		t.Fatalf("organisms = %d, want 2", len(snap.Organisms))
	}
	for _, o := range snap.Organisms {
		if o.Energy != 40 {
			t.Fatalf("organism %d energy = %d, want 40", o.ID, o.Energy)
		}
	}

	if _, ok := w.Duplicate(999999); ok {
		t.Fatal("Duplicate succeeded for unknown id")
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	cfg := testConfig()
	w := newTestWorld(t, cfg)

	snap := w.Latest()
	snap.Organisms[0].Points[0] = geom.Vec2{X: -1e9, Y: -1e9}

	w.Step(0, 0)
	fresh := w.Latest()
	if fresh.Organisms[0].Points[0] == (geom.Vec2{X: -1e9, Y: -1e9}) {
		t.Fatal("snapshot mutation leaked into world state")
	}
}
