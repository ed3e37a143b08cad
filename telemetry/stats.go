package telemetry

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for one sampling window.
type WindowStats struct {
	MoveCounter    int64   `csv:"move_counter"`
	MovesPerSecond float64 `csv:"moves_per_sec"`

	// Population at window end
	OrganismCount int `csv:"organisms"`
	ShelterCount  int `csv:"shelters"`

	// Events during the window
	Divisions     int `csv:"divisions"`
	Deaths        int `csv:"deaths"`
	Replenished   int `csv:"replenished"`
	ShelterResets int `csv:"shelter_resets"`

	// Energy distribution at window end
	EnergyMean float64 `csv:"energy_mean"`
	EnergyStd  float64 `csv:"energy_std"`
	EnergyP10  float64 `csv:"energy_p10"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`
}

// ComputeEnergyStats calculates mean, stddev, and percentiles of the
// population's energy values. Empty input yields all zeros.
func ComputeEnergyStats(values []float64) (mean, std, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	if len(sorted) > 1 {
		std = stat.StdDev(sorted, nil)
	}
	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	return mean, std, p10, p50, p90
}

// Collector accumulates maintenance events between windows.
type Collector struct {
	divisions     int
	deaths        int
	replenished   int
	shelterResets int
}

// NewCollector creates an empty event collector.
func NewCollector() *Collector {
	return &Collector{}
}

// RecordDivision counts one organism division.
func (c *Collector) RecordDivision() { c.divisions++ }

// RecordDeath counts one organism death.
func (c *Collector) RecordDeath() { c.deaths++ }

// RecordReplenished counts organisms synthesized to hold the minimum.
func (c *Collector) RecordReplenished(n int) { c.replenished += n }

// RecordShelterReset counts one wholesale shelter regeneration.
func (c *Collector) RecordShelterReset() { c.shelterResets++ }

// Flush fills the event fields of stats and zeroes the counters.
func (c *Collector) Flush(stats *WindowStats) {
	stats.Divisions = c.divisions
	stats.Deaths = c.deaths
	stats.Replenished = c.replenished
	stats.ShelterResets = c.shelterResets
	*c = Collector{}
}
