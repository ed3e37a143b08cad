package ecosystem

import (
	"github.com/pthm-cable/wriggle/telemetry"
)

// WindowStats aggregates the current population state and the
// maintenance events recorded since the previous call into one
// telemetry record. Calling it closes the window: event counters
// restart at zero.
func (w *World) WindowStats() telemetry.WindowStats {
	w.mu.Lock()
	defer w.mu.Unlock()

	stats := telemetry.WindowStats{
		MoveCounter:    w.moveCounter,
		MovesPerSecond: w.sampler.MovesPerSecond(),
		OrganismCount:  w.organismCount,
		ShelterCount:   len(w.shelters),
	}

	energies := make([]float64, 0, w.organismCount)
	query := w.filter.Query()
	for query.Next() {
		_, _, vit := query.Get()
		energies = append(energies, float64(vit.Energy))
	}
	stats.EnergyMean, stats.EnergyStd, stats.EnergyP10, stats.EnergyP50, stats.EnergyP90 =
		telemetry.ComputeEnergyStats(energies)

	w.collector.Flush(&stats)
	return stats
}
