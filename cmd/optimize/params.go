// Package main provides CMA-ES optimization for wriggle simulation parameters.
package main

import (
	"github.com/pthm-cable/wriggle/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Movement
			{Name: "movement_limit", Path: "simulation.movement_limit", Min: 0.01, Max: 0.3, Default: 0.06},
			// Energy
			{Name: "energy_gain_rate", Path: "simulation.energy_gain_rate", Min: 1, Max: 10, Default: 2},
			{Name: "division_threshold", Path: "simulation.division_threshold", Min: 400, Max: 4000, Default: 1500},
			{Name: "starting_energy_min", Path: "simulation.starting_energy_min", Min: 50, Max: 500, Default: 200},
			{Name: "starting_energy_max", Path: "simulation.starting_energy_max", Min: 200, Max: 1000, Default: 600},
			// Shelters
			{Name: "shelter_count", Path: "simulation.shelter_count", Min: 1, Max: 20, Default: 6},
			{Name: "shelter_min_size", Path: "simulation.shelter_min_size", Min: 20, Max: 120, Default: 60},
			{Name: "shelter_max_size", Path: "simulation.shelter_max_size", Min: 80, Max: 300, Default: 160},
			{Name: "shelter_reset_interval", Path: "simulation.shelter_reset_interval", Min: 0, Max: 1000000, Default: 200000},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	// Clamp values to ensure they're within bounds
	clamped := pv.Clamp(values)

	// Order must match Specs order
	s := &cfg.Simulation
	i := 0

	s.MovementLimit = clamped[i]
	i++
	s.EnergyGainRate = int(clamped[i])
	i++
	s.DivisionThreshold = int(clamped[i])
	i++
	s.StartingEnergyMin = int(clamped[i])
	i++
	s.StartingEnergyMax = int(clamped[i])
	i++
	s.ShelterCount = int(clamped[i])
	i++
	s.ShelterMinSize = clamped[i]
	i++
	s.ShelterMaxSize = clamped[i]
	i++
	s.ShelterResetInterval = int64(clamped[i])

	// CMA-ES explores min/max pairs independently; keep the ranges sane.
	if s.StartingEnergyMax < s.StartingEnergyMin {
		s.StartingEnergyMax = s.StartingEnergyMin
	}
	if s.ShelterMaxSize < s.ShelterMinSize {
		s.ShelterMaxSize = s.ShelterMinSize
	}
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	s := cfg.Simulation
	return []float64{
		s.MovementLimit,
		float64(s.EnergyGainRate),
		float64(s.DivisionThreshold),
		float64(s.StartingEnergyMin),
		float64(s.StartingEnergyMax),
		float64(s.ShelterCount),
		s.ShelterMinSize,
		s.ShelterMaxSize,
		float64(s.ShelterResetInterval),
	}
}
