// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Arena      ArenaConfig      `yaml:"arena"`
	Simulation SimulationConfig `yaml:"simulation"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Presets    PresetsConfig    `yaml:"presets"`
}

// ScreenConfig holds display settings for the windowed mode.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// ArenaConfig holds the world bounds. The arena is a [0, size] square.
type ArenaConfig struct {
	Size float64 `yaml:"size"`
}

// SimulationConfig is the flat record of named scalar parameters accepted
// by the coordinator's Reset. It is also the unit of preset persistence.
type SimulationConfig struct {
	IterationCount int     `yaml:"iteration_count"` // inner wiggle iterations per step
	MovementLimit  float64 `yaml:"movement_limit"`  // max per-segment roam angle, radians
	SegmentSize    float64 `yaml:"segment_size"`    // link length in world units

	OrganismCount    int `yaml:"organism_count"`     // seeded at reset
	MinOrganismCount int `yaml:"min_organism_count"` // replenishment floor
	MinSegmentCount  int `yaml:"min_segment_count"`  // synthesized organism size range
	MaxSegmentCount  int `yaml:"max_segment_count"`

	StartingEnergyMin int `yaml:"starting_energy_min"`
	StartingEnergyMax int `yaml:"starting_energy_max"`
	EnergyGainRate    int `yaml:"energy_gain_rate"` // per sheltered occupancy check
	DivisionThreshold int `yaml:"division_threshold"`

	ShelterCount   int     `yaml:"shelter_count"`
	ShelterMinSize float64 `yaml:"shelter_min_size"`
	ShelterMaxSize float64 `yaml:"shelter_max_size"`
	// ShelterResetInterval is in moves (iteration counts accumulate into
	// the move counter); zero disables shelter rotation.
	ShelterResetInterval        int64 `yaml:"shelter_reset_interval"`
	DeadOrganismsBecomeShelters bool  `yaml:"dead_organisms_become_shelters"`

	// Check cadences inside the kernel. Tuned defaults, exposed rather
	// than hard-coded.
	OccupancyCheckCadence int `yaml:"occupancy_check_cadence"`
	BoundaryCheckCadence  int `yaml:"boundary_check_cadence"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	// StatsWindow is the moves-per-second sampling interval in seconds.
	StatsWindow float64 `yaml:"stats_window"`
}

// PresetsConfig holds named-preset persistence settings.
type PresetsConfig struct {
	Dir string `yaml:"dir"`
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults
// if path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded
// defaults. If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into the same struct: only fields present in the file
		// overwrite defaults.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyFloors()
	return cfg, nil
}

// applyFloors keeps obviously broken values out of the hot loop.
func (c *Config) applyFloors() {
	s := &c.Simulation
	if s.MinSegmentCount < 1 {
		s.MinSegmentCount = 2
	}
	if s.MaxSegmentCount < s.MinSegmentCount {
		s.MaxSegmentCount = s.MinSegmentCount
	}
	if s.StartingEnergyMax < s.StartingEnergyMin {
		s.StartingEnergyMax = s.StartingEnergyMin
	}
	if c.Arena.Size <= 0 {
		c.Arena.Size = 1000
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
