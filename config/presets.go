package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Presets are saved simulation parameter records, one yaml file per name.
// The core only consumes the record through Reset; persistence lives here.

// presetPath sanitizes the name into a file path under dir.
func presetPath(dir, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("preset name is empty")
	}
	if strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("preset name %q contains path separators", name)
	}
	return filepath.Join(dir, name+".yaml"), nil
}

// SavePreset writes the simulation record under the given name.
func SavePreset(dir, name string, sim SimulationConfig) error {
	path, err := presetPath(dir, name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating preset dir: %w", err)
	}
	data, err := yaml.Marshal(sim)
	if err != nil {
		return fmt.Errorf("marshaling preset %q: %w", name, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing preset %q: %w", name, err)
	}
	return nil
}

// LoadPreset reads a named simulation record. Fields absent from the file
// keep the embedded-defaults values, matching Load's overlay behavior.
func LoadPreset(dir, name string) (SimulationConfig, error) {
	base := Config{}
	if err := yaml.Unmarshal(defaultsYAML, &base); err != nil {
		return SimulationConfig{}, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	sim := base.Simulation

	path, err := presetPath(dir, name)
	if err != nil {
		return sim, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return sim, fmt.Errorf("reading preset %q: %w", name, err)
	}
	if err := yaml.Unmarshal(data, &sim); err != nil {
		return sim, fmt.Errorf("parsing preset %q: %w", name, err)
	}
	return sim, nil
}

// ListPresets returns the saved preset names in sorted order. A missing
// directory is an empty list, not an error.
func ListPresets(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing presets: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names, nil
}
