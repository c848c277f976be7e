package cmd

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/rawsim/sim"
)

// Config represents the full defaults.yaml structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type Config struct {
	Version string                 `yaml:"version"`
	Presets map[string]sim.RunSpec `yaml:"presets"`
}

// loadDefaultsConfig parses defaults.yaml into a Config struct.
// Uses strict field checking: typos must cause errors.
func loadDefaultsConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading defaults file %s: %w", path, err)
	}
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing defaults file %s: %w: %v", path, sim.ErrConfiguration, err)
	}
	return cfg, nil
}

// GetPreset returns the named preset from the defaults file, with zero
// slots and group duration defaulted.
func GetPreset(name, defaultsFilePath string) (sim.RunSpec, error) {
	cfg, err := loadDefaultsConfig(defaultsFilePath)
	if err != nil {
		return sim.RunSpec{}, err
	}
	preset, ok := cfg.Presets[name]
	if !ok {
		return sim.RunSpec{}, &sim.ConfigError{Field: "preset", Value: name, Reason: fmt.Sprintf("must be one of %v", presetNames(cfg))}
	}
	preset.Config = preset.Config.WithDefaults()
	return preset, nil
}

func presetNames(cfg Config) []string {
	names := make([]string, 0, len(cfg.Presets))
	for name := range cfg.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
