package sim

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultSlots is the number of contention slots per RAW group when unset.
	DefaultSlots = 8
	// DefaultGroupDuration is the RAW group duration (time units) when unset.
	DefaultGroupDuration = 100.0
)

// Config holds the immutable parameters of one simulation run.
type Config struct {
	Groups        int     `yaml:"groups" json:"groups"`                 // number of RAW groups (> 0)
	Stations      int     `yaml:"stations" json:"stations"`             // number of stations (> 0)
	ArrivalRate   float64 `yaml:"arrival_rate" json:"arrival_rate"`     // Poisson mean offered load per station (> 0)
	Slots         int     `yaml:"slots" json:"slots"`                   // contention slots per group (default 8)
	GroupDuration float64 `yaml:"group_duration" json:"group_duration"` // RAW slice length in time units (default 100)
}

// NewConfig returns a Config with Slots and GroupDuration at their defaults.
func NewConfig(groups, stations int, arrivalRate float64) Config {
	return Config{
		Groups:        groups,
		Stations:      stations,
		ArrivalRate:   arrivalRate,
		Slots:         DefaultSlots,
		GroupDuration: DefaultGroupDuration,
	}
}

// WithDefaults returns a copy with zero-valued Slots and GroupDuration
// replaced by their defaults. Explicit negative values are kept so that
// Validate still rejects them.
func (c Config) WithDefaults() Config {
	if c.Slots == 0 {
		c.Slots = DefaultSlots
	}
	if c.GroupDuration == 0 {
		c.GroupDuration = DefaultGroupDuration
	}
	return c
}

// Validate checks that every field is strictly positive and finite.
// Returns a *ConfigError naming the first offending field.
func (c Config) Validate() error {
	if c.Groups <= 0 {
		return &ConfigError{Field: "groups", Value: c.Groups, Reason: "must be positive"}
	}
	if c.Stations <= 0 {
		return &ConfigError{Field: "stations", Value: c.Stations, Reason: "must be positive"}
	}
	if err := validateFinitePositive("arrival_rate", c.ArrivalRate); err != nil {
		return err
	}
	if c.Slots <= 0 {
		return &ConfigError{Field: "slots", Value: c.Slots, Reason: "must be positive"}
	}
	if err := validateFinitePositive("group_duration", c.GroupDuration); err != nil {
		return err
	}
	return nil
}

// AccessProbability returns the per-slot access probability 1/Slots.
func (c Config) AccessProbability() float64 {
	return 1.0 / float64(c.Slots)
}

func validateFinitePositive(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return &ConfigError{Field: name, Value: val, Reason: "must be a finite number"}
	}
	if val <= 0 {
		return &ConfigError{Field: name, Value: val, Reason: "must be positive"}
	}
	return nil
}

// RunSpec bundles a Config with everything else needed to reproduce a run.
// Empty policy names select the defaults (max-min assignment, Poisson traffic).
type RunSpec struct {
	Config   Config `yaml:",inline"`
	Seed     int64  `yaml:"seed"`
	Assigner string `yaml:"assigner,omitempty"`
	Traffic  string `yaml:"traffic,omitempty"`
	Trace    bool   `yaml:"trace,omitempty"`
}

// Validate checks the Config and the policy names.
func (s RunSpec) Validate() error {
	if err := s.Config.Validate(); err != nil {
		return err
	}
	if !ValidAssigners[s.Assigner] {
		return &ConfigError{Field: "assigner", Value: s.Assigner, Reason: "must be one of max-min, round-robin, random"}
	}
	if !ValidTrafficProcesses[s.Traffic] {
		return &ConfigError{Field: "traffic", Value: s.Traffic, Reason: "must be one of poisson, constant"}
	}
	return nil
}

// LoadRunSpec reads a YAML scenario file. Unknown keys are rejected, and a
// non-integer where an integer is required surfaces as ErrConfiguration.
// Zero-valued Slots and GroupDuration are defaulted; the result is not validated.
func LoadRunSpec(path string) (*RunSpec, error) {
	return LoadRunSpecOnto(path, RunSpec{})
}

// LoadRunSpecOnto decodes a YAML scenario file over base: keys present in the
// file replace base values, absent keys keep them. Decoding rules match
// LoadRunSpec.
func LoadRunSpecOnto(path string, base RunSpec) (*RunSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	spec := base
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w: %v", path, ErrConfiguration, err)
	}
	spec.Config = spec.Config.WithDefaults()
	return &spec, nil
}
