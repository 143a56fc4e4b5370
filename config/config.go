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
	Physics   PhysicsConfig   `yaml:"physics"`
	Capsule   CapsuleConfig   `yaml:"capsule"`
	Store     StoreConfig     `yaml:"store"`
	Energy    EnergyConfig    `yaml:"energy"`
	Field     FieldConfig     `yaml:"field"`
	Seed      SeedConfig      `yaml:"seed"`
	Reactions ReactionsConfig `yaml:"reactions"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// PhysicsConfig holds integration and solver parameters.
type PhysicsConfig struct {
	DT              float64 `yaml:"dt"`               // seconds per tick
	GridCellSize    float64 `yaml:"grid_cell_size"`   // spatial hash cell edge
	RelaxIterations int     `yaml:"relax_iterations"` // constraint Gauss-Seidel passes
	Repulsion       float64 `yaml:"repulsion"`        // collision impulse magnitude
	Damping         float64 `yaml:"damping"`          // per-tick velocity retention
	Jitter          float64 `yaml:"jitter"`           // Brownian kick magnitude per tick
}

// CapsuleConfig holds boundary geometry and growth parameters.
type CapsuleConfig struct {
	Radius         float64 `yaml:"radius"`
	InitialLength  float64 `yaml:"initial_length"`
	GrowthRate     float64 `yaml:"growth_rate"`     // length units per second
	DivisionLength float64 `yaml:"division_length"` // length at which the cell divides (0 = never)
}

// StoreConfig holds particle store parameters.
type StoreConfig struct {
	Capacity int `yaml:"capacity"`
}

// EnergyConfig holds the shared energy pool parameters.
type EnergyConfig struct {
	Max        float64 `yaml:"max"`         // pool ceiling
	AbsorbRate float64 `yaml:"absorb_rate"` // units per second at concentration 1.0
}

// FieldConfig holds nutrient field parameters.
type FieldConfig struct {
	Scale          float64 `yaml:"scale"`           // noise spatial frequency
	TimeSpeed      float64 `yaml:"time_speed"`      // field drift speed (0 = static)
	SurfaceSamples int     `yaml:"surface_samples"` // membrane sample points per tick
}

// SeedConfig holds the initial cell contents.
type SeedConfig struct {
	DNASegments int     `yaml:"dna_segments"`
	Polymerases int     `yaml:"polymerases"`
	Ribosomes   int     `yaml:"ribosomes"`
	Lipids      int     `yaml:"lipids"`
	Water       int     `yaml:"water"`
	BondLength  float64 `yaml:"bond_length"` // chromosome rest length between segments
}

// EnzymeConfig holds per-enzyme reaction parameters.
type EnzymeConfig struct {
	DwellTicks float64 `yaml:"dwell_ticks"`
	BindChance float64 `yaml:"bind_chance"`
	EnergyGate float64 `yaml:"energy_gate"`
	BurnChance float64 `yaml:"burn_chance"`
}

// ReactionsConfig holds the reaction rule parameters per enzyme species.
type ReactionsConfig struct {
	Polymerase EnzymeConfig `yaml:"polymerase"`
	Ribosome   EnzymeConfig `yaml:"ribosome"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`          // seconds per stats window
	PerfCollectorWindow int     `yaml:"perf_collector_window"` // ticks averaged per perf report
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32      float32 // Physics.DT as float32
	Capacity  int32   // Store.Capacity as int32
	CellCycle float64 // seconds from initial to division length (0 = unbounded)
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate rejects configurations that indicate a caller bug rather than a
// runtime condition: non-positive geometry, negative rates, zero capacity.
func (c *Config) Validate() error {
	if c.Physics.DT <= 0 {
		return fmt.Errorf("config: physics.dt must be positive, got %v", c.Physics.DT)
	}
	if c.Physics.GridCellSize <= 0 {
		return fmt.Errorf("config: physics.grid_cell_size must be positive, got %v", c.Physics.GridCellSize)
	}
	if c.Physics.RelaxIterations < 1 {
		return fmt.Errorf("config: physics.relax_iterations must be at least 1, got %v", c.Physics.RelaxIterations)
	}
	if c.Capsule.Radius <= 0 {
		return fmt.Errorf("config: capsule.radius must be positive, got %v", c.Capsule.Radius)
	}
	if c.Capsule.InitialLength < 0 {
		return fmt.Errorf("config: capsule.initial_length must not be negative, got %v", c.Capsule.InitialLength)
	}
	if c.Store.Capacity <= 0 {
		return fmt.Errorf("config: store.capacity must be positive, got %v", c.Store.Capacity)
	}
	if c.Seed.BondLength < 0 {
		return fmt.Errorf("config: seed.bond_length must not be negative, got %v", c.Seed.BondLength)
	}
	if c.Energy.Max <= 0 {
		return fmt.Errorf("config: energy.max must be positive, got %v", c.Energy.Max)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.Capacity = int32(c.Store.Capacity)

	if c.Capsule.DivisionLength > c.Capsule.InitialLength && c.Capsule.GrowthRate > 0 {
		c.Derived.CellCycle = (c.Capsule.DivisionLength - c.Capsule.InitialLength) / c.Capsule.GrowthRate
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
