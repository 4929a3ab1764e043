// Package config provides configuration loading and access for the effect.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all effect configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Sim       SimConfig       `yaml:"sim"`
	Splat     SplatConfig     `yaml:"splat"`
	Display   DisplayConfig   `yaml:"display"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds window settings for the demo binary.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// SimConfig holds solver parameters.
type SimConfig struct {
	SimResolution       int     `yaml:"sim_resolution"`       // Grid size for velocity/pressure/divergence/curl
	DyeResolution       int     `yaml:"dye_resolution"`       // Grid size for the visible color field
	VelocityDissipation float64 `yaml:"velocity_dissipation"` // Exponential decay applied during velocity advection
	DensityDissipation  float64 `yaml:"density_dissipation"`  // Exponential decay applied during dye advection
	Pressure            float64 `yaml:"pressure"`             // Fraction of prior pressure retained at solve start
	PressureIterations  int     `yaml:"pressure_iterations"`  // Jacobi relaxation sweep count
	Curl                float64 `yaml:"curl"`                 // Vorticity confinement force scale
}

// SplatConfig holds impulse-injection parameters.
type SplatConfig struct {
	Radius           float64 `yaml:"radius"`             // Spatial extent; divided by 100 in normalized coords
	Force            float64 `yaml:"force"`              // Magnitude multiplier applied to pointer deltas
	ColorUpdateSpeed float64 `yaml:"color_update_speed"` // Hue-cycle rate for pointer-assigned colors
	AutoIntervalMS   int     `yaml:"auto_interval_ms"`   // Period of synthetic background splats (0 = disabled)
}

// DisplayConfig holds presentation parameters.
type DisplayConfig struct {
	Shading     bool     `yaml:"shading"`     // Normal-based lighting pass
	Transparent bool     `yaml:"transparent"` // Alpha = max dye channel instead of opaque background
	BackColor   [3]uint8 `yaml:"back_color"`  // Clear color when not transparent
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`          // Seconds per stats window
	PerfCollectorWindow int     `yaml:"perf_collector_window"` // Frames per rolling perf window
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32        float32 // Frame-clamp time step (1/target_fps) as float32
	ScreenW32   float32 // Screen.Width as float32
	ScreenH32   float32 // Screen.Height as float32
	SplatRadius float32 // Splat.Radius / 100, pre-divided for hot paths
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

	// Compute derived values
	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	if c.Screen.TargetFPS <= 0 {
		c.Screen.TargetFPS = 60
	}
	if c.Sim.PressureIterations <= 0 {
		c.Sim.PressureIterations = 20
	}
	if c.Sim.SimResolution <= 0 {
		c.Sim.SimResolution = 128
	}
	if c.Sim.DyeResolution <= 0 {
		c.Sim.DyeResolution = 512
	}

	c.Derived.DT32 = 1.0 / float32(c.Screen.TargetFPS)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.SplatRadius = float32(c.Splat.Radius / 100.0)
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
