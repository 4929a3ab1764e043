package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	if cfg.Sim.SimResolution != 128 {
		t.Errorf("SimResolution = %d, want 128", cfg.Sim.SimResolution)
	}
	if cfg.Sim.DyeResolution != 512 {
		t.Errorf("DyeResolution = %d, want 512", cfg.Sim.DyeResolution)
	}
	if cfg.Sim.PressureIterations != 20 {
		t.Errorf("PressureIterations = %d, want 20", cfg.Sim.PressureIterations)
	}
	if cfg.Splat.Force != 6000 {
		t.Errorf("Splat.Force = %v, want 6000", cfg.Splat.Force)
	}
}

func TestLoadComputesDerived(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	if math.Abs(float64(cfg.Derived.DT32)-1.0/60.0) > 1e-6 {
		t.Errorf("DT32 = %v, want 1/60", cfg.Derived.DT32)
	}
	// Configured radius is divided by 100 for normalized coordinates.
	if math.Abs(float64(cfg.Derived.SplatRadius)-0.002) > 1e-6 {
		t.Errorf("SplatRadius = %v, want 0.002", cfg.Derived.SplatRadius)
	}
	if cfg.Derived.ScreenW32 != float32(cfg.Screen.Width) {
		t.Errorf("ScreenW32 = %v, want %d", cfg.Derived.ScreenW32, cfg.Screen.Width)
	}
}

func TestLoadOverridesMergeWithDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	override := "sim:\n  curl: 25.0\n  pressure_iterations: 40\n"
	if err := os.WriteFile(path, []byte(override), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load override: %v", err)
	}

	if cfg.Sim.Curl != 25.0 {
		t.Errorf("Curl = %v, want overridden 25", cfg.Sim.Curl)
	}
	if cfg.Sim.PressureIterations != 40 {
		t.Errorf("PressureIterations = %d, want overridden 40", cfg.Sim.PressureIterations)
	}
	// Fields absent from the override keep their defaults.
	if cfg.Sim.SimResolution != 128 {
		t.Errorf("SimResolution = %d, want default 128", cfg.Sim.SimResolution)
	}
	if cfg.Splat.Radius != 0.2 {
		t.Errorf("Splat.Radius = %v, want default 0.2", cfg.Splat.Radius)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("missing config file should error")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Sim.Curl = 12.5

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Sim.Curl != 12.5 {
		t.Errorf("Curl after round trip = %v, want 12.5", loaded.Sim.Curl)
	}
}
