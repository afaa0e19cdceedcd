package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/molsim/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Species != "argon" {
		t.Errorf("expected species argon, got %s", cfg.Species)
	}
	if cfg.Ticks <= 0 {
		t.Error("ticks should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown species", func(c *Config) { c.Species = "xenon" }},
		{"unknown phase", func(c *Config) { c.Phase = "plasma" }},
		{"unknown thermostat", func(c *Config) { c.Thermostat = "berendsen" }},
		{"zero ticks", func(c *Config) { c.Ticks = 0 }},
		{"zero sample interval", func(c *Config) { c.SampleEvery = 0 }},
		{"negative molecules", func(c *Config) { c.Molecules = -1 }},
		{"injection without interval", func(c *Config) { c.Injection = InjectionConfig{Count: 3} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, dynamo.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestKinds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Species = "O2"
	cfg.Phase = "gas"
	cfg.Thermostat = "none"

	if s, err := cfg.SpeciesKind(); err != nil || s != dynamo.DiatomicOxygen {
		t.Errorf("species: got %v, %v", s, err)
	}
	if p, err := cfg.PhaseKind(); err != nil || p != dynamo.Gas {
		t.Errorf("phase: got %v, %v", p, err)
	}
	if k, err := cfg.ThermostatKind(); err != nil || k != dynamo.NoThermostat {
		t.Errorf("thermostat: got %v, %v", k, err)
	}
}

func TestLoad_KeepsDefaultsForMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	data := []byte("species: water\nticks: 42\nenvironment:\n  heating_cooling: -0.5\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Species != "water" || cfg.Ticks != 42 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Environment.HeatingCooling != -0.5 {
		t.Errorf("expected heating -0.5, got %f", cfg.Environment.HeatingCooling)
	}
	if cfg.Environment.Gravity != DefaultGravity {
		t.Errorf("expected default gravity, got %f", cfg.Environment.Gravity)
	}
	if cfg.SampleEvery != DefaultSampleEvery {
		t.Errorf("expected default sample interval, got %d", cfg.SampleEvery)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := GetPreset("oxygen", "pour")

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("loaded config differs:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("argon", "compress")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Environment.ContainerHeight != 3000 {
		t.Errorf("expected container height 3000, got %f", cfg.Environment.ContainerHeight)
	}

	cfg.Ticks = 1
	if again := GetPreset("argon", "compress"); again.Ticks == 1 {
		t.Error("GetPreset should return a copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("argon", "nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if cfg := GetPreset("nonexistent", "melt"); cfg != nil {
		t.Error("expected nil for nonexistent species")
	}
}

func TestPresetsValidate(t *testing.T) {
	for species, presets := range Presets {
		for name, cfg := range presets {
			if err := cfg.Validate(); err != nil {
				t.Errorf("%s/%s: %v", species, name, err)
			}
			if cfg.Species != species {
				t.Errorf("%s/%s: species field is %s", species, name, cfg.Species)
			}
		}
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("argon")
	if len(presets) != 4 {
		t.Errorf("expected 4 argon presets, got %v", presets)
	}
	if presets[0] != "compress" {
		t.Errorf("expected sorted names, got %v", presets)
	}

	if presets := ListPresets("nonexistent"); presets != nil {
		t.Error("expected nil for nonexistent species")
	}
}
