package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/molsim/internal/config"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "run"}
	addRunFlags(cmd)
	preset, configFile = "", ""
	return cmd
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   LogLevelDebug,
		"INFO":    LogLevelInfo,
		"warning": LogLevelWarn,
		"error":   LogLevelError,
		"verbose": LogLevelInfo,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Errorf("%s: got %s, want %s", in, got, want)
		}
	}
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte("species: neon\nticks: 50\nseed: 9\nenvironment:\n  gravity: 0.2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := newRunCmd()
	configFile = path
	if err := cmd.Flags().Set("ticks", "5"); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Species != "neon" || cfg.Seed != 9 {
		t.Errorf("file values lost: %+v", cfg)
	}
	if cfg.Ticks != 5 {
		t.Errorf("expected flag to override ticks, got %d", cfg.Ticks)
	}
	if cfg.Environment.Gravity != 0.2 {
		t.Errorf("unset flag should keep file gravity, got %f", cfg.Environment.Gravity)
	}
}

func TestLoadConfig_Preset(t *testing.T) {
	cmd := newRunCmd()
	preset = "compress"

	cfg, err := loadConfig(cmd, []string{"argon"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Environment.ContainerHeight != config.Presets["argon"]["compress"].Environment.ContainerHeight {
		t.Errorf("preset not applied: %+v", cfg.Environment)
	}
	if cfg.Seed == 0 {
		t.Error("expected a generated seed")
	}

	preset = "missing"
	if _, err := loadConfig(cmd, []string{"argon"}); err == nil {
		t.Error("expected error for unknown preset")
	}
	preset = ""
}

func TestLoadConfig_RejectsUnknownSpecies(t *testing.T) {
	if _, err := loadConfig(newRunCmd(), []string{"krypton"}); err == nil {
		t.Error("expected error for unknown species")
	}
}
