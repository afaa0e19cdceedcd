package automation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/molsim/internal/dynamo"
)

const meltScenario = `
name: melt
species: neon
seed: 7
steps:
  - label: settle
    ticks: 4
  - label: melt
    phase: liquid
    heating: 0.5
    gravity: 0
    ticks: 3
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAndRunScenario(t *testing.T) {
	s, err := LoadScenario(writeScenario(t, meltScenario))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Name != "melt" || len(s.Steps) != 2 {
		t.Fatalf("unexpected scenario %+v", s)
	}

	c, err := s.NewController(nil)
	if err != nil {
		t.Fatal(err)
	}
	if c.Species() != dynamo.Neon {
		t.Errorf("expected neon, got %s", c.Species())
	}

	var seen []string
	results, err := RunScenario(context.Background(), c, s, func(r StepResult) {
		seen = append(seen, r.Label)
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(results) != 2 || len(seen) != 2 || seen[1] != "melt" {
		t.Fatalf("expected two reported steps, got %v", seen)
	}
	if results[0].Snapshot.Tick != 4 || results[1].Snapshot.Tick != 7 {
		t.Errorf("unexpected ticks %d, %d", results[0].Snapshot.Tick, results[1].Snapshot.Tick)
	}
	if results[1].Snapshot.Phase != dynamo.Liquid {
		t.Errorf("expected liquid, got %s", results[1].Snapshot.Phase)
	}
	if c.GravitationalAcceleration() != 0 || c.HeatingCoolingAmount() != 0.5 {
		t.Errorf("environment not applied: gravity %v heating %v", c.GravitationalAcceleration(), c.HeatingCoolingAmount())
	}
}

func TestScenarioValidate(t *testing.T) {
	tests := []struct {
		name string
		s    Scenario
	}{
		{"no steps", Scenario{Name: "empty"}},
		{"bad species", Scenario{Species: "helium", Steps: []ScenarioStep{{Ticks: 1}}}},
		{"bad phase", Scenario{Steps: []ScenarioStep{{Phase: "plasma"}}}},
		{"negative ticks", Scenario{Steps: []ScenarioStep{{Ticks: -1}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.s.Validate(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestRunScenario_StopsOnFailedStep(t *testing.T) {
	s := &Scenario{Steps: []ScenarioStep{
		{Ticks: 1},
		{ReturnLid: true, Ticks: 1},
	}}
	c, err := s.NewController(nil)
	if err != nil {
		t.Fatal(err)
	}

	results, err := RunScenario(context.Background(), c, s, nil)
	if !errors.Is(err, dynamo.ErrNotExploded) {
		t.Fatalf("expected ErrNotExploded, got %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected the first step to be reported, got %d", len(results))
	}
}
