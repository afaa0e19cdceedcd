package automation

import (
	"context"
	"fmt"
	"os"

	"github.com/san-kum/molsim/internal/dynamo"
	"github.com/san-kum/molsim/internal/sim"
	"gopkg.in/yaml.v3"
)

// Scenario is a scripted sequence of environment changes applied to one
// controller.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Species     string         `yaml:"species"`
	Seed        int64          `yaml:"seed"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep applies its settings and then runs Ticks ticks. Nil fields
// leave the current setting alone.
type ScenarioStep struct {
	Label       string   `yaml:"label"`
	Ticks       int      `yaml:"ticks"`
	Phase       string   `yaml:"phase"`
	Species     string   `yaml:"species"`
	Temperature *float64 `yaml:"temperature"`
	Heating     *float64 `yaml:"heating"`
	Gravity     *float64 `yaml:"gravity"`
	Height      *float64 `yaml:"height"`
	Inject      int      `yaml:"inject"`
	ReturnLid   bool     `yaml:"return_lid"`
}

// StepResult is the controller state at the end of a step.
type StepResult struct {
	Index    int
	Label    string
	Injected int
	Snapshot sim.Snapshot
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}

	return &scenario, nil
}

func (s *Scenario) Validate() error {
	if len(s.Steps) == 0 {
		return fmt.Errorf("%w: scenario %q has no steps", dynamo.ErrInvalidConfig, s.Name)
	}
	if s.Species != "" {
		if _, err := dynamo.ParseSpecies(s.Species); err != nil {
			return err
		}
	}
	for i, step := range s.Steps {
		if step.Ticks < 0 || step.Inject < 0 {
			return fmt.Errorf("%w: step %d: negative ticks or inject", dynamo.ErrInvalidConfig, i+1)
		}
		if step.Phase != "" {
			if _, err := dynamo.ParsePhase(step.Phase); err != nil {
				return fmt.Errorf("step %d: %w", i+1, err)
			}
		}
		if step.Species != "" {
			if _, err := dynamo.ParseSpecies(step.Species); err != nil {
				return fmt.Errorf("step %d: %w", i+1, err)
			}
		}
	}
	return nil
}

// NewController builds the controller the scenario starts from.
func (s *Scenario) NewController(logger sim.Logger) (*sim.Controller, error) {
	species := dynamo.Argon
	if s.Species != "" {
		parsed, err := dynamo.ParseSpecies(s.Species)
		if err != nil {
			return nil, err
		}
		species = parsed
	}
	return sim.New(sim.Options{Species: species, Seed: s.Seed, Logger: logger})
}

// RunScenario executes every step against c. onStep, when set, is called
// after each step finishes.
func RunScenario(ctx context.Context, c *sim.Controller, scenario *Scenario, onStep func(StepResult)) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		if err := apply(c, step); err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		injected := 0
		for n := 0; n < step.Inject; n++ {
			if c.InjectMolecule() {
				injected++
			}
		}

		if err := c.RunTicks(ctx, step.Ticks, nil); err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		r := StepResult{Index: i + 1, Label: step.Label, Injected: injected, Snapshot: c.Snapshot()}
		results = append(results, r)
		if onStep != nil {
			onStep(r)
		}
	}

	return results, nil
}

func apply(c *sim.Controller, step ScenarioStep) error {
	if step.Species != "" {
		s, _ := dynamo.ParseSpecies(step.Species)
		if err := c.SetMoleculeType(s); err != nil {
			return err
		}
	}
	if step.Phase != "" {
		p, _ := dynamo.ParsePhase(step.Phase)
		if err := c.SetPhase(p); err != nil {
			return err
		}
	}
	if step.ReturnLid {
		if err := c.ReturnLid(); err != nil {
			return err
		}
	}
	if step.Temperature != nil {
		c.SetTemperatureSetPoint(*step.Temperature)
	}
	if step.Heating != nil {
		c.SetHeatingCoolingAmount(*step.Heating)
	}
	if step.Gravity != nil {
		c.SetGravitationalAcceleration(*step.Gravity)
	}
	if step.Height != nil {
		c.SetTargetContainerHeight(*step.Height)
	}
	return nil
}
