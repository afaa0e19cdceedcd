package config

import (
	"fmt"
	"os"

	"github.com/san-kum/molsim/internal/dynamo"
	"gopkg.in/yaml.v3"
)

const (
	DefaultTicks               = 600
	DefaultSampleEvery         = 10
	DefaultGravity             = 0.045
	DefaultContainerHeight     = 10000.0
	DefaultInteractionStrength = 225.0
)

type Config struct {
	Species       string            `yaml:"species"`
	Phase         string            `yaml:"phase"`
	Thermostat    string            `yaml:"thermostat"`
	Ticks         int               `yaml:"ticks"`
	SampleEvery   int               `yaml:"sample_every"`
	Seed          int64             `yaml:"seed"`
	Molecules     int               `yaml:"molecules"`
	ValidateState bool              `yaml:"validate_state"`
	Environment   EnvironmentConfig `yaml:"environment"`
	Injection     InjectionConfig   `yaml:"injection"`
}

// EnvironmentConfig holds the knobs a user can turn while a run is going.
// A zero Temperature keeps the set point of the starting phase.
type EnvironmentConfig struct {
	Temperature         float64 `yaml:"temperature"`
	Gravity             float64 `yaml:"gravity"`
	HeatingCooling      float64 `yaml:"heating_cooling"`
	ContainerHeight     float64 `yaml:"container_height"`
	InteractionStrength float64 `yaml:"interaction_strength"`
}

// InjectionConfig adds Count molecules, one every EveryTicks ticks.
type InjectionConfig struct {
	Count      int `yaml:"count"`
	EveryTicks int `yaml:"every_ticks"`
}

func DefaultConfig() *Config {
	return &Config{
		Species:     "argon",
		Phase:       "solid",
		Thermostat:  "adaptive",
		Ticks:       DefaultTicks,
		SampleEvery: DefaultSampleEvery,
		Environment: EnvironmentConfig{
			Gravity:             DefaultGravity,
			ContainerHeight:     DefaultContainerHeight,
			InteractionStrength: DefaultInteractionStrength,
		},
		Injection: InjectionConfig{EveryTicks: 30},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks names and counts. Out-of-range environment values are
// left alone since the controller clamps them.
func (c *Config) Validate() error {
	if _, err := c.SpeciesKind(); err != nil {
		return fmt.Errorf("%w: %v", dynamo.ErrInvalidConfig, err)
	}
	if _, err := c.PhaseKind(); err != nil {
		return fmt.Errorf("%w: %v", dynamo.ErrInvalidConfig, err)
	}
	if _, err := c.ThermostatKind(); err != nil {
		return fmt.Errorf("%w: %v", dynamo.ErrInvalidConfig, err)
	}
	if c.Ticks <= 0 {
		return fmt.Errorf("%w: ticks must be positive, got %d", dynamo.ErrInvalidConfig, c.Ticks)
	}
	if c.SampleEvery <= 0 {
		return fmt.Errorf("%w: sample_every must be positive, got %d", dynamo.ErrInvalidConfig, c.SampleEvery)
	}
	if c.Molecules < 0 || c.Injection.Count < 0 {
		return fmt.Errorf("%w: molecule counts cannot be negative", dynamo.ErrInvalidConfig)
	}
	if c.Injection.Count > 0 && c.Injection.EveryTicks <= 0 {
		return fmt.Errorf("%w: injection.every_ticks must be positive", dynamo.ErrInvalidConfig)
	}
	return nil
}

func (c *Config) SpeciesKind() (dynamo.Species, error)           { return dynamo.ParseSpecies(c.Species) }
func (c *Config) PhaseKind() (dynamo.Phase, error)               { return dynamo.ParsePhase(c.Phase) }
func (c *Config) ThermostatKind() (dynamo.ThermostatKind, error) { return dynamo.ParseThermostat(c.Thermostat) }
