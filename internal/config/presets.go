package config

import "sort"

var Presets = map[string]map[string]*Config{
	"neon": {
		"crystal": {
			Species: "neon", Phase: "solid", Thermostat: "adaptive", Ticks: 600, SampleEvery: 10,
			Environment: EnvironmentConfig{Gravity: 0.045, ContainerHeight: 10000, InteractionStrength: 225},
		},
		"gas": {
			Species: "neon", Phase: "gas", Thermostat: "adaptive", Ticks: 900, SampleEvery: 10,
			Environment: EnvironmentConfig{Gravity: 0.045, ContainerHeight: 10000, InteractionStrength: 225},
		},
	},
	"argon": {
		"melt": {
			Species: "argon", Phase: "solid", Thermostat: "adaptive", Ticks: 1800, SampleEvery: 20,
			Environment: EnvironmentConfig{Gravity: 0.045, HeatingCooling: 0.5, ContainerHeight: 10000, InteractionStrength: 225},
		},
		"condense": {
			Species: "argon", Phase: "gas", Thermostat: "adaptive", Ticks: 1800, SampleEvery: 20,
			Environment: EnvironmentConfig{Gravity: 0.045, HeatingCooling: -0.5, ContainerHeight: 10000, InteractionStrength: 225},
		},
		"compress": {
			Species: "argon", Phase: "gas", Thermostat: "adaptive", Ticks: 1200, SampleEvery: 10,
			Environment: EnvironmentConfig{Gravity: 0.045, ContainerHeight: 3000, InteractionStrength: 225},
		},
		"overheat": {
			Species: "argon", Phase: "gas", Thermostat: "isokinetic", Ticks: 1200, SampleEvery: 10,
			Environment: EnvironmentConfig{Temperature: 20, Gravity: 0.045, ContainerHeight: 4000, InteractionStrength: 225},
		},
	},
	"oxygen": {
		"liquid": {
			Species: "oxygen", Phase: "liquid", Thermostat: "adaptive", Ticks: 900, SampleEvery: 10,
			Environment: EnvironmentConfig{Gravity: 0.045, ContainerHeight: 10000, InteractionStrength: 225},
		},
		"pour": {
			Species: "oxygen", Phase: "gas", Thermostat: "adaptive", Ticks: 1800, SampleEvery: 20,
			Environment: EnvironmentConfig{Temperature: 0.3, Gravity: 0.045, ContainerHeight: 10000, InteractionStrength: 225},
			Injection:   InjectionConfig{Count: 40, EveryTicks: 30},
		},
	},
	"water": {
		"freeze": {
			Species: "water", Phase: "liquid", Thermostat: "adaptive", Ticks: 2400, SampleEvery: 20,
			Environment: EnvironmentConfig{Gravity: 0.045, HeatingCooling: -0.3, ContainerHeight: 10000, InteractionStrength: 225},
		},
		"boil": {
			Species: "water", Phase: "liquid", Thermostat: "adaptive", Ticks: 2400, SampleEvery: 20,
			Environment: EnvironmentConfig{Gravity: 0.045, HeatingCooling: 0.4, ContainerHeight: 10000, InteractionStrength: 225},
		},
	},
	"user_defined": {
		"weak": {
			Species: "user_defined", Phase: "liquid", Thermostat: "adaptive", Ticks: 900, SampleEvery: 10,
			Environment: EnvironmentConfig{Gravity: 0.045, ContainerHeight: 10000, InteractionStrength: 20},
		},
		"sticky": {
			Species: "user_defined", Phase: "gas", Thermostat: "adaptive", Ticks: 900, SampleEvery: 10,
			Environment: EnvironmentConfig{Gravity: 0.045, ContainerHeight: 10000, InteractionStrength: 450},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil if either name is
// unknown.
func GetPreset(species, preset string) *Config {
	speciesPresets, ok := Presets[species]
	if !ok {
		return nil
	}
	cfg, ok := speciesPresets[preset]
	if !ok {
		return nil
	}
	out := *cfg
	return &out
}

func ListPresets(species string) []string {
	speciesPresets, ok := Presets[species]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(speciesPresets))
	for name := range speciesPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
