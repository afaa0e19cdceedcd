package dynamo

import (
	"fmt"
	"strings"
)

type Species int

const (
	Neon Species = iota
	Argon
	Water
	DiatomicOxygen
	UserDefined
)

var speciesNames = map[Species]string{
	Neon:           "neon",
	Argon:          "argon",
	Water:          "water",
	DiatomicOxygen: "oxygen",
	UserDefined:    "user_defined",
}

func (s Species) String() string {
	if name, ok := speciesNames[s]; ok {
		return name
	}
	return fmt.Sprintf("species(%d)", int(s))
}

// Valid reports whether s is one of the known species.
func (s Species) Valid() bool {
	_, ok := speciesNames[s]
	return ok
}

// AllSpecies lists every species in declaration order.
func AllSpecies() []Species {
	return []Species{Neon, Argon, Water, DiatomicOxygen, UserDefined}
}

func ParseSpecies(name string) (Species, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	switch key {
	case "o2", "diatomic_oxygen", "diatomicoxygen":
		return DiatomicOxygen, nil
	case "user", "userdefined", "adjustable":
		return UserDefined, nil
	}
	for s, n := range speciesNames {
		if n == key {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedSpecies, name)
}

type Phase int

const (
	Solid Phase = iota
	Liquid
	Gas
)

func (p Phase) String() string {
	switch p {
	case Solid:
		return "solid"
	case Liquid:
		return "liquid"
	case Gas:
		return "gas"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

func (p Phase) Valid() bool { return p >= Solid && p <= Gas }

func ParsePhase(name string) (Phase, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "solid":
		return Solid, nil
	case "liquid":
		return Liquid, nil
	case "gas":
		return Gas, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedPhase, name)
}

// ThermostatKind selects how the controller drives temperature toward the set point.
// Adaptive switches between Isokinetic and Andersen depending on circumstances.
type ThermostatKind int

const (
	Adaptive ThermostatKind = iota
	Isokinetic
	Andersen
	NoThermostat
)

func (k ThermostatKind) String() string {
	switch k {
	case Adaptive:
		return "adaptive"
	case Isokinetic:
		return "isokinetic"
	case Andersen:
		return "andersen"
	case NoThermostat:
		return "none"
	}
	return fmt.Sprintf("thermostat(%d)", int(k))
}

func (k ThermostatKind) Valid() bool { return k >= Adaptive && k <= NoThermostat }

func ParseThermostat(name string) (ThermostatKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "adaptive":
		return Adaptive, nil
	case "isokinetic":
		return Isokinetic, nil
	case "andersen":
		return Andersen, nil
	case "none", "off":
		return NoThermostat, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedThermostat, name)
}
