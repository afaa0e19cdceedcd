// Package thermostat drives the measured temperature of a molecule data set
// toward a target by adjusting velocities and rotation rates in place.
package thermostat

// MinTemperature is the lowest target a thermostat honors. Targets at or
// below it bring every molecule to rest.
const MinTemperature = 0.0001

// Thermostat adjusts a data set toward its target temperature. Callers run
// AdjustTemperature once per integration substep.
type Thermostat interface {
	SetTargetTemperature(t float64)
	AdjustTemperature()
}
