package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrUnsupportedSpecies indicates a molecule species the engine cannot build.
	ErrUnsupportedSpecies = errors.New("dynamo: unsupported molecule species")

	// ErrUnsupportedThermostat indicates an unknown thermostat selection.
	ErrUnsupportedThermostat = errors.New("dynamo: unsupported thermostat")

	// ErrUnsupportedPhase indicates an unknown phase of matter.
	ErrUnsupportedPhase = errors.New("dynamo: unsupported phase")

	// ErrCapacityExceeded indicates the molecule data set is full.
	ErrCapacityExceeded = errors.New("dynamo: molecule capacity exceeded")

	// ErrNotExploded indicates a lid return was requested on an intact container.
	ErrNotExploded = errors.New("dynamo: container has not exploded")

	// ErrInvalidConfig indicates a run configuration that cannot be executed.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrNonFinite indicates a NaN or Inf appeared in the molecule state.
	ErrNonFinite = errors.New("dynamo: non-finite molecule state")
)

// SimulationError wraps an error with the tick at which it was detected.
type SimulationError struct {
	Tick    int
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("tick %d: %v", e.Tick, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
