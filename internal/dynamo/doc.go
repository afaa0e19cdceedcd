// Package dynamo provides the vocabulary shared by every part of the
// molecular dynamics engine.
//
// The package defines the closed enumerations used to configure a run and
// the domain errors surfaced by the engine:
//
//   - [Species]: which molecule fills the container (Neon, Argon, Water, ...)
//   - [Phase]: solid, liquid or gas initial configuration
//   - [ThermostatKind]: which velocity-adjustment strategy runs each substep
//
// Names parse case-insensitively so that YAML files and CLI flags share one
// spelling:
//
//	sp, err := dynamo.ParseSpecies("argon")
//	if errors.Is(err, dynamo.ErrUnsupportedSpecies) {
//	    // fail fast
//	}
//
// # Thread Safety
//
// All values in this package are immutable and safe to share.
package dynamo
