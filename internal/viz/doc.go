// Package viz renders a running simulation in the terminal.
//
// [Model] is a Bubble Tea program that drives a sim.Controller from the
// frame clock, draws every atom on a Braille [Canvas] and charts the
// recent temperature and pressure history.
//
// # Key Bindings
//
//	Space   - Pause/Resume
//	Up/K    - Heat
//	Down/J  - Cool
//	Left/H  - Lower the lid
//	Right/L - Raise the lid
//	1 2 3   - Solid, liquid, gas
//	S       - Next species
//	I       - Inject a molecule
//	R       - Return the lid after an explosion
//	G       - Toggle gravity
//	T       - Cycle color themes
//	?       - Show help overlay
package viz
