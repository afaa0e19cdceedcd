package sim

import (
	"github.com/san-kum/molsim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

func (c *Controller) Species() dynamo.Species              { return c.species }
func (c *Controller) Phase() dynamo.Phase                  { return c.phase }
func (c *Controller) Thermostat() dynamo.ThermostatKind    { return c.thermostatKind }
func (c *Controller) Ticks() int                           { return c.ticks }
func (c *Controller) IsExploded() bool                     { return c.container.exploded }
func (c *Controller) MoleculeCount() int                   { return c.ds.Len() }
func (c *Controller) RemainingCapacity() int               { return c.ds.Remaining() }
func (c *Controller) AtomsPerMolecule() int                { return c.ds.AtomsPerMolecule() }
func (c *Controller) TemperatureSetPoint() float64         { return c.setPoint }
func (c *Controller) GravitationalAcceleration() float64   { return c.gravity }
func (c *Controller) HeatingCoolingAmount() float64        { return c.heatingCooling }
func (c *Controller) InteractionStrength() float64         { return c.interactionStrength }
func (c *Controller) ParticleDiameter() float64            { return c.diameter }
func (c *Controller) ContainerHeight() float64             { return c.container.height }
func (c *Controller) TargetContainerHeight() float64       { return c.container.target }
func (c *Controller) MinAllowableContainerHeight() float64 { return c.minAllowableHeight() }
func (c *Controller) NormalizedContainerWidth() float64    { return ContainerWidth / c.diameter }
func (c *Controller) NormalizedContainerHeight() float64   { return c.container.height / c.diameter }
func (c *Controller) Temperature() float64                 { return c.verlet.Temperature() }
func (c *Controller) Pressure() float64                    { return c.verlet.Pressure() }
func (c *Controller) KineticEnergy() float64               { return c.verlet.KineticEnergy() }
func (c *Controller) PotentialEnergy() float64             { return c.verlet.PotentialEnergy() }
func (c *Controller) TotalEnergy() float64                 { return c.KineticEnergy() + c.PotentialEnergy() }
func (c *Controller) PressureInAtmospheres() float64       { return ToAtmospheres(c.species, c.Pressure()) }

// ConvertTemperatureToKelvin converts a reduced temperature for the current
// species.
func (c *Controller) ConvertTemperatureToKelvin(t float64) float64 { return ToKelvin(c.species, t) }

// TemperatureInKelvin converts the set point, which the thermostats hold
// the molecules at, to Kelvin.
func (c *Controller) TemperatureInKelvin() float64 { return ToKelvin(c.species, c.setPoint) }

// AtomPositions copies the normalized position of every atom, grouped by
// molecule.
func (c *Controller) AtomPositions() []r2.Vec {
	return append([]r2.Vec(nil), c.ds.AtomPositions()...)
}

// Snapshot is a read-only copy of the state external readers render from.
type Snapshot struct {
	Tick     int
	Species  dynamo.Species
	Phase    dynamo.Phase
	Exploded bool

	Molecules        int
	AtomsPerMolecule int
	Atoms            []r2.Vec

	Width  float64
	Height float64

	SetPoint          float64
	Temperature       float64
	TemperatureKelvin float64
	Pressure          float64
	PressureAtm       float64
	KineticEnergy     float64
	PotentialEnergy   float64
}

func (s Snapshot) TotalEnergy() float64 { return s.KineticEnergy + s.PotentialEnergy }

func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		Tick:              c.ticks,
		Species:           c.species,
		Phase:             c.phase,
		Exploded:          c.container.exploded,
		Molecules:         c.ds.Len(),
		AtomsPerMolecule:  c.ds.AtomsPerMolecule(),
		Atoms:             c.AtomPositions(),
		Width:             c.NormalizedContainerWidth(),
		Height:            c.NormalizedContainerHeight(),
		SetPoint:          c.setPoint,
		Temperature:       c.Temperature(),
		TemperatureKelvin: c.TemperatureInKelvin(),
		Pressure:          c.Pressure(),
		PressureAtm:       c.PressureInAtmospheres(),
		KineticEnergy:     c.KineticEnergy(),
		PotentialEnergy:   c.PotentialEnergy(),
	}
}
