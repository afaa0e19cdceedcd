// Package phase arranges the molecules of a data set into solid, liquid or
// gas configurations and gives them thermal velocities.
package phase

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/molsim/internal/dynamo"
	"github.com/san-kum/molsim/internal/molecule"
	"gonum.org/v1/gonum/spatial/r2"
)

// Set-point temperatures each phase starts from, in reduced units.
const (
	SolidTemperature  = 0.15
	LiquidTemperature = 0.34
	GasTemperature    = 1.0
)

// MaxPlacementAttempts bounds the candidates tried per molecule before the
// grid search takes over.
const MaxPlacementAttempts = 500

// Container is the normalized size of the box molecules are placed into.
type Container struct {
	Width  float64
	Height float64
}

// Report describes the outcome of a phase change.
type Report struct {
	Phase       dynamo.Phase
	Temperature float64

	// FallbackPlaced lists molecules that found no open location and were
	// left at their last candidate, possibly overlapping a neighbor.
	FallbackPlaced []int
}

// TemperatureOf returns the set point a phase starts from.
func TemperatureOf(p dynamo.Phase) (float64, error) {
	switch p {
	case dynamo.Solid:
		return SolidTemperature, nil
	case dynamo.Liquid:
		return LiquidTemperature, nil
	case dynamo.Gas:
		return GasTemperature, nil
	}
	return 0, fmt.Errorf("%w: %v", dynamo.ErrUnsupportedPhase, p)
}

// Changer places every molecule of a data set for a requested phase.
type Changer struct {
	ds      *molecule.DataSet
	rng     *rand.Rand
	geom    geometry
	updater molecule.PositionUpdater
}

func NewChanger(ds *molecule.DataSet, rng *rand.Rand) *Changer {
	return &Changer{
		ds:      ds,
		rng:     rng,
		geom:    geometryOf(ds.Topology()),
		updater: molecule.NewPositionUpdater(ds.Topology()),
	}
}

// SetPhase rearranges all molecules, samples velocities at the phase
// temperature and marks the whole set safe. Stale forces are cleared so the
// next integration step starts from rest.
func (c *Changer) SetPhase(p dynamo.Phase, box Container) (Report, error) {
	temperature, err := TemperatureOf(p)
	if err != nil {
		return Report{}, err
	}

	report := Report{Phase: p, Temperature: temperature}
	switch p {
	case dynamo.Solid:
		c.placeSolid(box)
	case dynamo.Liquid:
		report.FallbackPlaced = c.placeLiquid(box)
	case dynamo.Gas:
		report.FallbackPlaced = c.placeGas(box)
	}

	c.assignVelocities(temperature)
	c.resetForces()
	c.ds.MarkAllSafe()
	c.updater.Update(c.ds)
	return report, nil
}

func (c *Changer) assignVelocities(temperature float64) {
	sigma := math.Sqrt(temperature / c.ds.Mass())
	rotates := c.ds.Topology().Rotates()
	sigmaRate := 0.0
	if rotates {
		sigmaRate = math.Sqrt(temperature / c.ds.RotationalInertia())
	}

	vel, rates := c.ds.Velocities(), c.ds.RotationRates()
	for i := range vel {
		vel[i] = r2.Vec{X: c.rng.NormFloat64() * sigma, Y: c.rng.NormFloat64() * sigma}
		if rotates {
			rates[i] = c.rng.NormFloat64() * sigmaRate
		} else {
			rates[i] = 0
		}
	}
}

func (c *Changer) resetForces() {
	for _, buf := range [][]r2.Vec{c.ds.Forces(), c.ds.NextForces()} {
		for i := range buf {
			buf[i] = r2.Vec{}
		}
	}
	for _, buf := range [][]float64{c.ds.Torques(), c.ds.NextTorques()} {
		for i := range buf {
			buf[i] = 0
		}
	}
}

func (c *Changer) randomAngle() float64 {
	return c.rng.Float64() * 2 * math.Pi
}
