package thermostat

import (
	"math"
	"math/rand"

	"github.com/san-kum/molsim/internal/molecule"
	"gonum.org/v1/gonum/spatial/r2"
)

// CollisionProbability is the chance per call that a molecule collides with
// the heat bath.
const CollisionProbability = 0.01

// Andersen couples the data set to a heat bath through random collisions: a
// colliding molecule draws a fresh Maxwell-Boltzmann velocity and rotation
// rate at the target temperature.
type Andersen struct {
	ds     *molecule.DataSet
	rng    *rand.Rand
	target float64
}

func NewAndersen(ds *molecule.DataSet, rng *rand.Rand) *Andersen {
	return &Andersen{ds: ds, rng: rng, target: MinTemperature}
}

func (a *Andersen) SetTargetTemperature(target float64) { a.target = target }

func (a *Andersen) Target() float64 { return a.target }

func (a *Andersen) AdjustTemperature() {
	target := math.Max(a.target, 0)
	sigma := math.Sqrt(target / a.ds.Mass())
	rotates := a.ds.Topology().Rotates()
	sigmaRate := 0.0
	if rotates {
		sigmaRate = math.Sqrt(target / a.ds.RotationalInertia())
	}

	vel, rates := a.ds.Velocities(), a.ds.RotationRates()
	for i := range vel {
		if a.rng.Float64() >= CollisionProbability {
			continue
		}
		vel[i] = r2.Vec{X: a.rng.NormFloat64() * sigma, Y: a.rng.NormFloat64() * sigma}
		if rotates {
			rates[i] = a.rng.NormFloat64() * sigmaRate
		}
	}
}
