package thermostat

import (
	"math"

	"github.com/san-kum/molsim/internal/molecule"
	"gonum.org/v1/gonum/spatial/r2"
)

// Isokinetic rescales every velocity and rotation rate by the same factor so
// the kinetic temperature lands exactly on the target.
type Isokinetic struct {
	ds     *molecule.DataSet
	target float64
}

func NewIsokinetic(ds *molecule.DataSet) *Isokinetic {
	return &Isokinetic{ds: ds, target: MinTemperature}
}

func (t *Isokinetic) SetTargetTemperature(target float64) { t.target = target }

func (t *Isokinetic) Target() float64 { return t.target }

func (t *Isokinetic) AdjustTemperature() {
	scale := 0.0
	if t.target > MinTemperature {
		measured := t.ds.Temperature()
		if measured <= 0 {
			return
		}
		scale = math.Sqrt(t.target / measured)
	}

	vel := t.ds.Velocities()
	for i := range vel {
		vel[i] = r2.Scale(scale, vel[i])
	}
	if t.ds.Topology().Rotates() {
		rates := t.ds.RotationRates()
		for i := range rates {
			rates[i] *= scale
		}
	}
}
