package integrators

import (
	"math"

	"github.com/san-kum/molsim/internal/molecule"
	"gonum.org/v1/gonum/spatial/r2"
)

// Water molecules bind into a lattice through exaggerated partial charges
// that fade out as the set point rises from frozen to melted.
const (
	WaterFrozenTemperature = 0.22
	WaterMeltedTemperature = 0.30

	frozenCharge    = 4.0
	meltedCharge    = 1.0
	frozenRepulsion = 3.0
	meltedRepulsion = 1.0
)

// waterCoupling returns the hydrogen partial charge and the oxygen-oxygen
// repulsion scale for a temperature set point.
func waterCoupling(setPoint float64) (charge, repulsion float64) {
	melted := (setPoint - WaterFrozenTemperature) / (WaterMeltedTemperature - WaterFrozenTemperature)
	if melted < 0 {
		melted = 0
	} else if melted > 1 {
		melted = 1
	}
	charge = frozenCharge + (meltedCharge-frozenCharge)*melted
	repulsion = frozenRepulsion + (meltedRepulsion-frozenRepulsion)*melted
	return charge, repulsion
}

// The charge interaction of two molecules is switched off smoothly as their
// oxygens move from chargeSwitchOnSquared out to the cutoff, so the energy
// stays continuous when a pair leaves range.
const chargeSwitchOnSquared = 4.0

var chargeSwitchDenominator = math.Pow(CutoffSquared-chargeSwitchOnSquared, 3)

// chargeSwitch returns the switching weight at squared oxygen distance
// dist2 and its derivative with respect to dist2.
func chargeSwitch(dist2 float64) (s, ds float64) {
	if dist2 <= chargeSwitchOnSquared {
		return 1, 0
	}
	if dist2 >= CutoffSquared {
		return 0, 0
	}
	a := CutoffSquared - dist2
	b := CutoffSquared + 2*dist2 - 3*chargeSwitchOnSquared
	s = a * a * b / chargeSwitchDenominator
	ds = 6 * a * (chargeSwitchOnSquared - dist2) / chargeSwitchDenominator
	return s, ds
}

type waterPairs struct{}

// accumulate applies Lennard-Jones between oxygens only. Charge forces act
// between every atom pair of two molecules whose oxygens are in range.
func (waterPairs) accumulate(d *molecule.DataSet, c Conditions) float64 {
	q, repulsion := waterCoupling(c.TemperatureSetPoint)
	charges := [3]float64{-2 * q, q, q}

	com, atoms := d.CenterOfMass(), d.AtomPositions()
	next, torque := d.NextForces(), d.NextTorques()
	safe := d.SafeLen()
	potential := 0.0
	var forces [9]r2.Vec
	for i := 0; i < safe; i++ {
		for j := i + 1; j < safe; j++ {
			oi, oj := atoms[3*i], atoms[3*j]
			sep := r2.Sub(oi, oj)
			f, u, ok := lennardJones(sep, repulsion)
			if !ok {
				continue
			}
			applyPairForce(com, next, torque, i, j, oi, oj, f)
			potential += u

			charge := 0.0
			for a := 0; a < 3; a++ {
				for b := 0; b < 3; b++ {
					var uq float64
					forces[3*a+b], uq = coulomb(r2.Sub(atoms[3*i+a], atoms[3*j+b]), charges[a]*charges[b])
					charge += uq
				}
			}

			sw, dsw := chargeSwitch(r2.Norm2(sep))
			for a := 0; a < 3; a++ {
				for b := 0; b < 3; b++ {
					applyPairForce(com, next, torque, i, j, atoms[3*i+a], atoms[3*j+b], r2.Scale(sw, forces[3*a+b]))
				}
			}
			if dsw != 0 {
				applyPairForce(com, next, torque, i, j, oi, oj, r2.Scale(-2*charge*dsw, sep))
			}
			potential += sw * charge
		}
	}
	return potential
}
