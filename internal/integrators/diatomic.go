package integrators

import (
	"math"

	"github.com/san-kum/molsim/internal/molecule"
	"gonum.org/v1/gonum/spatial/r2"
)

// diatomicReachSquared bounds the center distance at which any atom pair of
// two diatomic molecules can still be inside the cutoff.
var diatomicReachSquared = math.Pow(math.Sqrt(CutoffSquared)+molecule.DiatomicBondLength, 2)

type diatomicPairs struct{}

func (diatomicPairs) accumulate(d *molecule.DataSet, _ Conditions) float64 {
	com, atoms := d.CenterOfMass(), d.AtomPositions()
	next, torque := d.NextForces(), d.NextTorques()
	safe := d.SafeLen()
	potential := 0.0
	for i := 0; i < safe; i++ {
		for j := i + 1; j < safe; j++ {
			if r2.Norm2(r2.Sub(com[i], com[j])) > diatomicReachSquared {
				continue
			}
			for a := 0; a < 2; a++ {
				pa := atoms[2*i+a]
				for b := 0; b < 2; b++ {
					pb := atoms[2*j+b]
					f, u, ok := lennardJones(r2.Sub(pa, pb), 1)
					if !ok {
						continue
					}
					applyPairForce(com, next, torque, i, j, pa, pb, f)
					potential += u
				}
			}
		}
	}
	return potential
}
