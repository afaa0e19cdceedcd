package integrators

import (
	"github.com/san-kum/molsim/internal/molecule"
	"gonum.org/v1/gonum/spatial/r2"
)

type monatomicPairs struct {
	epsilon float64
}

func (p *monatomicPairs) accumulate(d *molecule.DataSet, _ Conditions) float64 {
	com, next := d.CenterOfMass(), d.NextForces()
	safe := d.SafeLen()
	potential := 0.0
	for i := 0; i < safe; i++ {
		for j := i + 1; j < safe; j++ {
			f, u, ok := lennardJones(r2.Sub(com[i], com[j]), 1)
			if !ok {
				continue
			}
			f = r2.Scale(p.epsilon, f)
			next[i] = r2.Add(next[i], f)
			next[j] = r2.Sub(next[j], f)
			potential += p.epsilon * u
		}
	}
	return potential
}
