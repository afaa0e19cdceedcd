package molecule

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// PositionUpdater derives absolute atom coordinates from each molecule's
// center of mass and rotation angle. Implementations only write the atom
// position slots and are idempotent for unchanged inputs.
type PositionUpdater interface {
	Update(d *DataSet)
}

// NewPositionUpdater returns the updater matching the data set topology.
func NewPositionUpdater(t Topology) PositionUpdater {
	switch t {
	case Diatomic:
		return diatomicUpdater{}
	case Triatomic:
		return waterUpdater{}
	}
	return monatomicUpdater{}
}

type monatomicUpdater struct{}

func (monatomicUpdater) Update(d *DataSet) {
	copy(d.AtomPositions(), d.CenterOfMass())
}

type diatomicUpdater struct{}

// Update places both atoms at +-half the bond length along the body axis.
func (diatomicUpdater) Update(d *DataSet) {
	com, angles, atoms := d.CenterOfMass(), d.Angles(), d.AtomPositions()
	half := DiatomicBondLength / 2
	for i := range com {
		sin, cos := math.Sincos(angles[i])
		arm := r2.Vec{X: half * cos, Y: half * sin}
		atoms[2*i] = r2.Sub(com[i], arm)
		atoms[2*i+1] = r2.Add(com[i], arm)
	}
}

type waterUpdater struct{}

// Update rotates the bent oxygen-hydrogen-hydrogen frame rigidly.
func (waterUpdater) Update(d *DataSet) {
	rotateRigid(d, StructureOf(Triatomic).Offsets)
}

func rotateRigid(d *DataSet, offsets []r2.Vec) {
	com, angles, atoms := d.CenterOfMass(), d.Angles(), d.AtomPositions()
	apm := len(offsets)
	for i := range com {
		sin, cos := math.Sincos(angles[i])
		for k, o := range offsets {
			atoms[i*apm+k] = r2.Vec{
				X: com[i].X + o.X*cos - o.Y*sin,
				Y: com[i].Y + o.X*sin + o.Y*cos,
			}
		}
	}
}
