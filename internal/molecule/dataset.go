package molecule

import (
	"fmt"

	"github.com/san-kum/molsim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// DataSet is a fixed-capacity structure-of-arrays arena holding the dynamic
// state of every molecule. Molecules [0, SafeLen) take part in pairwise
// interactions; the rest were injected and wait in the unsafe tail until the
// integrator promotes them.
type DataSet struct {
	topology  Topology
	structure Structure
	capacity  int
	n, nSafe  int

	com        []r2.Vec
	velocity   []r2.Vec
	force      []r2.Vec
	nextForce  []r2.Vec
	angle      []float64
	rate       []float64
	torque     []float64
	nextTorque []float64
	atoms      []r2.Vec
}

// NewDataSet allocates room for maxAtoms atoms worth of molecules.
func NewDataSet(t Topology, maxAtoms int) *DataSet {
	apm := t.AtomsPerMolecule()
	capacity := maxAtoms / apm
	return &DataSet{
		topology:   t,
		structure:  StructureOf(t),
		capacity:   capacity,
		com:        make([]r2.Vec, capacity),
		velocity:   make([]r2.Vec, capacity),
		force:      make([]r2.Vec, capacity),
		nextForce:  make([]r2.Vec, capacity),
		angle:      make([]float64, capacity),
		rate:       make([]float64, capacity),
		torque:     make([]float64, capacity),
		nextTorque: make([]float64, capacity),
		atoms:      make([]r2.Vec, capacity*apm),
	}
}

func (d *DataSet) Topology() Topology         { return d.topology }
func (d *DataSet) Structure() Structure       { return d.structure }
func (d *DataSet) AtomsPerMolecule() int      { return d.topology.AtomsPerMolecule() }
func (d *DataSet) Mass() float64              { return d.structure.Mass }
func (d *DataSet) RotationalInertia() float64 { return d.structure.Inertia }
func (d *DataSet) Capacity() int              { return d.capacity }
func (d *DataSet) Len() int                   { return d.n }
func (d *DataSet) SafeLen() int               { return d.nSafe }
func (d *DataSet) Remaining() int             { return d.capacity - d.n }

// The slice accessors alias the arena and are sized to the live molecules.

func (d *DataSet) CenterOfMass() []r2.Vec   { return d.com[:d.n] }
func (d *DataSet) Velocities() []r2.Vec     { return d.velocity[:d.n] }
func (d *DataSet) Forces() []r2.Vec         { return d.force[:d.n] }
func (d *DataSet) NextForces() []r2.Vec     { return d.nextForce[:d.n] }
func (d *DataSet) Angles() []float64        { return d.angle[:d.n] }
func (d *DataSet) RotationRates() []float64 { return d.rate[:d.n] }
func (d *DataSet) Torques() []float64       { return d.torque[:d.n] }
func (d *DataSet) NextTorques() []float64   { return d.nextTorque[:d.n] }
func (d *DataSet) AtomPositions() []r2.Vec  { return d.atoms[:d.n*d.AtomsPerMolecule()] }

// AddMolecule appends a molecule in the unsafe tail. atoms, when it has one
// entry per atom, seeds the atom positions; otherwise they are placed from
// the rigid structure at zero rotation.
func (d *DataSet) AddMolecule(atoms []r2.Vec, com, velocity r2.Vec, rotationRate float64) error {
	if d.n >= d.capacity {
		return dynamo.ErrCapacityExceeded
	}
	i := d.n
	d.com[i] = com
	d.velocity[i] = velocity
	d.force[i] = r2.Vec{}
	d.nextForce[i] = r2.Vec{}
	d.angle[i] = 0
	d.rate[i] = rotationRate
	d.torque[i] = 0
	d.nextTorque[i] = 0

	apm := d.AtomsPerMolecule()
	for k := 0; k < apm; k++ {
		if len(atoms) == apm {
			d.atoms[i*apm+k] = atoms[k]
		} else {
			d.atoms[i*apm+k] = r2.Add(com, d.structure.Offsets[k])
		}
	}
	d.n++
	return nil
}

// RemoveMolecule deletes molecule i, shifting later molecules down so their
// relative order and the safe prefix survive.
func (d *DataSet) RemoveMolecule(i int) error {
	if i < 0 || i >= d.n {
		return fmt.Errorf("molecule index %d out of range [0, %d)", i, d.n)
	}
	last := d.n - 1
	copy(d.com[i:last], d.com[i+1:d.n])
	copy(d.velocity[i:last], d.velocity[i+1:d.n])
	copy(d.force[i:last], d.force[i+1:d.n])
	copy(d.nextForce[i:last], d.nextForce[i+1:d.n])
	copy(d.angle[i:last], d.angle[i+1:d.n])
	copy(d.rate[i:last], d.rate[i+1:d.n])
	copy(d.torque[i:last], d.torque[i+1:d.n])
	copy(d.nextTorque[i:last], d.nextTorque[i+1:d.n])

	apm := d.AtomsPerMolecule()
	copy(d.atoms[i*apm:last*apm], d.atoms[(i+1)*apm:d.n*apm])

	if i < d.nSafe {
		d.nSafe--
	}
	d.n--
	return nil
}

// PromoteToSafe moves unsafe molecule i to the safe boundary and grows the
// safe prefix by one.
func (d *DataSet) PromoteToSafe(i int) {
	if i < d.nSafe || i >= d.n {
		return
	}
	if j := d.nSafe; i != j {
		d.swap(i, j)
	}
	d.nSafe++
}

// MarkAllSafe declares every molecule eligible for interaction forces.
func (d *DataSet) MarkAllSafe() { d.nSafe = d.n }

// SwapForceBuffers makes the forces computed this step current for the next.
func (d *DataSet) SwapForceBuffers() {
	d.force, d.nextForce = d.nextForce, d.force
	d.torque, d.nextTorque = d.nextTorque, d.torque
}

func (d *DataSet) swap(i, j int) {
	d.com[i], d.com[j] = d.com[j], d.com[i]
	d.velocity[i], d.velocity[j] = d.velocity[j], d.velocity[i]
	d.force[i], d.force[j] = d.force[j], d.force[i]
	d.nextForce[i], d.nextForce[j] = d.nextForce[j], d.nextForce[i]
	d.angle[i], d.angle[j] = d.angle[j], d.angle[i]
	d.rate[i], d.rate[j] = d.rate[j], d.rate[i]
	d.torque[i], d.torque[j] = d.torque[j], d.torque[i]
	d.nextTorque[i], d.nextTorque[j] = d.nextTorque[j], d.nextTorque[i]

	apm := d.AtomsPerMolecule()
	for k := 0; k < apm; k++ {
		d.atoms[i*apm+k], d.atoms[j*apm+k] = d.atoms[j*apm+k], d.atoms[i*apm+k]
	}
}

// KineticEnergy sums translational and rotational kinetic energy.
func (d *DataSet) KineticEnergy() float64 {
	m, inertia := d.Mass(), d.RotationalInertia()
	rotates := d.topology.Rotates()
	ke := 0.0
	for i := 0; i < d.n; i++ {
		ke += 0.5 * m * r2.Norm2(d.velocity[i])
		if rotates {
			ke += 0.5 * inertia * d.rate[i] * d.rate[i]
		}
	}
	return ke
}

// Temperature converts kinetic energy to reduced temperature by
// equipartition: kT/2 per degree of freedom.
func (d *DataSet) Temperature() float64 {
	if d.n == 0 {
		return 0
	}
	return d.KineticEnergy() / float64(d.n) / (float64(d.topology.DegreesOfFreedom()) / 2)
}
