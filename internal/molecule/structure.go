package molecule

import (
	"fmt"
	"math"

	"github.com/san-kum/molsim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// Topology is the closed set of rigid molecule shapes.
type Topology int

const (
	Monatomic Topology = iota
	Diatomic
	Triatomic
)

func (t Topology) String() string {
	switch t {
	case Monatomic:
		return "monatomic"
	case Diatomic:
		return "diatomic"
	case Triatomic:
		return "triatomic"
	}
	return fmt.Sprintf("topology(%d)", int(t))
}

func (t Topology) AtomsPerMolecule() int {
	switch t {
	case Diatomic:
		return 2
	case Triatomic:
		return 3
	}
	return 1
}

// Rotates reports whether molecules of this shape carry rotational state.
func (t Topology) Rotates() bool { return t != Monatomic }

// DegreesOfFreedom counts translational plus rotational freedoms in 2D.
func (t Topology) DegreesOfFreedom() int {
	if t.Rotates() {
		return 3
	}
	return 2
}

const (
	// MaxAtoms bounds every data set regardless of topology.
	MaxAtoms = 500

	DiatomicBondLength = 0.9

	OxygenHydrogenDistance = 1.0 / 3.12
	HydrogenMass           = 0.25
	OxygenMass             = 1.0

	waterBondAngle = 109.47122 * math.Pi / 180
)

// Structure describes a rigid molecule in its body frame, centered on its
// center of mass.
type Structure struct {
	Offsets []r2.Vec
	Masses  []float64
	Mass    float64

	// Inertia is zero for a single atom, which never rotates.
	Inertia float64
}

var (
	monatomicStructure = Structure{
		Offsets: []r2.Vec{{}},
		Masses:  []float64{1},
		Mass:    1,
	}
	diatomicStructure = newStructure(
		[]r2.Vec{{X: -DiatomicBondLength / 2}, {X: DiatomicBondLength / 2}},
		[]float64{1, 1},
	)
	waterStructure = newStructure(
		[]r2.Vec{
			{},
			{X: OxygenHydrogenDistance},
			{X: OxygenHydrogenDistance * math.Cos(waterBondAngle), Y: OxygenHydrogenDistance * math.Sin(waterBondAngle)},
		},
		[]float64{OxygenMass, HydrogenMass, HydrogenMass},
	)
)

// newStructure shifts the offsets so the center of mass sits at the origin
// and derives total mass and moment of inertia.
func newStructure(offsets []r2.Vec, masses []float64) Structure {
	var cm r2.Vec
	total := 0.0
	for i, o := range offsets {
		cm = r2.Add(cm, r2.Scale(masses[i], o))
		total += masses[i]
	}
	cm = r2.Scale(1/total, cm)

	shifted := make([]r2.Vec, len(offsets))
	inertia := 0.0
	for i, o := range offsets {
		shifted[i] = r2.Sub(o, cm)
		inertia += masses[i] * r2.Norm2(shifted[i])
	}
	return Structure{Offsets: shifted, Masses: masses, Mass: total, Inertia: inertia}
}

func StructureOf(t Topology) Structure {
	switch t {
	case Diatomic:
		return diatomicStructure
	case Triatomic:
		return waterStructure
	}
	return monatomicStructure
}

// TopologyOf maps a species onto the molecule shape used to simulate it.
func TopologyOf(s dynamo.Species) (Topology, error) {
	switch s {
	case dynamo.Neon, dynamo.Argon, dynamo.UserDefined:
		return Monatomic, nil
	case dynamo.DiatomicOxygen:
		return Diatomic, nil
	case dynamo.Water:
		return Triatomic, nil
	}
	return 0, fmt.Errorf("%w: %v", dynamo.ErrUnsupportedSpecies, s)
}

// Atom radii in picometers.
const (
	NeonRadius        = 154.0
	ArgonRadius       = 181.0
	OxygenRadius      = 181.0
	UserDefinedRadius = 175.0
)

// ParticleDiameter returns the length in picometers that normalizes
// container coordinates for the species, so Lennard-Jones sigma is 1.
func ParticleDiameter(s dynamo.Species) (float64, error) {
	switch s {
	case dynamo.Neon:
		return NeonRadius * 2, nil
	case dynamo.Argon:
		return ArgonRadius * 2, nil
	case dynamo.DiatomicOxygen, dynamo.Water:
		return OxygenRadius * 2, nil
	case dynamo.UserDefined:
		return UserDefinedRadius * 2, nil
	}
	return 0, fmt.Errorf("%w: %v", dynamo.ErrUnsupportedSpecies, s)
}
