package thermostat

import (
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/molsim/internal/molecule"
	"gonum.org/v1/gonum/spatial/r2"
)

func movingSet(topo molecule.Topology, n int) *molecule.DataSet {
	d := molecule.NewDataSet(topo, molecule.MaxAtoms)
	for i := 0; i < n; i++ {
		v := r2.Vec{X: 0.3 + 0.1*float64(i%4), Y: -0.2 + 0.05*float64(i%7)}
		d.AddMolecule(nil, r2.Vec{X: float64(i), Y: 1}, v, 0.5-0.1*float64(i%3))
	}
	return d
}

var _ Thermostat = (*Isokinetic)(nil)
var _ Thermostat = (*Andersen)(nil)

func TestIsokinetic_HitsTarget(t *testing.T) {
	for _, topo := range []molecule.Topology{molecule.Monatomic, molecule.Diatomic, molecule.Triatomic} {
		d := movingSet(topo, 20)
		iso := NewIsokinetic(d)
		iso.SetTargetTemperature(0.5)

		iso.AdjustTemperature()

		if got := d.Temperature(); math.Abs(got-0.5) > 1e-12 {
			t.Errorf("%v: temperature = %v, want 0.5", topo, got)
		}
	}
}

func TestIsokinetic_PreservesDirection(t *testing.T) {
	d := movingSet(molecule.Monatomic, 5)
	before := append([]r2.Vec(nil), d.Velocities()...)
	iso := NewIsokinetic(d)
	iso.SetTargetTemperature(2)

	iso.AdjustTemperature()

	for i, v := range d.Velocities() {
		if math.Abs(r2.Cross(v, before[i])) > 1e-12 || r2.Dot(v, before[i]) <= 0 {
			t.Errorf("molecule %d changed direction: %v -> %v", i, before[i], v)
		}
	}
}

func TestIsokinetic_BelowMinimumStopsMotion(t *testing.T) {
	d := movingSet(molecule.Diatomic, 10)
	iso := NewIsokinetic(d)
	iso.SetTargetTemperature(MinTemperature / 2)

	iso.AdjustTemperature()

	if d.KineticEnergy() != 0 {
		t.Errorf("kinetic energy = %v, want 0", d.KineticEnergy())
	}
}

func TestIsokinetic_AtRestIsNoOp(t *testing.T) {
	d := molecule.NewDataSet(molecule.Monatomic, 10)
	d.AddMolecule(nil, r2.Vec{}, r2.Vec{}, 0)
	iso := NewIsokinetic(d)
	iso.SetTargetTemperature(1)

	iso.AdjustTemperature()

	if v := d.Velocities()[0]; v != (r2.Vec{}) {
		t.Errorf("velocity = %v, want zero", v)
	}
}

func TestAndersen_ApproachesTarget(t *testing.T) {
	d := molecule.NewDataSet(molecule.Monatomic, molecule.MaxAtoms)
	for i := 0; i < d.Capacity(); i++ {
		d.AddMolecule(nil, r2.Vec{X: float64(i)}, r2.Vec{}, 0)
	}
	a := NewAndersen(d, rand.New(rand.NewSource(7)))
	a.SetTargetTemperature(1)

	for i := 0; i < 2000; i++ {
		a.AdjustTemperature()
	}

	if got := d.Temperature(); math.Abs(got-1) > 0.2 {
		t.Errorf("temperature = %v, want about 1", got)
	}
}

func TestAndersen_CollisionsAreRare(t *testing.T) {
	d := molecule.NewDataSet(molecule.Diatomic, molecule.MaxAtoms)
	for i := 0; i < d.Capacity(); i++ {
		d.AddMolecule(nil, r2.Vec{X: float64(i)}, r2.Vec{}, 0)
	}
	a := NewAndersen(d, rand.New(rand.NewSource(11)))
	a.SetTargetTemperature(1)

	a.AdjustTemperature()

	changed := 0
	for i, v := range d.Velocities() {
		if v != (r2.Vec{}) {
			changed++
			if d.RotationRates()[i] == 0 {
				t.Errorf("molecule %d got a velocity but no rotation rate", i)
			}
		}
	}
	if changed > d.Capacity()/10 {
		t.Errorf("%d of %d molecules collided in a single call", changed, d.Capacity())
	}
}

func TestAndersen_Deterministic(t *testing.T) {
	run := func() []r2.Vec {
		d := movingSet(molecule.Triatomic, 50)
		a := NewAndersen(d, rand.New(rand.NewSource(42)))
		a.SetTargetTemperature(0.3)
		for i := 0; i < 100; i++ {
			a.AdjustTemperature()
		}
		return append([]r2.Vec(nil), d.Velocities()...)
	}
	first, second := run(), run()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("molecule %d diverged with the same seed", i)
		}
	}
}

func TestAndersen_MonatomicStaysFinite(t *testing.T) {
	d := molecule.NewDataSet(molecule.Monatomic, molecule.MaxAtoms)
	for i := 0; i < 50; i++ {
		d.AddMolecule(nil, r2.Vec{X: float64(i), Y: 1}, r2.Vec{}, 0)
	}
	a := NewAndersen(d, rand.New(rand.NewSource(3)))
	a.SetTargetTemperature(0.3)

	for n := 0; n < 500; n++ {
		a.AdjustTemperature()
	}

	for i, v := range d.Velocities() {
		if math.IsNaN(v.X) || math.IsInf(v.X, 0) || math.IsNaN(v.Y) || math.IsInf(v.Y, 0) {
			t.Fatalf("molecule %d has velocity %v", i, v)
		}
		if d.RotationRates()[i] != 0 {
			t.Fatalf("point mass %d picked up rotation %v", i, d.RotationRates()[i])
		}
	}
	if d.Temperature() == 0 {
		t.Error("expected collisions to heat the set")
	}
}
