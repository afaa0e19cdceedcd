package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/molsim/internal/dynamo"
	"github.com/san-kum/molsim/internal/sim"
)

func snapshot(ke, pe float64) sim.Snapshot {
	return sim.Snapshot{Species: dynamo.Argon, Molecules: 10, KineticEnergy: ke, PotentialEnergy: pe}
}

func TestEnergyPerMolecule(t *testing.T) {
	m := NewEnergy()

	m.Observe(snapshot(5, -15))
	m.Observe(snapshot(7, -15))

	if got := m.Value(); math.Abs(got-(-0.9)) > 1e-12 {
		t.Errorf("expected -0.9, got %f", got)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyIgnoresEmptySnapshots(t *testing.T) {
	m := NewEnergy()
	m.Observe(sim.Snapshot{KineticEnergy: 3})
	if m.Value() != 0 {
		t.Errorf("expected 0, got %f", m.Value())
	}
}

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift()

	m.Observe(snapshot(10, -20))
	m.Observe(snapshot(10.5, -20))
	m.Observe(snapshot(10.1, -20))

	if got := m.Value(); math.Abs(got-0.05) > 1e-12 {
		t.Errorf("expected drift 0.05, got %f", got)
	}

	m.Reset()
	m.Observe(snapshot(1, -2))
	if m.Value() != 0 {
		t.Errorf("expected no drift after reset, got %f", m.Value())
	}
}

func TestMeanTemperature(t *testing.T) {
	m := NewMeanTemperature()
	m.Observe(sim.Snapshot{Species: dynamo.Argon, Temperature: 0.26})
	m.Observe(sim.Snapshot{Species: dynamo.Argon, Temperature: 0.8})

	want := (sim.ToKelvin(dynamo.Argon, 0.26) + sim.ToKelvin(dynamo.Argon, 0.8)) / 2
	if got := m.Value(); math.Abs(got-want) > 1e-9 {
		t.Errorf("expected %f K, got %f", want, got)
	}
}

func TestPeakPressure(t *testing.T) {
	m := NewPeakPressure()
	for _, p := range []float64{3, 40, 12} {
		m.Observe(sim.Snapshot{PressureAtm: p})
	}
	if m.Value() != 40 {
		t.Errorf("expected 40, got %f", m.Value())
	}
}

func TestContainment(t *testing.T) {
	m := NewContainment()
	if m.Value() != 1 {
		t.Errorf("expected 1 with no samples, got %f", m.Value())
	}

	m.Observe(sim.Snapshot{})
	m.Observe(sim.Snapshot{})
	m.Observe(sim.Snapshot{Exploded: true})
	m.Observe(sim.Snapshot{Exploded: true})

	if m.Value() != 0.5 {
		t.Errorf("expected 0.5, got %f", m.Value())
	}
}

func TestMetricsAgainstController(t *testing.T) {
	c, err := sim.New(sim.Options{Species: dynamo.Argon, InitialMolecules: 30, Thermostat: dynamo.Isokinetic})
	if err != nil {
		t.Fatal(err)
	}
	all := []Metric{NewEnergy(), NewEnergyDrift(), NewMeanTemperature(), NewPeakPressure(), NewContainment()}

	for i := 0; i < 20; i++ {
		if err := c.Tick(); err != nil {
			t.Fatal(err)
		}
		s := c.Snapshot()
		for _, m := range all {
			m.Observe(s)
		}
	}

	for _, m := range all {
		if v := m.Value(); math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("%s: non-finite value %f", m.Name(), v)
		}
	}
	if got := all[4].Value(); got != 1 {
		t.Errorf("expected full containment, got %f", got)
	}
}
