package metrics

import (
	"math"

	"github.com/san-kum/molsim/internal/sim"
)

// MeanTemperature averages the measured temperature in Kelvin.
type MeanTemperature struct {
	name    string
	sum     float64
	samples int
}

func NewMeanTemperature() *MeanTemperature {
	return &MeanTemperature{name: "mean_temperature_k"}
}

func (m *MeanTemperature) Name() string { return m.name }

func (m *MeanTemperature) Observe(s sim.Snapshot) {
	m.sum += sim.ToKelvin(s.Species, s.Temperature)
	m.samples++
}

func (m *MeanTemperature) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanTemperature) Reset() {
	m.sum = 0
	m.samples = 0
}

// PeakPressure is the highest pressure seen, in atmospheres.
type PeakPressure struct {
	name string
	peak float64
}

func NewPeakPressure() *PeakPressure {
	return &PeakPressure{name: "peak_pressure_atm"}
}

func (p *PeakPressure) Name() string { return p.name }

func (p *PeakPressure) Observe(s sim.Snapshot) {
	p.peak = math.Max(p.peak, s.PressureAtm)
}

func (p *PeakPressure) Value() float64 { return p.peak }

func (p *PeakPressure) Reset() { p.peak = 0 }
