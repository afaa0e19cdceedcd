package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/molsim/internal/metrics"
)

type Registry struct {
	metrics map[string]func() metrics.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics: make(map[string]func() metrics.Metric),
	}

	r.metrics["energy_per_molecule"] = func() metrics.Metric { return metrics.NewEnergy() }
	r.metrics["energy_drift"] = func() metrics.Metric { return metrics.NewEnergyDrift() }
	r.metrics["mean_temperature_k"] = func() metrics.Metric { return metrics.NewMeanTemperature() }
	r.metrics["peak_pressure_atm"] = func() metrics.Metric { return metrics.NewPeakPressure() }
	r.metrics["containment"] = func() metrics.Metric { return metrics.NewContainment() }

	return r
}

func (r *Registry) GetMetric(name string) (metrics.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns fresh instances of every registered metric.
func (r *Registry) DefaultMetrics() []metrics.Metric {
	out := make([]metrics.Metric, 0, len(r.metrics))
	for _, name := range r.ListMetrics() {
		out = append(out, r.metrics[name]())
	}
	return out
}
