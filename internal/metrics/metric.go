package metrics

import "github.com/san-kum/molsim/internal/sim"

// Metric folds a stream of snapshots into one number.
type Metric interface {
	Name() string
	Observe(s sim.Snapshot)
	Value() float64
	Reset()
}
