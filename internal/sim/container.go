package sim

import (
	"math"

	"github.com/san-kum/molsim/internal/integrators"
	"github.com/san-kum/molsim/internal/molecule"
)

// Container dimensions and lid speeds in picometers.
const (
	ContainerWidth         = 10000.0
	InitialContainerHeight = 10000.0

	LidShrinkRate    = 50.0
	LidExpansionRate = 200.0
	ExplodedLidRate  = 500.0

	// MaxExplodedHeight is how far the lid flies before it stops.
	MaxExplodedHeight = 5 * InitialContainerHeight
)

// container tracks the variable-height box in picometers.
type container struct {
	height   float64
	target   float64
	exploded bool
}

func newContainer() container {
	return container{height: InitialContainerHeight, target: InitialContainerHeight}
}

// step moves the lid one tick toward its target, or further away after an
// explosion, and reports whether it moved.
func (k *container) step(minHeight float64) bool {
	before := k.height
	if k.exploded {
		k.height = math.Min(k.height+ExplodedLidRate, MaxExplodedHeight)
		return k.height != before
	}

	target := clamp(k.target, minHeight, InitialContainerHeight)
	switch diff := target - k.height; {
	case diff > 0:
		k.height += math.Min(diff, LidExpansionRate)
	case diff < 0:
		k.height -= math.Min(-diff, LidShrinkRate)
	}
	return k.height != before
}

// footprint is the floor area one molecule of each topology occupies when
// packed, in squared diameters.
func footprint(t molecule.Topology) float64 {
	switch t {
	case molecule.Diatomic:
		return 2
	case molecule.Triatomic:
		return 1.5
	}
	return 1
}

// minAllowableHeight is the lowest lid position, in picometers, that still
// leaves room for n molecules packed against the floor.
func minAllowableHeight(n int, t molecule.Topology, diameter float64) float64 {
	perRow := math.Floor(ContainerWidth / diameter)
	rows := math.Ceil(float64(n) * footprint(t) / perRow)
	h := (rows + 2*integrators.WallDistanceThreshold) * diameter
	return math.Min(h, InitialContainerHeight)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
