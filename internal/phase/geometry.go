package phase

import (
	"math"

	"github.com/san-kum/molsim/internal/molecule"
)

// solidFloor is the height of the bottom crystal row, where the floor
// potential is at its minimum.
const solidFloor = 1.122462048309373

// geometry holds the per-topology spacings used by the placement routines.
type geometry struct {
	solidDx    float64
	solidDy    float64
	solidAngle func(row int) float64

	liquidSpacing float64

	// separation is the minimum center distance for random placement.
	separation float64
	// clearance is the minimum distance between a center and any wall.
	clearance float64
}

const monatomicSeparation = 1.5

func geometryOf(t molecule.Topology) geometry {
	switch t {
	case molecule.Diatomic:
		return geometry{
			solidDx:       2.0,
			solidDy:       1.1,
			solidAngle:    func(int) float64 { return 0 },
			liquidSpacing: 1.9,
			separation:    monatomicSeparation * 1.5,
			clearance:     1.5,
		}
	case molecule.Triatomic:
		return geometry{
			solidDx: 1.2,
			solidDy: 1.2 * 0.866,
			solidAngle: func(row int) float64 {
				if row%2 == 1 {
					return math.Pi
				}
				return 0
			},
			liquidSpacing: 1.3,
			separation:    monatomicSeparation * 1.5,
			clearance:     1.5,
		}
	}
	return geometry{
		solidDx:       1.12,
		solidDy:       1.12 * 0.866,
		solidAngle:    func(int) float64 { return 0 },
		liquidSpacing: 1.12,
		separation:    monatomicSeparation,
		clearance:     1.2,
	}
}

// MinimumSeparation is the center distance random placement keeps between
// molecules of the given topology.
func MinimumSeparation(t molecule.Topology) float64 {
	return geometryOf(t).separation
}
