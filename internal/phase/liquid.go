package phase

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
)

// placeLiquid fills concentric rings around a point a quarter of the way up
// the container. Ring slots too close to a wall are skipped.
func (c *Changer) placeLiquid(box Container) []int {
	g := c.geom
	ring := newRingWalker(r2.Vec{X: box.Width / 2, Y: box.Height / 4}, g.liquidSpacing, c.rng)

	com, angles := c.ds.CenterOfMass(), c.ds.Angles()
	placed := make([]r2.Vec, 0, len(com))
	var fallback []int
	for i := range com {
		var candidate r2.Vec
		found := false
		for attempt := 0; attempt < MaxPlacementAttempts; attempt++ {
			candidate = ring.next()
			if withinWalls(candidate, box, g.clearance) {
				found = true
				break
			}
		}
		if !found {
			candidate, found = findOpenMoleculeLocation(placed, box, g, candidate)
		}
		if !found {
			fallback = append(fallback, i)
		}
		placed = append(placed, candidate)
		com[i] = candidate
		angles[i] = c.randomAngle()
	}
	return fallback
}

// ringWalker yields lattice slots on successive rings. Ring k has radius
// k*spacing and floor(2*pi*k) slots starting at a random angle.
type ringWalker struct {
	center   r2.Vec
	spacing  float64
	rng      *rand.Rand
	layer    int
	slot     int
	capacity int
	offset   float64
}

func newRingWalker(center r2.Vec, spacing float64, rng *rand.Rand) *ringWalker {
	return &ringWalker{center: center, spacing: spacing, rng: rng, capacity: 1}
}

func (w *ringWalker) next() r2.Vec {
	if w.slot >= w.capacity {
		w.layer++
		w.slot = 0
		w.capacity = int(2 * math.Pi * float64(w.layer))
		w.offset = w.rng.Float64() * 2 * math.Pi
	}
	angle := w.offset + 2*math.Pi*float64(w.slot)/float64(w.capacity)
	radius := float64(w.layer) * w.spacing
	w.slot++

	sin, cos := math.Sincos(angle)
	return r2.Add(w.center, r2.Vec{X: radius * cos, Y: radius * sin})
}
