package phase

import "gonum.org/v1/gonum/spatial/r2"

// placeGas scatters molecules uniformly, rejecting candidates closer than
// the minimum separation to any molecule placed before them.
func (c *Changer) placeGas(box Container) []int {
	g := c.geom
	spanX := box.Width - 2*g.clearance
	spanY := box.Height - 2*g.clearance

	com, angles := c.ds.CenterOfMass(), c.ds.Angles()
	placed := make([]r2.Vec, 0, len(com))
	var fallback []int
	for i := range com {
		var candidate r2.Vec
		found := false
		for attempt := 0; attempt < MaxPlacementAttempts; attempt++ {
			candidate = r2.Vec{
				X: g.clearance + c.rng.Float64()*spanX,
				Y: g.clearance + c.rng.Float64()*spanY,
			}
			if isOpen(candidate, placed, g.separation) {
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
