package phase

import "gonum.org/v1/gonum/spatial/r2"

// findOpenMoleculeLocation scans a grid at the minimum separation, row by
// row from the floor, for a point clear of every molecule already placed.
// When nothing is open it returns last unchanged and false.
func findOpenMoleculeLocation(placed []r2.Vec, box Container, g geometry, last r2.Vec) (r2.Vec, bool) {
	for y := g.clearance; y <= box.Height-g.clearance; y += g.separation {
		for x := g.clearance; x <= box.Width-g.clearance; x += g.separation {
			p := r2.Vec{X: x, Y: y}
			if isOpen(p, placed, g.separation) {
				return p, true
			}
		}
	}
	return last, false
}

func isOpen(p r2.Vec, placed []r2.Vec, separation float64) bool {
	min2 := separation * separation
	for _, q := range placed {
		if r2.Norm2(r2.Sub(p, q)) < min2 {
			return false
		}
	}
	return true
}

func withinWalls(p r2.Vec, box Container, clearance float64) bool {
	return p.X >= clearance && p.X <= box.Width-clearance &&
		p.Y >= clearance && p.Y <= box.Height-clearance
}
