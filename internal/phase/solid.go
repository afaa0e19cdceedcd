package phase

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// placeSolid stacks molecules on a hexagonal lattice resting on the floor,
// odd rows shifted by half a column, centered horizontally.
func (c *Changer) placeSolid(box Container) {
	n := c.ds.Len()
	if n == 0 {
		return
	}
	g := c.geom

	perRow := int(math.Ceil(math.Sqrt(float64(n))))
	if rows := int((box.Height-solidFloor-g.clearance)/g.solidDy) + 1; rows > 0 {
		if need := (n + rows - 1) / rows; need > perRow {
			perRow = need
		}
	}
	if fit := int((box.Width-2*g.clearance-g.solidDx/2)/g.solidDx) + 1; fit > 0 && perRow > fit {
		perRow = fit
	}

	width := float64(perRow-1) * g.solidDx
	if n > perRow {
		width += g.solidDx / 2
	}
	startX := (box.Width - width) / 2

	com, angles := c.ds.CenterOfMass(), c.ds.Angles()
	for i := 0; i < n; i++ {
		row, col := i/perRow, i%perRow
		x := startX + float64(col)*g.solidDx
		if row%2 == 1 {
			x += g.solidDx / 2
		}
		com[i] = r2.Vec{X: x, Y: solidFloor + float64(row)*g.solidDy}
		angles[i] = g.solidAngle(row)
	}
}
