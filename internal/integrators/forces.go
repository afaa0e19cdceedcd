package integrators

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// WallDistanceThreshold is the distance from a wall below which it repels.
	WallDistanceThreshold = 1.122462048309373 // 2^(1/6)

	// wallMinDistance keeps the wall potential finite for overlapping molecules.
	wallMinDistance = 0.8 * WallDistanceThreshold

	CutoffSquared        = 6.25
	minDistanceSquared   = 0.7225
	minChargeDistSquared = 0.1
)

// cutoffEnergy is the raw Lennard-Jones energy at the cutoff radius for a
// given repulsion scale. Subtracting it shifts the potential to zero there.
func cutoffEnergy(repulsion float64) float64 {
	inv6 := 1 / (CutoffSquared * CutoffSquared * CutoffSquared)
	return 4 * inv6 * (repulsion*inv6 - 1)
}

var cutoffShift = cutoffEnergy(1)

// lennardJones returns the 12-6 force acting on the first atom of a pair
// separated by d and the shifted pair energy. ok is false outside the cutoff.
func lennardJones(d r2.Vec, repulsion float64) (f r2.Vec, u float64, ok bool) {
	dist2 := r2.Norm2(d)
	if dist2 >= CutoffSquared {
		return r2.Vec{}, 0, false
	}
	if dist2 < minDistanceSquared {
		dist2 = minDistanceSquared
	}
	inv2 := 1 / dist2
	inv6 := inv2 * inv2 * inv2
	scalar := 48 * inv2 * inv6 * (repulsion*inv6 - 0.5)

	shift := cutoffShift
	if repulsion != 1 {
		shift = cutoffEnergy(repulsion)
	}
	return r2.Scale(scalar, d), 4*inv6*(repulsion*inv6-1) - shift, true
}

// coulomb is the inverse-square force between two partial charges with
// product qq, and its energy qq/r.
func coulomb(d r2.Vec, qq float64) (r2.Vec, float64) {
	dist2 := r2.Norm2(d)
	if dist2 < minChargeDistSquared {
		dist2 = minChargeDistSquared
	}
	r := math.Sqrt(dist2)
	return r2.Scale(qq/(dist2*r), d), qq / r
}

// wallForce is the magnitude of the wall repulsion at distance d.
func wallForce(d float64) float64 {
	if d < wallMinDistance {
		d = wallMinDistance
	}
	return 48/math.Pow(d, 13) - 24/math.Pow(d, 7)
}

// containerForce sums the repulsion of every wall within range of p and
// reports the summed magnitude for the pressure estimate. The lid is absent
// once the container has exploded.
func containerForce(p r2.Vec, c Conditions) (f r2.Vec, magnitude float64) {
	if p.X < WallDistanceThreshold {
		w := wallForce(p.X)
		f.X += w
		magnitude += w
	}
	if d := c.Width - p.X; d < WallDistanceThreshold {
		w := wallForce(d)
		f.X -= w
		magnitude += w
	}
	if p.Y < WallDistanceThreshold {
		w := wallForce(p.Y)
		f.Y += w
		magnitude += w
	}
	if d := c.Height - p.Y; !c.Exploded && d < WallDistanceThreshold {
		w := wallForce(d)
		f.Y -= w
		magnitude += w
	}
	return f, magnitude
}

// applyPairForce adds f to molecule i and -f to molecule j at atoms pa and
// pb, including the torque each force exerts about its center of mass.
func applyPairForce(com, force []r2.Vec, torque []float64, i, j int, pa, pb, f r2.Vec) {
	force[i] = r2.Add(force[i], f)
	force[j] = r2.Sub(force[j], f)
	torque[i] += r2.Cross(r2.Sub(pa, com[i]), f)
	torque[j] -= r2.Cross(r2.Sub(pb, com[j]), f)
}
