package integrators

import (
	"github.com/san-kum/molsim/internal/molecule"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	TimeStep = 1.0 / 64

	// SafeDistanceSquared is how close an injected molecule may be to any
	// safe molecule before it is held out of pairwise interactions.
	SafeDistanceSquared = 4.0

	PressureWeight    = 0.999
	ExplosionPressure = 1.05

	// Below LowTemperatureGravity the gravitational pull is boosted by
	// (LowTemperatureGravity - T) * LowTemperatureGravityRate + 1.
	LowTemperatureGravity     = 0.10
	LowTemperatureGravityRate = 50.0
)

// Conditions is the container and environment state the integrator needs
// for one step. Lengths are normalized by the particle diameter.
type Conditions struct {
	Width               float64
	Height              float64
	Exploded            bool
	Gravity             float64
	TemperatureSetPoint float64
}

// pairInteraction accumulates intermolecular forces and torques over the
// safe prefix of a data set into its next-step buffers and returns the
// potential energy.
type pairInteraction interface {
	accumulate(d *molecule.DataSet, c Conditions) float64
}

// Verlet advances a molecule data set with velocity-Verlet integration.
type Verlet struct {
	ds      *molecule.DataSet
	updater molecule.PositionUpdater
	pairs   pairInteraction

	pressure    float64
	temperature float64
	potential   float64
}

func New(ds *molecule.DataSet) *Verlet {
	v := &Verlet{
		ds:      ds,
		updater: molecule.NewPositionUpdater(ds.Topology()),
	}
	switch ds.Topology() {
	case molecule.Diatomic:
		v.pairs = diatomicPairs{}
	case molecule.Triatomic:
		v.pairs = waterPairs{}
	default:
		v.pairs = &monatomicPairs{epsilon: 1}
	}
	return v
}

// Step performs one integration step and reports whether the container
// should explode, either because the smoothed pressure crossed
// ExplosionPressure or a molecule escaped through the floor.
func (v *Verlet) Step(c Conditions) (explode bool) {
	v.advancePositions()
	v.updater.Update(v.ds)

	wallSum, breached := v.applyExternalForces(c)
	v.promoteSafeMolecules()
	v.potential = v.pairs.accumulate(v.ds, c)
	v.advanceVelocities()
	v.ds.SwapForceBuffers()

	v.temperature = v.ds.Temperature()

	if c.Exploded {
		v.pressure = 0
		return false
	}
	v.pressure = (1-PressureWeight)*(wallSum/(c.Width+c.Height)) + PressureWeight*v.pressure
	return breached || v.pressure > ExplosionPressure
}

func (v *Verlet) advancePositions() {
	ds := v.ds
	halfDt2 := TimeStep * TimeStep / 2
	m := ds.Mass()
	com, vel, force := ds.CenterOfMass(), ds.Velocities(), ds.Forces()
	for i := range com {
		com[i] = r2.Add(com[i], r2.Add(r2.Scale(TimeStep, vel[i]), r2.Scale(halfDt2/m, force[i])))
	}

	if !ds.Topology().Rotates() {
		return
	}
	inertia := ds.RotationalInertia()
	angles, rates, torque := ds.Angles(), ds.RotationRates(), ds.Torques()
	for i := range angles {
		angles[i] += rates[i]*TimeStep + halfDt2*torque[i]/inertia
	}
}

// applyExternalForces resets the next-step buffers to wall and gravity
// forces. It returns the summed wall force and whether a molecule fell
// below the floor of an intact container.
func (v *Verlet) applyExternalForces(c Conditions) (wallSum float64, breached bool) {
	ds := v.ds
	next, nextTorque := ds.NextForces(), ds.NextTorques()
	for i := range nextTorque {
		nextTorque[i] = 0
	}

	weight := effectiveGravity(c) * ds.Mass()
	for i, p := range ds.CenterOfMass() {
		next[i] = r2.Vec{}
		if !c.Exploded && p.Y < 0 {
			breached = true
		}
		outside := p.X < 0 || p.X > c.Width || p.Y < 0 || p.Y > c.Height
		if !c.Exploded || !outside {
			f, magnitude := containerForce(p, c)
			next[i] = f
			wallSum += magnitude
		}
		next[i].Y -= weight
	}
	return wallSum, breached
}

func effectiveGravity(c Conditions) float64 {
	if c.TemperatureSetPoint < LowTemperatureGravity {
		return c.Gravity * ((LowTemperatureGravity-c.TemperatureSetPoint)*LowTemperatureGravityRate + 1)
	}
	return c.Gravity
}

// promoteSafeMolecules admits every unsafe molecule that is clear of all
// currently safe molecules into the safe prefix.
func (v *Verlet) promoteSafeMolecules() {
	ds := v.ds
	for i := ds.SafeLen(); i < ds.Len(); i++ {
		com := ds.CenterOfMass()
		isolated := true
		for j := 0; j < ds.SafeLen(); j++ {
			if r2.Norm2(r2.Sub(com[i], com[j])) < SafeDistanceSquared {
				isolated = false
				break
			}
		}
		if isolated {
			ds.PromoteToSafe(i)
		}
	}
}

func (v *Verlet) advanceVelocities() {
	ds := v.ds
	halfDt := TimeStep / 2
	m := ds.Mass()
	vel, force, next := ds.Velocities(), ds.Forces(), ds.NextForces()
	for i := range vel {
		vel[i] = r2.Add(vel[i], r2.Scale(halfDt/m, r2.Add(force[i], next[i])))
	}

	if !ds.Topology().Rotates() {
		return
	}
	inertia := ds.RotationalInertia()
	rates, torque, nextTorque := ds.RotationRates(), ds.Torques(), ds.NextTorques()
	for i := range rates {
		rates[i] += halfDt * (torque[i] + nextTorque[i]) / inertia
	}
}

// Temperature is the reduced temperature measured at the end of the last step.
func (v *Verlet) Temperature() float64 { return v.temperature }

// Pressure is the smoothed wall pressure in reduced units.
func (v *Verlet) Pressure() float64 { return v.pressure }

func (v *Verlet) PotentialEnergy() float64 { return v.potential }

func (v *Verlet) KineticEnergy() float64 { return v.ds.KineticEnergy() }

// ResetPressure clears the smoothed pressure history, as after a lid return.
func (v *Verlet) ResetPressure() { v.pressure = 0 }

// SetInteractionStrength scales the Lennard-Jones well depth between
// single-atom molecules. Multi-atom topologies ignore it.
func (v *Verlet) SetInteractionStrength(scale float64) {
	if p, ok := v.pairs.(*monatomicPairs); ok {
		p.epsilon = scale
	}
}

// InteractionStrength reports the current well-depth scale, 1 for
// multi-atom topologies.
func (v *Verlet) InteractionStrength() float64 {
	if p, ok := v.pairs.(*monatomicPairs); ok {
		return p.epsilon
	}
	return 1
}
