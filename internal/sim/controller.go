package sim

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/molsim/internal/dynamo"
	"github.com/san-kum/molsim/internal/integrators"
	"github.com/san-kum/molsim/internal/molecule"
	"github.com/san-kum/molsim/internal/phase"
	"github.com/san-kum/molsim/internal/thermostat"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	TickDuration       = 1.0 / 60
	MaxTicksPerAdvance = 4
	SubstepsPerTick    = 8

	// SettleTicks run after every phase change so fresh lattices loosen up.
	SettleTicks = 10

	MinTemperature = thermostat.MinTemperature
	MaxTemperature = 50.0

	MaxGravity     = 0.4
	DefaultGravity = 0.045

	TicksPerSetPointAdjustment = 10
	MaxSetPointChange          = 0.025

	// Cooling below this set point slows to an asymptotic approach.
	ApproachingAbsoluteZero = 0.85 * phase.SolidTemperature

	// Adaptive mode uses the isokinetic thermostat when the measured
	// temperature strays further than this from the set point.
	TemperatureCloseness = 0.15

	MinInteractionStrength     = 2.0
	MaxInteractionStrength     = 450.0
	DefaultInteractionStrength = 225.0
)

// Injection geometry in normalized units.
const (
	injectionHeightFraction = 0.25
	injectionMargin         = 1.5
	injectionWallOffset     = 1.0
	minInjectionSpeed       = 0.5
	maxInjectionSpeed       = 2.0
	injectionAngleSpread    = math.Pi / 2
)

// Options configure a new Controller.
type Options struct {
	Species    dynamo.Species
	Thermostat dynamo.ThermostatKind
	Seed       int64
	Logger     Logger

	// InitialMolecules overrides the count derived from the container size
	// when positive. It is capped at the data set capacity.
	InitialMolecules int

	// ValidateState makes Tick fail with a SimulationError wrapping
	// dynamo.ErrNonFinite when any molecule state turns NaN or Inf.
	ValidateState bool
}

// Controller owns the molecule data set and every collaborator acting on it,
// and advances them with fixed-size ticks.
type Controller struct {
	opts   Options
	logger Logger
	rng    *rand.Rand

	species  dynamo.Species
	topology molecule.Topology
	diameter float64

	ds         *molecule.DataSet
	verlet     *integrators.Verlet
	updater    molecule.PositionUpdater
	changer    *phase.Changer
	isokinetic *thermostat.Isokinetic
	andersen   *thermostat.Andersen

	thermostatKind dynamo.ThermostatKind
	container      container
	phase          dynamo.Phase

	setPoint            float64
	gravity             float64
	heatingCooling      float64
	interactionStrength float64

	ticks       int
	pending     float64
	lidMoved    bool
	subscribers []func(Event)
}

// New builds a controller filled with the requested species in its solid
// phase.
func New(opts Options) (*Controller, error) {
	if !opts.Thermostat.Valid() {
		return nil, fmt.Errorf("%w: %v", dynamo.ErrUnsupportedThermostat, opts.Thermostat)
	}
	if opts.Logger == nil {
		opts.Logger = NewNoOpLogger()
	}
	c := &Controller{
		opts:                opts,
		logger:              opts.Logger,
		rng:                 rand.New(rand.NewSource(opts.Seed)),
		thermostatKind:      opts.Thermostat,
		gravity:             DefaultGravity,
		interactionStrength: DefaultInteractionStrength,
	}
	if err := c.SetMoleculeType(opts.Species); err != nil {
		return nil, err
	}
	return c, nil
}

// SetMoleculeType discards the current molecules and rebuilds the engine
// for species s, starting from a solid in a fresh container.
func (c *Controller) SetMoleculeType(s dynamo.Species) error {
	topology, err := molecule.TopologyOf(s)
	if err != nil {
		return err
	}
	diameter, err := molecule.ParticleDiameter(s)
	if err != nil {
		return err
	}

	c.species = s
	c.topology = topology
	c.diameter = diameter
	c.ds = molecule.NewDataSet(topology, molecule.MaxAtoms)
	c.verlet = integrators.New(c.ds)
	c.updater = molecule.NewPositionUpdater(topology)
	c.changer = phase.NewChanger(c.ds, c.rng)
	c.isokinetic = thermostat.NewIsokinetic(c.ds)
	c.andersen = thermostat.NewAndersen(c.ds, c.rng)
	c.container = newContainer()
	c.heatingCooling = 0
	c.applyInteractionStrength()

	n := c.initialMoleculeCount()
	for i := 0; i < n; i++ {
		if err := c.ds.AddMolecule(nil, r2.Vec{}, r2.Vec{}, 0); err != nil {
			return err
		}
	}
	c.logger.Infof("species set to %s: %d molecules, diameter %.0f pm", s, n, diameter)

	if err := c.SetPhase(dynamo.Solid); err != nil {
		return err
	}
	c.emit(Event{Kind: SpeciesChanged})
	return nil
}

func (c *Controller) initialMoleculeCount() int {
	if c.opts.InitialMolecules > 0 {
		return min(c.opts.InitialMolecules, c.ds.Capacity())
	}
	factor := 1.0
	if c.topology.Rotates() {
		factor = 1.4
	}
	side := int(math.Round(ContainerWidth / (c.diameter * 1.05 * 3 * factor)))
	return min(side*side, c.ds.Capacity())
}

// SetPhase rearranges every molecule into phase p at that phase's set point
// and lets the configuration settle for a few ticks.
func (c *Controller) SetPhase(p dynamo.Phase) error {
	report, err := c.changer.SetPhase(p, phase.Container{
		Width:  c.NormalizedContainerWidth(),
		Height: c.NormalizedContainerHeight(),
	})
	if err != nil {
		return err
	}
	if n := len(report.FallbackPlaced); n > 0 {
		c.logger.Warnf("%s placement left %d molecules at overlapping positions", p, n)
	}

	c.phase = p
	c.lidMoved = false
	c.setTargetTemperature(report.Temperature)
	for i := 0; i < SettleTicks*SubstepsPerTick; i++ {
		c.substep()
	}
	c.updater.Update(c.ds)
	c.logger.Infof("phase set to %s at T=%.3f", p, c.setPoint)
	c.emit(Event{Kind: PhaseChanged})
	return nil
}

// SetThermostat switches the thermostat strategy.
func (c *Controller) SetThermostat(k dynamo.ThermostatKind) error {
	if !k.Valid() {
		return fmt.Errorf("%w: %v", dynamo.ErrUnsupportedThermostat, k)
	}
	c.thermostatKind = k
	return nil
}

// SetTemperatureSetPoint clamps t to [MinTemperature, MaxTemperature].
func (c *Controller) SetTemperatureSetPoint(t float64) {
	c.setTargetTemperature(clamp(t, MinTemperature, MaxTemperature))
	c.emit(Event{Kind: TemperatureChanged})
}

func (c *Controller) setTargetTemperature(t float64) {
	c.setPoint = t
	c.isokinetic.SetTargetTemperature(t)
	c.andersen.SetTargetTemperature(t)
}

// SetGravitationalAcceleration clamps g to [0, MaxGravity].
func (c *Controller) SetGravitationalAcceleration(g float64) {
	c.gravity = clamp(g, 0, MaxGravity)
}

// SetHeatingCoolingAmount sets the signed rate at which the set point is
// nudged, clamped to [-1, 1].
func (c *Controller) SetHeatingCoolingAmount(a float64) {
	c.heatingCooling = clamp(a, -1, 1)
}

// SetTargetContainerHeight sets where the lid moves to, in picometers. The
// value is clamped between the packing limit and the initial height.
func (c *Controller) SetTargetContainerHeight(h float64) {
	c.container.target = clamp(h, c.minAllowableHeight(), InitialContainerHeight)
}

// SetInteractionStrength sets the Lennard-Jones well depth in Kelvin for
// the user defined species, clamped to [2, 450]. Other species ignore it.
func (c *Controller) SetInteractionStrength(epsilon float64) {
	if c.species != dynamo.UserDefined {
		return
	}
	c.interactionStrength = clamp(epsilon, MinInteractionStrength, MaxInteractionStrength)
	c.applyInteractionStrength()
}

func (c *Controller) applyInteractionStrength() {
	if c.species == dynamo.UserDefined {
		c.verlet.SetInteractionStrength(c.interactionStrength / DefaultInteractionStrength)
	}
}

// InjectMolecule adds one molecule near the right wall heading left. It is
// a no-op returning false when the data set is full, the container has
// exploded, or the lid is too low to fit the injection point.
func (c *Controller) InjectMolecule() bool {
	if c.ds.Remaining() == 0 || c.container.exploded {
		c.logger.Debugf("injection rejected: remaining=%d exploded=%t", c.ds.Remaining(), c.container.exploded)
		return false
	}
	injectY := injectionHeightFraction * InitialContainerHeight / c.diameter
	if c.NormalizedContainerHeight() <= injectY+injectionMargin {
		c.logger.Debugf("injection rejected: lid below injection point")
		return false
	}

	angle := math.Pi + (c.rng.Float64()-0.5)*injectionAngleSpread
	speed := minInjectionSpeed + c.rng.Float64()*(maxInjectionSpeed-minInjectionSpeed)
	sin, cos := math.Sincos(angle)
	velocity := r2.Vec{X: speed * cos, Y: speed * sin}
	position := r2.Vec{X: c.NormalizedContainerWidth() - injectionWallOffset, Y: injectY}

	rate := 0.0
	if c.topology.Rotates() {
		rate = c.rng.NormFloat64() * math.Sqrt(c.setPoint/c.ds.RotationalInertia())
	}
	if err := c.ds.AddMolecule(nil, position, velocity, rate); err != nil {
		return false
	}
	if c.topology.Rotates() {
		c.ds.Angles()[c.ds.Len()-1] = c.rng.Float64() * 2 * math.Pi
	}
	c.updater.Update(c.ds)
	c.logger.Debugf("injected molecule %d at %.2f, %.2f", c.ds.Len()-1, position.X, position.Y)
	return true
}

// ReturnLid restores an exploded container. Molecules that left the
// original bounds are removed, and if any were, the rest is reset to a gas.
func (c *Controller) ReturnLid() error {
	if !c.container.exploded {
		return dynamo.ErrNotExploded
	}

	width := c.NormalizedContainerWidth()
	height := InitialContainerHeight / c.diameter
	purged := 0
	for i := c.ds.Len() - 1; i >= 0; i-- {
		p := c.ds.CenterOfMass()[i]
		if p.X < 0 || p.X > width || p.Y < 0 || p.Y > height {
			if err := c.ds.RemoveMolecule(i); err != nil {
				return err
			}
			purged++
		}
	}

	c.container = newContainer()
	c.verlet.ResetPressure()
	c.updater.Update(c.ds)
	c.logger.Infof("lid returned, %d molecules purged", purged)

	if purged > 0 {
		if err := c.SetPhase(dynamo.Gas); err != nil {
			return err
		}
	}
	c.emit(Event{Kind: LidReturned, Purged: purged})
	return nil
}

// Advance runs as many whole ticks as elapsed seconds of real time cover,
// carrying the remainder forward. At most MaxTicksPerAdvance run per call;
// any further backlog is dropped.
func (c *Controller) Advance(elapsed float64) (int, error) {
	c.pending += elapsed
	ran := 0
	for c.pending >= TickDuration {
		if ran == MaxTicksPerAdvance {
			c.pending = 0
			break
		}
		c.pending -= TickDuration
		if err := c.Tick(); err != nil {
			return ran, err
		}
		ran++
	}
	return ran, nil
}

// Tick advances the simulation by one fixed tick.
func (c *Controller) Tick() error {
	c.ticks++
	before := c.setPoint

	c.lidMoved = c.container.step(c.minAllowableHeight())
	c.adjustSetPoint()
	for i := 0; i < SubstepsPerTick; i++ {
		c.substep()
	}
	c.updater.Update(c.ds)

	if c.setPoint != before {
		c.emit(Event{Kind: TemperatureChanged})
	}
	if c.opts.ValidateState {
		if err := c.validate(); err != nil {
			return &dynamo.SimulationError{Tick: c.ticks, Wrapped: err}
		}
	}
	return nil
}

// RunTicks runs n ticks, stopping early when ctx is cancelled or callback
// returns false. A nil callback is allowed.
func (c *Controller) RunTicks(ctx context.Context, n int, callback func(*Controller) bool) error {
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := c.Tick(); err != nil {
			return err
		}
		if callback != nil && !callback(c) {
			return nil
		}
	}
	return nil
}

func (c *Controller) adjustSetPoint() {
	if c.heatingCooling == 0 || c.ticks%TicksPerSetPointAdjustment != 0 {
		return
	}
	next := c.setPoint + c.heatingCooling*MaxSetPointChange
	if c.heatingCooling < 0 && c.setPoint <= ApproachingAbsoluteZero {
		next = c.setPoint * (1 - math.Abs(c.heatingCooling)*0.05)
	}
	c.setTargetTemperature(clamp(next, MinTemperature, MaxTemperature))
}

func (c *Controller) substep() {
	if c.verlet.Step(c.conditions()) && !c.container.exploded {
		c.explode()
	}
	c.runThermostat()
}

func (c *Controller) conditions() integrators.Conditions {
	return integrators.Conditions{
		Width:               c.NormalizedContainerWidth(),
		Height:              c.NormalizedContainerHeight(),
		Exploded:            c.container.exploded,
		Gravity:             c.gravity,
		TemperatureSetPoint: c.setPoint,
	}
}

func (c *Controller) explode() {
	c.container.exploded = true
	c.logger.Warnf("container exploded at tick %d, pressure %.3f", c.ticks, c.verlet.Pressure())
	c.emit(Event{Kind: Exploded})
}

func (c *Controller) runThermostat() {
	if c.container.exploded {
		return
	}
	switch c.thermostatKind {
	case dynamo.NoThermostat:
	case dynamo.Isokinetic:
		c.isokinetic.AdjustTemperature()
	case dynamo.Andersen:
		c.andersen.AdjustTemperature()
	default:
		c.runAdaptiveThermostat()
	}
}

// runAdaptiveThermostat lets a moving lid heat or cool the molecules by
// adopting the measured temperature instead of fighting it. Otherwise it
// rescales while the temperature is being driven or far from the set point
// and falls back to Andersen collisions near equilibrium.
func (c *Controller) runAdaptiveThermostat() {
	measured := c.ds.Temperature()
	if c.lidMoved && c.moleculesNearLid() {
		c.setTargetTemperature(clamp(measured, MinTemperature, MaxTemperature))
		return
	}
	if c.heatingCooling != 0 ||
		math.Abs(c.setPoint-measured) > TemperatureCloseness ||
		c.setPoint > phase.LiquidTemperature {
		c.isokinetic.AdjustTemperature()
		return
	}
	c.andersen.AdjustTemperature()
}

func (c *Controller) moleculesNearLid() bool {
	limit := c.NormalizedContainerHeight() - integrators.WallDistanceThreshold
	for _, p := range c.ds.CenterOfMass() {
		if p.Y > limit {
			return true
		}
	}
	return false
}

func (c *Controller) validate() error {
	for i, p := range c.ds.CenterOfMass() {
		v := c.ds.Velocities()[i]
		if !finite(p.X) || !finite(p.Y) || !finite(v.X) || !finite(v.Y) {
			return fmt.Errorf("molecule %d: %w", i, dynamo.ErrNonFinite)
		}
	}
	for i, a := range c.ds.Angles() {
		if !finite(a) || !finite(c.ds.RotationRates()[i]) {
			return fmt.Errorf("molecule %d: %w", i, dynamo.ErrNonFinite)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (c *Controller) minAllowableHeight() float64 {
	return minAllowableHeight(c.ds.Len(), c.topology, c.diameter)
}
