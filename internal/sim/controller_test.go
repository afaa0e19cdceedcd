package sim

import (
	"context"
	"errors"
	"math"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/molsim/internal/dynamo"
	"github.com/san-kum/molsim/internal/phase"
	"gonum.org/v1/gonum/spatial/r2"
)

// isolate leaves a single molecule at rest at p with no stale forces.
func isolate(c *Controller, p r2.Vec) {
	c.ds.CenterOfMass()[0] = p
	c.ds.Velocities()[0] = r2.Vec{}
	c.ds.Forces()[0] = r2.Vec{}
	c.ds.NextForces()[0] = r2.Vec{}
	c.updater.Update(c.ds)
}

// breach drops molecule 0 below the floor so the next tick explodes the
// container.
func breach(c *Controller) {
	c.ds.CenterOfMass()[0] = r2.Vec{X: c.NormalizedContainerWidth() / 2, Y: -1}
}

var _ = Describe("Controller", func() {
	var (
		c      *Controller
		events []Event
	)

	newController := func(opts Options) *Controller {
		ctrl, err := New(opts)
		Expect(err).NotTo(HaveOccurred())
		events = nil
		ctrl.Subscribe(func(e Event) { events = append(events, e) })
		return ctrl
	}

	kinds := func() []EventKind {
		var out []EventKind
		for _, e := range events {
			out = append(out, e.Kind)
		}
		return out
	}

	BeforeEach(func() {
		c = newController(Options{Species: dynamo.Neon, Seed: 1})
	})

	Describe("construction", func() {
		It("starts as a solid filling the default container", func() {
			Expect(c.Species()).To(Equal(dynamo.Neon))
			Expect(c.Phase()).To(Equal(dynamo.Solid))
			Expect(c.MoleculeCount()).To(Equal(100))
			Expect(c.TemperatureSetPoint()).To(Equal(phase.SolidTemperature))
			Expect(c.ContainerHeight()).To(Equal(InitialContainerHeight))
			Expect(c.IsExploded()).To(BeFalse())
			Expect(c.GravitationalAcceleration()).To(Equal(DefaultGravity))
		})

		It("caps an explicit molecule count at capacity", func() {
			c = newController(Options{Species: dynamo.DiatomicOxygen, InitialMolecules: 1000})
			Expect(c.MoleculeCount()).To(Equal(250))
			Expect(c.RemainingCapacity()).To(BeZero())
		})

		It("fails fast on an unsupported species", func() {
			_, err := New(Options{Species: dynamo.Species(42)})
			Expect(errors.Is(err, dynamo.ErrUnsupportedSpecies)).To(BeTrue())
		})

		It("fails fast on an unsupported thermostat", func() {
			_, err := New(Options{Thermostat: dynamo.ThermostatKind(9)})
			Expect(errors.Is(err, dynamo.ErrUnsupportedThermostat)).To(BeTrue())
			Expect(errors.Is(c.SetThermostat(dynamo.ThermostatKind(-1)), dynamo.ErrUnsupportedThermostat)).To(BeTrue())
		})
	})

	Describe("setters", func() {
		It("clamps the temperature set point", func() {
			c.SetTemperatureSetPoint(1000)
			Expect(c.TemperatureSetPoint()).To(Equal(MaxTemperature))
			c.SetTemperatureSetPoint(-3)
			Expect(c.TemperatureSetPoint()).To(Equal(MinTemperature))
			Expect(kinds()).To(Equal([]EventKind{TemperatureChanged, TemperatureChanged}))
		})

		It("clamps gravity and heating", func() {
			c.SetGravitationalAcceleration(5)
			Expect(c.GravitationalAcceleration()).To(Equal(MaxGravity))
			c.SetGravitationalAcceleration(-1)
			Expect(c.GravitationalAcceleration()).To(BeZero())

			c.SetHeatingCoolingAmount(3)
			Expect(c.HeatingCoolingAmount()).To(Equal(1.0))
			c.SetHeatingCoolingAmount(-3)
			Expect(c.HeatingCoolingAmount()).To(Equal(-1.0))
		})

		It("clamps the target height to the packing limit", func() {
			c.SetTargetContainerHeight(0)
			Expect(c.TargetContainerHeight()).To(Equal(c.MinAllowableContainerHeight()))
			Expect(c.MinAllowableContainerHeight()).To(BeNumerically(">", 0))

			c.SetTargetContainerHeight(1e9)
			Expect(c.TargetContainerHeight()).To(Equal(InitialContainerHeight))
		})

		It("only lets the user defined species change interaction strength", func() {
			c.SetInteractionStrength(100)
			Expect(c.InteractionStrength()).To(Equal(DefaultInteractionStrength))

			c = newController(Options{Species: dynamo.UserDefined})
			c.SetInteractionStrength(1000)
			Expect(c.InteractionStrength()).To(Equal(MaxInteractionStrength))
			Expect(c.verlet.InteractionStrength()).To(BeNumerically("~", 2, 1e-12))

			c.SetInteractionStrength(0)
			Expect(c.InteractionStrength()).To(Equal(MinInteractionStrength))
		})
	})

	Describe("lid motion", func() {
		It("shrinks and expands at bounded rates", func() {
			c.SetTargetContainerHeight(0)
			for i := 0; i < 10; i++ {
				Expect(c.Tick()).To(Succeed())
			}
			Expect(c.ContainerHeight()).To(BeNumerically("~", InitialContainerHeight-10*LidShrinkRate, 1e-9))

			c.SetTargetContainerHeight(InitialContainerHeight)
			Expect(c.Tick()).To(Succeed())
			Expect(c.ContainerHeight()).To(BeNumerically("~", InitialContainerHeight-10*LidShrinkRate+LidExpansionRate, 1e-9))
		})

		It("adopts the measured temperature while the lid pushes on molecules", func() {
			c = newController(Options{Species: dynamo.Argon, InitialMolecules: 20, Seed: 3})
			c.ds.CenterOfMass()[0] = r2.Vec{X: c.NormalizedContainerWidth() / 2, Y: c.NormalizedContainerHeight() - 0.2}
			c.SetTargetContainerHeight(0)

			Expect(c.Tick()).To(Succeed())

			Expect(c.TemperatureSetPoint()).To(Equal(c.Temperature()))
			Expect(kinds()).To(ContainElement(TemperatureChanged))
		})
	})

	Describe("temperature control", func() {
		It("nudges the set point every few ticks while heating", func() {
			c.SetHeatingCoolingAmount(1)
			for i := 0; i < TicksPerSetPointAdjustment-1; i++ {
				Expect(c.Tick()).To(Succeed())
			}
			Expect(c.TemperatureSetPoint()).To(Equal(phase.SolidTemperature))

			Expect(c.Tick()).To(Succeed())
			Expect(c.TemperatureSetPoint()).To(BeNumerically("~", phase.SolidTemperature+MaxSetPointChange, 1e-12))
		})

		It("approaches absolute zero asymptotically", func() {
			c.SetTemperatureSetPoint(0.1)
			c.SetHeatingCoolingAmount(-1)
			for i := 0; i < TicksPerSetPointAdjustment; i++ {
				Expect(c.Tick()).To(Succeed())
			}
			Expect(c.TemperatureSetPoint()).To(BeNumerically("~", 0.095, 1e-12))
		})

		It("holds the set point with the isokinetic thermostat", func() {
			Expect(c.SetThermostat(dynamo.Isokinetic)).To(Succeed())
			c.SetTemperatureSetPoint(0.5)
			Expect(c.Tick()).To(Succeed())
			Expect(c.ds.Temperature()).To(BeNumerically("~", 0.5, 1e-9))
		})
	})

	Describe("adaptive thermostat", func() {
		// settle scales the molecules to measured and then moves the set
		// point, leaving a known gap for the thermostat to act on.
		settle := func(measured, setPoint float64) {
			c.setTargetTemperature(measured)
			c.isokinetic.AdjustTemperature()
			Expect(c.ds.Temperature()).To(BeNumerically("~", measured, 1e-12))
			c.setTargetTemperature(setPoint)
			c.lidMoved = false
		}

		velocities := func() []r2.Vec {
			return append([]r2.Vec(nil), c.ds.Velocities()...)
		}

		unchanged := func(before []r2.Vec) int {
			n := 0
			for i, v := range c.ds.Velocities() {
				if v == before[i] {
					n++
				}
			}
			return n
		}

		It("rescales while heating", func() {
			settle(0.2, 0.25)
			c.SetHeatingCoolingAmount(0.5)
			c.runThermostat()
			Expect(c.ds.Temperature()).To(BeNumerically("~", 0.25, 1e-9))
		})

		It("rescales when far from the set point", func() {
			settle(0.1, 0.1+TemperatureCloseness+0.05)
			c.runThermostat()
			Expect(c.ds.Temperature()).To(BeNumerically("~", 0.1+TemperatureCloseness+0.05, 1e-9))
		})

		It("rescales above the liquid temperature", func() {
			settle(phase.LiquidTemperature+0.05, phase.LiquidTemperature+0.1)
			c.runThermostat()
			Expect(c.ds.Temperature()).To(BeNumerically("~", phase.LiquidTemperature+0.1, 1e-9))
		})

		It("uses rare stochastic collisions near equilibrium", func() {
			settle(0.2, 0.25)
			before := velocities()

			c.runThermostat()
			Expect(unchanged(before)).To(BeNumerically(">", c.MoleculeCount()/2))
			Expect(c.ds.Temperature()).NotTo(BeNumerically("~", 0.25, 1e-6))

			for i := 0; i < 300; i++ {
				c.runThermostat()
			}
			Expect(unchanged(before)).To(BeNumerically("<", c.MoleculeCount()))
		})

		It("leaves the molecules alone once exploded", func() {
			settle(0.1, 0.3)
			c.SetHeatingCoolingAmount(1)
			c.container.exploded = true
			before := velocities()

			c.runThermostat()
			Expect(c.ds.Velocities()).To(Equal(before))
		})
	})

	Describe("frame pacing", func() {
		It("runs whole ticks and drops excess backlog", func() {
			ran, err := c.Advance(2.5 * TickDuration)
			Expect(err).NotTo(HaveOccurred())
			Expect(ran).To(Equal(2))

			ran, err = c.Advance(1.0)
			Expect(err).NotTo(HaveOccurred())
			Expect(ran).To(Equal(MaxTicksPerAdvance))

			ran, err = c.Advance(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(ran).To(BeZero())
			Expect(c.Ticks()).To(Equal(2 + MaxTicksPerAdvance))
		})

		It("stops on cancellation or when the callback declines", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			Expect(c.RunTicks(ctx, 10, nil)).To(MatchError(context.Canceled))
			Expect(c.Ticks()).To(BeZero())

			err := c.RunTicks(context.Background(), 10, func(ctrl *Controller) bool {
				return ctrl.Ticks() < 3
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Ticks()).To(Equal(3))
		})
	})

	Describe("free molecules", func() {
		BeforeEach(func() {
			c = newController(Options{Species: dynamo.Argon, InitialMolecules: 1, Thermostat: dynamo.NoThermostat})
			c.SetGravitationalAcceleration(0)
		})

		It("leaves a lone molecule far from the walls at rest", func() {
			center := r2.Vec{X: c.NormalizedContainerWidth() / 2, Y: c.NormalizedContainerHeight() / 2}
			isolate(c, center)

			Expect(c.Tick()).To(Succeed())

			Expect(c.ds.Velocities()[0]).To(Equal(r2.Vec{}))
			Expect(c.ds.CenterOfMass()[0]).To(Equal(center))
		})

		It("repels a molecule from the left wall", func() {
			isolate(c, r2.Vec{X: 0.1, Y: c.NormalizedContainerHeight() / 2})

			Expect(c.Tick()).To(Succeed())

			Expect(c.ds.Velocities()[0].X).To(BeNumerically(">", 0))
		})
	})

	Describe("injection", func() {
		It("adds a molecule heading into the container", func() {
			before := c.MoleculeCount()
			Expect(c.InjectMolecule()).To(BeTrue())
			Expect(c.MoleculeCount()).To(Equal(before + 1))

			v := c.ds.Velocities()[before]
			speed := r2.Norm(v)
			Expect(v.X).To(BeNumerically("<", 0))
			Expect(speed).To(BeNumerically(">=", minInjectionSpeed))
			Expect(speed).To(BeNumerically("<=", maxInjectionSpeed))
			Expect(c.ds.SafeLen()).To(Equal(before))
		})

		It("is a no-op at capacity", func() {
			c = newController(Options{Species: dynamo.Argon, InitialMolecules: 500})
			Expect(c.RemainingCapacity()).To(BeZero())
			Expect(c.InjectMolecule()).To(BeFalse())
			Expect(c.MoleculeCount()).To(Equal(500))
		})

		It("is a no-op when the lid is below the injection point", func() {
			c.container.height = 0.25*InitialContainerHeight + c.ParticleDiameter()
			Expect(c.InjectMolecule()).To(BeFalse())
		})
	})

	Describe("explosion", func() {
		BeforeEach(func() {
			breach(c)
			Expect(c.Tick()).To(Succeed())
		})

		It("flags the container and notifies subscribers", func() {
			Expect(c.IsExploded()).To(BeTrue())
			Expect(kinds()).To(ContainElement(Exploded))
			Expect(c.Pressure()).To(BeZero())
		})

		It("lets the lid fly away", func() {
			h := c.ContainerHeight()
			Expect(c.Tick()).To(Succeed())
			Expect(c.ContainerHeight()).To(BeNumerically("~", h+ExplodedLidRate, 1e-9))
		})

		It("runs no thermostat", func() {
			Expect(c.SetThermostat(dynamo.Isokinetic)).To(Succeed())
			c.SetTemperatureSetPoint(MinTemperature)
			Expect(c.Tick()).To(Succeed())
			Expect(c.KineticEnergy()).To(BeNumerically(">", 0))
		})

		It("rejects injection", func() {
			Expect(c.InjectMolecule()).To(BeFalse())
		})

		It("returns the lid and resets escaped molecules to a gas", func() {
			before := c.MoleculeCount()
			events = nil

			Expect(c.ReturnLid()).To(Succeed())

			Expect(c.IsExploded()).To(BeFalse())
			Expect(c.ContainerHeight()).To(Equal(InitialContainerHeight))
			Expect(c.TargetContainerHeight()).To(Equal(InitialContainerHeight))
			Expect(c.MoleculeCount()).To(BeNumerically("<", before))
			Expect(c.Phase()).To(Equal(dynamo.Gas))

			last := events[len(events)-1]
			Expect(last.Kind).To(Equal(LidReturned))
			Expect(last.Purged).To(Equal(before - c.MoleculeCount()))
		})

		It("keeps the phase when nothing escaped", func() {
			c.ds.CenterOfMass()[0] = r2.Vec{X: c.NormalizedContainerWidth() - 2, Y: InitialContainerHeight/c.ParticleDiameter() - 2}
			before := c.MoleculeCount()

			Expect(c.ReturnLid()).To(Succeed())

			Expect(c.MoleculeCount()).To(Equal(before))
			Expect(c.Phase()).To(Equal(dynamo.Solid))
		})
	})

	It("refuses to return the lid of an intact container", func() {
		Expect(c.ReturnLid()).To(MatchError(dynamo.ErrNotExploded))
	})

	Describe("species and phase changes", func() {
		It("rebuilds the data set for a new species", func() {
			Expect(c.SetMoleculeType(dynamo.Water)).To(Succeed())

			Expect(c.Species()).To(Equal(dynamo.Water))
			Expect(c.Phase()).To(Equal(dynamo.Solid))
			Expect(c.AtomsPerMolecule()).To(Equal(3))
			Expect(c.AtomPositions()).To(HaveLen(3 * c.MoleculeCount()))
			Expect(kinds()).To(ContainElement(SpeciesChanged))
		})

		It("moves to a new phase at its set point", func() {
			Expect(c.SetPhase(dynamo.Liquid)).To(Succeed())

			Expect(c.Phase()).To(Equal(dynamo.Liquid))
			Expect(c.TemperatureSetPoint()).To(Equal(phase.LiquidTemperature))
			last := events[len(events)-1]
			Expect(last.Kind).To(Equal(PhaseChanged))
			Expect(last.Phase).To(Equal(dynamo.Liquid))
		})

		It("rejects an unknown phase", func() {
			Expect(errors.Is(c.SetPhase(dynamo.Phase(7)), dynamo.ErrUnsupportedPhase)).To(BeTrue())
		})
	})

	Describe("observables", func() {
		It("returns snapshots detached from the engine", func() {
			s := c.Snapshot()
			Expect(s.Atoms).To(HaveLen(s.Molecules * s.AtomsPerMolecule))
			Expect(s.TemperatureKelvin).To(BeNumerically("~", ToKelvin(dynamo.Neon, s.SetPoint), 1e-12))

			s.Atoms[0] = r2.Vec{X: -100}
			Expect(c.AtomPositions()[0]).NotTo(Equal(r2.Vec{X: -100}))
		})

		It("reports non-finite state when validation is on", func() {
			c = newController(Options{Species: dynamo.Argon, InitialMolecules: 10, ValidateState: true})
			c.ds.Velocities()[0] = r2.Vec{X: math.NaN()}

			err := c.Tick()

			Expect(errors.Is(err, dynamo.ErrNonFinite)).To(BeTrue())
			var simErr *dynamo.SimulationError
			Expect(errors.As(err, &simErr)).To(BeTrue())
			Expect(simErr.Tick).To(Equal(1))
		})
	})
})

var _ = Describe("Ensemble", func() {
	It("runs one controller per seed", func() {
		opts := Options{Species: dynamo.Argon, InitialMolecules: 20, Thermostat: dynamo.Isokinetic}

		first, err := NewEnsemble(opts, 3, 10).Run(context.Background(), 5, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(first).To(HaveLen(3))
		for _, s := range first {
			Expect(s.Tick).To(Equal(5))
		}

		second, err := NewEnsemble(opts, 3, 10).Run(context.Background(), 5, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(second[1].Atoms).To(Equal(first[1].Atoms))
		Expect(second[0].Atoms).NotTo(Equal(first[1].Atoms))
	})

	It("surfaces construction errors", func() {
		_, err := NewEnsemble(Options{Species: dynamo.Species(99)}, 2, 0).Run(context.Background(), 1, nil)
		Expect(errors.Is(err, dynamo.ErrUnsupportedSpecies)).To(BeTrue())
	})

	It("cancels the other members when one fails", func() {
		const n = 1000000
		boom := errors.New("boom")
		started := make(chan struct{})
		var once sync.Once

		ens := NewEnsemble(Options{Species: dynamo.Argon, InitialMolecules: 10}, 3, 0)
		ens.Prepare(func(c *Controller) error {
			if c.opts.Seed == 0 {
				<-started
				return boom
			}
			return nil
		})

		ticks := make([]int, 3)
		_, err := ens.Run(context.Background(), n, func(run int, c *Controller) bool {
			ticks[run] = c.Ticks()
			if run == 1 {
				once.Do(func() { close(started) })
			}
			return true
		})

		Expect(err).To(MatchError(boom))
		Expect(ticks[0]).To(BeZero())
		Expect(ticks[1]).To(BeNumerically(">", 0))
		Expect(ticks[1]).To(BeNumerically("<", n))
		Expect(ticks[2]).To(BeNumerically("<", n))
	})
})
