package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/molsim/internal/config"
	"github.com/san-kum/molsim/internal/dynamo"
	"github.com/san-kum/molsim/internal/metrics"
	"github.com/san-kum/molsim/internal/sim"
)

// Sample is one row of recorded observables.
type Sample struct {
	Tick         int
	Time         float64
	TemperatureK float64
	SetPointK    float64
	PressureAtm  float64
	HeightPM     float64
	Molecules    int
	Exploded     bool
	TotalEnergy  float64
}

func sampleOf(c *sim.Controller) Sample {
	return Sample{
		Tick:         c.Ticks(),
		Time:         float64(c.Ticks()) * sim.TickDuration,
		TemperatureK: c.ConvertTemperatureToKelvin(c.Temperature()),
		SetPointK:    c.TemperatureInKelvin(),
		PressureAtm:  c.PressureInAtmospheres(),
		HeightPM:     c.ContainerHeight(),
		Molecules:    c.MoleculeCount(),
		Exploded:     c.IsExploded(),
		TotalEnergy:  c.TotalEnergy(),
	}
}

type Result struct {
	Samples  []Sample
	Metrics  map[string]float64
	Final    sim.Snapshot
	Injected int
}

type Experiment struct {
	cfg        *config.Config
	controller *sim.Controller
	metrics    []metrics.Metric
	observers  []func(sim.Snapshot)
	logger     sim.Logger
}

// New validates cfg and builds a controller in the configured phase and
// environment.
func New(cfg *config.Config, logger sim.Logger) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = sim.NewNoOpLogger()
	}
	species, err := cfg.SpeciesKind()
	if err != nil {
		return nil, fmt.Errorf("species: %w", err)
	}
	kind, err := cfg.ThermostatKind()
	if err != nil {
		return nil, fmt.Errorf("thermostat: %w", err)
	}

	c, err := sim.New(sim.Options{
		Species:          species,
		Thermostat:       kind,
		Seed:             cfg.Seed,
		Logger:           logger,
		InitialMolecules: cfg.Molecules,
		ValidateState:    cfg.ValidateState,
	})
	if err != nil {
		return nil, err
	}

	if err := Configure(c, cfg); err != nil {
		return nil, err
	}

	return &Experiment{cfg: cfg, controller: c, logger: logger}, nil
}

// Configure moves c into the configured phase and applies the environment.
func Configure(c *sim.Controller, cfg *config.Config) error {
	p, err := cfg.PhaseKind()
	if err != nil {
		return fmt.Errorf("phase: %w", err)
	}
	env := cfg.Environment
	c.SetInteractionStrength(env.InteractionStrength)
	if p != dynamo.Solid {
		if err := c.SetPhase(p); err != nil {
			return err
		}
	}
	if env.Temperature > 0 {
		c.SetTemperatureSetPoint(env.Temperature)
	}
	c.SetGravitationalAcceleration(env.Gravity)
	c.SetHeatingCoolingAmount(env.HeatingCooling)
	if env.ContainerHeight > 0 {
		c.SetTargetContainerHeight(env.ContainerHeight)
	}
	return nil
}

func (e *Experiment) AddMetric(m metrics.Metric) {
	e.metrics = append(e.metrics, m)
}

// Observe registers fn to receive every sampled snapshot.
func (e *Experiment) Observe(fn func(sim.Snapshot)) {
	e.observers = append(e.observers, fn)
}

// Controller returns the underlying controller for subscribing to events.
func (e *Experiment) Controller() *sim.Controller {
	return e.controller
}

// Run ticks the controller cfg.Ticks times, sampling every cfg.SampleEvery
// ticks and injecting molecules on schedule. On cancellation the partial
// result is returned along with the context error.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	for _, m := range e.metrics {
		m.Reset()
	}
	res := &Result{Metrics: make(map[string]float64)}
	e.record(res)

	inj := e.cfg.Injection
	attempts := 0
	err := e.controller.RunTicks(ctx, e.cfg.Ticks, func(c *sim.Controller) bool {
		if attempts < inj.Count && c.Ticks()%inj.EveryTicks == 0 {
			attempts++
			if c.InjectMolecule() {
				res.Injected++
			}
		}
		if c.Ticks()%e.cfg.SampleEvery == 0 {
			e.record(res)
		}
		return true
	})

	for _, m := range e.metrics {
		res.Metrics[m.Name()] = m.Value()
	}
	res.Final = e.controller.Snapshot()
	if err != nil {
		return res, fmt.Errorf("run stopped after %d ticks: %w", e.controller.Ticks(), err)
	}
	e.logger.Infof("run finished: %d ticks, %d samples, %d injected", e.controller.Ticks(), len(res.Samples), res.Injected)
	return res, nil
}

func (e *Experiment) record(res *Result) {
	res.Samples = append(res.Samples, sampleOf(e.controller))
	snap := e.controller.Snapshot()
	for _, m := range e.metrics {
		m.Observe(snap)
	}
	for _, fn := range e.observers {
		fn(snap)
	}
}
