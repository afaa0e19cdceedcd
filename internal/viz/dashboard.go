package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/molsim/internal/dynamo"
	"github.com/san-kum/molsim/internal/integrators"
	"github.com/san-kum/molsim/internal/sim"
)

const (
	canvasWidth     = 60
	canvasHeight    = 24
	historyCapacity = 300
	maxEventLines   = 4

	heatingStep = 0.25
	lidStep     = 500.0
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// eventLog collects controller events. It is shared by pointer because the
// Model is copied on every update.
type eventLog struct {
	lines []string
}

func (l *eventLog) record(e sim.Event) {
	line := fmt.Sprintf("%5d %s", e.Tick, e.Kind)
	switch e.Kind {
	case sim.PhaseChanged:
		line += " " + e.Phase.String()
	case sim.SpeciesChanged:
		line += " " + e.Species.String()
	case sim.LidReturned:
		line += fmt.Sprintf(" (%d purged)", e.Purged)
	case sim.TemperatureChanged:
		return
	}
	l.lines = append(l.lines, line)
	if len(l.lines) > maxEventLines {
		l.lines = l.lines[1:]
	}
}

// Model drives a controller from the frame clock and renders it.
type Model struct {
	ctrl     *sim.Controller
	canvas   *Canvas
	theme    Theme
	styles   styles
	events   *eventLog
	running  bool
	showHelp bool
	last     time.Time
	err      error

	temperatureHistory []float64
	pressureHistory    []float64
}

func NewModel(c *sim.Controller) Model {
	log := &eventLog{}
	c.Subscribe(log.record)
	return Model{
		ctrl:               c,
		canvas:             NewCanvas(canvasWidth, canvasHeight),
		theme:              Themes[0],
		styles:             newStyles(Themes[0]),
		events:             log,
		running:            true,
		temperatureHistory: make([]float64, 0, historyCapacity),
		pressureHistory:    make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case TickMsg:
		now := time.Time(msg)
		if m.running && !m.last.IsZero() {
			m.advance(now.Sub(m.last).Seconds())
		}
		m.last = now
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.ctrl
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.running = !m.running
	case "up", "k":
		c.SetHeatingCoolingAmount(c.HeatingCoolingAmount() + heatingStep)
	case "down", "j":
		c.SetHeatingCoolingAmount(c.HeatingCoolingAmount() - heatingStep)
	case "left", "h":
		c.SetTargetContainerHeight(c.TargetContainerHeight() - lidStep)
	case "right", "l":
		c.SetTargetContainerHeight(c.TargetContainerHeight() + lidStep)
	case "1":
		m.err = c.SetPhase(dynamo.Solid)
	case "2":
		m.err = c.SetPhase(dynamo.Liquid)
	case "3":
		m.err = c.SetPhase(dynamo.Gas)
	case "s":
		m.err = c.SetMoleculeType(nextSpecies(c.Species()))
		m.resetHistory()
	case "i":
		c.InjectMolecule()
	case "r":
		if c.IsExploded() {
			m.err = c.ReturnLid()
		}
	case "g":
		if c.GravitationalAcceleration() > 0 {
			c.SetGravitationalAcceleration(0)
		} else {
			c.SetGravitationalAcceleration(sim.DefaultGravity)
		}
	case "t":
		m.theme = NextTheme(m.theme.Name)
		m.styles = newStyles(m.theme)
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func nextSpecies(s dynamo.Species) dynamo.Species {
	all := dynamo.AllSpecies()
	for i, sp := range all {
		if sp == s {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

// advance runs the controller for elapsed seconds and records history. A
// failing tick pauses the dashboard.
func (m *Model) advance(elapsed float64) {
	if _, err := m.ctrl.Advance(elapsed); err != nil {
		m.err = err
		m.running = false
		return
	}
	m.temperatureHistory = pushHistory(m.temperatureHistory, m.ctrl.ConvertTemperatureToKelvin(m.ctrl.Temperature()))
	m.pressureHistory = pushHistory(m.pressureHistory, m.ctrl.PressureInAtmospheres())
}

func (m *Model) resetHistory() {
	m.temperatureHistory = m.temperatureHistory[:0]
	m.pressureHistory = m.pressureHistory[:0]
}

func pushHistory(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

// Render draws the container walls, the lid and every atom of s onto c.
// The view spans the initial container height; atoms above it after an
// explosion fall off the top.
func Render(c *Canvas, s sim.Snapshot, diameter float64) {
	c.Clear()
	cw, ch := c.PixelWidth(), c.PixelHeight()
	viewHeight := sim.InitialContainerHeight / diameter
	sx := float64(cw-1) / s.Width
	sy := float64(ch-1) / viewHeight

	toScreen := func(x, y float64) (int, int) {
		return int(x * sx), ch - 1 - int(y*sy)
	}

	c.DrawLine(0, 0, 0, ch-1)
	c.DrawLine(cw-1, 0, cw-1, ch-1)
	c.DrawLine(0, ch-1, cw-1, ch-1)
	if !s.Exploded {
		_, lid := toScreen(0, s.Height)
		c.DrawLine(0, lid, cw-1, lid)
	}

	for _, a := range s.Atoms {
		px, py := toScreen(a.X, a.Y)
		c.Set(px, py)
	}
}

func (m Model) View() string {
	c := m.ctrl
	snap := c.Snapshot()
	Render(m.canvas, snap, c.ParticleDiameter())
	canvasView := m.styles.atoms.Render(m.canvas.String())

	st := m.styles
	var s strings.Builder
	s.WriteString(st.title.Render(strings.ToUpper(snap.Species.String())+" · "+snap.Phase.String()) + "\n")

	switch {
	case snap.Exploded:
		s.WriteString(st.alert.Render("EXPLODED (r to return the lid)") + "\n\n")
	case m.running:
		s.WriteString(st.running.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(st.paused.Render("PAUSED") + "\n\n")
	}

	if len(m.temperatureHistory) > 1 {
		chart := asciigraph.Plot(m.temperatureHistory, asciigraph.Height(5), asciigraph.Width(36), asciigraph.Caption("Temperature (K)"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Molecules", fmt.Sprintf("%d (%d free)", snap.Molecules, c.RemainingCapacity()))
	row("Temp", fmt.Sprintf("%.1f K (set %.1f K)", c.ConvertTemperatureToKelvin(snap.Temperature), snap.TemperatureKelvin))
	row("Heating", fmt.Sprintf("%+.2f", c.HeatingCoolingAmount()))
	row("Pressure", fmt.Sprintf("%.2f atm", snap.PressureAtm))
	s.WriteString(st.label.Render("") + st.Gauge(snap.Pressure/integrators.ExplosionPressure, 0.8, 20) + "\n")
	row("", Sparkline(m.pressureHistory, 20))
	row("Lid", fmt.Sprintf("%.0f pm (target %.0f)", c.ContainerHeight(), c.TargetContainerHeight()))
	row("Gravity", fmt.Sprintf("%.3f", c.GravitationalAcceleration()))
	row("Energy", fmt.Sprintf("%.2f", snap.TotalEnergy()))

	if len(m.events.lines) > 0 {
		s.WriteString("\n")
		for _, line := range m.events.lines {
			s.WriteString(st.label.Render("") + st.value.Render(line) + "\n")
		}
	}
	if m.err != nil {
		s.WriteString("\n" + st.alert.Render(m.err.Error()) + "\n")
	}

	s.WriteString(st.help.Render("SP:Pause ↑↓:Heat ←→:Lid 1-3:Phase\nS:Species I:Inject T:Theme ?:Help Q:Quit"))
	body := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.panel.Render(s.String()))

	if m.showHelp {
		return helpText + "\n" + body
	}
	return body
}

const helpText = `
  Space    pause or resume
  Up/K     heat (repeat for more)
  Down/J   cool
  Left/H   lower the lid 500 pm
  Right/L  raise the lid 500 pm
  1 2 3    solid, liquid, gas
  S        next species
  I        inject a molecule from the right wall
  R        return the lid after an explosion
  G        toggle gravity
  T        cycle themes
  Q        quit
`
