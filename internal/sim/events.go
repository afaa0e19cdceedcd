package sim

import (
	"fmt"

	"github.com/san-kum/molsim/internal/dynamo"
)

type EventKind int

const (
	Exploded EventKind = iota
	LidReturned
	PhaseChanged
	SpeciesChanged
	TemperatureChanged
)

func (k EventKind) String() string {
	switch k {
	case Exploded:
		return "exploded"
	case LidReturned:
		return "lid_returned"
	case PhaseChanged:
		return "phase_changed"
	case SpeciesChanged:
		return "species_changed"
	case TemperatureChanged:
		return "temperature_changed"
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Event is delivered synchronously to subscribers, from inside the call
// that caused it.
type Event struct {
	Kind EventKind
	Tick int

	Species     dynamo.Species
	Phase       dynamo.Phase
	Temperature float64

	// Purged counts molecules removed by a lid return.
	Purged int
}

// Subscribe registers fn for every subsequent event.
func (c *Controller) Subscribe(fn func(Event)) {
	c.subscribers = append(c.subscribers, fn)
}

func (c *Controller) emit(e Event) {
	e.Tick = c.ticks
	e.Species = c.species
	e.Phase = c.phase
	e.Temperature = c.setPoint
	for _, fn := range c.subscribers {
		fn(e)
	}
}
