package metrics

import (
	"github.com/san-kum/molsim/internal/sim"
)

// Containment is the fraction of samples taken while the container was
// intact.
type Containment struct {
	name     string
	exploded int
	samples  int
}

func NewContainment() *Containment {
	return &Containment{name: "containment"}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(s sim.Snapshot) {
	c.samples++
	if s.Exploded {
		c.exploded++
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.exploded)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.exploded = 0
	c.samples = 0
}
