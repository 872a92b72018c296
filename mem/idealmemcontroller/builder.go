package idealmemcontroller

import (
	"github.com/sarchlab/butterfly/mem"
	"github.com/sarchlab/butterfly/noc/transport"
	"github.com/sarchlab/butterfly/sim"
)

// Builder can build ideal memory controllers.
type Builder struct {
	timeTeller sim.TimeTeller
	latency    int
	freq       sim.Freq
	capacity   uint64
	mode       Mode
}

// MakeBuilder returns a new Builder
func MakeBuilder() Builder {
	return Builder{
		latency:  100,
		freq:     1 * sim.GHz,
		capacity: 4 * mem.GB,
		mode:     Immediate,
	}
}

// WithTimeTeller sets the clock of the memory controller
func (b Builder) WithTimeTeller(t sim.TimeTeller) Builder {
	b.timeTeller = t
	return b
}

// WithLatency sets the latency of the memory controller in cycles
func (b Builder) WithLatency(latency int) Builder {
	b.latency = latency
	return b
}

// WithFreq sets the frequency of the memory controller
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithCapacity sets the number of addressable bytes
func (b Builder) WithCapacity(capacity uint64) Builder {
	b.capacity = capacity
	return b
}

// WithMode sets whether replies are returned in the same call or later
func (b Builder) WithMode(mode Mode) Builder {
	b.mode = mode
	return b
}

// Build builds a new Comp
func (b Builder) Build(name string) *Comp {
	if b.timeTeller == nil {
		panic("ideal memory controller requires a time teller")
	}

	if b.freq == 0 {
		panic("ideal memory controller frequency cannot be 0")
	}

	if b.latency < 0 {
		panic("ideal memory controller latency cannot be negative")
	}

	c := &Comp{
		ComponentBase: sim.NewComponentBase(name),
		timeTeller:    b.timeTeller,
		Latency:       b.latency,
		freq:          b.freq,
		capacity:      b.capacity,
		mode:          b.mode,
		storage:       make(map[uint64]byte),
	}

	c.topPort = transport.NewTargetSocket(name+".TopPort", c)

	return c
}
