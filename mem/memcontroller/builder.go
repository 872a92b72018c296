package memcontroller

import (
	"github.com/sarchlab/butterfly/mem"
	"github.com/sarchlab/butterfly/noc/transport"
	"github.com/sarchlab/butterfly/sim"
)

// A Builder can build memory controllers.
type Builder struct {
	timeTeller        sim.TimeTeller
	fabricFreq        sim.Freq
	freq              sim.Freq
	requestQueueSize  int
	responseQueueSize int
	addressRange      mem.AddressRange
}

// MakeBuilder returns a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		fabricFreq:        1 * sim.GHz,
		freq:              800 * sim.MHz,
		requestQueueSize:  8,
		responseQueueSize: 8,
	}
}

// WithTimeTeller sets the clock used to align the delay annotations.
func (b Builder) WithTimeTeller(t sim.TimeTeller) Builder {
	b.timeTeller = t
	return b
}

// WithFabricFreq sets the frequency of the switch above the controller.
func (b Builder) WithFabricFreq(f sim.Freq) Builder {
	b.fabricFreq = f
	return b
}

// WithFreq sets the frequency of the controller.
func (b Builder) WithFreq(f sim.Freq) Builder {
	b.freq = f
	return b
}

// WithRequestQueueSize sets how many requests can wait for the backend.
func (b Builder) WithRequestQueueSize(n int) Builder {
	b.requestQueueSize = n
	return b
}

// WithResponseQueueSize sets how many replies can wait to be acknowledged.
func (b Builder) WithResponseQueueSize(n int) Builder {
	b.responseQueueSize = n
	return b
}

// WithAddressRange sets the channel range served by the controller.
func (b Builder) WithAddressRange(r mem.AddressRange) Builder {
	b.addressRange = r
	return b
}

// Build creates a memory controller.
func (b Builder) Build(name string) *Comp {
	if b.timeTeller == nil {
		panic("memory controller requires a time teller")
	}

	if b.fabricFreq == 0 || b.freq == 0 {
		panic("memory controller frequencies cannot be 0")
	}

	if b.requestQueueSize <= 0 || b.responseQueueSize <= 0 {
		panic("memory controller queue sizes must be positive")
	}

	c := &Comp{
		ComponentBase:     sim.NewComponentBase(name),
		timeTeller:        b.timeTeller,
		fabricFreq:        b.fabricFreq,
		freq:              b.freq,
		requestQueueSize:  b.requestQueueSize,
		responseQueueSize: b.responseQueueSize,
		addressRange:      b.addressRange,
		inflight:          make(map[string]*pending),
	}

	c.tSocket = transport.NewTargetSocket(name+".TSocket", c)
	c.iSocket = transport.NewInitiatorSocket(name+".ISocket", c)

	return c
}
