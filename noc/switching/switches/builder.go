package switches

import (
	"github.com/sarchlab/butterfly/noc/routing"
	"github.com/sarchlab/butterfly/noc/transport"
	"github.com/sarchlab/butterfly/sim"
)

// Builder can help building switches
type Builder struct {
	timeTeller        sim.TimeTeller
	freq              sim.Freq
	busWidth          uint64
	requestQueueSize  int
	responseQueueSize int
	routingTable      routing.Table
}

// MakeBuilder creates a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		freq:              1 * sim.GHz,
		busWidth:          32,
		requestQueueSize:  8,
		responseQueueSize: 8,
	}
}

// WithTimeTeller sets the clock that the switch timestamps with.
func (b Builder) WithTimeTeller(t sim.TimeTeller) Builder {
	b.timeTeller = t
	return b
}

// WithFreq sets the frequency that the switch to build works at.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithBusWidth sets the number of bytes moved per cycle.
func (b Builder) WithBusWidth(bytes uint64) Builder {
	b.busWidth = bytes
	return b
}

// WithRequestQueueSize sets how many requests can wait for replies.
func (b Builder) WithRequestQueueSize(n int) Builder {
	b.requestQueueSize = n
	return b
}

// WithResponseQueueSize sets how many replies can wait to be acknowledged.
func (b Builder) WithResponseQueueSize(n int) Builder {
	b.responseQueueSize = n
	return b
}

// WithRoutingTable sets the routing table to be used by the switch to build.
func (b Builder) WithRoutingTable(rt routing.Table) Builder {
	b.routingTable = rt
	return b
}

// Build creates a new switch
func (b Builder) Build(name string) *Comp {
	b.timeTellerMustBeGiven()
	b.freqMustNotBeZero()
	b.busWidthMustNotBeZero()
	b.queueSizesMustBePositive()
	b.routingTableMustBeGiven()

	c := &Comp{
		ComponentBase:     sim.NewComponentBase(name),
		timeTeller:        b.timeTeller,
		freq:              b.freq,
		busWidth:          b.busWidth,
		requestQueueSize:  b.requestQueueSize,
		responseQueueSize: b.responseQueueSize,
		routingTable:      b.routingTable,
		flows:             make(map[string]*flow),
	}

	c.tSocket = transport.NewTargetSocket(name+".TSocket", c)
	c.iSocket = transport.NewInitiatorSocket(name+".ISocket", c)

	return c
}

func (b Builder) timeTellerMustBeGiven() {
	if b.timeTeller == nil {
		panic("switch requires a time teller")
	}
}

func (b Builder) freqMustNotBeZero() {
	if b.freq == 0 {
		panic("switch frequency cannot be 0")
	}
}

func (b Builder) busWidthMustNotBeZero() {
	if b.busWidth == 0 {
		panic("switch bus width cannot be 0")
	}
}

func (b Builder) queueSizesMustBePositive() {
	if b.requestQueueSize <= 0 || b.responseQueueSize <= 0 {
		panic("switch queue sizes must be positive")
	}
}

func (b Builder) routingTableMustBeGiven() {
	if b.routingTable == nil {
		panic("switch requires a routing table to operate")
	}
}
