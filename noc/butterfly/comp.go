// Package butterfly builds the two-stage interconnect and provides the
// boundary object that the rest of a simulation talks to.
//
// Initiators bind to the target socket of a Comp and memory backends are
// bound from its initiator socket. Port k of either side is linked to the
// k-th binding. Inside, port k of the initiator side reaches link k%8 of
// crossbar node k/8, and port k of the backend side belongs to memory
// controller k.
package butterfly

import (
	"github.com/sarchlab/butterfly/analysis"
	"github.com/sarchlab/butterfly/config"
	"github.com/sarchlab/butterfly/mem"
	"github.com/sarchlab/butterfly/mem/memcontroller"
	"github.com/sarchlab/butterfly/noc/addressing"
	"github.com/sarchlab/butterfly/noc/switching/switches"
	"github.com/sarchlab/butterfly/noc/transport"
	"github.com/sarchlab/butterfly/sim"
)

// Hook positions of the four dispatch operations.
var (
	HookPosForwardRequest      = &sim.HookPos{Name: "ForwardRequest"}
	HookPosBackwardReply       = &sim.HookPos{Name: "BackwardReply"}
	HookPosForwardToBackend    = &sim.HookPos{Name: "ForwardToBackend"}
	HookPosBackwardFromBackend = &sim.HookPos{Name: "BackwardFromBackend"}
)

// Dispatch is the hook detail of a dispatch operation. It is reported after
// the call returns.
type Dispatch struct {
	Port          int
	Phase         transport.Phase
	Delay         sim.VTimeInSec
	Result        transport.SyncResult
	ReturnedPhase transport.Phase
	ReturnedDelay sim.VTimeInSec
}

// Comp is the transaction multiplexer. It routes by port id only and never
// looks at addresses.
type Comp struct {
	*sim.ComponentBase

	timeTeller sim.TimeTeller
	config     config.Config
	layout     *addressing.Layout
	strategy   BindingStrategy
	numPorts   int

	tSocket        *transport.TargetSocket
	iSocket        *transport.InitiatorSocket
	innerInitiator *transport.InitiatorSocket
	innerTarget    *transport.TargetSocket

	linearSwitches   []*switches.Comp
	leftEnd          *switches.EndCap
	rightEnd         *switches.EndCap
	memControllers   []*memcontroller.Comp
	crossbarSwitches []*switches.Comp
}

func newComp(name string, timeTeller sim.TimeTeller, numPorts int) *Comp {
	c := &Comp{
		ComponentBase: sim.NewComponentBase(name),
		timeTeller:    timeTeller,
		numPorts:      numPorts,
	}

	c.tSocket = transport.NewTargetSocket(name+".TSocket",
		transport.ForwardHandlerFunc(c.ForwardRequest))
	c.iSocket = transport.NewInitiatorSocket(name+".ISocket",
		transport.BackwardHandlerFunc(c.BackwardFromBackend))
	c.innerInitiator = transport.NewInitiatorSocket(name+".InnerInitiator",
		transport.BackwardHandlerFunc(c.BackwardReply))
	c.innerTarget = transport.NewTargetSocket(name+".InnerTarget",
		transport.ForwardHandlerFunc(c.ForwardToBackend))

	return c
}

// TargetSocket returns the socket that initiators bind to.
func (c *Comp) TargetSocket() *transport.TargetSocket {
	return c.tSocket
}

// InitiatorSocket returns the socket that binds to the memory backend.
func (c *Comp) InitiatorSocket() *transport.InitiatorSocket {
	return c.iSocket
}

// NumPorts returns the number of ports on each side.
func (c *Comp) NumPorts() int {
	return c.numPorts
}

// Config returns the configuration that the interconnect was built from.
func (c *Comp) Config() config.Config {
	return c.config
}

// Layout returns the address partition of the interconnect.
func (c *Comp) Layout() *addressing.Layout {
	return c.layout
}

// BindingStrategy returns how crossbar nodes were bound to linear switches.
func (c *Comp) BindingStrategy() BindingStrategy {
	return c.strategy
}

// LinearSwitches returns the switches of the linear fabric in chain order.
func (c *Comp) LinearSwitches() []*switches.Comp {
	return c.linearSwitches
}

// EndCaps returns the left and the right end of the chain.
func (c *Comp) EndCaps() (left, right *switches.EndCap) {
	return c.leftEnd, c.rightEnd
}

// MemoryControllers returns the controllers. Controller m serves backend
// port m.
func (c *Comp) MemoryControllers() []*memcontroller.Comp {
	return c.memControllers
}

// CrossbarSwitches returns the nodes of the crossbar fabric.
func (c *Comp) CrossbarSwitches() []*switches.Comp {
	return c.crossbarSwitches
}

// Validate checks that both external sides have exactly one link per port.
// It should be called after initiators and backends are bound.
func (c *Comp) Validate() error {
	return checkSockets(c.numPorts,
		c.tSocket, c.iSocket, c.innerInitiator, c.innerTarget)
}

// Report reduces the counters of the crossbar nodes.
func (c *Comp) Report() analysis.Report {
	readers := make([]analysis.CounterReader, 0, len(c.crossbarSwitches))
	for _, s := range c.crossbarSwitches {
		readers = append(readers, s)
	}

	return analysis.Reduce(readers)
}

// ForwardRequest sends a request that arrived on initiator-facing port id
// into the crossbar fabric.
func (c *Comp) ForwardRequest(
	id int,
	tx *mem.Transaction,
	phase *transport.Phase,
	delay *sim.VTimeInSec,
) transport.SyncResult {
	return c.dispatch(HookPosForwardRequest, id, tx, phase, delay,
		c.innerInitiator.Forward)
}

// BackwardReply sends a reply from the crossbar fabric out on
// initiator-facing port id.
func (c *Comp) BackwardReply(
	id int,
	tx *mem.Transaction,
	phase *transport.Phase,
	delay *sim.VTimeInSec,
) transport.SyncResult {
	return c.dispatch(HookPosBackwardReply, id, tx, phase, delay,
		c.tSocket.Backward)
}

// ForwardToBackend sends a request from memory controller id out on backend
// port id.
func (c *Comp) ForwardToBackend(
	id int,
	tx *mem.Transaction,
	phase *transport.Phase,
	delay *sim.VTimeInSec,
) transport.SyncResult {
	return c.dispatch(HookPosForwardToBackend, id, tx, phase, delay,
		c.iSocket.Forward)
}

// BackwardFromBackend sends a reply that arrived on backend port id to
// memory controller id.
func (c *Comp) BackwardFromBackend(
	id int,
	tx *mem.Transaction,
	phase *transport.Phase,
	delay *sim.VTimeInSec,
) transport.SyncResult {
	return c.dispatch(HookPosBackwardFromBackend, id, tx, phase, delay,
		c.innerTarget.Backward)
}

type sendFunc func(
	int, *mem.Transaction, *transport.Phase, *sim.VTimeInSec,
) transport.SyncResult

func (c *Comp) dispatch(
	pos *sim.HookPos,
	id int,
	tx *mem.Transaction,
	phase *transport.Phase,
	delay *sim.VTimeInSec,
	send sendFunc,
) transport.SyncResult {
	if c.NumHooks() == 0 {
		return send(id, tx, phase, delay)
	}

	detail := Dispatch{Port: id, Phase: *phase, Delay: *delay}

	detail.Result = send(id, tx, phase, delay)
	detail.ReturnedPhase = *phase
	detail.ReturnedDelay = *delay

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Now:    c.timeTeller.CurrentTime(),
		Pos:    pos,
		Item:   tx,
		Detail: detail,
	})

	return detail.Result
}
