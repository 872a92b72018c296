// Package switches provides the routing nodes of the interconnect.
//
// A switch has one target socket that requests arrive on and one initiator
// socket that requests leave through. Replies travel the same links in the
// opposite direction. The switch only knows its routing table; it has no view
// of the rest of the fabric.
//
// All calls happen on a single simulated timeline, so the counters are plain
// fields. Readers on other goroutines must hold the lock that the traffic
// driver holds while it calls into the fabric.
package switches

import (
	"fmt"
	"log"

	"github.com/sarchlab/butterfly/mem"
	"github.com/sarchlab/butterfly/noc/routing"
	"github.com/sarchlab/butterfly/noc/transport"
	"github.com/sarchlab/butterfly/sim"
)

// Unit is what the rest of the fabric needs from a routing node.
type Unit interface {
	sim.Named

	TargetSocket() *transport.TargetSocket
	InitiatorSocket() *transport.InitiatorSocket

	ProcessedBytes() uint64
	FirstVisited() bool
	FirstArrival() sim.VTimeInSec
	LastDeparture() sim.VTimeInSec
}

// flow remembers which links a transaction came in and went out on.
type flow struct {
	in, out    int
	responding bool
}

// Comp is a switch that forwards requests according to an address table.
type Comp struct {
	*sim.ComponentBase

	timeTeller        sim.TimeTeller
	freq              sim.Freq
	busWidth          uint64
	requestQueueSize  int
	responseQueueSize int
	routingTable      routing.Table

	tSocket *transport.TargetSocket
	iSocket *transport.InitiatorSocket

	flows          map[string]*flow
	numOutstanding int
	numResponding  int

	processedBytes uint64
	firstVisited   bool
	firstArrival   sim.VTimeInSec
	lastDeparture  sim.VTimeInSec
}

// TargetSocket returns the socket that requests arrive on.
func (c *Comp) TargetSocket() *transport.TargetSocket {
	return c.tSocket
}

// InitiatorSocket returns the socket that requests leave through.
func (c *Comp) InitiatorSocket() *transport.InitiatorSocket {
	return c.iSocket
}

// GetRoutingTable returns the routing table used by the switch.
func (c *Comp) GetRoutingTable() routing.Table {
	return c.routingTable
}

// ProcessedBytes returns the number of bytes of completed transactions.
func (c *Comp) ProcessedBytes() uint64 {
	return c.processedBytes
}

// FirstVisited tells if the switch has seen any transaction.
func (c *Comp) FirstVisited() bool {
	return c.firstVisited
}

// FirstArrival returns when the first request arrived.
func (c *Comp) FirstArrival() sim.VTimeInSec {
	return c.firstArrival
}

// LastDeparture returns when the last transaction completed.
func (c *Comp) LastDeparture() sim.VTimeInSec {
	return c.lastDeparture
}

// NumOutstanding returns the number of requests waiting for a reply.
func (c *Comp) NumOutstanding() int {
	return c.numOutstanding
}

// NumResponding returns the number of replies waiting for the end of
// response.
func (c *Comp) NumResponding() int {
	return c.numResponding
}

// RequestQueueSize returns how many requests can wait for a reply.
func (c *Comp) RequestQueueSize() int {
	return c.requestQueueSize
}

// TransportFW handles requests arriving on link id of the target socket.
func (c *Comp) TransportFW(
	id int,
	tx *mem.Transaction,
	phase *transport.Phase,
	delay *sim.VTimeInSec,
) transport.SyncResult {
	switch *phase {
	case transport.BeginReq:
		return c.startRequest(id, tx, phase, delay)
	case transport.EndResp:
		return c.finishResponse(tx, phase, delay)
	default:
		log.Panicf("%s: unexpected phase %s on the forward path",
			c.Name(), *phase)
	}

	return transport.Rejected
}

// TransportBW handles replies arriving on link id of the initiator socket.
func (c *Comp) TransportBW(
	_ int,
	tx *mem.Transaction,
	phase *transport.Phase,
	delay *sim.VTimeInSec,
) transport.SyncResult {
	f := c.mustFindFlow(tx)

	switch *phase {
	case transport.EndReq:
		return c.tSocket.Backward(f.in, tx, phase, delay)
	case transport.BeginResp:
		return c.startResponse(f, tx, phase, delay)
	default:
		log.Panicf("%s: unexpected phase %s on the backward path",
			c.Name(), *phase)
	}

	return transport.Rejected
}

func (c *Comp) startRequest(
	in int,
	tx *mem.Transaction,
	phase *transport.Phase,
	delay *sim.VTimeInSec,
) transport.SyncResult {
	if c.numOutstanding >= c.requestQueueSize {
		return transport.Rejected
	}

	c.markArrival(c.now(*delay))

	out, found := c.routingTable.FindPort(tx.Address)
	if !found {
		tx.Status = mem.StatusAddressError
		*phase = transport.BeginResp
		c.markDeparture(c.now(*delay))

		return transport.Completed
	}

	*delay += c.transferTime(tx, true)

	f := &flow{in: in, out: out}
	c.flows[tx.ID] = f
	c.numOutstanding++

	result := c.iSocket.Forward(out, tx, phase, delay)

	switch result {
	case transport.Rejected:
		delete(c.flows, tx.ID)
		c.numOutstanding--
	case transport.Completed:
		*delay += c.transferTime(tx, false)
		c.complete(tx, *delay)
	}

	return result
}

func (c *Comp) startResponse(
	f *flow,
	tx *mem.Transaction,
	phase *transport.Phase,
	delay *sim.VTimeInSec,
) transport.SyncResult {
	if c.numResponding >= c.responseQueueSize {
		return transport.Rejected
	}

	*delay += c.transferTime(tx, false)

	result := c.tSocket.Backward(f.in, tx, phase, delay)

	switch {
	case result == transport.Rejected:
	case result == transport.Completed,
		result == transport.Updated && *phase == transport.EndResp:
		c.complete(tx, *delay)
	default:
		f.responding = true
		c.numResponding++
	}

	return result
}

func (c *Comp) finishResponse(
	tx *mem.Transaction,
	phase *transport.Phase,
	delay *sim.VTimeInSec,
) transport.SyncResult {
	f := c.mustFindFlow(tx)

	result := c.iSocket.Forward(f.out, tx, phase, delay)
	c.complete(tx, *delay)

	return result
}

func (c *Comp) complete(tx *mem.Transaction, delay sim.VTimeInSec) {
	f, found := c.flows[tx.ID]
	if found {
		if f.responding {
			c.numResponding--
		}

		delete(c.flows, tx.ID)
		c.numOutstanding--
	}

	if tx.IsResponseOK() {
		c.processedBytes += tx.ByteSize
	}

	c.markDeparture(c.now(delay))
}

func (c *Comp) mustFindFlow(tx *mem.Transaction) *flow {
	f, found := c.flows[tx.ID]
	if !found {
		panic(fmt.Sprintf("%s: transaction %s is not in flight", c.Name(), tx.ID))
	}

	return f
}

// transferTime returns how long the payload occupies the bus. Writes carry
// data on the request, reads on the response.
func (c *Comp) transferTime(tx *mem.Transaction, request bool) sim.VTimeInSec {
	bytes := uint64(0)
	if request == tx.IsWrite() {
		bytes = tx.ByteSize
	}

	return c.freq.NCycles(sim.CyclesToTransfer(bytes, c.busWidth))
}

func (c *Comp) now(delay sim.VTimeInSec) sim.VTimeInSec {
	return c.timeTeller.CurrentTime() + delay
}

func (c *Comp) markArrival(t sim.VTimeInSec) {
	if !c.firstVisited || t < c.firstArrival {
		c.firstArrival = t
	}

	c.firstVisited = true
}

func (c *Comp) markDeparture(t sim.VTimeInSec) {
	if t > c.lastDeparture {
		c.lastDeparture = t
	}
}
