// Package memcontroller provides the endpoint that sits beneath a linear
// switch and hands requests over to the memory backend.
package memcontroller

import (
	"fmt"
	"log"

	"github.com/sarchlab/butterfly/mem"
	"github.com/sarchlab/butterfly/noc/transport"
	"github.com/sarchlab/butterfly/sim"
)

type pending struct {
	in         int
	responding bool
}

// Comp is a memory controller endpoint. It has no bank or timing model. It
// only bounds the number of transactions in flight and moves them between
// the fabric clock domain and its own.
type Comp struct {
	*sim.ComponentBase

	timeTeller        sim.TimeTeller
	fabricFreq        sim.Freq
	freq              sim.Freq
	requestQueueSize  int
	responseQueueSize int
	addressRange      mem.AddressRange

	tSocket *transport.TargetSocket
	iSocket *transport.InitiatorSocket

	inflight       map[string]*pending
	numOutstanding int
	numResponding  int
	numServed      uint64
}

// TargetSocket returns the socket that the owning switch binds to.
func (c *Comp) TargetSocket() *transport.TargetSocket {
	return c.tSocket
}

// InitiatorSocket returns the socket bound toward the memory backend.
func (c *Comp) InitiatorSocket() *transport.InitiatorSocket {
	return c.iSocket
}

// AddressRange returns the channel range that the controller serves.
func (c *Comp) AddressRange() mem.AddressRange {
	return c.addressRange
}

// NumOutstanding returns the number of requests waiting for the backend.
func (c *Comp) NumOutstanding() int {
	return c.numOutstanding
}

// NumResponding returns the number of replies the switch has not finished
// taking.
func (c *Comp) NumResponding() int {
	return c.numResponding
}

// RequestQueueSize returns how many requests can wait for the backend.
func (c *Comp) RequestQueueSize() int {
	return c.requestQueueSize
}

// NumServed returns the number of transactions that have completed.
func (c *Comp) NumServed() uint64 {
	return c.numServed
}

// TransportFW handles requests coming down from the owning switch.
func (c *Comp) TransportFW(
	id int,
	tx *mem.Transaction,
	phase *transport.Phase,
	delay *sim.VTimeInSec,
) transport.SyncResult {
	switch *phase {
	case transport.BeginReq:
		return c.acceptRequest(id, tx, phase, delay)
	case transport.EndResp:
		c.mustBeInflight(tx)
		result := c.iSocket.Forward(0, tx, phase, delay)
		c.finish(tx)

		return result
	default:
		log.Panicf("%s: unexpected phase %s on the forward path",
			c.Name(), *phase)
	}

	return transport.Rejected
}

// TransportBW handles replies coming up from the backend.
func (c *Comp) TransportBW(
	_ int,
	tx *mem.Transaction,
	phase *transport.Phase,
	delay *sim.VTimeInSec,
) transport.SyncResult {
	p := c.mustBeInflight(tx)

	switch *phase {
	case transport.EndReq:
		return c.tSocket.Backward(p.in, tx, phase, delay)
	case transport.BeginResp:
		return c.returnResponse(p, tx, phase, delay)
	default:
		log.Panicf("%s: unexpected phase %s on the backward path",
			c.Name(), *phase)
	}

	return transport.Rejected
}

func (c *Comp) acceptRequest(
	in int,
	tx *mem.Transaction,
	phase *transport.Phase,
	delay *sim.VTimeInSec,
) transport.SyncResult {
	if c.numOutstanding >= c.requestQueueSize {
		return transport.Rejected
	}

	c.inflight[tx.ID] = &pending{in: in}
	c.numOutstanding++

	c.crossInto(c.freq, delay)
	result := c.iSocket.Forward(0, tx, phase, delay)

	switch result {
	case transport.Rejected:
		delete(c.inflight, tx.ID)
		c.numOutstanding--
	case transport.Completed:
		c.crossInto(c.fabricFreq, delay)
		c.finish(tx)
	}

	return result
}

func (c *Comp) returnResponse(
	p *pending,
	tx *mem.Transaction,
	phase *transport.Phase,
	delay *sim.VTimeInSec,
) transport.SyncResult {
	if c.numResponding >= c.responseQueueSize {
		return transport.Rejected
	}

	c.crossInto(c.fabricFreq, delay)
	result := c.tSocket.Backward(p.in, tx, phase, delay)

	switch {
	case result == transport.Rejected:
	case result == transport.Completed,
		result == transport.Updated && *phase == transport.EndResp:
		c.finish(tx)
	default:
		p.responding = true
		c.numResponding++
	}

	return result
}

// crossInto moves the delay annotation onto the next edge of the target
// clock, plus one synchronizer cycle.
func (c *Comp) crossInto(f sim.Freq, delay *sim.VTimeInSec) {
	now := c.timeTeller.CurrentTime()
	edge := f.ThisTick(now + *delay)
	*delay = edge + f.Period() - now
}

func (c *Comp) finish(tx *mem.Transaction) {
	p, found := c.inflight[tx.ID]
	if !found {
		return
	}

	if p.responding {
		c.numResponding--
	}

	delete(c.inflight, tx.ID)
	c.numOutstanding--
	c.numServed++
}

func (c *Comp) mustBeInflight(tx *mem.Transaction) *pending {
	p, found := c.inflight[tx.ID]
	if !found {
		panic(fmt.Sprintf("%s: transaction %s is not in flight", c.Name(), tx.ID))
	}

	return p
}
