// Package idealmemcontroller provides a memory backend that serves every
// request after a fixed latency.
package idealmemcontroller

import (
	"log"

	"github.com/sarchlab/butterfly/mem"
	"github.com/sarchlab/butterfly/noc/transport"
	"github.com/sarchlab/butterfly/sim"
)

// Mode selects how the controller returns replies.
type Mode int

// Modes of the controller.
const (
	// Immediate replies in the same call that carries the request.
	Immediate Mode = iota

	// Deferred accepts requests and replies on the backward path when Drain
	// is called.
	Deferred
)

type reply struct {
	port  int
	tx    *mem.Transaction
	ready sim.VTimeInSec
}

// A Comp is an ideal memory controller that can perform read and write.
// It always responds after a fixed number of cycles and has no limitation on
// concurrency.
type Comp struct {
	*sim.ComponentBase

	timeTeller sim.TimeTeller
	topPort    *transport.TargetSocket
	Latency    int
	freq       sim.Freq
	capacity   uint64
	mode       Mode

	storage map[uint64]byte
	replies []reply

	numRead    uint64
	numWritten uint64
}

// TopPort returns the socket that requests arrive on.
func (c *Comp) TopPort() *transport.TargetSocket {
	return c.topPort
}

// Mode returns how the controller replies.
func (c *Comp) Mode() Mode {
	return c.mode
}

// NumPending returns the number of replies waiting for Drain.
func (c *Comp) NumPending() int {
	return len(c.replies)
}

// NumRead returns the number of read requests served.
func (c *Comp) NumRead() uint64 {
	return c.numRead
}

// NumWritten returns the number of write requests served.
func (c *Comp) NumWritten() uint64 {
	return c.numWritten
}

// Read returns the stored bytes. Bytes never written read as zero.
func (c *Comp) Read(address, byteSize uint64) []byte {
	data := make([]byte, byteSize)
	for i := range data {
		data[i] = c.storage[address+uint64(i)]
	}

	return data
}

// Write stores data starting from address.
func (c *Comp) Write(address uint64, data []byte) {
	for i, b := range data {
		c.storage[address+uint64(i)] = b
	}
}

// TransportFW serves a request arriving on port id.
func (c *Comp) TransportFW(
	id int,
	tx *mem.Transaction,
	phase *transport.Phase,
	delay *sim.VTimeInSec,
) transport.SyncResult {
	switch *phase {
	case transport.BeginReq:
	case transport.EndResp:
		return transport.Completed
	default:
		log.Panicf("%s: unexpected phase %s", c.Name(), *phase)
	}

	c.serve(tx)

	latency := c.freq.NCycles(uint64(c.Latency))

	if c.mode == Deferred {
		c.replies = append(c.replies, reply{
			port:  id,
			tx:    tx,
			ready: c.timeTeller.CurrentTime() + *delay + latency,
		})

		return transport.Accepted
	}

	*phase = transport.BeginResp
	*delay += latency

	return transport.Completed
}

// TransportBW is not used, as the controller never issues requests.
func (c *Comp) TransportBW(
	_ int,
	tx *mem.Transaction,
	_ *transport.Phase,
	_ *sim.VTimeInSec,
) transport.SyncResult {
	log.Panicf("%s: unexpected reply %s", c.Name(), tx.ID)
	return transport.Rejected
}

func (c *Comp) serve(tx *mem.Transaction) {
	if tx.Address+tx.ByteSize > c.capacity || tx.Address+tx.ByteSize < tx.Address {
		tx.Status = mem.StatusAddressError
		return
	}

	if tx.IsRead() {
		tx.Data = c.Read(tx.Address, tx.ByteSize)
		c.numRead++
	} else {
		c.Write(tx.Address, tx.Data)
		c.numWritten++
	}

	tx.Status = mem.StatusOK
}

// Drain sends all deferred replies back in the order their requests arrived.
// Replies that are rejected stay queued for the next Drain. It returns the
// number of replies delivered.
func (c *Comp) Drain() int {
	now := c.timeTeller.CurrentTime()
	delivered := 0
	remaining := c.replies[:0]

	for _, r := range c.replies {
		phase := transport.BeginResp
		delay := sim.VTimeInSec(0)

		if r.ready > now {
			delay = r.ready - now
		}

		if c.topPort.Backward(r.port, r.tx, &phase, &delay) == transport.Rejected {
			remaining = append(remaining, r)
			continue
		}

		delivered++
	}

	c.replies = remaining

	return delivered
}
