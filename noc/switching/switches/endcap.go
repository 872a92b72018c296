package switches

import (
	"log"

	"github.com/sarchlab/butterfly/mem"
	"github.com/sarchlab/butterfly/noc/transport"
	"github.com/sarchlab/butterfly/sim"
)

// EndCap terminates one end of the linear fabric. Requests only reach an end
// cap when their address is outside the memory, so it answers all of them
// with an address error.
type EndCap struct {
	*sim.ComponentBase

	tSocket *transport.TargetSocket
	iSocket *transport.InitiatorSocket

	numRejected uint64
}

// NewEndCap creates an end cap.
func NewEndCap(name string) *EndCap {
	e := &EndCap{ComponentBase: sim.NewComponentBase(name)}
	e.tSocket = transport.NewTargetSocket(name+".TSocket", e)
	e.iSocket = transport.NewInitiatorSocket(name+".ISocket", e)

	return e
}

// TargetSocket returns the socket that stray requests arrive on.
func (e *EndCap) TargetSocket() *transport.TargetSocket {
	return e.tSocket
}

// InitiatorSocket returns the socket bound toward the chain. Nothing is ever
// sent through it.
func (e *EndCap) InitiatorSocket() *transport.InitiatorSocket {
	return e.iSocket
}

// NumRejected returns the number of requests answered with an address error.
func (e *EndCap) NumRejected() uint64 {
	return e.numRejected
}

// TransportFW answers a request with an address error.
func (e *EndCap) TransportFW(
	_ int,
	tx *mem.Transaction,
	phase *transport.Phase,
	_ *sim.VTimeInSec,
) transport.SyncResult {
	if *phase != transport.BeginReq {
		log.Panicf("%s: unexpected phase %s", e.Name(), *phase)
	}

	e.numRejected++
	tx.Status = mem.StatusAddressError
	*phase = transport.BeginResp

	return transport.Completed
}

// TransportBW is never expected, since an end cap never sends requests.
func (e *EndCap) TransportBW(
	_ int,
	tx *mem.Transaction,
	_ *transport.Phase,
	_ *sim.VTimeInSec,
) transport.SyncResult {
	log.Panicf("%s: end cap received reply for %s", e.Name(), tx.ID)

	return transport.Rejected
}
