// Package transport defines the two-phase handshake that every node of the
// interconnect speaks, and the sockets that nodes are bound together with.
package transport

import (
	"fmt"

	"github.com/sarchlab/butterfly/mem"
	"github.com/sarchlab/butterfly/sim"
)

// Phase is the handshake stage of a transaction.
type Phase int

// Handshake phases.
const (
	BeginReq Phase = iota
	EndReq
	BeginResp
	EndResp
)

func (p Phase) String() string {
	switch p {
	case BeginReq:
		return "BEGIN_REQ"
	case EndReq:
		return "END_REQ"
	case BeginResp:
		return "BEGIN_RESP"
	case EndResp:
		return "END_RESP"
	default:
		return fmt.Sprintf("PHASE(%d)", int(p))
	}
}

// IsRequest tells if the phase travels on the forward path.
func (p Phase) IsRequest() bool {
	return p == BeginReq || p == EndReq
}

// SyncResult tells the caller what happened to a transport call.
type SyncResult int

// Possible transport results.
const (
	// Accepted means the callee took the transaction. The completion arrives
	// later as a call on the opposite path of the same link.
	Accepted SyncResult = iota

	// Updated means the callee moved the phase forward in place.
	Updated

	// Completed means the transaction finished during the call.
	Completed

	// Rejected means the callee could not take the transaction now.
	Rejected
)

func (r SyncResult) String() string {
	switch r {
	case Accepted:
		return "ACCEPTED"
	case Updated:
		return "UPDATED"
	case Completed:
		return "COMPLETED"
	case Rejected:
		return "REJECTED"
	default:
		return fmt.Sprintf("SYNC(%d)", int(r))
	}
}

// ForwardHandler receives requests on the numbered links of a target socket.
type ForwardHandler interface {
	TransportFW(
		id int,
		tx *mem.Transaction,
		phase *Phase,
		delay *sim.VTimeInSec,
	) SyncResult
}

// BackwardHandler receives replies on the numbered links of an initiator
// socket.
type BackwardHandler interface {
	TransportBW(
		id int,
		tx *mem.Transaction,
		phase *Phase,
		delay *sim.VTimeInSec,
	) SyncResult
}

// ForwardHandlerFunc adapts a function to a ForwardHandler.
type ForwardHandlerFunc func(
	id int,
	tx *mem.Transaction,
	phase *Phase,
	delay *sim.VTimeInSec,
) SyncResult

// TransportFW calls f.
func (f ForwardHandlerFunc) TransportFW(
	id int,
	tx *mem.Transaction,
	phase *Phase,
	delay *sim.VTimeInSec,
) SyncResult {
	return f(id, tx, phase, delay)
}

// BackwardHandlerFunc adapts a function to a BackwardHandler.
type BackwardHandlerFunc func(
	id int,
	tx *mem.Transaction,
	phase *Phase,
	delay *sim.VTimeInSec,
) SyncResult

// TransportBW calls f.
func (f BackwardHandlerFunc) TransportBW(
	id int,
	tx *mem.Transaction,
	phase *Phase,
	delay *sim.VTimeInSec,
) SyncResult {
	return f(id, tx, phase, delay)
}
