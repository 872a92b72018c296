package acceptance

import (
	"fmt"

	"github.com/sarchlab/butterfly/mem"
	"github.com/sarchlab/butterfly/noc/transport"
	"github.com/sarchlab/butterfly/sim"
)

// Agent issues transactions on the initiator side of an interconnect. It
// owns one link per port.
type Agent struct {
	*sim.ComponentBase

	test   *Test
	socket *transport.InitiatorSocket

	TxsToSend [][]*mem.Transaction
	pending   map[string]int

	sendBytes   uint64
	recvBytes   uint64
	numRejected uint64
}

// NewAgent creates a new agent.
func NewAgent(name string, test *Test) *Agent {
	a := &Agent{
		ComponentBase: sim.NewComponentBase(name),
		test:          test,
		pending:       make(map[string]int),
	}
	a.socket = transport.NewInitiatorSocket(name+".ISocket", a)

	return a
}

// BindTo links the agent to numPorts consecutive ports of target.
func (a *Agent) BindTo(target *transport.TargetSocket, numPorts int) {
	transport.BindN(a.socket, target, numPorts)

	for len(a.TxsToSend) < a.socket.Size() {
		a.TxsToSend = append(a.TxsToSend, nil)
	}
}

// NumPorts returns the number of links of the agent.
func (a *Agent) NumPorts() int {
	return a.socket.Size()
}

// NumPending returns the number of transactions waiting for replies.
func (a *Agent) NumPending() int {
	return len(a.pending)
}

// NumToSend returns the number of transactions not issued yet.
func (a *Agent) NumToSend() int {
	n := 0
	for _, txs := range a.TxsToSend {
		n += len(txs)
	}

	return n
}

// NumRejected returns how many times the interconnect refused a request.
func (a *Agent) NumRejected() uint64 {
	return a.numRejected
}

// Tick tries to issue the next transaction on every port. It returns true if
// any transaction was issued.
func (a *Agent) Tick() bool {
	madeProgress := false

	for port := range a.TxsToSend {
		madeProgress = a.send(port) || madeProgress
	}

	return madeProgress
}

func (a *Agent) send(port int) bool {
	if len(a.TxsToSend[port]) == 0 {
		return false
	}

	tx := a.TxsToSend[port][0]
	phase := transport.BeginReq
	delay := sim.VTimeInSec(0)

	result := a.socket.Forward(port, tx, &phase, &delay)
	if result == transport.Rejected {
		a.numRejected++
		return false
	}

	a.TxsToSend[port] = a.TxsToSend[port][1:]
	a.sendBytes += tx.ByteSize

	if result == transport.Completed ||
		(result == transport.Updated && phase != transport.EndReq) {
		a.receive(port, tx)
		return true
	}

	a.pending[tx.ID] = port

	return true
}

// TransportBW receives a reply on a port.
func (a *Agent) TransportBW(
	id int,
	tx *mem.Transaction,
	phase *transport.Phase,
	_ *sim.VTimeInSec,
) transport.SyncResult {
	if *phase != transport.BeginResp {
		return transport.Accepted
	}

	port, found := a.pending[tx.ID]
	if !found {
		panic(fmt.Sprintf("%s: unexpected reply %s", a.Name(), tx.ID))
	}

	if port != id {
		panic(fmt.Sprintf("%s: reply %s sent on port %d arrived on port %d",
			a.Name(), tx.ID, port, id))
	}

	delete(a.pending, tx.ID)
	a.receive(id, tx)

	return transport.Completed
}

func (a *Agent) receive(port int, tx *mem.Transaction) {
	if tx.IsResponseOK() {
		a.recvBytes += tx.ByteSize
	}

	a.test.receiveTransaction(a, port, tx)
}
