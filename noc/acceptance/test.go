// Package acceptance drives random traffic through an interconnect and
// checks that every reply comes back where its request left.
package acceptance

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"

	"github.com/sarchlab/butterfly/mem"
	"github.com/sarchlab/butterfly/sim"
)

// A Drainer delivers replies that a backend has deferred.
type Drainer interface {
	Drain() int
}

type sentTx struct {
	agent *Agent
	port  int
}

// Test is a test case.
type Test struct {
	rng        *rand.Rand
	maxAddress uint64

	lock sync.Locker

	agents      []*Agent
	sent        map[string]sentTx
	received    map[string]bool
	numStatusOK uint64
}

// NewTest creates a test that accesses addresses below maxAddress.
func NewTest(maxAddress uint64, seed int64) *Test {
	return &Test{
		rng:        rand.New(rand.NewSource(seed)),
		maxAddress: maxAddress,
		sent:       make(map[string]sentTx),
		received:   make(map[string]bool),
	}
}

// UseLock makes Run hold l during every round, so that others can read the
// components between rounds.
func (t *Test) UseLock(l sync.Locker) {
	t.lock = l
}

// RegisterAgent adds an agent to the Test
func (t *Test) RegisterAgent(agent *Agent) {
	t.agents = append(t.agents, agent)
}

var accessSizes = []uint64{4, 8, 16, 32, 64}

// GenerateTransactions generates n transactions from random ports to random
// addresses. Accesses are aligned to their size.
func (t *Test) GenerateTransactions(n uint64) {
	for i := uint64(0); i < n; i++ {
		agent := t.agents[t.rng.Intn(len(t.agents))]
		port := t.rng.Intn(agent.NumPorts())
		size := accessSizes[t.rng.Intn(len(accessSizes))]
		if size > t.maxAddress {
			size = t.maxAddress
		}

		address := t.rng.Uint64() % (t.maxAddress / size) * size

		builder := mem.TransactionBuilder{}.WithAddress(address)
		if t.rng.Intn(2) == 0 {
			builder = builder.WithCommand(mem.CommandRead).WithByteSize(size)
		} else {
			data := make([]byte, size)
			t.rng.Read(data)
			builder = builder.WithCommand(mem.CommandWrite).WithData(data)
		}

		tx := builder.Build()
		agent.TxsToSend[port] = append(agent.TxsToSend[port], tx)
		t.sent[tx.ID] = sentTx{agent: agent, port: port}
	}
}

func (t *Test) receiveTransaction(a *Agent, port int, tx *mem.Transaction) {
	s, found := t.sent[tx.ID]
	if !found {
		panic(fmt.Sprintf("transaction %s was never sent", tx.ID))
	}

	if s.agent != a || s.port != port {
		panic(fmt.Sprintf("transaction %s sent from %s port %d "+
			"returned to %s port %d", tx.ID, s.agent.Name(), s.port,
			a.Name(), port))
	}

	if t.received[tx.ID] {
		panic(fmt.Sprintf("transaction %s is double delivered", tx.ID))
	}

	t.received[tx.ID] = true

	if tx.IsResponseOK() {
		t.numStatusOK++
	}
}

// NumSent returns the number of transactions generated.
func (t *Test) NumSent() int {
	return len(t.sent)
}

// NumReceived returns the number of replies received.
func (t *Test) NumReceived() int {
	return len(t.received)
}

// NumStatusOK returns the number of replies that completed without error.
func (t *Test) NumStatusOK() uint64 {
	return t.numStatusOK
}

// Done tells if every transaction has been answered.
func (t *Test) Done() bool {
	return len(t.received) == len(t.sent)
}

// Run ticks the agents and drains the backends, advancing the clock by step
// after each round, until every transaction is answered. It fails if a round
// makes no progress.
func (t *Test) Run(
	clock *sim.ManualClock,
	step sim.VTimeInSec,
	drainers ...Drainer,
) error {
	for !t.Done() {
		if !t.round(clock, step, drainers) {
			return errors.New("no progress can be made, " +
				"some transactions can never complete")
		}
	}

	return nil
}

func (t *Test) round(
	clock *sim.ManualClock,
	step sim.VTimeInSec,
	drainers []Drainer,
) bool {
	if t.lock != nil {
		t.lock.Lock()
		defer t.lock.Unlock()
	}

	madeProgress := false

	for _, a := range t.agents {
		madeProgress = a.Tick() || madeProgress
	}

	clock.Advance(step)

	for _, d := range drainers {
		madeProgress = d.Drain() > 0 || madeProgress
	}

	return madeProgress
}

// MustHaveReceivedAllTransactions asserts that all the transactions sent
// are answered.
func (t *Test) MustHaveReceivedAllTransactions() {
	if t.Done() {
		return
	}

	for id := range t.sent {
		if !t.received[id] {
			log.Printf("transaction %s expected, but not received\n", id)
		}
	}

	panic("some transactions are dropped")
}

// ReportBandwidthAchieved dumps the bandwidth observed by each agent.
func (t *Test) ReportBandwidthAchieved(now sim.VTimeInSec) {
	if now <= 0 {
		return
	}

	for _, a := range t.agents {
		log.Printf(
			"agent %s, send bandwidth %.2f GB/s, recv bandwidth %.2f GB/s, "+
				"%d rejected",
			a.Name(),
			float64(a.sendBytes)/float64(now)/1e9,
			float64(a.recvBytes)/float64(now)/1e9,
			a.numRejected)
	}
}
