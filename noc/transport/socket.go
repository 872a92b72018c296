package transport

import (
	"fmt"

	"github.com/sarchlab/butterfly/mem"
	"github.com/sarchlab/butterfly/sim"
)

// A Link is one bound connection between an initiator socket and a target
// socket. Each side knows the link by its own index.
type Link struct {
	Initiator      *InitiatorSocket
	InitiatorIndex int
	Target         *TargetSocket
	TargetIndex    int
}

// An InitiatorSocket sends requests out and receives replies back. A socket
// can be bound many times, and every binding adds one link.
type InitiatorSocket struct {
	name    string
	handler BackwardHandler
	links   []*Link
}

// NewInitiatorSocket creates an initiator socket whose replies go to handler.
func NewInitiatorSocket(name string, handler BackwardHandler) *InitiatorSocket {
	handlerMustBeGiven(name, handler)

	return &InitiatorSocket{name: name, handler: handler}
}

// Name returns the name of the socket.
func (s *InitiatorSocket) Name() string {
	return s.name
}

// Size returns the number of links bound.
func (s *InitiatorSocket) Size() int {
	return len(s.links)
}

// Link returns the i-th link.
func (s *InitiatorSocket) Link(i int) *Link {
	s.indexMustBeBound(i)
	return s.links[i]
}

// Forward sends a request out on link i.
func (s *InitiatorSocket) Forward(
	i int,
	tx *mem.Transaction,
	phase *Phase,
	delay *sim.VTimeInSec,
) SyncResult {
	s.indexMustBeBound(i)

	l := s.links[i]

	return l.Target.handler.TransportFW(l.TargetIndex, tx, phase, delay)
}

func (s *InitiatorSocket) indexMustBeBound(i int) {
	if i < 0 || i >= len(s.links) {
		panic(fmt.Sprintf("%s: link %d is not bound, %d links available",
			s.name, i, len(s.links)))
	}
}

// A TargetSocket receives requests and sends replies back.
type TargetSocket struct {
	name    string
	handler ForwardHandler
	links   []*Link
}

// NewTargetSocket creates a target socket whose requests go to handler.
func NewTargetSocket(name string, handler ForwardHandler) *TargetSocket {
	handlerMustBeGiven(name, handler)

	return &TargetSocket{name: name, handler: handler}
}

// Name returns the name of the socket.
func (s *TargetSocket) Name() string {
	return s.name
}

// Size returns the number of links bound.
func (s *TargetSocket) Size() int {
	return len(s.links)
}

// Link returns the i-th link.
func (s *TargetSocket) Link(i int) *Link {
	s.indexMustBeBound(i)
	return s.links[i]
}

// Backward sends a reply out on link i.
func (s *TargetSocket) Backward(
	i int,
	tx *mem.Transaction,
	phase *Phase,
	delay *sim.VTimeInSec,
) SyncResult {
	s.indexMustBeBound(i)

	l := s.links[i]

	return l.Initiator.handler.TransportBW(l.InitiatorIndex, tx, phase, delay)
}

func (s *TargetSocket) indexMustBeBound(i int) {
	if i < 0 || i >= len(s.links) {
		panic(fmt.Sprintf("%s: link %d is not bound, %d links available",
			s.name, i, len(s.links)))
	}
}

// Bind connects an initiator socket to a target socket with a new link. The
// link takes the next free index on both sockets.
func Bind(initiator *InitiatorSocket, target *TargetSocket) *Link {
	l := &Link{
		Initiator:      initiator,
		InitiatorIndex: len(initiator.links),
		Target:         target,
		TargetIndex:    len(target.links),
	}

	initiator.links = append(initiator.links, l)
	target.links = append(target.links, l)

	return l
}

// BindN binds the two sockets n times.
func BindN(initiator *InitiatorSocket, target *TargetSocket, n int) {
	for i := 0; i < n; i++ {
		Bind(initiator, target)
	}
}

func handlerMustBeGiven(name string, handler any) {
	if handler == nil {
		panic(fmt.Sprintf("socket %s requires a handler", name))
	}
}
