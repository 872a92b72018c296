package butterfly

import (
	"fmt"
	"strings"
)

// PortCount compares the number of links a socket should have with the
// number it actually has.
type PortCount struct {
	Socket   string
	Declared int
	Bound    int
}

// TopologyError reports sockets whose link count differs from the number of
// ports of the interconnect.
type TopologyError struct {
	Mismatches []PortCount
}

func (e *TopologyError) Error() string {
	msgs := make([]string, 0, len(e.Mismatches))
	for _, m := range e.Mismatches {
		msgs = append(msgs, fmt.Sprintf("%s: %d links bound, %d declared",
			m.Socket, m.Bound, m.Declared))
	}

	return "topology invariant violated: " + strings.Join(msgs, "; ")
}

type socketSizer interface {
	Name() string
	Size() int
}

func checkSockets(declared int, sockets ...socketSizer) error {
	var mismatches []PortCount

	for _, s := range sockets {
		if s.Size() != declared {
			mismatches = append(mismatches, PortCount{
				Socket:   s.Name(),
				Declared: declared,
				Bound:    s.Size(),
			})
		}
	}

	if len(mismatches) > 0 {
		return &TopologyError{Mismatches: mismatches}
	}

	return nil
}
