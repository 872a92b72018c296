// Package routing provides the address tables that switches route requests
// with.
package routing

import (
	"fmt"
	"math"

	"github.com/sarchlab/butterfly/mem"
)

// Table finds the output link for an address. A route may name several
// parallel links, which are then used in turn.
type Table interface {
	FindPort(address uint64) (port int, found bool)
	DefineRoute(r mem.AddressRange, ports ...int)
	DefineDefaultRoute(ports ...int)
}

// NewTable creates a new Table.
func NewTable() Table {
	return &table{}
}

type route struct {
	addresses mem.AddressRange
	ports     []int
	next      int
}

func (r *route) pick() int {
	p := r.ports[r.next]
	r.next = (r.next + 1) % len(r.ports)

	return p
}

type table struct {
	routes       []*route
	mapper       *mem.RangePortMapper
	defaultRoute *route
}

func (t *table) FindPort(address uint64) (int, bool) {
	if t.mapper != nil {
		if i, found := t.mapper.Find(address); found {
			return t.routes[i].pick(), true
		}
	}

	if t.defaultRoute != nil {
		return t.defaultRoute.pick(), true
	}

	return -1, false
}

func (t *table) DefineRoute(r mem.AddressRange, ports ...int) {
	portsMustBeGiven(ports)

	for _, existing := range t.routes {
		if existing.addresses.Overlaps(r) {
			panic(fmt.Sprintf("route %s overlaps with route %s",
				r, existing.addresses))
		}
	}

	t.routes = append(t.routes, &route{
		addresses: r,
		ports:     append([]int(nil), ports...),
	})

	ranges := make([]mem.AddressRange, 0, len(t.routes))
	for _, existing := range t.routes {
		ranges = append(ranges, existing.addresses)
	}

	t.mapper = mem.NewRangePortMapper(ranges)
}

func (t *table) DefineDefaultRoute(ports ...int) {
	portsMustBeGiven(ports)

	t.defaultRoute = &route{ports: append([]int(nil), ports...)}
}

func portsMustBeGiven(ports []int) {
	if len(ports) == 0 {
		panic("a route needs at least one port")
	}
}

// NewLinearTable creates the table of a linear-fabric switch. The switch's
// output links are ordered as they are bound: numBilateral links toward the
// lower neighbor, numBilateral links toward the higher neighbor, and then one
// link per channel.
func NewLinearTable(channels []mem.AddressRange, numBilateral int) Table {
	channelsMustBeGiven(channels)

	if numBilateral <= 0 {
		panic("a linear switch needs at least one bilateral link")
	}

	t := NewTable()

	for j, c := range channels {
		t.DefineRoute(c, 2*numBilateral+j)
	}

	low := channels[0].Low
	high := channels[len(channels)-1].High

	if low > 0 {
		t.DefineRoute(mem.AddressRange{Low: 0, High: low - 1},
			portRange(0, numBilateral)...)
	}

	if high < math.MaxUint64 {
		t.DefineRoute(mem.AddressRange{Low: high + 1, High: math.MaxUint64},
			portRange(numBilateral, 2*numBilateral)...)
	}

	return t
}

// NewCrossbarTable creates the table of a crossbar node. switchRanges is the
// full switch-level table and upstream[p] is the index of the linear switch
// that output link p is bound to. A range whose switch is not bound to this
// node goes to the bound switch closest to it, and the linear fabric carries
// the request the rest of the way.
func NewCrossbarTable(switchRanges []mem.AddressRange, upstream []int) Table {
	channelsMustBeGiven(switchRanges)

	if len(upstream) == 0 {
		panic("a crossbar node needs at least one upstream link")
	}

	t := NewTable()

	for s, r := range switchRanges {
		t.DefineRoute(r, closestLinks(s, upstream)...)
	}

	return t
}

func closestLinks(target int, upstream []int) []int {
	best := math.MaxInt
	links := []int{}

	for p, s := range upstream {
		d := s - target
		if d < 0 {
			d = -d
		}

		switch {
		case d < best:
			best = d
			links = []int{p}
		case d == best:
			links = append(links, p)
		}
	}

	return links
}

func portRange(from, to int) []int {
	ports := make([]int, 0, to-from)
	for p := from; p < to; p++ {
		ports = append(ports, p)
	}

	return ports
}

func channelsMustBeGiven(ranges []mem.AddressRange) {
	if len(ranges) == 0 {
		panic("a routing table needs at least one address range")
	}
}
