package analysis

import (
	"github.com/sarchlab/butterfly/sim"
)

// CounterReader exposes the counters that a switch keeps during a run. The
// counters are only read after the timeline has ended.
type CounterReader interface {
	Name() string
	ProcessedBytes() uint64
	FirstVisited() bool
	FirstArrival() sim.VTimeInSec
	LastDeparture() sim.VTimeInSec
}

// SwitchStat is the snapshot of one switch.
type SwitchStat struct {
	Name           string
	ProcessedBytes uint64
	Visited        bool
	FirstArrival   float64
	LastDeparture  float64
}

// Report summarizes the traffic delivered by a set of switches.
type Report struct {
	Switches      []SwitchStat
	NumVisited    int
	TotalBytes    uint64
	FirstArrival  sim.VTimeInSec
	LastDeparture sim.VTimeInSec
	Duration      sim.VTimeInSec

	// Throughput is in bytes per nanosecond, which is GB/s.
	Throughput float64
}

// Reduce aggregates the counters of the given switches. Switches that never
// saw a transaction do not contribute to the first arrival time. Reduce does
// not change the switches, so it can be called any number of times.
func Reduce(switches []CounterReader) Report {
	r := Report{
		Switches: make([]SwitchStat, 0, len(switches)),
	}

	for _, s := range switches {
		stat := SwitchStat{
			Name:           s.Name(),
			ProcessedBytes: s.ProcessedBytes(),
			Visited:        s.FirstVisited(),
			FirstArrival:   float64(s.FirstArrival()),
			LastDeparture:  float64(s.LastDeparture()),
		}
		r.Switches = append(r.Switches, stat)

		r.TotalBytes += stat.ProcessedBytes

		if stat.Visited {
			if r.NumVisited == 0 || s.FirstArrival() < r.FirstArrival {
				r.FirstArrival = s.FirstArrival()
			}

			r.NumVisited++
		}

		if s.LastDeparture() > r.LastDeparture {
			r.LastDeparture = s.LastDeparture()
		}
	}

	if r.LastDeparture > r.FirstArrival {
		r.Duration = r.LastDeparture - r.FirstArrival
	}

	r.Throughput = throughput(r.TotalBytes, r.Duration)

	return r
}

func throughput(bytes uint64, duration sim.VTimeInSec) float64 {
	if bytes == 0 || duration <= 0 {
		return 0
	}

	return float64(bytes) / (float64(duration) * 1e9)
}
