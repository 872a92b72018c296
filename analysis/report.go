package analysis

import (
	"fmt"
	"io"
)

// Print writes the report in plain text.
func (r Report) Print(w io.Writer) {
	fmt.Fprintf(w, " data: %d\n", r.TotalBytes)
	fmt.Fprintf(w, "duration: %s start: %s last: %s\n",
		formatNS(float64(r.Duration)),
		formatNS(float64(r.FirstArrival)),
		formatNS(float64(r.LastDeparture)))
	fmt.Fprintf(w, "Butterfly Total Throughput: %.2f GB/s\n", r.Throughput)
}

// PrintSwitches writes one line per switch.
func (r Report) PrintSwitches(w io.Writer) {
	for _, s := range r.Switches {
		if !s.Visited {
			fmt.Fprintf(w, "%s: not visited\n", s.Name)
			continue
		}

		fmt.Fprintf(w, "%s: data: %d start: %s last: %s\n",
			s.Name, s.ProcessedBytes,
			formatNS(s.FirstArrival), formatNS(s.LastDeparture))
	}
}

func formatNS(seconds float64) string {
	return fmt.Sprintf("%.3f ns", seconds*1e9)
}
