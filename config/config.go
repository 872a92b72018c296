// Package config defines the parameters of a butterfly interconnect and the
// rules a legal parameter set has to follow.
package config

import "github.com/sarchlab/butterfly/sim"

// CrossbarRadix is the fixed fan-in of every crossbar node.
const CrossbarRadix = 8

// Config holds the parameters of the interconnect. It is read once and never
// mutated afterward.
type Config struct {
	NumberOfSwitches             uint64 `json:"numberOfSwitches" yaml:"numberOfSwitches"`
	FrequencyInMHz               uint64 `json:"frequencyInMHz" yaml:"frequencyInMHz"`
	FrequencyMC                  uint64 `json:"frequencyMC" yaml:"frequencyMC"`
	NumberOfBilateralConnections uint64 `json:"numberOfBilateralConnections" yaml:"numberOfBilateralConnections"`
	BuswidthInByte               uint64 `json:"buswidthInByte" yaml:"buswidthInByte"`
	MemorySizeInByte             uint64 `json:"memorySizeInByte" yaml:"memorySizeInByte"`
	NumberOfVerticalConnections  uint64 `json:"numberOfVerticalConnections" yaml:"numberOfVerticalConnections"`
	RequestQueueSize             uint64 `json:"requestQueueSize" yaml:"requestQueueSize"`
	ResponseQueueSize            uint64 `json:"responseQueueSize" yaml:"responseQueueSize"`
	RequestQueueSizeMC           uint64 `json:"requestQueueSizeMC" yaml:"requestQueueSizeMC"`
	ResponseQueueSizeMC          uint64 `json:"responseQueueSizeMC" yaml:"responseQueueSizeMC"`
}

// RequiredFields lists the keys that every configuration file must provide.
var RequiredFields = []string{
	"numberOfSwitches",
	"frequencyInMHz",
	"frequencyMC",
	"numberOfBilateralConnections",
	"buswidthInByte",
	"memorySizeInByte",
	"numberOfVerticalConnections",
	"requestQueueSize",
	"responseQueueSize",
	"requestQueueSizeMC",
	"responseQueueSizeMC",
}

// Default returns a small legal configuration: 2 switches with 4 vertical
// channels each, which yields a single crossbar node.
func Default() Config {
	return Config{
		NumberOfSwitches:             2,
		FrequencyInMHz:               1000,
		FrequencyMC:                  800,
		NumberOfBilateralConnections: 1,
		BuswidthInByte:               32,
		MemorySizeInByte:             64 * 1024,
		NumberOfVerticalConnections:  4,
		RequestQueueSize:             8,
		ResponseQueueSize:            8,
		RequestQueueSizeMC:           8,
		ResponseQueueSizeMC:          8,
	}
}

// NumPorts returns the number of ports on each side of the interconnect.
func (c Config) NumPorts() uint64 {
	return c.NumberOfSwitches * c.NumberOfVerticalConnections
}

// NumCrossbarNodes returns the number of crossbar nodes.
func (c Config) NumCrossbarNodes() uint64 {
	return c.NumPorts() / CrossbarRadix
}

// MemoryPerSwitch returns the size of the address range of each switch.
func (c Config) MemoryPerSwitch() uint64 {
	return c.MemorySizeInByte / c.NumberOfSwitches
}

// MemoryPerChannel returns the size of the address range of each channel.
func (c Config) MemoryPerChannel() uint64 {
	return c.MemoryPerSwitch() / c.NumberOfVerticalConnections
}

// Freq returns the fabric frequency.
func (c Config) Freq() sim.Freq {
	return sim.Freq(c.FrequencyInMHz) * sim.MHz
}

// MCFreq returns the memory-controller frequency.
func (c Config) MCFreq() sim.Freq {
	return sim.Freq(c.FrequencyMC) * sim.MHz
}

// Validate checks every rule and returns an *Error that lists all the
// violations, or nil if the configuration is legal.
func (c Config) Validate() error {
	v := &validator{}

	v.positive("numberOfSwitches", c.NumberOfSwitches)
	v.positive("frequencyInMHz", c.FrequencyInMHz)
	v.positive("frequencyMC", c.FrequencyMC)
	v.positive("numberOfBilateralConnections", c.NumberOfBilateralConnections)
	v.positive("buswidthInByte", c.BuswidthInByte)
	v.powerOfTwo("numberOfVerticalConnections", c.NumberOfVerticalConnections)
	v.memorySize(c)
	v.positive("requestQueueSize", c.RequestQueueSize)
	v.positive("responseQueueSize", c.ResponseQueueSize)
	v.positive("requestQueueSizeMC", c.RequestQueueSizeMC)
	v.positive("responseQueueSizeMC", c.ResponseQueueSizeMC)
	v.crossbarFanIn(c)

	return v.err()
}

type validator struct {
	violations []Violation
}

func (v *validator) add(field, reason string) {
	v.violations = append(v.violations, Violation{Field: field, Reason: reason})
}

func (v *validator) positive(field string, value uint64) {
	if value == 0 {
		v.add(field, "must be positive")
	}
}

func (v *validator) powerOfTwo(field string, value uint64) {
	if !IsPowerOfTwo(value) {
		v.add(field, "must be a positive power of two")
	}
}

func (v *validator) memorySize(c Config) {
	const field = "memorySizeInByte"

	switch {
	case c.MemorySizeInByte == 0:
		v.add(field, "must be positive")
	case c.NumberOfSwitches == 0 || c.NumberOfVerticalConnections == 0:
		// Reported on the divisor fields already.
	case c.MemorySizeInByte%c.NumberOfSwitches != 0:
		v.add(field, "must be divisible by numberOfSwitches")
	case c.MemoryPerSwitch()%c.NumberOfVerticalConnections != 0:
		v.add(field,
			"per-switch memory must be divisible by numberOfVerticalConnections")
	}
}

func (v *validator) crossbarFanIn(c Config) {
	if c.NumPorts()%CrossbarRadix != 0 {
		v.add(InvariantCrossbarFanIn,
			"numberOfSwitches * numberOfVerticalConnections must be divisible by 8")
	}
}

func (v *validator) err() error {
	if len(v.violations) == 0 {
		return nil
	}

	return &Error{Violations: v.violations}
}

// IsPowerOfTwo checks if n is a positive power of two.
func IsPowerOfTwo(n uint64) bool {
	return n != 0 && n&(n-1) == 0
}
