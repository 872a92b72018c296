// Package addressing splits the memory of a butterfly interconnect into the
// address ranges owned by switches and by the vertical channels below them.
package addressing

import (
	"github.com/sarchlab/butterfly/config"
	"github.com/sarchlab/butterfly/mem"
)

// Layout holds the address ranges of every partition level. Ranges at the
// same level never overlap, and together they cover [0, MemorySize-1].
type Layout struct {
	memorySize    uint64
	switchRanges  []mem.AddressRange
	channelRanges [][]mem.AddressRange

	switchMapper  mem.AddressToPortMapper
	channelMapper mem.AddressToPortMapper
}

// Partition splits memorySize bytes among numSwitches switches and then among
// numChannels channels per switch. It returns a *config.Error if the memory
// cannot be split into equal power-of-two-aligned pieces.
func Partition(memorySize, numSwitches, numChannels uint64) (*Layout, error) {
	if err := partitionMustBeLegal(memorySize, numSwitches, numChannels); err != nil {
		return nil, err
	}

	perSwitch := memorySize / numSwitches
	perChannel := perSwitch / numChannels

	l := &Layout{
		memorySize:    memorySize,
		switchRanges:  make([]mem.AddressRange, 0, numSwitches),
		channelRanges: make([][]mem.AddressRange, 0, numSwitches),
	}

	for i := uint64(0); i < numSwitches; i++ {
		base := i * perSwitch
		l.switchRanges = append(l.switchRanges, mem.AddressRange{
			Low:  base,
			High: base + perSwitch - 1,
		})

		channels := make([]mem.AddressRange, 0, numChannels)
		for j := uint64(0); j < numChannels; j++ {
			channels = append(channels, mem.AddressRange{
				Low:  base + j*perChannel,
				High: base + (j+1)*perChannel - 1,
			})
		}

		l.channelRanges = append(l.channelRanges, channels)
	}

	l.switchMapper = mem.NewBankedAddressPortMapper(
		0, perSwitch, int(numSwitches))
	l.channelMapper = mem.NewBankedAddressPortMapper(
		0, perChannel, int(numSwitches*numChannels))

	return l, nil
}

// PartitionConfig partitions the memory described by a configuration.
func PartitionConfig(c config.Config) (*Layout, error) {
	return Partition(
		c.MemorySizeInByte,
		c.NumberOfSwitches,
		c.NumberOfVerticalConnections,
	)
}

func partitionMustBeLegal(memorySize, numSwitches, numChannels uint64) error {
	err := &config.Error{}

	if numSwitches == 0 {
		err.Violations = append(err.Violations, config.Violation{
			Field: "numberOfSwitches", Reason: "must be positive"})
	}

	if !config.IsPowerOfTwo(numChannels) {
		err.Violations = append(err.Violations, config.Violation{
			Field:  "numberOfVerticalConnections",
			Reason: "must be a positive power of two"})
	}

	if len(err.Violations) == 0 {
		switch {
		case memorySize == 0:
			err.Violations = append(err.Violations, config.Violation{
				Field: "memorySizeInByte", Reason: "must be positive"})
		case memorySize%numSwitches != 0:
			err.Violations = append(err.Violations, config.Violation{
				Field:  "memorySizeInByte",
				Reason: "must be divisible by numberOfSwitches"})
		case (memorySize/numSwitches)%numChannels != 0:
			err.Violations = append(err.Violations, config.Violation{
				Field: "memorySizeInByte",
				Reason: "per-switch memory must be divisible by " +
					"numberOfVerticalConnections"})
		}
	}

	if len(err.Violations) > 0 {
		return err
	}

	return nil
}

// MemorySize returns the total number of bytes partitioned.
func (l *Layout) MemorySize() uint64 {
	return l.memorySize
}

// NumSwitches returns the number of switch-level ranges.
func (l *Layout) NumSwitches() int {
	return len(l.switchRanges)
}

// NumChannels returns the number of channel-level ranges in each switch.
func (l *Layout) NumChannels() int {
	if len(l.channelRanges) == 0 {
		return 0
	}

	return len(l.channelRanges[0])
}

// SwitchRanges returns a copy of the switch-level ranges.
func (l *Layout) SwitchRanges() []mem.AddressRange {
	return append([]mem.AddressRange(nil), l.switchRanges...)
}

// SwitchRange returns the range owned by switch i.
func (l *Layout) SwitchRange(i int) mem.AddressRange {
	return l.switchRanges[i]
}

// ChannelRanges returns a copy of the channel ranges of switch i.
func (l *Layout) ChannelRanges(i int) []mem.AddressRange {
	return append([]mem.AddressRange(nil), l.channelRanges[i]...)
}

// CrossbarTable returns the table that every crossbar node routes by. It is
// the switch-level table, since any crossbar node may receive a request for
// any switch. Every call returns a fresh copy.
func (l *Layout) CrossbarTable() []mem.AddressRange {
	return l.SwitchRanges()
}

// SwitchOf returns the index of the switch that owns the address.
func (l *Layout) SwitchOf(address uint64) (int, bool) {
	return l.switchMapper.Find(address)
}

// ChannelOf returns the global index of the channel (and thus of the memory
// controller) that owns the address.
func (l *Layout) ChannelOf(address uint64) (int, bool) {
	return l.channelMapper.Find(address)
}
