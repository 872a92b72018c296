package mem

import "fmt"

// AddressRange is the closed interval [Low, High] of byte addresses.
type AddressRange struct {
	Low  uint64
	High uint64
}

// Contains checks if the address falls in the range.
func (r AddressRange) Contains(address uint64) bool {
	return address >= r.Low && address <= r.High
}

// Size returns the number of bytes covered.
func (r AddressRange) Size() uint64 {
	return r.High - r.Low + 1
}

// Overlaps checks if two ranges share at least one address.
func (r AddressRange) Overlaps(other AddressRange) bool {
	return r.Low <= other.High && other.Low <= r.High
}

// Covers checks if the other range is fully inside this range.
func (r AddressRange) Covers(other AddressRange) bool {
	return other.Low >= r.Low && other.High <= r.High
}

func (r AddressRange) String() string {
	return fmt.Sprintf("[%d, %d]", r.Low, r.High)
}
