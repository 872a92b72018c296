package mem

// AddressToPortMapper finds the port index that owns an address.
type AddressToPortMapper interface {
	Find(address uint64) (port int, found bool)
}

// RangePortMapper maps a list of address ranges to port indexes. Port i owns
// Ranges[i].
type RangePortMapper struct {
	Ranges []AddressRange
}

// NewRangePortMapper creates a new RangePortMapper.
func NewRangePortMapper(ranges []AddressRange) *RangePortMapper {
	m := &RangePortMapper{}
	m.Ranges = append(m.Ranges, ranges...)

	return m
}

// Find returns the index of the range that holds the address.
func (m *RangePortMapper) Find(address uint64) (int, bool) {
	for i, r := range m.Ranges {
		if r.Contains(address) {
			return i, true
		}
	}

	return -1, false
}

// BankedAddressPortMapper maps addresses to ports by equally sized banks that
// start at Base.
type BankedAddressPortMapper struct {
	Base     uint64
	BankSize uint64
	NumBanks int
}

// NewBankedAddressPortMapper returns a new BankedAddressPortMapper.
func NewBankedAddressPortMapper(
	base, bankSize uint64,
	numBanks int,
) *BankedAddressPortMapper {
	if bankSize == 0 {
		panic("bank size must not be 0")
	}

	return &BankedAddressPortMapper{
		Base:     base,
		BankSize: bankSize,
		NumBanks: numBanks,
	}
}

// Find returns the bank that holds the address.
func (m *BankedAddressPortMapper) Find(address uint64) (int, bool) {
	if address < m.Base {
		return -1, false
	}

	i := (address - m.Base) / m.BankSize
	if i >= uint64(m.NumBanks) {
		return -1, false
	}

	return int(i), true
}
