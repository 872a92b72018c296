package mem

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("RangePortMapper", func() {
	var mapper *RangePortMapper

	BeforeEach(func() {
		mapper = NewRangePortMapper([]AddressRange{
			{Low: 0, High: 8191},
			{Low: 8192, High: 16383},
		})
	})

	It("should find the owning range", func() {
		for addr, want := range map[uint64]int{0: 0, 8191: 0, 8192: 1} {
			port, found := mapper.Find(addr)
			Expect(found).To(BeTrue())
			Expect(port).To(Equal(want))
		}
	})

	It("should report addresses that no range owns", func() {
		port, found := mapper.Find(16384)
		Expect(found).To(BeFalse())
		Expect(port).To(Equal(-1))
	})
})

var _ = Describe("BankedAddressPortMapper", func() {
	It("should find the bank", func() {
		mapper := NewBankedAddressPortMapper(4*KB, 4*KB, 4)

		port, found := mapper.Find(4 * KB)
		Expect(found).To(BeTrue())
		Expect(port).To(Equal(0))

		port, found = mapper.Find(8*KB + 1)
		Expect(found).To(BeTrue())
		Expect(port).To(Equal(1))

		_, found = mapper.Find(20 * KB)
		Expect(found).To(BeFalse())

		_, found = mapper.Find(0)
		Expect(found).To(BeFalse())
	})
})
