package mem

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Transaction", func() {
	It("should build a read", func() {
		tx := TransactionBuilder{}.
			WithCommand(CommandRead).
			WithAddress(0x100).
			WithByteSize(64).
			Build()

		Expect(tx.ID).NotTo(BeEmpty())
		Expect(tx.IsRead()).To(BeTrue())
		Expect(tx.Status).To(Equal(StatusIncomplete))
		Expect(tx.Range()).To(Equal(AddressRange{Low: 0x100, High: 0x13f}))
	})

	It("should take the size of a write from its data", func() {
		tx := TransactionBuilder{}.
			WithCommand(CommandWrite).
			WithData([]byte{1, 2, 3}).
			Build()

		Expect(tx.IsWrite()).To(BeTrue())
		Expect(tx.ByteSize).To(Equal(uint64(3)))
	})

	It("should give every transaction a new ID", func() {
		a := TransactionBuilder{}.Build()
		b := TransactionBuilder{}.Build()
		Expect(a.ID).NotTo(Equal(b.ID))
	})
})

var _ = Describe("AddressRange", func() {
	r := AddressRange{Low: 100, High: 199}

	It("should contain its bounds", func() {
		Expect(r.Contains(100)).To(BeTrue())
		Expect(r.Contains(199)).To(BeTrue())
		Expect(r.Contains(200)).To(BeFalse())
		Expect(r.Size()).To(Equal(uint64(100)))
	})

	It("should detect overlaps", func() {
		Expect(r.Overlaps(AddressRange{Low: 199, High: 300})).To(BeTrue())
		Expect(r.Overlaps(AddressRange{Low: 200, High: 300})).To(BeFalse())
		Expect(r.Covers(AddressRange{Low: 120, High: 130})).To(BeTrue())
	})
})
