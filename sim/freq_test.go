package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Freq", func() {
	It("should get period", func() {
		var f = 1 * GHz
		Expect(f.Period()).To(BeNumerically("==", 1e-9))
	})

	It("should get this tick", func() {
		var f = 1 * Hz
		Expect(f.ThisTick(1)).To(BeNumerically("~", 1, 1e-12))
	})

	It("should get the next tick", func() {
		var f = 1 * GHz
		Expect(f.NextTick(102.000000001)).
			To(BeNumerically("~", 102.000000002, 1e-12))
	})

	It("should get the next tick, if now is not on a tick", func() {
		var f = 1 * GHz
		Expect(f.NextTick(102.0000000011)).
			To(BeNumerically("~", 102.000000002, 1e-12))
	})

	It("should get the n cycles later", func() {
		var f = 1 * GHz
		Expect(f.NCyclesLater(12, 102.000000001)).To(
			BeNumerically("~", 102.000000013, 1e-12))
	})

	It("should convert cycles to duration", func() {
		var f = 500 * MHz
		Expect(f.NCycles(4)).To(BeNumerically("~", 8e-9, 1e-18))
	})

	It("should count cycles since time 0", func() {
		var f = 1 * GHz
		Expect(f.Cycle(3e-9)).To(Equal(uint64(3)))
	})

	It("should panic on zero frequency", func() {
		var f Freq
		Expect(func() { f.Period() }).To(Panic())
	})
})

var _ = Describe("CyclesToTransfer", func() {
	It("should round up to whole beats", func() {
		Expect(CyclesToTransfer(64, 32)).To(Equal(uint64(2)))
		Expect(CyclesToTransfer(65, 32)).To(Equal(uint64(3)))
		Expect(CyclesToTransfer(1, 32)).To(Equal(uint64(1)))
	})

	It("should take one beat for an empty transfer", func() {
		Expect(CyclesToTransfer(0, 32)).To(Equal(uint64(1)))
	})

	It("should panic if the bus has no width", func() {
		Expect(func() { CyclesToTransfer(4, 0) }).To(Panic())
	})
})
