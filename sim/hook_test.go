package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("HookableBase", func() {
	It("should invoke hooks in registration order", func() {
		base := NewHookableBase()
		order := []string{}

		base.AcceptHook(HookFunc(func(ctx HookCtx) {
			order = append(order, "first:"+ctx.Pos.Name)
		}))
		base.AcceptHook(HookFunc(func(ctx HookCtx) {
			order = append(order, "second:"+ctx.Pos.Name)
		}))

		base.InvokeHook(HookCtx{Pos: &HookPos{Name: "P"}})

		Expect(base.NumHooks()).To(Equal(2))
		Expect(order).To(Equal([]string{"first:P", "second:P"}))
	})
})

var _ = Describe("ComponentBase", func() {
	It("should keep the name", func() {
		c := NewComponentBase("Switch")
		Expect(c.Name()).To(Equal("Switch"))
	})

	It("should refuse an empty name", func() {
		Expect(func() { NewComponentBase("") }).To(Panic())
	})
})

var _ = Describe("ManualClock", func() {
	It("should advance", func() {
		c := NewManualClock()
		c.Advance(2e-9)
		c.AdvanceTo(5e-9)
		Expect(c.CurrentTime()).To(BeNumerically("~", 5e-9, 1e-18))
	})

	It("should not go backward", func() {
		c := NewManualClock()
		c.AdvanceTo(5e-9)
		Expect(func() { c.AdvanceTo(1e-9) }).To(Panic())
		Expect(func() { c.Advance(-1) }).To(Panic())
	})
})
