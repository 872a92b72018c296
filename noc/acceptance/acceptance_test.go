package acceptance

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/butterfly/config"
	"github.com/sarchlab/butterfly/mem/idealmemcontroller"
	"github.com/sarchlab/butterfly/noc/butterfly"
	"github.com/sarchlab/butterfly/noc/transport"
	"github.com/sarchlab/butterfly/sim"
)

var _ = Describe("Random traffic", func() {
	run := func(cfg config.Config, mode idealmemcontroller.Mode) (*Test, *butterfly.Comp) {
		clock := sim.NewManualClock()

		c, err := butterfly.MakeBuilder().
			WithTimeTeller(clock).
			WithConfig(cfg).
			Build("Butterfly")
		Expect(err).NotTo(HaveOccurred())

		backend := idealmemcontroller.MakeBuilder().
			WithTimeTeller(clock).
			WithCapacity(cfg.MemorySizeInByte).
			WithMode(mode).
			Build("Backend")
		transport.BindN(c.InitiatorSocket(), backend.TopPort(), c.NumPorts())

		test := NewTest(cfg.MemorySizeInByte, 1)
		agent := NewAgent("Agent", test)
		agent.BindTo(c.TargetSocket(), c.NumPorts())
		test.RegisterAgent(agent)
		Expect(c.Validate()).To(Succeed())

		test.GenerateTransactions(500)
		Expect(test.Run(clock, cfg.Freq().Period(), backend)).To(Succeed())

		return test, c
	}

	It("should answer every transaction with an immediate backend", func() {
		test, c := run(config.Default(), idealmemcontroller.Immediate)

		Expect(test.NumReceived()).To(Equal(500))
		Expect(test.NumStatusOK()).To(Equal(uint64(500)))
		Expect(c.Report().TotalBytes).To(BeNumerically(">", 0))
		test.MustHaveReceivedAllTransactions()
	})

	It("should answer every transaction with a deferred backend", func() {
		cfg := config.Default()
		cfg.NumberOfSwitches = 4
		cfg.NumberOfVerticalConnections = 4
		cfg.RequestQueueSize = 2
		test, c := run(cfg, idealmemcontroller.Deferred)

		Expect(test.NumReceived()).To(Equal(500))
		Expect(c.CrossbarSwitches()).To(HaveLen(2))
		Expect(c.Report().NumVisited).To(Equal(2))
	})
})
