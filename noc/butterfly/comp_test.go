package butterfly

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/butterfly/config"
	"github.com/sarchlab/butterfly/mem"
	"github.com/sarchlab/butterfly/mem/idealmemcontroller"
	"github.com/sarchlab/butterfly/noc/transport"
	"github.com/sarchlab/butterfly/sim"
)

var _ = Describe("Multiplexer", func() {
	var (
		clock     *sim.ManualClock
		c         *Comp
		backend   *idealmemcontroller.Comp
		agent     *transport.InitiatorSocket
		replyPort map[string]int
	)

	setup := func(cfg config.Config, mode idealmemcontroller.Mode) {
		var err error

		c, err = MakeBuilder().
			WithTimeTeller(clock).
			WithConfig(cfg).
			Build("Butterfly")
		Expect(err).NotTo(HaveOccurred())

		backend = idealmemcontroller.MakeBuilder().
			WithTimeTeller(clock).
			WithCapacity(cfg.MemorySizeInByte).
			WithLatency(20).
			WithMode(mode).
			Build("Backend")

		agent = transport.NewInitiatorSocket("Agent.ISocket",
			transport.BackwardHandlerFunc(func(
				id int,
				tx *mem.Transaction,
				_ *transport.Phase,
				_ *sim.VTimeInSec,
			) transport.SyncResult {
				replyPort[tx.ID] = id
				return transport.Completed
			}))

		transport.BindN(agent, c.TargetSocket(), c.NumPorts())
		transport.BindN(c.InitiatorSocket(), backend.TopPort(), c.NumPorts())
	}

	BeforeEach(func() {
		clock = sim.NewManualClock()
		replyPort = make(map[string]int)
	})

	read := func(addr uint64) *mem.Transaction {
		return mem.TransactionBuilder{}.
			WithCommand(mem.CommandRead).
			WithAddress(addr).
			WithByteSize(64).
			Build()
	}

	send := func(port int, tx *mem.Transaction) transport.SyncResult {
		phase := transport.BeginReq
		delay := sim.VTimeInSec(0)

		return agent.Forward(port, tx, &phase, &delay)
	}

	It("should fail validation until both sides are bound", func() {
		c, err := MakeBuilder().
			WithTimeTeller(clock).
			Build("Butterfly")
		Expect(err).NotTo(HaveOccurred())

		err = c.Validate()

		var topoErr *TopologyError
		Expect(err).To(BeAssignableToTypeOf(topoErr))
		topoErr = err.(*TopologyError)
		Expect(topoErr.Mismatches).To(ConsistOf(
			PortCount{Socket: "Butterfly.TSocket", Declared: 8, Bound: 0},
			PortCount{Socket: "Butterfly.ISocket", Declared: 8, Bound: 0},
		))
	})

	It("should pass validation with one link per port", func() {
		setup(config.Default(), idealmemcontroller.Immediate)

		Expect(c.Validate()).To(Succeed())
	})

	It("should complete requests synchronously with an immediate backend", func() {
		setup(config.Default(), idealmemcontroller.Immediate)

		for port := 0; port < c.NumPorts(); port++ {
			tx := read(uint64(port) * 8192)

			Expect(send(port, tx)).To(Equal(transport.Completed))
			Expect(tx.Status).To(Equal(mem.StatusOK))
		}

		Expect(backend.NumRead()).To(Equal(uint64(8)))

		r := c.Report()
		Expect(r.TotalBytes).To(Equal(uint64(8 * 64)))
		Expect(r.NumVisited).To(Equal(1))
		Expect(r.Throughput).To(BeNumerically(">", 0))
	})

	It("should return each reply on the port its request came from", func() {
		setup(config.Default(), idealmemcontroller.Deferred)

		sent := make(map[string]int)
		for port := 0; port < c.NumPorts(); port++ {
			addr := uint64((port*5)%8) * 8192
			tx := read(addr)
			sent[tx.ID] = port

			Expect(send(port, tx)).To(Equal(transport.Accepted))
		}

		clock.Advance(1e-6)
		Expect(backend.Drain()).To(Equal(8))

		Expect(replyPort).To(Equal(sent))
		Expect(c.Report().TotalBytes).To(Equal(uint64(8 * 64)))
	})

	It("should deliver to the backend port of the owning controller", func() {
		setup(config.Default(), idealmemcontroller.Immediate)

		backendPorts := make(map[string]int)
		c.AcceptHook(sim.HookFunc(func(ctx sim.HookCtx) {
			if ctx.Pos != HookPosForwardToBackend {
				return
			}

			tx := ctx.Item.(*mem.Transaction)
			backendPorts[tx.ID] = ctx.Detail.(Dispatch).Port
		}))

		for port := 0; port < c.NumPorts(); port++ {
			addr := uint64(port)*8192 + 100
			tx := read(addr)
			send(7-port, tx)

			owner, found := c.Layout().ChannelOf(addr)
			Expect(found).To(BeTrue())
			Expect(backendPorts[tx.ID]).To(Equal(owner))
		}
	})

	It("should walk the chain to switches the node is not bound to", func() {
		cfg := config.Default()
		cfg.NumberOfSwitches = 16
		cfg.NumberOfVerticalConnections = 1
		cfg.MemorySizeInByte = 16 * 1024
		setup(cfg, idealmemcontroller.Immediate)

		tx := read(15*1024 + 64)

		Expect(send(0, tx)).To(Equal(transport.Completed))
		Expect(tx.Status).To(Equal(mem.StatusOK))
		Expect(c.LinearSwitches()[15].ProcessedBytes()).To(Equal(uint64(64)))
		Expect(c.LinearSwitches()[10].ProcessedBytes()).To(Equal(uint64(64)))
		Expect(c.LinearSwitches()[3].FirstVisited()).To(BeFalse())
	})

	It("should answer addresses beyond the memory with an error", func() {
		setup(config.Default(), idealmemcontroller.Immediate)

		tx := read(1 << 20)
		Expect(send(3, tx)).To(Equal(transport.Completed))
		Expect(tx.Status).To(Equal(mem.StatusAddressError))
		Expect(c.Report().TotalBytes).To(Equal(uint64(0)))
	})

	It("should report every dispatch to hooks", func() {
		setup(config.Default(), idealmemcontroller.Deferred)

		counts := make(map[*sim.HookPos]int)
		c.AcceptHook(sim.HookFunc(func(ctx sim.HookCtx) {
			counts[ctx.Pos]++
		}))

		send(2, read(0))
		backend.Drain()

		Expect(counts).To(Equal(map[*sim.HookPos]int{
			HookPosForwardRequest:      1,
			HookPosForwardToBackend:    1,
			HookPosBackwardFromBackend: 1,
			HookPosBackwardReply:       1,
		}))
	})
})
