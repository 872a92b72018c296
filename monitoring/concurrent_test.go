package monitoring

import (
	"net/http"
	"net/http/httptest"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/butterfly/config"
	"github.com/sarchlab/butterfly/mem/idealmemcontroller"
	"github.com/sarchlab/butterfly/noc/acceptance"
	"github.com/sarchlab/butterfly/noc/butterfly"
	"github.com/sarchlab/butterfly/noc/transport"
	"github.com/sarchlab/butterfly/sim"
)

var _ = Describe("Monitor during a run", func() {
	It("should read the components only between rounds", func() {
		cfg := config.Default()
		clock := sim.NewManualClock()

		c, err := butterfly.MakeBuilder().
			WithTimeTeller(clock).
			WithConfig(cfg).
			Build("Butterfly")
		Expect(err).NotTo(HaveOccurred())

		backend := idealmemcontroller.MakeBuilder().
			WithTimeTeller(clock).
			WithCapacity(cfg.MemorySizeInByte).
			WithMode(idealmemcontroller.Deferred).
			Build("Backend")
		transport.BindN(c.InitiatorSocket(), backend.TopPort(), c.NumPorts())

		test := acceptance.NewTest(cfg.MemorySizeInByte, 7)
		agent := acceptance.NewAgent("Agent", test)
		agent.BindTo(c.TargetSocket(), c.NumPorts())
		test.RegisterAgent(agent)

		m := NewMonitor()
		m.RegisterInterconnect(c)
		test.UseLock(m.ComponentLock())
		router := m.Router()

		paths := []string{
			"/api/report",
			"/api/component/Butterfly.Crossbar%5B0%5D",
			"/api/component/Butterfly.Linear%5B1%5D",
			"/api/queues",
		}

		stop := make(chan struct{})
		var wg sync.WaitGroup
		wg.Add(1)

		go func() {
			defer GinkgoRecover()
			defer wg.Done()

			for i := 0; ; i++ {
				select {
				case <-stop:
					return
				default:
				}

				rec := httptest.NewRecorder()
				req := httptest.NewRequest(http.MethodGet,
					paths[i%len(paths)], nil)
				router.ServeHTTP(rec, req)
				Expect(rec.Code).To(Equal(http.StatusOK))
			}
		}()

		test.GenerateTransactions(2000)
		err = test.Run(clock, cfg.Freq().Period(), backend)

		close(stop)
		wg.Wait()

		Expect(err).NotTo(HaveOccurred())
		Expect(test.NumReceived()).To(Equal(2000))
		Expect(c.Report().TotalBytes).To(BeNumerically(">", 0))
	})
})
