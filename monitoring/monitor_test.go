package monitoring

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/butterfly/config"
	"github.com/sarchlab/butterfly/mem"
	"github.com/sarchlab/butterfly/mem/idealmemcontroller"
	"github.com/sarchlab/butterfly/noc/butterfly"
	"github.com/sarchlab/butterfly/noc/transport"
	"github.com/sarchlab/butterfly/sim"
)

var _ = Describe("Monitor", func() {
	var (
		m       *Monitor
		c       *butterfly.Comp
		backend *idealmemcontroller.Comp
		agent   *transport.InitiatorSocket
		server  *httptest.Server
	)

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		m.Router().ServeHTTP(rec, req)

		return rec
	}

	BeforeEach(func() {
		clock := sim.NewManualClock()

		var err error
		c, err = butterfly.MakeBuilder().
			WithTimeTeller(clock).
			WithConfig(config.Default()).
			Build("Butterfly")
		Expect(err).NotTo(HaveOccurred())

		backend = idealmemcontroller.MakeBuilder().
			WithTimeTeller(clock).
			WithMode(idealmemcontroller.Deferred).
			Build("Backend")
		agent = transport.NewInitiatorSocket("Agent.ISocket",
			transport.BackwardHandlerFunc(func(
				int, *mem.Transaction, *transport.Phase, *sim.VTimeInSec,
			) transport.SyncResult {
				return transport.Completed
			}))
		transport.BindN(agent, c.TargetSocket(), c.NumPorts())
		transport.BindN(c.InitiatorSocket(), backend.TopPort(), c.NumPorts())

		m = NewMonitor()
		m.RegisterInterconnect(c)
	})

	AfterEach(func() {
		if server != nil {
			server.Close()
			server = nil
		}
	})

	It("should register every node", func() {
		// Interconnect, 2 linear switches, 2 end caps, 8 controllers, and
		// 1 crossbar node.
		Expect(m.components).To(HaveLen(14))
		Expect(m.queues).To(HaveLen(11))
	})

	It("should describe the topology", func() {
		rec := get("/api/topology")
		Expect(rec.Code).To(Equal(http.StatusOK))

		rsp := topologyRsp{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp.NumPorts).To(Equal(8))
		Expect(rsp.BindingStrategy).To(Equal("fixed"))
		Expect(rsp.LinearSwitches).To(HaveLen(2))
		Expect(rsp.LinearSwitches[1].Low).To(Equal(uint64(32768)))
		Expect(rsp.MemoryControllers).To(HaveLen(8))
		Expect(rsp.CrossbarSwitches).To(HaveLen(1))
		Expect(rsp.CrossbarSwitches[0].Upstream).To(HaveLen(8))
		Expect(rsp.CrossbarSwitches[0].Upstream[1]).
			To(Equal("Butterfly.Linear[1].TSocket"))
	})

	It("should serialize a component", func() {
		rec := get("/api/component/Butterfly.Crossbar[0]")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.Len()).To(BeNumerically(">", 0))
	})

	It("should return 404 for unknown components", func() {
		rec := get("/api/component/Nothing")

		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("should list the fullest queues first", func() {
		tx := mem.TransactionBuilder{}.
			WithCommand(mem.CommandRead).
			WithAddress(40960).
			WithByteSize(64).
			Build()
		phase := transport.BeginReq
		delay := sim.VTimeInSec(0)
		agent.Forward(0, tx, &phase, &delay)

		rec := get("/api/queues?sort=level&limit=3")
		Expect(rec.Code).To(Equal(http.StatusOK))

		var rsp []queueRsp
		Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp).To(HaveLen(3))

		for _, q := range rsp {
			Expect(q.Level).To(Equal(1))
		}
	})

	It("should reject unknown sort methods", func() {
		rec := get("/api/queues?sort=name")

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("should report the statistics", func() {
		rec := get("/api/report")
		Expect(rec.Code).To(Equal(http.StatusOK))

		rsp := map[string]any{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp).To(HaveKeyWithValue("TotalBytes", BeNumerically("==", 0)))
		Expect(rsp).To(HaveKeyWithValue("Throughput", BeNumerically("==", 0)))
	})

	It("should list progress bars", func() {
		bar := m.CreateProgressBar("Transactions", 10)
		bar.IncrementInProgress(4)
		bar.MoveInProgressToFinished(3)

		rec := get("/api/progress")

		var rsp []map[string]any
		Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp).To(HaveLen(1))
		Expect(rsp[0]).To(HaveKeyWithValue("finished", BeNumerically("==", 3)))
		Expect(rsp[0]).To(HaveKeyWithValue("in_progress", BeNumerically("==", 1)))

		m.CompleteProgressBar(bar)
		Expect(get("/api/progress").Body.String()).To(Equal("[]"))
	})

	It("should report process resources", func() {
		server = httptest.NewServer(m.Router())

		rsp, err := http.Get(server.URL + "/api/resource")
		Expect(err).NotTo(HaveOccurred())
		defer rsp.Body.Close()

		res := resourceRsp{}
		Expect(json.NewDecoder(rsp.Body).Decode(&res)).To(Succeed())
		Expect(res.MemorySize).To(BeNumerically(">", 0))
	})

	It("should move the progress bar with the traffic", func() {
		bar := m.CreateProgressBar("Transactions", 2)
		c.AcceptHook(NewProgressHook(bar))

		for i := 0; i < 2; i++ {
			tx := mem.TransactionBuilder{}.
				WithCommand(mem.CommandWrite).
				WithAddress(uint64(i) * 4096).
				WithData([]byte{1, 2, 3, 4}).
				Build()
			phase := transport.BeginReq
			delay := sim.VTimeInSec(0)
			agent.Forward(i, tx, &phase, &delay)
		}

		Expect(bar.InProgress).To(Equal(uint64(2)))

		Expect(backend.Drain()).To(Equal(2))
		Expect(bar.InProgress).To(Equal(uint64(0)))
		Expect(bar.Finished).To(Equal(uint64(2)))
	})
})
