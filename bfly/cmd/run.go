package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/butterfly/analysis"
	"github.com/sarchlab/butterfly/config"
	"github.com/sarchlab/butterfly/datarecording"
	"github.com/sarchlab/butterfly/mem/idealmemcontroller"
	"github.com/sarchlab/butterfly/monitoring"
	"github.com/sarchlab/butterfly/noc/acceptance"
	"github.com/sarchlab/butterfly/noc/butterfly"
	"github.com/sarchlab/butterfly/noc/transport"
	"github.com/sarchlab/butterfly/sim"
	"github.com/sarchlab/butterfly/tracing"
)

var (
	numTransactions uint64
	seed            int64
	deferredBackend bool
	backendLatency  int
	dbPath          string
	useMonitor      bool
	monitorPort     int
	openBrowser     bool
	logTransactions bool
	bindingStrategy string
	printPerSwitch  bool
	parallelIDs     bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Drive random memory traffic through a butterfly interconnect.",
	Long: `run builds the interconnect, binds one traffic agent to every ` +
		`initiator-facing port and an ideal memory to every backend port, ` +
		`issues random reads and writes, and reports the throughput.`,
	Run: func(_ *cobra.Command, _ []string) {
		runInterconnect()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	f := runCmd.Flags()
	f.Uint64Var(&numTransactions, "transactions", 1000,
		"The number of transactions to issue.")
	f.Int64Var(&seed, "seed", 0, "The seed of the traffic generator.")
	f.BoolVar(&deferredBackend, "deferred", false,
		"Answer requests from the backend in a later round instead of "+
			"completing them in the same call.")
	f.IntVar(&backendLatency, "backend-latency", 100,
		"The latency of the backend memory, in cycles.")
	f.StringVar(&dbPath, "db", os.Getenv(envDB),
		"Record the results into this SQLite file, without the .sqlite3 "+
			"suffix. Defaults to $"+envDB+".")
	f.BoolVar(&useMonitor, "monitor", false,
		"Serve the live monitor while the traffic runs.")
	f.IntVar(&monitorPort, "port", envInt(envMonitorPort, 0),
		"The port of the monitor. A random port is used if not given. "+
			"Defaults to $"+envMonitorPort+".")
	f.BoolVar(&openBrowser, "open-browser", false,
		"Open the monitor in a browser.")
	f.BoolVar(&logTransactions, "log-transactions", false,
		"Write every dispatch of the interconnect to stdout as CSV.")
	f.StringVar(&bindingStrategy, "binding", "fixed",
		"How crossbar nodes bind to linear switches, fixed or staggered.")
	f.BoolVar(&printPerSwitch, "per-switch", false,
		"Also print the counters of each crossbar switch.")
	f.BoolVar(&parallelIDs, "parallel-ids", false,
		"Use globally unique transaction IDs instead of sequential ones.")
}

func runInterconnect() {
	if parallelIDs {
		sim.UseParallelIDGenerator()
	}

	cfg := loadConfig()

	strategy, err := butterfly.ParseBindingStrategy(bindingStrategy)
	if err != nil {
		atexit.Fatalf("Error: %v", err)
	}

	clock := sim.NewManualClock()

	c, err := butterfly.MakeBuilder().
		WithTimeTeller(clock).
		WithConfig(cfg).
		WithBindingStrategy(strategy).
		Build("Butterfly")
	if err != nil {
		atexit.Fatalf("Error building the interconnect: %v", err)
	}

	backend := buildBackend(clock, cfg)
	transport.BindN(c.InitiatorSocket(), backend.TopPort(), c.NumPorts())

	test := acceptance.NewTest(cfg.MemorySizeInByte, seed)
	agent := acceptance.NewAgent("Agent", test)
	agent.BindTo(c.TargetSocket(), c.NumPorts())
	test.RegisterAgent(agent)

	err = c.Validate()
	if err != nil {
		atexit.Fatalf("Error wiring the interconnect: %v", err)
	}

	latencyTracer := tracing.NewLatencyTracer(tracing.AllTasks)
	c.AcceptHook(latencyTracer)

	if logTransactions {
		c.AcceptHook(tracing.NewTransactionLogger(os.Stdout))
	}

	monitor := startMonitor(c, backend, agent)

	var bar *monitoring.ProgressBar
	if monitor != nil {
		test.UseLock(monitor.ComponentLock())
		bar = monitor.CreateProgressBar("Transactions", numTransactions)
		c.AcceptHook(monitoring.NewProgressHook(bar))
	}

	test.GenerateTransactions(numTransactions)

	err = test.Run(clock, cfg.Freq().Period(), backend)
	if err != nil {
		atexit.Fatalf("Error: %v", err)
	}

	test.MustHaveReceivedAllTransactions()

	if bar != nil {
		monitor.CompleteProgressBar(bar)
	}

	report := c.Report()
	report.Print(os.Stdout)

	if printPerSwitch {
		report.PrintSwitches(os.Stdout)
	}

	test.ReportBandwidthAchieved(clock.CurrentTime())

	if dbPath != "" {
		record(report, latencyTracer, test)
	}
}

func buildBackend(clock sim.TimeTeller, cfg config.Config) *idealmemcontroller.Comp {
	mode := idealmemcontroller.Immediate
	if deferredBackend {
		mode = idealmemcontroller.Deferred
	}

	return idealmemcontroller.MakeBuilder().
		WithTimeTeller(clock).
		WithFreq(cfg.MCFreq()).
		WithLatency(backendLatency).
		WithCapacity(cfg.MemorySizeInByte).
		WithMode(mode).
		Build("Backend")
}

func startMonitor(
	c *butterfly.Comp,
	components ...sim.Named,
) *monitoring.Monitor {
	if !useMonitor {
		return nil
	}

	m := monitoring.NewMonitor().
		WithPortNumber(monitorPort).
		WithBrowser(openBrowser)
	m.RegisterInterconnect(c)

	for _, comp := range components {
		m.RegisterComponent(comp)
	}

	m.StartServer()

	return m
}

type summaryEntry struct {
	NumTransactions uint64
	NumStatusOK     uint64
	NumVisited      int
	TotalBytes      uint64
	FirstArrival    float64
	LastDeparture   float64
	Duration        float64
	Throughput      float64
	AverageLatency  float64
}

func record(
	report analysis.Report,
	latencyTracer *tracing.LatencyTracer,
	test *acceptance.Test,
) {
	recorder := datarecording.New(dbPath)

	recorder.CreateTable("crossbar_switches", analysis.SwitchStat{})

	for _, s := range report.Switches {
		recorder.InsertData("crossbar_switches", s)
	}

	recorder.CreateTable("summary", summaryEntry{})
	recorder.InsertData("summary", summaryEntry{
		NumTransactions: uint64(test.NumSent()),
		NumStatusOK:     test.NumStatusOK(),
		NumVisited:      report.NumVisited,
		TotalBytes:      report.TotalBytes,
		FirstArrival:    float64(report.FirstArrival),
		LastDeparture:   float64(report.LastDeparture),
		Duration:        float64(report.Duration),
		Throughput:      report.Throughput,
		AverageLatency:  float64(latencyTracer.AverageLatency()),
	})

	latencyTracer.RecordTo(recorder, "port_latency")

	err := recorder.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error closing the database: %v\n", err)
	}
}
