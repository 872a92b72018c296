// Package monitoring serves the state of an interconnect over HTTP.
package monitoring

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/butterfly/noc/butterfly"
	"github.com/sarchlab/butterfly/sim"
)

// A queue is a node that bounds the requests it keeps in flight.
type queue interface {
	sim.Named
	NumOutstanding() int
	RequestQueueSize() int
}

// Monitor turns a simulation into a server so that the interconnect can be
// inspected while and after it runs.
type Monitor struct {
	interconnect *butterfly.Comp
	components   []sim.Named
	queues       []queue
	portNumber   int
	openBrowser  bool

	componentLock sync.Mutex

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithBrowser makes StartServer open the monitor in the default browser.
func (m *Monitor) WithBrowser(open bool) *Monitor {
	m.openBrowser = open
	return m
}

// RegisterInterconnect registers the interconnect and all of its nodes.
func (m *Monitor) RegisterInterconnect(c *butterfly.Comp) {
	m.interconnect = c
	m.RegisterComponent(c)

	for _, s := range c.LinearSwitches() {
		m.RegisterComponent(s)
	}

	left, right := c.EndCaps()
	m.RegisterComponent(left)
	m.RegisterComponent(right)

	for _, mc := range c.MemoryControllers() {
		m.RegisterComponent(mc)
	}

	for _, s := range c.CrossbarSwitches() {
		m.RegisterComponent(s)
	}
}

// ComponentLock returns the lock that guards the registered components. The
// code that drives traffic must hold it while it changes the components, and
// the monitor holds it while it reads them.
func (m *Monitor) ComponentLock() sync.Locker {
	return &m.componentLock
}

// RegisterComponent registers a component to be inspected.
func (m *Monitor) RegisterComponent(c sim.Named) {
	m.components = append(m.components, c)

	if q, ok := c.(queue); ok {
		m.queues = append(m.queues, q)
	}
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        sim.GetIDGenerator().Generate(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar to be shown on the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// Router returns the handler of all the API endpoints.
func (m *Monitor) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/topology", m.paused(m.topology))
	r.HandleFunc("/api/list_components", m.listComponents)
	r.HandleFunc("/api/component/{name}", m.paused(m.listComponentDetails))
	r.HandleFunc("/api/field/{json}", m.paused(m.listFieldValue))
	r.HandleFunc("/api/queues", m.paused(m.listQueues))
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/report", m.paused(m.report))
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)

	return r
}

// paused runs a handler while the components are not being changed.
func (m *Monitor) paused(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.componentLock.Lock()
		defer m.componentLock.Unlock()

		h(w, r)
	}
}

// StartServer starts the monitor as a web server and returns its address.
func (m *Monitor) StartServer() string {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	router := m.Router()

	go func() {
		err := http.Serve(listener, router)
		dieOnErr(err)
	}()

	if m.openBrowser {
		err = browser.OpenURL(url + "/api/topology")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot open browser: %s\n", err)
		}
	}

	return url
}

type rangeRsp struct {
	Name string `json:"name"`
	Low  uint64 `json:"low"`
	High uint64 `json:"high"`
}

type crossbarRsp struct {
	Name     string   `json:"name"`
	Upstream []string `json:"upstream"`
}

type topologyRsp struct {
	Name              string        `json:"name"`
	NumPorts          int           `json:"num_ports"`
	BindingStrategy   string        `json:"binding_strategy"`
	Config            any           `json:"config"`
	LinearSwitches    []rangeRsp    `json:"linear_switches"`
	MemoryControllers []rangeRsp    `json:"memory_controllers"`
	CrossbarSwitches  []crossbarRsp `json:"crossbar_switches"`
}

func (m *Monitor) topology(w http.ResponseWriter, _ *http.Request) {
	c := m.interconnectOr404(w)
	if c == nil {
		return
	}

	rsp := topologyRsp{
		Name:            c.Name(),
		NumPorts:        c.NumPorts(),
		BindingStrategy: c.BindingStrategy().String(),
		Config:          c.Config(),
	}

	for i, s := range c.LinearSwitches() {
		r := c.Layout().SwitchRange(i)
		rsp.LinearSwitches = append(rsp.LinearSwitches,
			rangeRsp{Name: s.Name(), Low: r.Low, High: r.High})
	}

	for _, mc := range c.MemoryControllers() {
		r := mc.AddressRange()
		rsp.MemoryControllers = append(rsp.MemoryControllers,
			rangeRsp{Name: mc.Name(), Low: r.Low, High: r.High})
	}

	for _, s := range c.CrossbarSwitches() {
		node := crossbarRsp{Name: s.Name()}

		socket := s.InitiatorSocket()
		for i := 0; i < socket.Size(); i++ {
			node.Upstream = append(node.Upstream, socket.Link(i).Target.Name())
		}

		rsp.CrossbarSwitches = append(rsp.CrossbarSwitches, node)
	}

	writeJSON(w, rsp)
}

func (m *Monitor) report(w http.ResponseWriter, _ *http.Request) {
	c := m.interconnectOr404(w)
	if c == nil {
		return
	}

	writeJSON(w, c.Report())
}

func (m *Monitor) listComponents(w http.ResponseWriter, _ *http.Request) {
	names := make([]string, 0, len(m.components))
	for _, c := range m.components {
		names = append(names, c.Name())
	}

	writeJSON(w, names)
}

func (m *Monitor) listComponentDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	component := m.findComponentOr404(w, name)
	if component == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(component)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

type fieldReq struct {
	CompName  string `json:"comp_name,omitempty"`
	FieldName string `json:"field_name,omitempty"`
}

func (m *Monitor) listFieldValue(w http.ResponseWriter, r *http.Request) {
	jsonString := mux.Vars(r)["json"]
	req := fieldReq{}

	err := json.Unmarshal([]byte(jsonString), &req)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)

		return
	}

	component := m.findComponentOr404(w, req.CompName)
	if component == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(component)
	serializer.SetMaxDepth(1)

	err = serializer.SetEntryPoint(strings.Split(req.FieldName, "."))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)

		return
	}

	err = serializer.Serialize(w)
	dieOnErr(err)
}

type queueRsp struct {
	Name  string `json:"queue"`
	Level int    `json:"level"`
	Cap   int    `json:"cap"`
}

func (m *Monitor) listQueues(w http.ResponseWriter, r *http.Request) {
	sortMethod, limit, offset, err := queuesParseParams(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)

		return
	}

	selected := m.sortAndSelectQueues(sortMethod, limit, offset)

	rsp := make([]queueRsp, 0, len(selected))
	for _, q := range selected {
		rsp = append(rsp, queueRsp{
			Name:  q.Name(),
			Level: q.NumOutstanding(),
			Cap:   q.RequestQueueSize(),
		})
	}

	writeJSON(w, rsp)
}

func queuesParseParams(
	r *http.Request,
) (sortMethod string, limit, offset int, err error) {
	sortMethod = r.URL.Query().Get("sort")
	if sortMethod == "" {
		sortMethod = "percent"
	}

	if sortMethod != "level" && sortMethod != "percent" {
		return "", 0, 0, fmt.Errorf(
			"invalid sort method: %s. Allowed values are `level` and `percent`",
			sortMethod)
	}

	limit, err = intParam(r, "limit")
	if err != nil {
		return sortMethod, 0, 0, err
	}

	offset, err = intParam(r, "offset")
	if err != nil {
		return sortMethod, limit, 0, err
	}

	return sortMethod, limit, offset, nil
}

func intParam(r *http.Request, name string) (int, error) {
	str := r.URL.Query().Get(name)
	if str == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(str)
	if err != nil {
		return 0, err
	}

	if n < 0 {
		return 0, errors.New(name + " must not be negative")
	}

	return n, nil
}

func queuePercent(q queue) float64 {
	return float64(q.NumOutstanding()) / float64(q.RequestQueueSize())
}

// sortAndSelectQueues sorts the queues with the fullest first. A limit of 0
// selects all the queues after offset.
func (m *Monitor) sortAndSelectQueues(
	sortMethod string,
	limit, offset int,
) []queue {
	sorted := make([]queue, len(m.queues))
	copy(sorted, m.queues)

	byLevel := func(i, j int) (bool, bool) {
		li, lj := sorted[i].NumOutstanding(), sorted[j].NumOutstanding()
		return li > lj, li != lj
	}

	byPercent := func(i, j int) (bool, bool) {
		pi, pj := queuePercent(sorted[i]), queuePercent(sorted[j])
		return pi > pj, pi != pj
	}

	first, second := byPercent, byLevel
	if sortMethod == "level" {
		first, second = byLevel, byPercent
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if less, decided := first(i, j); decided {
			return less
		}

		less, _ := second(i, j)

		return less
	})

	if offset > len(sorted) {
		offset = len(sorted)
	}

	end := len(sorted)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	return sorted[offset:end]
}

func (m *Monitor) interconnectOr404(w http.ResponseWriter) *butterfly.Comp {
	if m.interconnect == nil {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("No interconnect registered"))
		dieOnErr(err)
	}

	return m.interconnect
}

func (m *Monitor) findComponentOr404(
	w http.ResponseWriter,
	name string,
) sim.Named {
	for _, c := range m.components {
		if c.Name() == name {
			return c
		}
	}

	w.WriteHeader(http.StatusNotFound)
	_, err := w.Write([]byte("Component not found"))
	dieOnErr(err)

	return nil
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	writeJSON(w, m.progressBars)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(data)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
