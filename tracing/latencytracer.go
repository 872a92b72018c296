package tracing

import (
	"sort"
	"sync"

	"github.com/sarchlab/butterfly/datarecording"
	"github.com/sarchlab/butterfly/mem"
	"github.com/sarchlab/butterfly/noc/butterfly"
	"github.com/sarchlab/butterfly/noc/transport"
	"github.com/sarchlab/butterfly/sim"
)

// PortLatency summarizes the round trips that started on one port.
type PortLatency struct {
	Port           int
	Count          uint64
	Bytes          uint64
	TotalLatency   float64
	MinLatency     float64
	MaxLatency     float64
	AverageLatency float64
}

// LatencyTracer is a hook on the interconnect boundary that measures the
// time between a request entering a port and its reply leaving the same
// port.
type LatencyTracer struct {
	filter TaskFilter

	lock          sync.Mutex
	inflightTasks map[string]Task
	ports         map[int]*PortLatency
	taskCount     uint64
	totalLatency  sim.VTimeInSec
}

// NewLatencyTracer creates a new LatencyTracer
func NewLatencyTracer(filter TaskFilter) *LatencyTracer {
	if filter == nil {
		filter = AllTasks
	}

	return &LatencyTracer{
		filter:        filter,
		inflightTasks: make(map[string]Task),
		ports:         make(map[int]*PortLatency),
	}
}

// Func reacts to the dispatches of the interconnect.
func (t *LatencyTracer) Func(ctx sim.HookCtx) {
	tx, ok := ctx.Item.(*mem.Transaction)
	if !ok {
		return
	}

	d, ok := ctx.Detail.(butterfly.Dispatch)
	if !ok {
		return
	}

	switch ctx.Pos {
	case butterfly.HookPosForwardRequest:
		t.requestEntered(ctx.Now, tx, d)
	case butterfly.HookPosBackwardReply:
		if d.Phase == transport.BeginResp {
			t.EndTask(tx.ID, ctx.Now+d.Delay)
		}
	}
}

func (t *LatencyTracer) requestEntered(
	now sim.VTimeInSec,
	tx *mem.Transaction,
	d butterfly.Dispatch,
) {
	if d.Phase != transport.BeginReq || d.Result == transport.Rejected {
		return
	}

	task := taskFromTransaction(tx, d.Port)
	task.StartTime = now + d.Delay
	t.StartTask(task)

	if d.Result == transport.Completed ||
		(d.Result == transport.Updated && d.ReturnedPhase != transport.EndReq) {
		t.EndTask(tx.ID, now+d.ReturnedDelay)
	}
}

// StartTask records the task start time
func (t *LatencyTracer) StartTask(task Task) {
	if !t.filter(task) {
		return
	}

	t.lock.Lock()
	t.inflightTasks[task.ID] = task
	t.lock.Unlock()
}

// EndTask records the end of the task
func (t *LatencyTracer) EndTask(id string, endTime sim.VTimeInSec) {
	t.lock.Lock()
	defer t.lock.Unlock()

	task, ok := t.inflightTasks[id]
	if !ok {
		return
	}

	delete(t.inflightTasks, id)

	task.EndTime = endTime
	latency := float64(task.EndTime - task.StartTime)

	p, ok := t.ports[task.Port]
	if !ok {
		p = &PortLatency{Port: task.Port, MinLatency: latency}
		t.ports[task.Port] = p
	}

	p.Count++
	p.Bytes += task.ByteSize
	p.TotalLatency += latency
	p.AverageLatency = p.TotalLatency / float64(p.Count)

	if latency < p.MinLatency {
		p.MinLatency = latency
	}

	if latency > p.MaxLatency {
		p.MaxLatency = latency
	}

	t.taskCount++
	t.totalLatency += sim.VTimeInSec(latency)
}

// TotalCount returns the number of completed round trips.
func (t *LatencyTracer) TotalCount() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.taskCount
}

// NumInflight returns the number of requests still waiting for a reply.
func (t *LatencyTracer) NumInflight() int {
	t.lock.Lock()
	defer t.lock.Unlock()

	return len(t.inflightTasks)
}

// AverageLatency returns the average round trip time over all ports.
func (t *LatencyTracer) AverageLatency() sim.VTimeInSec {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.taskCount == 0 {
		return 0
	}

	return t.totalLatency / sim.VTimeInSec(t.taskCount)
}

// PortLatencies returns the statistics of every port that completed a round
// trip, ordered by port.
func (t *LatencyTracer) PortLatencies() []PortLatency {
	t.lock.Lock()
	defer t.lock.Unlock()

	list := make([]PortLatency, 0, len(t.ports))
	for _, p := range t.ports {
		list = append(list, *p)
	}

	sort.Slice(list, func(i, j int) bool { return list[i].Port < list[j].Port })

	return list
}

// RecordTo writes one row per port into the given table.
func (t *LatencyTracer) RecordTo(
	recorder datarecording.DataRecorder,
	tableName string,
) {
	recorder.CreateTable(tableName, PortLatency{})

	for _, p := range t.PortLatencies() {
		recorder.InsertData(tableName, p)
	}
}
