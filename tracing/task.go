package tracing

import (
	"github.com/sarchlab/butterfly/mem"
	"github.com/sarchlab/butterfly/sim"
)

// A Task is the life of one transaction at the interconnect boundary, from
// the request entering a port to the reply leaving it.
type Task struct {
	ID        string
	What      string
	Port      int
	ByteSize  uint64
	StartTime sim.VTimeInSec
	EndTime   sim.VTimeInSec
}

// TaskFilter decides whether a task is traced.
type TaskFilter func(t Task) bool

// AllTasks traces every task.
func AllTasks(Task) bool {
	return true
}

// OnlyCommand traces the tasks of one command.
func OnlyCommand(c mem.Command) TaskFilter {
	what := c.String()

	return func(t Task) bool {
		return t.What == what
	}
}

func taskFromTransaction(tx *mem.Transaction, port int) Task {
	return Task{
		ID:       tx.ID,
		What:     tx.Command.String(),
		Port:     port,
		ByteSize: tx.ByteSize,
	}
}
