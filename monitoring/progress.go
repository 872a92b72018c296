package monitoring

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/sarchlab/butterfly/noc/butterfly"
	"github.com/sarchlab/butterfly/noc/transport"
	"github.com/sarchlab/butterfly/sim"
)

// A ProgressBar tracks how many transactions of a run have been issued,
// completed, and bounced back by a full queue.
type ProgressBar struct {
	lock sync.Mutex

	ID         string
	Name       string
	StartTime  time.Time
	Total      uint64
	Finished   uint64
	InProgress uint64
	Rejected   uint64
}

type progressBarJSON struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StartTime  time.Time `json:"start_time"`
	Total      uint64    `json:"total"`
	Finished   uint64    `json:"finished"`
	InProgress uint64    `json:"in_progress"`
	Rejected   uint64    `json:"rejected"`
}

// MarshalJSON takes a consistent snapshot of the bar.
func (b *ProgressBar) MarshalJSON() ([]byte, error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	return json.Marshal(progressBarJSON{
		ID:         b.ID,
		Name:       b.Name,
		StartTime:  b.StartTime,
		Total:      b.Total,
		Finished:   b.Finished,
		InProgress: b.InProgress,
		Rejected:   b.Rejected,
	})
}

// IncrementInProgress adds the number of in-progress items.
func (b *ProgressBar) IncrementInProgress(amount uint64) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.InProgress += amount
}

// IncrementFinished adds items that finished without being in progress.
func (b *ProgressBar) IncrementFinished(amount uint64) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.Finished += amount
}

// IncrementRejected counts items that have to be issued again.
func (b *ProgressBar) IncrementRejected(amount uint64) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.Rejected += amount
}

// MoveInProgressToFinished reduces the number of in progress items by a
// certain amount and increases the finished items by the same amount.
func (b *ProgressBar) MoveInProgressToFinished(amount uint64) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.InProgress -= amount
	b.Finished += amount
}

// A ProgressHook moves a progress bar as the interconnect accepts and answers
// transactions.
type ProgressHook struct {
	bar *ProgressBar
}

// NewProgressHook creates a hook that updates bar.
func NewProgressHook(bar *ProgressBar) *ProgressHook {
	return &ProgressHook{bar: bar}
}

// Func updates the bar with a dispatch of the interconnect.
func (h *ProgressHook) Func(ctx sim.HookCtx) {
	d, ok := ctx.Detail.(butterfly.Dispatch)
	if !ok {
		return
	}

	switch ctx.Pos {
	case butterfly.HookPosForwardRequest:
		h.requestForwarded(d)
	case butterfly.HookPosBackwardReply:
		if d.Phase == transport.BeginResp && d.Result != transport.Rejected {
			h.bar.MoveInProgressToFinished(1)
		}
	}
}

func (h *ProgressHook) requestForwarded(d butterfly.Dispatch) {
	if d.Phase != transport.BeginReq {
		return
	}

	switch {
	case d.Result == transport.Rejected:
		h.bar.IncrementRejected(1)
	case d.Result == transport.Completed,
		d.Result == transport.Updated && d.ReturnedPhase != transport.EndReq:
		h.bar.IncrementFinished(1)
	default:
		h.bar.IncrementInProgress(1)
	}
}
