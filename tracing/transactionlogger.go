package tracing

import (
	"io"

	"github.com/sarchlab/butterfly/mem"
	"github.com/sarchlab/butterfly/noc/butterfly"
	"github.com/sarchlab/butterfly/sim"
)

// TransactionLogger is a hook that writes one CSV line per dispatch:
// time, domain, position, id, command, address, size, port, result.
type TransactionLogger struct {
	sim.LogHookBase
}

// NewTransactionLogger returns a new TransactionLogger which writes into w.
func NewTransactionLogger(w io.Writer) *TransactionLogger {
	return &TransactionLogger{LogHookBase: sim.NewLogHookBase(w)}
}

// Func writes the transaction information into the logger
func (h *TransactionLogger) Func(ctx sim.HookCtx) {
	tx, ok := ctx.Item.(*mem.Transaction)
	if !ok {
		return
	}

	d, ok := ctx.Detail.(butterfly.Dispatch)
	if !ok {
		return
	}

	domain := ""
	if named, ok := ctx.Domain.(sim.Named); ok {
		domain = named.Name()
	}

	h.Logger.Printf("%.10f,%s,%s,%s,%s,0x%x,%d,%d,%s\n",
		ctx.Now+d.Delay, domain, ctx.Pos.Name,
		tx.ID, tx.Command, tx.Address, tx.ByteSize, d.Port, d.Result)
}
