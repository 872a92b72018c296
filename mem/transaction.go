// Package mem defines the memory transactions that travel through the
// interconnect and the address ranges that the fabric is partitioned into.
package mem

import (
	"fmt"

	"github.com/sarchlab/butterfly/sim"
)

// Size units.
const (
	KB uint64 = 1 << 10
	MB uint64 = 1 << 20
	GB uint64 = 1 << 30
)

// Command tells whether a transaction reads or writes memory.
type Command int

// Supported commands.
const (
	CommandRead Command = iota
	CommandWrite
)

func (c Command) String() string {
	switch c {
	case CommandRead:
		return "read"
	case CommandWrite:
		return "write"
	default:
		return fmt.Sprintf("command(%d)", int(c))
	}
}

// ResponseStatus is filled in by whoever completes the transaction.
type ResponseStatus int

// Response statuses.
const (
	StatusIncomplete ResponseStatus = iota
	StatusOK
	StatusAddressError
	StatusGenericError
)

func (s ResponseStatus) String() string {
	switch s {
	case StatusIncomplete:
		return "incomplete"
	case StatusOK:
		return "ok"
	case StatusAddressError:
		return "address-error"
	case StatusGenericError:
		return "generic-error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// A Transaction is one memory access travelling through the fabric. The
// transaction is handed from node to node along the routing path. It belongs
// to its originator again once the reply comes back.
type Transaction struct {
	ID       string
	Command  Command
	Address  uint64
	ByteSize uint64
	Data     []byte
	Status   ResponseStatus
}

// IsRead returns true if the transaction reads memory.
func (t *Transaction) IsRead() bool {
	return t.Command == CommandRead
}

// IsWrite returns true if the transaction writes memory.
func (t *Transaction) IsWrite() bool {
	return t.Command == CommandWrite
}

// IsResponseOK returns true if the transaction completed without error.
func (t *Transaction) IsResponseOK() bool {
	return t.Status == StatusOK
}

// Range returns the addresses the transaction touches.
func (t *Transaction) Range() AddressRange {
	size := t.ByteSize
	if size == 0 {
		size = 1
	}

	return AddressRange{Low: t.Address, High: t.Address + size - 1}
}

func (t *Transaction) String() string {
	return fmt.Sprintf("%s %s 0x%x+%d (%s)",
		t.ID, t.Command, t.Address, t.ByteSize, t.Status)
}

// TransactionBuilder can build transactions.
type TransactionBuilder struct {
	command  Command
	address  uint64
	byteSize uint64
	data     []byte
}

// WithCommand sets the command of the transaction to build.
func (b TransactionBuilder) WithCommand(c Command) TransactionBuilder {
	b.command = c
	return b
}

// WithAddress sets the address of the transaction to build.
func (b TransactionBuilder) WithAddress(address uint64) TransactionBuilder {
	b.address = address
	return b
}

// WithByteSize sets the number of bytes that the transaction accesses.
func (b TransactionBuilder) WithByteSize(byteSize uint64) TransactionBuilder {
	b.byteSize = byteSize
	return b
}

// WithData sets the payload of a write. The byte size follows the data length.
func (b TransactionBuilder) WithData(data []byte) TransactionBuilder {
	b.data = data
	b.byteSize = uint64(len(data))

	return b
}

// Build creates a new transaction.
func (b TransactionBuilder) Build() *Transaction {
	if b.command == CommandWrite && b.data == nil {
		b.data = make([]byte, b.byteSize)
	}

	return &Transaction{
		ID:       sim.GetIDGenerator().Generate(),
		Command:  b.command,
		Address:  b.address,
		ByteSize: b.byteSize,
		Data:     b.data,
		Status:   StatusIncomplete,
	}
}
