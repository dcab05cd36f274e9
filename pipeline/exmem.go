package pipeline

import (
	"github.com/redyaung/jarvs/dataflow"
	"github.com/redyaung/jarvs/units"
	"github.com/redyaung/jarvs/word"
)

// ExMem latches EX's result for MEM and WB: the ALU output (doubling as
// the memory address for loads/stores), the store's write data, the
// destination register, and the surviving control bits. Freezable by
// the memory-hazard detector while a data-memory access is in flight;
// Flushable for symmetry with the other inter-stage registers, though
// no hazard unit in this datapath currently drives it.
type ExMem struct {
	dataflow.Named
	dataflow.NoOpNotify

	ShouldFreeze *dataflow.InputSignal[bool]
	ShouldFlush  *dataflow.InputSignal[bool]

	AluResult *Field[word.Word]
	WriteData *Field[word.Word]
	Rd        *Field[units.Reg]

	MemRead  *Field[bool]
	MemWrite *Field[bool]
	MemToReg *Field[bool]
	RegWrite *Field[bool]
}

// NewExMem constructs an ExMem register.
func NewExMem(name string) *ExMem {
	r := &ExMem{Named: dataflow.NewNamed(name)}
	r.ShouldFreeze = dataflow.NewInputSignal[bool](r)
	r.ShouldFlush = dataflow.NewInputSignal[bool](r)

	r.AluResult = newField[word.Word](r)
	r.WriteData = newField[word.Word](r)
	r.Rd = newField[units.Reg](r)

	r.MemRead = newField[bool](r)
	r.MemWrite = newField[bool](r)
	r.MemToReg = newField[bool](r)
	r.RegWrite = newField[bool](r)
	return r
}

// Operate copies every field through unless frozen, then zeroes the
// destructive control fields on a flush.
func (r *ExMem) Operate() {
	if r.ShouldFreeze.Value() {
		return
	}

	r.AluResult.copyThrough()
	r.WriteData.copyThrough()
	r.Rd.copyThrough()
	r.MemRead.copyThrough()
	r.MemWrite.copyThrough()
	r.MemToReg.copyThrough()
	r.RegWrite.copyThrough()

	if r.ShouldFlush.Value() {
		r.MemRead.zero()
		r.MemWrite.zero()
		r.RegWrite.zero()
	}
}
