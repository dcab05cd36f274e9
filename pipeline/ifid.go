package pipeline

import (
	"github.com/redyaung/jarvs/dataflow"
	"github.com/redyaung/jarvs/word"
)

// IfId latches the program counter and raw instruction word fetched in
// IF for decode in ID. It is Freezable (for load-use and memory stalls)
// and Flushable: a flush zeroes Instruction so the decode stage sees a
// NOP next cycle, the IF/ID analogue of the destructive-control-bit
// zeroing later stages perform.
type IfId struct {
	dataflow.Named
	dataflow.NoOpNotify

	ShouldFreeze *dataflow.InputSignal[bool]
	ShouldFlush  *dataflow.InputSignal[bool]

	PC          *Field[word.Word]
	Instruction *Field[word.Word]
}

// NewIfId constructs an IfId register.
func NewIfId(name string) *IfId {
	r := &IfId{Named: dataflow.NewNamed(name)}
	r.ShouldFreeze = dataflow.NewInputSignal[bool](r)
	r.ShouldFlush = dataflow.NewInputSignal[bool](r)
	r.PC = newField[word.Word](r)
	r.Instruction = newField[word.Word](r)
	return r
}

// Operate copies every field through unless frozen, then zeroes
// Instruction on a flush. ShouldFlush is sampled before the copy, since
// latching a new instruction can change it combinationally.
func (r *IfId) Operate() {
	if r.ShouldFreeze.Value() {
		return
	}

	flush := r.ShouldFlush.Value()
	r.PC.copyThrough()
	r.Instruction.copyThrough()

	if flush {
		r.Instruction.zero()
	}
}
