package pipeline

import (
	"github.com/redyaung/jarvs/dataflow"
	"github.com/redyaung/jarvs/units"
	"github.com/redyaung/jarvs/word"
)

// MemWb is the only pipeline register that is buffered rather than
// freezable: there is no later stage that can stall before it, but its
// outputs feed write-back in the same cycle as the memory read that
// produced them, while forwarding must still see the pre-latch payload.
// It is modelled as a pair of identical latches wired in series: the
// buffer latch is clocked by BufferInputs, the out latch by Operate,
// which runs just before BufferInputs in each tick and so promotes the
// value buffered on the previous tick.
type MemWb struct {
	dataflow.Named
	dataflow.NoOpNotify

	ShouldFlush *dataflow.InputSignal[bool]

	MemReadData *BufferedField[word.Word]
	AluResult   *BufferedField[word.Word]
	Rd          *BufferedField[units.Reg]
	MemToReg    *BufferedField[bool]
	RegWrite    *BufferedField[bool]

	bufferedFlush bool
}

// NewMemWb constructs a MemWb register.
func NewMemWb(name string) *MemWb {
	r := &MemWb{Named: dataflow.NewNamed(name)}
	r.ShouldFlush = dataflow.NewInputSignal[bool](r)

	r.MemReadData = newBufferedField[word.Word](r)
	r.AluResult = newBufferedField[word.Word](r)
	r.Rd = newBufferedField[units.Reg](r)
	r.MemToReg = newBufferedField[bool](r)
	r.RegWrite = newBufferedField[bool](r)
	return r
}

// BufferInputs latches every field's current input into its buffer,
// and captures ShouldFlush alongside them so the flush that applies to
// this cycle's promotion is the one sampled when the buffer was filled.
func (r *MemWb) BufferInputs() {
	r.MemReadData.bufferInputs()
	r.AluResult.bufferInputs()
	r.Rd.bufferInputs()
	r.MemToReg.bufferInputs()
	r.RegWrite.bufferInputs()

	r.bufferedFlush = r.ShouldFlush.Value()
}

// Operate promotes every field's buffer to its out, then zeroes
// RegWrite.Out when the buffered flush was asserted so write-back
// performs no effect. RegWrite.Out is dropped before the other fields
// change, so the previous instruction's write enable never pairs with
// the next instruction's Rd and data.
func (r *MemWb) Operate() {
	r.RegWrite.zeroOut()
	r.MemReadData.promote()
	r.AluResult.promote()
	r.Rd.promote()
	r.MemToReg.promote()
	r.RegWrite.promote()

	if r.bufferedFlush {
		r.RegWrite.zeroOut()
	}
}
