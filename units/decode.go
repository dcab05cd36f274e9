package units

import (
	"github.com/redyaung/jarvs/dataflow"
	"github.com/redyaung/jarvs/word"
)

// Decode extracts the register-index and function-code fields from a raw
// instruction word. It always runs and never raises, even for
// unrecognised opcodes.
type Decode struct {
	dataflow.Named

	Instruction *dataflow.InputSignal[word.Word]

	Rs1     *dataflow.OutputSignal[Reg]
	Rs2     *dataflow.OutputSignal[Reg]
	Rd      *dataflow.OutputSignal[Reg]
	Funct3  *dataflow.OutputSignal[uint8]
	Funct7  *dataflow.OutputSignal[uint8]
	Opcode  *dataflow.OutputSignal[uint32]
}

// NewDecode constructs a Decode unit.
func NewDecode(name string) *Decode {
	d := &Decode{Named: dataflow.NewNamed(name)}
	d.Instruction = dataflow.NewInputSignal[word.Word](d)
	d.Rs1 = dataflow.NewOutputSignal[Reg]()
	d.Rs2 = dataflow.NewOutputSignal[Reg]()
	d.Rd = dataflow.NewOutputSignal[Reg]()
	d.Funct3 = dataflow.NewOutputSignal[uint8]()
	d.Funct7 = dataflow.NewOutputSignal[uint8]()
	d.Opcode = dataflow.NewOutputSignal[uint32]()
	return d
}

// NotifyInputChange recomputes the decoded fields immediately.
func (d *Decode) NotifyInputChange() {
	d.Operate()
}

// Operate extracts the decoded fields from the current instruction.
func (d *Decode) Operate() {
	raw := d.Instruction.Value().Uint32()

	dataflow.Drive(d.Opcode, opcode(raw))
	dataflow.Drive(d.Rs1, Reg(extractBits(raw, 15, 19)))
	dataflow.Drive(d.Rs2, Reg(extractBits(raw, 20, 24)))
	dataflow.Drive(d.Rd, Reg(extractBits(raw, 7, 11)))
	dataflow.Drive(d.Funct3, uint8(extractBits(raw, 12, 14)))
	dataflow.Drive(d.Funct7, uint8(extractBits(raw, 25, 31)))
}

// extractBits returns bits [lo, hi] (inclusive, little end first) of v,
// right-justified.
func extractBits(v uint32, lo, hi int) uint32 {
	width := hi - lo + 1
	mask := uint32((1 << width) - 1)
	return (v >> lo) & mask
}
