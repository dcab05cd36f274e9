package units

import (
	"github.com/redyaung/jarvs/dataflow"
	"github.com/redyaung/jarvs/word"
)

// ALU performs signed 32-bit arithmetic and logic. Shifts are performed
// on signed operands, which may differ from strict RV32I semantics for
// srl; this is a deliberate, preserved deviation rather than an
// oversight.
type ALU struct {
	dataflow.Named

	Op       *dataflow.InputSignal[AluOp]
	Operand1 *dataflow.InputSignal[word.Word]
	Operand2 *dataflow.InputSignal[word.Word]

	Output *dataflow.OutputSignal[word.Word]
	Zero   *dataflow.OutputSignal[bool]
}

// NewALU constructs an ALU unit.
func NewALU(name string) *ALU {
	a := &ALU{Named: dataflow.NewNamed(name)}
	a.Op = dataflow.NewInputSignal[AluOp](a)
	a.Operand1 = dataflow.NewInputSignal[word.Word](a)
	a.Operand2 = dataflow.NewInputSignal[word.Word](a)
	a.Output = dataflow.NewOutputSignal[word.Word]()
	a.Zero = dataflow.NewOutputSignal[bool]()
	return a
}

// NotifyInputChange recomputes the result immediately.
func (a *ALU) NotifyInputChange() {
	a.Operate()
}

// Operate computes the ALU result and zero flag from the current
// operands.
func (a *ALU) Operate() {
	x := a.Operand1.Value().Int32()
	y := a.Operand2.Value().Int32()

	var result int32
	switch a.Op.Value() {
	case AluAdd:
		result = x + y
	case AluSub:
		result = x - y
	case AluAnd:
		result = x & y
	case AluOr:
		result = x | y
	case AluSll:
		result = x << uint32(y&0x1F)
	case AluSrl:
		result = x >> uint32(y&0x1F)
	default:
		result = 0
	}

	dataflow.Drive(a.Output, word.FromInt32(result))
	dataflow.Drive(a.Zero, result == 0)
}
