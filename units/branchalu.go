package units

import (
	"github.com/redyaung/jarvs/dataflow"
	"github.com/redyaung/jarvs/word"
)

// BranchALU evaluates the two operands of a conditional branch against
// the comparison selected by funct3 and emits whether the branch should
// be taken. bltu and bgeu are not supported.
type BranchALU struct {
	dataflow.Named

	Funct3   *dataflow.InputSignal[uint8]
	Operand1 *dataflow.InputSignal[word.Word]
	Operand2 *dataflow.InputSignal[word.Word]

	Taken *dataflow.OutputSignal[bool]
}

// NewBranchALU constructs a BranchALU unit.
func NewBranchALU(name string) *BranchALU {
	b := &BranchALU{Named: dataflow.NewNamed(name)}
	b.Funct3 = dataflow.NewInputSignal[uint8](b)
	b.Operand1 = dataflow.NewInputSignal[word.Word](b)
	b.Operand2 = dataflow.NewInputSignal[word.Word](b)
	b.Taken = dataflow.NewOutputSignal[bool]()
	return b
}

// NotifyInputChange recomputes the branch decision immediately.
func (b *BranchALU) NotifyInputChange() {
	b.Operate()
}

// Operate evaluates the comparison selected by Funct3.
func (b *BranchALU) Operate() {
	x := b.Operand1.Value().Int32()
	y := b.Operand2.Value().Int32()

	var taken bool
	switch b.Funct3.Value() {
	case Funct3Beq:
		taken = x == y
	case Funct3Bne:
		taken = x != y
	case Funct3Blt:
		taken = x < y
	case Funct3Bge:
		taken = x >= y
	default:
		taken = false
	}

	dataflow.Drive(b.Taken, taken)
}
