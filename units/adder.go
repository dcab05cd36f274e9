package units

import (
	"github.com/redyaung/jarvs/dataflow"
	"github.com/redyaung/jarvs/word"
)

// Adder drives Output with the signed sum of its two operands. It backs
// the PC+4 and branch/jump target computations, which are wired
// independently of the main ALU so that the datapath's control-flow
// redirection resolves in the ID stage.
type Adder struct {
	dataflow.Named

	Operand1 *dataflow.InputSignal[word.Word]
	Operand2 *dataflow.InputSignal[word.Word]

	Output *dataflow.OutputSignal[word.Word]
}

// NewAdder constructs an Adder.
func NewAdder(name string) *Adder {
	a := &Adder{Named: dataflow.NewNamed(name)}
	a.Operand1 = dataflow.NewInputSignal[word.Word](a)
	a.Operand2 = dataflow.NewInputSignal[word.Word](a)
	a.Output = dataflow.NewOutputSignal[word.Word]()
	return a
}

// NotifyInputChange recomputes the sum immediately.
func (a *Adder) NotifyInputChange() {
	a.Operate()
}

// Operate drives Output with Operand1 + Operand2.
func (a *Adder) Operate() {
	sum := a.Operand1.Value().Int32() + a.Operand2.Value().Int32()
	dataflow.Drive(a.Output, word.FromInt32(sum))
}
