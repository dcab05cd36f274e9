package pipeline

import (
	"github.com/redyaung/jarvs/dataflow"
	"github.com/redyaung/jarvs/word"
)

// InstructionIssueUnit is the freezable register holding the program
// counter that drives instruction fetch. When ShouldFreeze is asserted,
// operate leaves PC unchanged for another cycle instead of advancing to
// NextPC.
type InstructionIssueUnit struct {
	dataflow.Named
	dataflow.NoOpNotify

	ShouldFreeze *dataflow.InputSignal[bool]
	NextPC       *dataflow.InputSignal[word.Word]

	PC *dataflow.OutputSignal[word.Word]
}

// NewInstructionIssueUnit constructs an InstructionIssueUnit with PC
// initialised to 0.
func NewInstructionIssueUnit(name string) *InstructionIssueUnit {
	u := &InstructionIssueUnit{Named: dataflow.NewNamed(name)}
	u.ShouldFreeze = dataflow.NewInputSignal[bool](u)
	u.NextPC = dataflow.NewInputSignal[word.Word](u)
	u.PC = dataflow.NewOutputSignal[word.Word]()
	return u
}

// Operate advances PC to NextPC unless frozen.
func (u *InstructionIssueUnit) Operate() {
	if u.ShouldFreeze.Value() {
		return
	}
	dataflow.Drive(u.PC, u.NextPC.Value())
}

// Reset drives PC back to 0, for the CLI's "reset to initial state"
// command.
func (u *InstructionIssueUnit) Reset() {
	dataflow.Drive(u.PC, word.Zero)
}
