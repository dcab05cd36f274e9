package proc

import (
	"fmt"

	"github.com/redyaung/jarvs/dataflow"
	"github.com/redyaung/jarvs/word"
)

// InstructionMemory is a flat, byte-addressed array of instruction
// words. Unlike the data-side memory hierarchy it is not timed: fetch
// is a single-cycle combinational lookup, matching the source's
// treatment of instruction memory as plumbing rather than part of the
// modelled hierarchy (spec's timed-memory contracts apply to data
// memory only).
type InstructionMemory struct {
	dataflow.Named

	Address *dataflow.InputSignal[word.Word]

	Instruction *dataflow.OutputSignal[word.Word]

	words []word.Word
}

// NewInstructionMemory constructs an InstructionMemory with room for
// numWords instructions.
func NewInstructionMemory(name string, numWords int) *InstructionMemory {
	m := &InstructionMemory{Named: dataflow.NewNamed(name), words: make([]word.Word, numWords)}
	m.Address = dataflow.NewInputSignal[word.Word](m)
	m.Instruction = dataflow.NewOutputSignal[word.Word]()
	return m
}

// Load installs program starting at word index 0 (byte address 0),
// zero-filling the remainder of the address space.
func (m *InstructionMemory) Load(program []word.Word) {
	if len(program) > len(m.words) {
		panic(fmt.Sprintf(
			"proc: program of %d words does not fit in %d-word instruction memory",
			len(program), len(m.words)))
	}
	for i := range m.words {
		m.words[i] = word.Zero
	}
	copy(m.words, program)
	m.Operate()
}

// NotifyInputChange recomputes the fetched instruction immediately.
func (m *InstructionMemory) NotifyInputChange() {
	m.Operate()
}

// Operate drives Instruction with the word at the current Address. An
// out-of-range fetch (e.g. running off the end of a short program)
// yields NOP rather than panicking, so the pipeline drains cleanly.
func (m *InstructionMemory) Operate() {
	idx := int(m.Address.Value().Uint32() / 4)
	if idx < 0 || idx >= len(m.words) {
		dataflow.Drive(m.Instruction, word.Zero)
		return
	}
	dataflow.Drive(m.Instruction, m.words[idx])
}
