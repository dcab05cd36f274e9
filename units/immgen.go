package units

import (
	"github.com/redyaung/jarvs/dataflow"
	"github.com/redyaung/jarvs/word"
)

// ImmGen extracts and sign-extends the immediate field encoded in a raw
// instruction, dispatching on the opcode-derived format. NOP (the
// all-zero instruction) short-circuits: the output is left unchanged
// rather than being recomputed, since there is nothing meaningful to
// extract.
type ImmGen struct {
	dataflow.Named

	Instruction *dataflow.InputSignal[word.Word]
	Imm         *dataflow.OutputSignal[word.Word]
}

// NewImmGen constructs an ImmGen unit.
func NewImmGen(name string) *ImmGen {
	g := &ImmGen{Named: dataflow.NewNamed(name)}
	g.Instruction = dataflow.NewInputSignal[word.Word](g)
	g.Imm = dataflow.NewOutputSignal[word.Word]()
	return g
}

// NotifyInputChange recomputes the immediate immediately.
func (g *ImmGen) NotifyInputChange() {
	g.Operate()
}

// Operate dispatches on format and drives the sign-extended immediate.
func (g *ImmGen) Operate() {
	instr := g.Instruction.Value()
	raw := instr.Uint32()

	if instr.IsZero() {
		return
	}

	op := opcode(raw)

	var imm int32
	switch op {
	case OpcodeIALU, OpcodeILoad, OpcodeIJalr:
		imm = signExtend(extractBits(raw, 20, 31), 12)
	case OpcodeS, OpcodeSB:
		upper := extractBits(raw, 25, 31)
		lower := extractBits(raw, 7, 11)
		imm = signExtend((upper<<5)|lower, 12)
	case OpcodeU:
		imm = int32(extractBits(raw, 12, 31) << 12)
	case OpcodeUJ:
		imm = signExtend(extractBits(raw, 12, 31), 20)
	default:
		return
	}

	dataflow.Drive(g.Imm, word.FromInt32(imm))
}

// signExtend sign-extends the low bits-wide field of v to a full int32.
func signExtend(v uint32, bits int) int32 {
	shift := 32 - bits
	return int32(v<<shift) >> shift
}
