package pipeline

import (
	"github.com/redyaung/jarvs/dataflow"
	"github.com/redyaung/jarvs/units"
	"github.com/redyaung/jarvs/word"
)

// IdEx latches every value ID hands to EX: the two register operands,
// the decoded immediate, the source/destination register indices (read
// by the forwarding unit and by hazard detection), funct3/funct7 (for
// AluControl), and the control bits that steer EX, MEM and WB. It is
// Freezable and Flushable; a flush zeroes MemRead, MemWrite and
// RegWrite so a bubble performs no effect downstream.
//
// The forwarding unit mutates ReadData1.In/ReadData2.In directly during
// the priority phase, before this register's own operate() copies them
// through, so EX reads forwarded values the same cycle they are latched.
type IdEx struct {
	dataflow.Named
	dataflow.NoOpNotify

	ShouldFreeze *dataflow.InputSignal[bool]
	ShouldFlush  *dataflow.InputSignal[bool]

	ReadData1 *Field[word.Word]
	ReadData2 *Field[word.Word]
	Imm       *Field[word.Word]
	Rs1       *Field[units.Reg]
	Rs2       *Field[units.Reg]
	Rd        *Field[units.Reg]
	Funct3    *Field[uint8]
	Funct7    *Field[uint8]

	AluSrc    *Field[bool]
	CtrlAluOp *Field[units.AluOpSel]
	MemRead   *Field[bool]
	MemWrite  *Field[bool]
	MemToReg  *Field[bool]
	RegWrite  *Field[bool]
}

// NewIdEx constructs an IdEx register.
func NewIdEx(name string) *IdEx {
	r := &IdEx{Named: dataflow.NewNamed(name)}
	r.ShouldFreeze = dataflow.NewInputSignal[bool](r)
	r.ShouldFlush = dataflow.NewInputSignal[bool](r)

	r.ReadData1 = newField[word.Word](r)
	r.ReadData2 = newField[word.Word](r)
	r.Imm = newField[word.Word](r)
	r.Rs1 = newField[units.Reg](r)
	r.Rs2 = newField[units.Reg](r)
	r.Rd = newField[units.Reg](r)
	r.Funct3 = newField[uint8](r)
	r.Funct7 = newField[uint8](r)

	r.AluSrc = newField[bool](r)
	r.CtrlAluOp = newField[units.AluOpSel](r)
	r.MemRead = newField[bool](r)
	r.MemWrite = newField[bool](r)
	r.MemToReg = newField[bool](r)
	r.RegWrite = newField[bool](r)
	return r
}

// Operate copies every field through unless frozen, then zeroes the
// destructive control fields on a flush.
func (r *IdEx) Operate() {
	if r.ShouldFreeze.Value() {
		return
	}

	r.ReadData1.copyThrough()
	r.ReadData2.copyThrough()
	r.Imm.copyThrough()
	r.Rs1.copyThrough()
	r.Rs2.copyThrough()
	r.Rd.copyThrough()
	r.Funct3.copyThrough()
	r.Funct7.copyThrough()
	r.AluSrc.copyThrough()
	r.CtrlAluOp.copyThrough()
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
