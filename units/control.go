package units

import (
	"github.com/redyaung/jarvs/dataflow"
	"github.com/redyaung/jarvs/regfile"
	"github.com/redyaung/jarvs/word"
)

// Control decodes the raw instruction's opcode into the nine control
// signals that steer the rest of the datapath. NOP (the all-zero word)
// forces every bit to zero.
//
// As a deliberate simplification, Control eagerly writes the link
// address (PC+4) into the integer register file the instant a jump with
// a non-zero destination register reaches it, rather than carrying the
// link value down the pipeline to write back at WB.
type Control struct {
	dataflow.Named

	Instruction *dataflow.InputSignal[word.Word]
	Rd          *dataflow.InputSignal[Reg]
	LinkAddr    *dataflow.InputSignal[word.Word] // PC+4, for the eager jump write

	RegWrite   *dataflow.OutputSignal[bool]
	AluSrc     *dataflow.OutputSignal[bool] // false = rs2, true = imm
	CtrlAluOp  *dataflow.OutputSignal[AluOpSel]
	MemWrite   *dataflow.OutputSignal[bool]
	MemRead    *dataflow.OutputSignal[bool]
	MemToReg   *dataflow.OutputSignal[bool]
	Branch     *dataflow.OutputSignal[bool]
	UseRegBase *dataflow.OutputSignal[bool] // true for jalr
	IsJump     *dataflow.OutputSignal[bool]

	intRegs *regfile.File
}

// NewControl constructs a Control unit that eagerly writes jump link
// addresses into intRegs.
func NewControl(name string, intRegs *regfile.File) *Control {
	c := &Control{Named: dataflow.NewNamed(name), intRegs: intRegs}
	c.Instruction = dataflow.NewInputSignal[word.Word](c)
	c.Rd = dataflow.NewInputSignal[Reg](c)
	c.LinkAddr = dataflow.NewInputSignal[word.Word](c)

	c.RegWrite = dataflow.NewOutputSignal[bool]()
	c.AluSrc = dataflow.NewOutputSignal[bool]()
	c.CtrlAluOp = dataflow.NewOutputSignal[AluOpSel]()
	c.MemWrite = dataflow.NewOutputSignal[bool]()
	c.MemRead = dataflow.NewOutputSignal[bool]()
	c.MemToReg = dataflow.NewOutputSignal[bool]()
	c.Branch = dataflow.NewOutputSignal[bool]()
	c.UseRegBase = dataflow.NewOutputSignal[bool]()
	c.IsJump = dataflow.NewOutputSignal[bool]()
	return c
}

// NotifyInputChange recomputes control signals immediately.
func (c *Control) NotifyInputChange() {
	c.Operate()
}

// Operate decodes the opcode and drives every control output.
func (c *Control) Operate() {
	instr := c.Instruction.Value()

	if instr.IsZero() {
		c.driveAll(false, false, AluOpSelMem, false, false, false, false, false, false)
		return
	}

	raw := instr.Uint32()
	op := opcode(raw)

	switch op {
	case OpcodeR:
		c.driveAll(true, false, AluOpSelCompute, false, false, false, false, false, false)
	case OpcodeIALU:
		c.driveAll(true, true, AluOpSelCompute, false, false, false, false, false, false)
	case OpcodeILoad:
		c.driveAll(true, true, AluOpSelMem, false, true, true, false, false, false)
	case OpcodeIJalr:
		c.driveAll(true, true, AluOpSelMem, false, false, false, false, true, true)
		c.writeLink()
	case OpcodeS:
		c.driveAll(false, true, AluOpSelMem, true, false, false, false, false, false)
	case OpcodeSB:
		c.driveAll(false, false, AluOpSelBranch, false, false, false, true, false, false)
	case OpcodeUJ:
		c.driveAll(true, false, AluOpSelMem, false, false, false, false, false, true)
		c.writeLink()
	default:
		// Unrecognised opcode (including lui): tolerated silently,
		// effectively a NOP with undefined register effects.
		c.driveAll(false, false, AluOpSelMem, false, false, false, false, false, false)
	}
}

func (c *Control) driveAll(
	regWrite, aluSrc bool,
	ctrlAluOp AluOpSel,
	memWrite, memRead, memToReg, branch, useRegBase, isJump bool,
) {
	dataflow.Drive(c.RegWrite, regWrite)
	dataflow.Drive(c.AluSrc, aluSrc)
	dataflow.Drive(c.CtrlAluOp, ctrlAluOp)
	dataflow.Drive(c.MemWrite, memWrite)
	dataflow.Drive(c.MemRead, memRead)
	dataflow.Drive(c.MemToReg, memToReg)
	dataflow.Drive(c.Branch, branch)
	dataflow.Drive(c.UseRegBase, useRegBase)
	dataflow.Drive(c.IsJump, isJump)
}

func (c *Control) writeLink() {
	rd := c.Rd.Value()
	if rd == 0 {
		return
	}
	c.intRegs.Write(rd, c.LinkAddr.Value())
}
