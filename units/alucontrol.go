package units

import (
	"github.com/redyaung/jarvs/dataflow"
)

// AluControl translates the Control unit's coarse 2-bit AluOp selector,
// together with funct3/funct7, into the concrete ALU operation.
type AluControl struct {
	dataflow.Named

	CtrlAluOp *dataflow.InputSignal[AluOpSel]
	Funct3    *dataflow.InputSignal[uint8]
	Funct7    *dataflow.InputSignal[uint8]

	Op *dataflow.OutputSignal[AluOp]
}

// NewAluControl constructs an AluControl unit.
func NewAluControl(name string) *AluControl {
	c := &AluControl{Named: dataflow.NewNamed(name)}
	c.CtrlAluOp = dataflow.NewInputSignal[AluOpSel](c)
	c.Funct3 = dataflow.NewInputSignal[uint8](c)
	c.Funct7 = dataflow.NewInputSignal[uint8](c)
	c.Op = dataflow.NewOutputSignal[AluOp]()
	return c
}

// NotifyInputChange recomputes the selected ALU operation immediately.
func (c *AluControl) NotifyInputChange() {
	c.Operate()
}

// Operate dispatches on CtrlAluOp, and for compute instructions further
// on (funct3, funct7).
func (c *AluControl) Operate() {
	var op AluOp

	switch c.CtrlAluOp.Value() {
	case AluOpSelMem:
		op = AluAdd
	case AluOpSelBranch:
		op = AluSub
	case AluOpSelCompute:
		op = c.computeOp()
	default:
		op = AluAdd
	}

	dataflow.Drive(c.Op, op)
}

func (c *AluControl) computeOp() AluOp {
	f3 := c.Funct3.Value()
	f7 := c.Funct7.Value()

	switch {
	case f3 == 0x0 && f7 == Funct7Alt:
		return AluSub
	case f3 == 0x0:
		return AluAdd
	case f3 == 0x6:
		return AluOr
	case f3 == 0x7:
		return AluAnd
	case f3 == 0x1:
		return AluSll
	case f3 == 0x5:
		return AluSrl
	default:
		return AluAdd
	}
}
