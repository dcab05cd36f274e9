// Package forward implements the EX-stage operand forwarding unit.
package forward

import (
	"github.com/redyaung/jarvs/dataflow"
	"github.com/redyaung/jarvs/pipeline"
	"github.com/redyaung/jarvs/units"
	"github.com/redyaung/jarvs/word"
)

// Unit rewrites ID/EX's operand inputs during the priority phase, so
// the ALU reads the forwarded value when ID/EX's own clocked phase
// copies in to out later the same cycle. It keeps a raw back-reference
// to the ID/EX register it mutates: forwarding and hazard detection are
// the only units allowed to reach past the signal graph and touch
// another unit's latched state directly.
type Unit struct {
	dataflow.Named
	dataflow.NoOpNotify

	Rs1 *dataflow.InputSignal[units.Reg]
	Rs2 *dataflow.InputSignal[units.Reg]

	ExMemRegWrite  *dataflow.InputSignal[bool]
	ExMemRd        *dataflow.InputSignal[units.Reg]
	ExMemAluResult *dataflow.InputSignal[word.Word]

	MemWbRegWrite    *dataflow.InputSignal[bool]
	MemWbRd          *dataflow.InputSignal[units.Reg]
	MemWbMemToReg    *dataflow.InputSignal[bool]
	MemWbAluResult   *dataflow.InputSignal[word.Word]
	MemWbMemReadData *dataflow.InputSignal[word.Word]

	idEx *pipeline.IdEx
}

// NewUnit constructs a forwarding unit that will mutate idEx's operand
// inputs.
func NewUnit(name string, idEx *pipeline.IdEx) *Unit {
	u := &Unit{Named: dataflow.NewNamed(name), idEx: idEx}
	u.Rs1 = dataflow.NewInputSignal[units.Reg](u)
	u.Rs2 = dataflow.NewInputSignal[units.Reg](u)
	u.ExMemRegWrite = dataflow.NewInputSignal[bool](u)
	u.ExMemRd = dataflow.NewInputSignal[units.Reg](u)
	u.ExMemAluResult = dataflow.NewInputSignal[word.Word](u)
	u.MemWbRegWrite = dataflow.NewInputSignal[bool](u)
	u.MemWbRd = dataflow.NewInputSignal[units.Reg](u)
	u.MemWbMemToReg = dataflow.NewInputSignal[bool](u)
	u.MemWbAluResult = dataflow.NewInputSignal[word.Word](u)
	u.MemWbMemReadData = dataflow.NewInputSignal[word.Word](u)
	return u
}

// Operate resolves both of ID/EX's operands and overrides ID/EX's
// ReadData1/ReadData2 inputs in place. Called by the Processor during
// the priority phase, after hazard detection.
func (u *Unit) Operate() {
	rs1, rs2 := u.Rs1.Value(), u.Rs2.Value()
	u.idEx.ReadData1.In.Override(u.resolve(rs1, u.idEx.ReadData1.In.Value()))
	u.idEx.ReadData2.In.Override(u.resolve(rs2, u.idEx.ReadData2.In.Value()))
}

// resolve picks the EX/MEM forward, then the MEM/WB forward, then
// falls back to the register-file value already sitting on the input.
func (u *Unit) resolve(rs units.Reg, fallback word.Word) word.Word {
	if rs == 0 {
		return fallback
	}

	if u.ExMemRegWrite.Value() && u.ExMemRd.Value() != 0 && u.ExMemRd.Value() == rs {
		return u.ExMemAluResult.Value()
	}

	if u.MemWbRegWrite.Value() && u.MemWbRd.Value() != 0 && u.MemWbRd.Value() == rs {
		if u.MemWbMemToReg.Value() {
			return u.MemWbMemReadData.Value()
		}
		return u.MemWbAluResult.Value()
	}

	return fallback
}
