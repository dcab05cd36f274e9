package units

import (
	"github.com/redyaung/jarvs/dataflow"
	"github.com/redyaung/jarvs/regfile"
	"github.com/redyaung/jarvs/word"
)

// RegisterFileUnit wires a regfile.File into the signal graph: it reads
// two registers combinationally on every input change, and performs the
// write-back side effect (when WriteEnable is asserted) before
// re-reading, so that same-cycle register reads reflect the register
// file's write-through-zero rule for index 0 but otherwise do not
// observe the write they triggered unless the read and write indices
// coincide.
type RegisterFileUnit struct {
	dataflow.Named

	ReadReg1     *dataflow.InputSignal[Reg]
	ReadReg2     *dataflow.InputSignal[Reg]
	WriteEnable  *dataflow.InputSignal[bool]
	WriteReg     *dataflow.InputSignal[Reg]
	WriteData    *dataflow.InputSignal[word.Word]

	ReadData1 *dataflow.OutputSignal[word.Word]
	ReadData2 *dataflow.OutputSignal[word.Word]

	file *regfile.File
}

// NewRegisterFileUnit constructs a RegisterFileUnit backed by file.
func NewRegisterFileUnit(name string, file *regfile.File) *RegisterFileUnit {
	u := &RegisterFileUnit{Named: dataflow.NewNamed(name), file: file}
	u.ReadReg1 = dataflow.NewInputSignal[Reg](u)
	u.ReadReg2 = dataflow.NewInputSignal[Reg](u)
	u.WriteEnable = dataflow.NewInputSignal[bool](u)
	u.WriteReg = dataflow.NewInputSignal[Reg](u)
	u.WriteData = dataflow.NewInputSignal[word.Word](u)
	u.ReadData1 = dataflow.NewOutputSignal[word.Word]()
	u.ReadData2 = dataflow.NewOutputSignal[word.Word]()
	return u
}

// File returns the underlying register file, for the CLI/tests to
// inspect directly.
func (u *RegisterFileUnit) File() *regfile.File {
	return u.file
}

// NotifyInputChange re-runs the read (and, if asserted, write) path
// immediately.
func (u *RegisterFileUnit) NotifyInputChange() {
	u.Operate()
}

// Operate performs the pending write, if any, then drives both read
// outputs from the current register contents.
func (u *RegisterFileUnit) Operate() {
	if u.WriteEnable.Value() {
		u.file.Write(u.WriteReg.Value(), u.WriteData.Value())
	}

	dataflow.Drive(u.ReadData1, u.file.Read(u.ReadReg1.Value()))
	dataflow.Drive(u.ReadData2, u.file.Read(u.ReadReg2.Value()))
}
