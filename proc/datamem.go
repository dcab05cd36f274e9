package proc

import (
	"github.com/redyaung/jarvs/dataflow"
	"github.com/redyaung/jarvs/internal/rvlog"
	"github.com/redyaung/jarvs/mem"
	"github.com/redyaung/jarvs/word"
)

// DataMemoryAccess adapts a mem.TimedMemory into the MEM stage's
// clocked interface: every cycle it either steps an in-flight
// load/store one tick closer to completion, or reports idle-ready when
// neither MemRead nor MemWrite is asserted. Its Ready output feeds the
// memory-hazard detector; as long as the hazard detector keeps EX/MEM
// frozen while busy, EX/MEM's Address/WriteData stay stable across
// calls, satisfying TimedMemory's identical-re-entry contract.
type DataMemoryAccess struct {
	dataflow.Named
	dataflow.NoOpNotify

	MemRead   *dataflow.InputSignal[bool]
	MemWrite  *dataflow.InputSignal[bool]
	Address   *dataflow.InputSignal[word.Word]
	WriteData *dataflow.InputSignal[word.Word]

	ReadData *dataflow.OutputSignal[word.Word]
	Ready    *dataflow.OutputSignal[bool]

	backing mem.TimedMemory
}

// NewDataMemoryAccess constructs a DataMemoryAccess fronting backing,
// which may itself be a cache stacked over main memory.
func NewDataMemoryAccess(name string, backing mem.TimedMemory) *DataMemoryAccess {
	d := &DataMemoryAccess{Named: dataflow.NewNamed(name), backing: backing}
	d.MemRead = dataflow.NewInputSignal[bool](d)
	d.MemWrite = dataflow.NewInputSignal[bool](d)
	d.Address = dataflow.NewInputSignal[word.Word](d)
	d.WriteData = dataflow.NewInputSignal[word.Word](d)
	d.ReadData = dataflow.NewOutputSignal[word.Word]()
	d.Ready = dataflow.NewOutputSignal[bool]()
	return d
}

// Operate steps one cycle of whatever access, if any, EX/MEM currently
// requests.
func (d *DataMemoryAccess) Operate() {
	read, write := d.MemRead.Value(), d.MemWrite.Value()
	addr := d.Address.Value().Uint32()

	switch {
	case write:
		block := word.BlockOf(d.WriteData.Value())
		done := d.backing.WriteBlock(addr, block)
		if done {
			rvlog.Tracef("data memory: write to 0x%08x complete", addr)
		}
		dataflow.Drive(d.Ready, done)

	case read:
		block, done := d.backing.ReadBlock(addr, 1)
		if done {
			rvlog.Tracef("data memory: read from 0x%08x complete", addr)
			dataflow.Drive(d.ReadData, block.At(0))
		}
		dataflow.Drive(d.Ready, done)

	default:
		dataflow.Drive(d.Ready, true)
	}
}
