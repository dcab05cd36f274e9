// Package hazard implements the two priority-phase detectors that
// decide, each cycle, whether any pipeline register must freeze or
// flush before the clocked phase runs.
package hazard

import (
	"github.com/redyaung/jarvs/dataflow"
	"github.com/redyaung/jarvs/units"
)

// DataHazardDetector reads the source registers of the instruction
// currently in IF/ID and the destination registers latched in ID/EX
// and EX/MEM, driving a single Stall output. With forwarding enabled it
// only needs to catch the load-use hazard forwarding cannot resolve (the
// load's data is not ready the same cycle it reaches EX); without it,
// it must catch every RAW dependency.
type DataHazardDetector struct {
	dataflow.Named
	dataflow.NoOpNotify

	ForwardingEnabled bool

	Rs1 *dataflow.InputSignal[units.Reg]
	Rs2 *dataflow.InputSignal[units.Reg]

	IdExMemRead  *dataflow.InputSignal[bool]
	IdExRegWrite *dataflow.InputSignal[bool]
	IdExRd       *dataflow.InputSignal[units.Reg]

	ExMemRegWrite *dataflow.InputSignal[bool]
	ExMemRd       *dataflow.InputSignal[units.Reg]

	Stall *dataflow.OutputSignal[bool]
}

// NewDataHazardDetector constructs a DataHazardDetector in the given
// forwarding mode.
func NewDataHazardDetector(name string, forwardingEnabled bool) *DataHazardDetector {
	d := &DataHazardDetector{Named: dataflow.NewNamed(name), ForwardingEnabled: forwardingEnabled}
	d.Rs1 = dataflow.NewInputSignal[units.Reg](d)
	d.Rs2 = dataflow.NewInputSignal[units.Reg](d)
	d.IdExMemRead = dataflow.NewInputSignal[bool](d)
	d.IdExRegWrite = dataflow.NewInputSignal[bool](d)
	d.IdExRd = dataflow.NewInputSignal[units.Reg](d)
	d.ExMemRegWrite = dataflow.NewInputSignal[bool](d)
	d.ExMemRd = dataflow.NewInputSignal[units.Reg](d)
	d.Stall = dataflow.NewOutputSignal[bool]()
	return d
}

// Operate recomputes Stall for this cycle. Called by the Processor
// during the priority phase, before any pipeline register buffers or
// clocks.
func (d *DataHazardDetector) Operate() {
	rs1, rs2 := d.Rs1.Value(), d.Rs2.Value()

	var stall bool
	if d.ForwardingEnabled {
		stall = d.IdExMemRead.Value() && d.IdExRd.Value() != 0 &&
			(d.IdExRd.Value() == rs1 || d.IdExRd.Value() == rs2)
	} else {
		stall = d.conflicts(d.IdExRegWrite.Value(), d.IdExRd.Value(), rs1, rs2) ||
			d.conflicts(d.ExMemRegWrite.Value(), d.ExMemRd.Value(), rs1, rs2)
	}

	dataflow.Drive(d.Stall, stall)
}

func (d *DataHazardDetector) conflicts(regWrite bool, rd, rs1, rs2 units.Reg) bool {
	return regWrite && rd != 0 && (rd == rs1 || rd == rs2)
}
