package hazard

import "github.com/redyaung/jarvs/dataflow"

// MemoryHazardDetector stalls the whole pipeline behind a multi-cycle
// data-memory access. It reads a single readiness bit exposed by the
// memory-access unit and drives a single Busy output wired to freeze
// the issue unit and the IF/ID, ID/EX and EX/MEM latches, and to flush
// MEM/WB so write-back performs no effect while memory is still working.
type MemoryHazardDetector struct {
	dataflow.Named
	dataflow.NoOpNotify

	IsDataMemoryReady *dataflow.InputSignal[bool]

	Busy *dataflow.OutputSignal[bool]
}

// NewMemoryHazardDetector constructs a MemoryHazardDetector.
func NewMemoryHazardDetector(name string) *MemoryHazardDetector {
	d := &MemoryHazardDetector{Named: dataflow.NewNamed(name)}
	d.IsDataMemoryReady = dataflow.NewInputSignal[bool](d)
	d.Busy = dataflow.NewOutputSignal[bool]()
	return d
}

// Operate recomputes Busy from the readiness the data-memory access
// reported for this cycle, which the processor steps first.
func (d *MemoryHazardDetector) Operate() {
	dataflow.Drive(d.Busy, !d.IsDataMemoryReady.Value())
}
