// Package mem implements the timed memory abstraction: a multi-cycle
// state machine that a caller steps once per clock until an in-flight
// read or write completes.
package mem

import "github.com/redyaung/jarvs/word"

//go:generate mockgen -destination=../mem/cache/mock_timedmemory_test.go -package=cache_test github.com/redyaung/jarvs/mem TimedMemory

// TimedMemory is implemented by every level of the memory hierarchy,
// leaf and cache alike. ReadBlock and WriteBlock are multi-cycle
// generators: the caller invokes the same one, with the same
// parameters, once per cycle until it reports completion.
type TimedMemory interface {
	// ReadBlock steps one cycle of a read of nwords words starting at
	// addr. It returns the completed block and true once the read is
	// ready; otherwise a zero Block and false. A caller with an
	// in-flight read must keep passing the same (addr, nwords).
	ReadBlock(addr uint32, nwords int) (word.Block, bool)

	// WriteBlock steps one cycle of a write of block starting at addr.
	// It returns true once the write has completed; otherwise false.
	// A caller with an in-flight write must keep passing the same
	// (addr, block).
	WriteBlock(addr uint32, block word.Block) bool

	// IsReady reports whether the memory has no in-flight operation
	// and can accept a new request.
	IsReady() bool
}

type phase int

const (
	phaseReady phase = iota
	phaseReading
	phaseWriting
)

// tracker is the explicit state machine backing every TimedMemory
// implementation in this package: current phase, cycles elapsed, and
// the request parameters the caller must keep re-supplying. It favours
// a small restartable struct over a native coroutine; begin panics on
// an inconsistent re-entry rather than silently restarting the clock.
type tracker struct {
	phase   phase
	elapsed int
	addr    uint32
	length  int
}

// begin starts a new operation if the tracker is idle, or validates
// that an in-flight operation is being continued with the exact same
// parameters. It panics on a mismatched re-entry.
func (t *tracker) begin(p phase, addr uint32, length int) {
	if t.phase == phaseReady {
		t.phase = p
		t.addr = addr
		t.length = length
		t.elapsed = 0
		return
	}
	if t.phase != p || t.addr != addr || t.length != length {
		panic("mem: timed memory operation re-entered with different parameters")
	}
}

// step advances the elapsed-cycle counter and returns its new value.
func (t *tracker) step() int {
	t.elapsed++
	return t.elapsed
}

// complete returns the tracker to Ready.
func (t *tracker) complete() {
	t.phase = phaseReady
	t.elapsed = 0
}

// IsReady reports whether no operation is in flight.
func (t *tracker) IsReady() bool {
	return t.phase == phaseReady
}
