package mem

import "github.com/redyaung/jarvs/word"

// MainMemory is the leaf of the memory hierarchy: a flat array of
// words, addressable over 2^AddrBits bytes, that takes Latency cycles
// to complete any read or write.
type MainMemory struct {
	addrBits int
	latency  int
	words    []word.Word

	tracker tracker
}

// NewMainMemory constructs a MainMemory with the given address-space
// width (in bits) and per-operation latency (in cycles, at least 1).
// It panics if either parameter is non-positive.
func NewMainMemory(addrBits, latency int) *MainMemory {
	if addrBits <= 0 {
		panic("mem: address-space width must be positive")
	}
	if latency < 1 {
		panic("mem: latency must be at least 1 cycle")
	}

	numWords := (1 << addrBits) / 4
	return &MainMemory{
		addrBits: addrBits,
		latency:  latency,
		words:    make([]word.Word, numWords),
	}
}

// IsReady reports whether no operation is in flight.
func (m *MainMemory) IsReady() bool {
	return m.tracker.IsReady()
}

func (m *MainMemory) checkBounds(addr uint32, nwords int) {
	if addr%4 != 0 {
		panic("mem: address is not word-aligned")
	}
	last := uint64(addr) + uint64(nwords)*4
	if last > uint64(1)<<uint(m.addrBits) {
		panic("mem: access exceeds the address space")
	}
}

// ReadBlock steps one cycle of a read of nwords words at addr, per
// TimedMemory: false for latency-1 cycles, then the completed block.
func (m *MainMemory) ReadBlock(addr uint32, nwords int) (word.Block, bool) {
	m.checkBounds(addr, nwords)
	m.tracker.begin(phaseReading, addr, nwords)

	if m.tracker.step() < m.latency {
		return word.Block{}, false
	}

	block := word.NewBlock(nwords)
	base := int(addr / 4)
	for i := 0; i < nwords; i++ {
		block.Set(i, m.words[base+i])
	}
	m.tracker.complete()
	return block, true
}

// WriteBlock steps one cycle of a write of block at addr, per
// TimedMemory.
func (m *MainMemory) WriteBlock(addr uint32, block word.Block) bool {
	m.checkBounds(addr, block.Len())
	m.tracker.begin(phaseWriting, addr, block.Len())

	if m.tracker.step() < m.latency {
		return false
	}

	base := int(addr / 4)
	for i := 0; i < block.Len(); i++ {
		m.words[base+i] = block.At(i)
	}
	m.tracker.complete()
	return true
}
