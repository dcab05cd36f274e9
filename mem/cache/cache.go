// Package cache implements a configurable set-associative cache that
// fronts another mem.TimedMemory.
package cache

import (
	"fmt"
	"math/bits"
	"math/rand"

	"github.com/redyaung/jarvs/mem"
	"github.com/redyaung/jarvs/word"
)

// pseudoRandomSource backs the Random replacement policy. A fixed seed
// keeps simulator runs reproducible run to run.
var pseudoRandomSource = rand.New(rand.NewSource(1))

// WriteScheme selects what a store does to the backing memory.
type WriteScheme int

const (
	WriteThrough WriteScheme = iota
	WriteBack
)

// ReplacementPolicy selects how a miss picks a victim among valid
// entries of a full set.
type ReplacementPolicy int

const (
	Random ReplacementPolicy = iota
	PreciseLRU
	ApproximateLRU
)

// entry is one cache line's metadata plus its contents.
type entry struct {
	valid        bool
	dirty        bool
	tag          uint64
	block        word.Block
	lastAccessed uint64
}

// set is one associative set of S entries, plus whatever bookkeeping
// its replacement policy needs.
type set struct {
	entries  []entry
	plruTree []bool // len == S-1, only used under ApproximateLRU
}

// Cache is a timed memory that sits in front of a lower TimedMemory.
// Parameters W (words per block), S (ways per set) and B (total
// blocks) must all be powers of two, and B must be a multiple of S.
type Cache struct {
	wordsPerBlock int
	ways          int
	numSets       int
	idxBits       uint
	blkBits       uint

	scheme  WriteScheme
	policy  ReplacementPolicy
	latency int
	lower   mem.TimedMemory

	sets []set

	lruClock uint64
	rng      func(n int) int

	inflight inflightOp
}

// inflightOp is the explicit state machine driving a miss across
// multiple calls: the latency countdown, then (on a miss) an optional
// victim write-back followed by a line fill from the lower memory,
// before the original request finally completes.
type inflightOp struct {
	active bool
	write  bool // true for WriteBlock, false for ReadBlock
	addr   uint32
	length int        // nwords requested (read) or supplied (write)
	data   word.Block // the store's payload, for writes

	elapsed int // latency countdown, 0 once past the wait

	stage        stage
	setIndex     int
	tag          uint64
	victimWay    int
	lineBaseAddr uint32
}

// stage names a step of inflightOp's state machine; its constants are
// declared in readwrite.go next to the code that drives it.
type stage int

// Config bundles the construction parameters validated by NewCache.
type Config struct {
	WordsPerBlock int
	Ways          int
	TotalBlocks   int
	Scheme        WriteScheme
	Policy        ReplacementPolicy
	Latency       int
	Lower         mem.TimedMemory
}

// NewCache constructs a Cache per cfg. It panics on any power-of-two or
// divisibility violation.
func NewCache(cfg Config) *Cache {
	mustPowerOfTwo(cfg.WordsPerBlock, "words per block")
	mustPowerOfTwo(cfg.Ways, "ways")
	mustPowerOfTwo(cfg.TotalBlocks, "total blocks")
	if cfg.TotalBlocks%cfg.Ways != 0 {
		panic("cache: total blocks must be a multiple of ways per set")
	}
	if cfg.Latency < 1 {
		panic("cache: latency must be at least 1 cycle")
	}
	if cfg.Lower == nil {
		panic("cache: lower memory must not be nil")
	}

	numSets := cfg.TotalBlocks / cfg.Ways
	c := &Cache{
		wordsPerBlock: cfg.WordsPerBlock,
		ways:          cfg.Ways,
		numSets:       numSets,
		idxBits:       uint(bits.Len(uint(numSets)) - 1),
		blkBits:       uint(bits.Len(uint(cfg.WordsPerBlock)) - 1),
		scheme:        cfg.Scheme,
		policy:        cfg.Policy,
		latency:       cfg.Latency,
		lower:         cfg.Lower,
		sets:          make([]set, numSets),
		rng:           defaultRand,
	}

	for i := range c.sets {
		c.sets[i].entries = make([]entry, cfg.Ways)
		if cfg.Policy == ApproximateLRU {
			c.sets[i].plruTree = make([]bool, cfg.Ways-1)
		}
	}
	return c
}

func mustPowerOfTwo(v int, name string) {
	if v <= 0 || v&(v-1) != 0 {
		panic(fmt.Sprintf("cache: %s must be a power of two, got %d", name, v))
	}
}

// IsReady reports whether no operation is in flight.
func (c *Cache) IsReady() bool {
	return !c.inflight.active
}

func (c *Cache) decomposeAddr(addr uint32) (tag uint64, setIndex int) {
	tag = uint64(addr) >> (c.idxBits + c.blkBits + 2)
	setIndex = int((addr >> (c.blkBits + 2)) & ((1 << c.idxBits) - 1))
	return
}

func (c *Cache) blockOffsetWords(addr uint32) int {
	return int(addr%uint32(c.wordsPerBlock*4)) / 4
}

func (c *Cache) lineBaseAddr(addr uint32) uint32 {
	return addr - addr%uint32(c.wordsPerBlock*4)
}
