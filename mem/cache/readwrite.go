package cache

import (
	"fmt"

	"github.com/redyaung/jarvs/internal/rvlog"
	"github.com/redyaung/jarvs/word"
)

// inflightOp's possible stages. stageLatency is shared by reads and
// writes; the remaining stages only ever run for a miss that needs a
// line installed (write-back) or a write that must reach the lower
// memory (write-through).
const (
	stageLatency stage = iota
	stageWritebackVictim
	stageFillLine
	stageWriteThrough
)

func (c *Cache) checkAddr(addr uint32, nwords int) {
	if addr%4 != 0 {
		panic("cache: address is not word-aligned")
	}
	offset := c.blockOffsetWords(addr)
	if offset+nwords > c.wordsPerBlock {
		panic(fmt.Sprintf("cache: access of %d words at offset %d crosses a block boundary", nwords, offset))
	}
}

// beginOp starts a new operation if the cache is idle, or validates an
// in-flight one is being continued identically. It panics on a
// mismatched re-entry.
func (c *Cache) beginOp(write bool, addr uint32, length int, data word.Block) {
	if !c.inflight.active {
		c.inflight = inflightOp{active: true, write: write, addr: addr, length: length, data: data}
		return
	}
	if c.inflight.write != write || c.inflight.addr != addr || c.inflight.length != length {
		panic("cache: timed memory operation re-entered with different parameters")
	}
}

func (c *Cache) lookupHit(setIndex int, tag uint64) (way int, ok bool) {
	for i, e := range c.sets[setIndex].entries {
		if e.valid && e.tag == tag {
			return i, true
		}
	}
	return 0, false
}

// beginMiss records which victim a miss will use and decides whether
// a dirty write-back must run first.
func (c *Cache) beginMiss(setIndex int, tag uint64) {
	victim := c.findVictim(setIndex)
	c.inflight.setIndex = setIndex
	c.inflight.tag = tag
	c.inflight.victimWay = victim
	c.inflight.lineBaseAddr = c.lineBaseAddr(c.inflight.addr)

	victimEntry := c.sets[setIndex].entries[victim]
	if c.scheme == WriteBack && victimEntry.valid && victimEntry.dirty {
		c.inflight.stage = stageWritebackVictim
	} else {
		c.inflight.stage = stageFillLine
	}
}

func (c *Cache) victimBaseAddr(setIndex int, tag uint64) uint32 {
	return uint32(tag<<(c.idxBits+c.blkBits+2)) | uint32(setIndex)<<(c.blkBits+2)
}

// installLine writes a freshly fetched line into the recorded victim
// slot and marks it clean, returning the way it landed in.
func (c *Cache) installLine(line word.Block) int {
	setIndex, way := c.inflight.setIndex, c.inflight.victimWay
	c.sets[setIndex].entries[way] = entry{
		valid: true,
		dirty: false,
		tag:   c.inflight.tag,
		block: line.Clone(),
	}
	return way
}

// ReadBlock steps a read one cycle: wait, look up, and on a miss evict
// (if a dirty write-back line demands it) and fill before extracting
// the requested sub-block.
func (c *Cache) ReadBlock(addr uint32, nwords int) (word.Block, bool) {
	c.checkAddr(addr, nwords)
	c.beginOp(false, addr, nwords, word.Block{})

	for {
		switch c.inflight.stage {
		case stageLatency:
			c.inflight.elapsed++
			if c.inflight.elapsed < c.latency {
				return word.Block{}, false
			}

			tag, setIndex := c.decomposeAddr(addr)
			if way, ok := c.lookupHit(setIndex, tag); ok {
				rvlog.Tracef("cache hit: addr=0x%x set=%d way=%d", addr, setIndex, way)
				c.touchLRU(setIndex, way)
				sub := c.sets[setIndex].entries[way].block.Sub(c.blockOffsetWords(addr), nwords)
				c.inflight = inflightOp{}
				return sub, true
			}
			rvlog.Tracef("cache miss: addr=0x%x set=%d", addr, setIndex)
			c.beginMiss(setIndex, tag)

		case stageWritebackVictim:
			victim := c.sets[c.inflight.setIndex].entries[c.inflight.victimWay]
			victimAddr := c.victimBaseAddr(c.inflight.setIndex, victim.tag)
			if !c.lower.WriteBlock(victimAddr, victim.block) {
				return word.Block{}, false
			}
			c.inflight.stage = stageFillLine

		case stageFillLine:
			rvlog.Tracef("reading from memory: addr=0x%x", c.inflight.lineBaseAddr)
			line, ready := c.lower.ReadBlock(c.inflight.lineBaseAddr, c.wordsPerBlock)
			if !ready {
				return word.Block{}, false
			}
			way := c.installLine(line)
			c.touchLRU(c.inflight.setIndex, way)
			sub := line.Sub(c.blockOffsetWords(addr), nwords)
			c.inflight = inflightOp{}
			return sub, true

		default:
			panic("cache: unreachable read stage")
		}
	}
}

// WriteBlock steps a write one cycle. Write-back allocates a line on a
// miss (running the same evict/fill sequence as a read) before
// patching; write-through never allocates on a miss, and
// unconditionally pushes every store to the lower memory.
func (c *Cache) WriteBlock(addr uint32, block word.Block) bool {
	nwords := block.Len()
	c.checkAddr(addr, nwords)
	c.beginOp(true, addr, nwords, block)

	for {
		switch c.inflight.stage {
		case stageLatency:
			c.inflight.elapsed++
			if c.inflight.elapsed < c.latency {
				return false
			}

			tag, setIndex := c.decomposeAddr(addr)
			if way, ok := c.lookupHit(setIndex, tag); ok {
				rvlog.Tracef("cache hit: addr=0x%x set=%d way=%d", addr, setIndex, way)
				c.patch(setIndex, way, addr, block)
				if c.scheme == WriteThrough {
					c.inflight.stage = stageWriteThrough
					continue
				}
				c.inflight = inflightOp{}
				return true
			}
			rvlog.Tracef("cache miss: addr=0x%x set=%d", addr, setIndex)

			if c.scheme == WriteBack {
				c.beginMiss(setIndex, tag)
				continue
			}
			// write-through, no-write-allocate: miss bypasses the
			// cache entirely and goes straight to the lower memory.
			c.inflight.stage = stageWriteThrough

		case stageWritebackVictim:
			victim := c.sets[c.inflight.setIndex].entries[c.inflight.victimWay]
			victimAddr := c.victimBaseAddr(c.inflight.setIndex, victim.tag)
			if !c.lower.WriteBlock(victimAddr, victim.block) {
				return false
			}
			c.inflight.stage = stageFillLine

		case stageFillLine:
			rvlog.Tracef("reading from memory: addr=0x%x", c.inflight.lineBaseAddr)
			line, ready := c.lower.ReadBlock(c.inflight.lineBaseAddr, c.wordsPerBlock)
			if !ready {
				return false
			}
			c.installLine(line)
			c.patch(c.inflight.setIndex, c.inflight.victimWay, addr, block)
			c.inflight = inflightOp{}
			return true

		case stageWriteThrough:
			if !c.lower.WriteBlock(addr, block) {
				return false
			}
			c.inflight = inflightOp{}
			return true

		default:
			panic("cache: unreachable write stage")
		}
	}
}

// patch writes block into the entry at (setIndex, way), marks it
// dirty, and updates LRU metadata. The dirty bit only matters under
// WriteBack, whose eviction consults it; WriteThrough never writes a
// line back on eviction, so it never looks at dirty either.
func (c *Cache) patch(setIndex, way int, addr uint32, block word.Block) {
	e := &c.sets[setIndex].entries[way]
	e.block.SetSub(c.blockOffsetWords(addr), block)
	e.dirty = true
	c.touchLRU(setIndex, way)
}
