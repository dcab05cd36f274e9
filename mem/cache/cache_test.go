package cache_test

import (
	"github.com/redyaung/jarvs/mem"
	"github.com/redyaung/jarvs/mem/cache"
	"github.com/redyaung/jarvs/word"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func readUntilDone(c *cache.Cache, addr uint32, nwords int) word.Block {
	for {
		block, ok := c.ReadBlock(addr, nwords)
		if ok {
			return block
		}
	}
}

func writeUntilDone(c *cache.Cache, addr uint32, block word.Block) {
	for !c.WriteBlock(addr, block) {
	}
}

var _ = Describe("Cache", func() {
	Describe("basic hits and misses, write-back", func() {
		var (
			lower *mem.MainMemory
			c     *cache.Cache
		)

		BeforeEach(func() {
			lower = mem.NewMainMemory(16, 1)
			c = cache.NewCache(cache.Config{
				WordsPerBlock: 2,
				Ways:          2,
				TotalBlocks:   4,
				Scheme:        cache.WriteBack,
				Policy:        cache.Random,
				Latency:       1,
				Lower:         lower,
			})
		})

		It("is ready before any request", func() {
			Expect(c.IsReady()).To(BeTrue())
		})

		It("fills from the lower memory on a cold miss", func() {
			block := readUntilDone(c, 0, 2)
			Expect(block.At(0).Uint32()).To(Equal(uint32(0)))
			Expect(c.IsReady()).To(BeTrue())
		})

		It("serves a write then the matching read as a hit without touching the lower memory", func() {
			payload := word.BlockOf(word.FromUint32(7), word.FromUint32(8))
			writeUntilDone(c, 0, payload)

			block := readUntilDone(c, 0, 2)
			Expect(block.At(0).Uint32()).To(Equal(uint32(7)))
			Expect(block.At(1).Uint32()).To(Equal(uint32(8)))

			// the write-back line was never pushed down, so the lower
			// memory still holds zeros at this address.
			lowerBlock := word.Block{}
			for {
				var ok bool
				lowerBlock, ok = lower.ReadBlock(0, 2)
				if ok {
					break
				}
			}
			Expect(lowerBlock.At(0).Uint32()).To(Equal(uint32(0)))
		})

		It("takes exactly latency cycles even on a hit", func() {
			c2 := cache.NewCache(cache.Config{
				WordsPerBlock: 2,
				Ways:          2,
				TotalBlocks:   4,
				Scheme:        cache.WriteBack,
				Policy:        cache.Random,
				Latency:       3,
				Lower:         mem.NewMainMemory(16, 1),
			})
			readUntilDone(c2, 0, 2) // warm the line

			_, ok := c2.ReadBlock(0, 2)
			Expect(ok).To(BeFalse())
			_, ok = c2.ReadBlock(0, 2)
			Expect(ok).To(BeFalse())
			_, ok = c2.ReadBlock(0, 2)
			Expect(ok).To(BeTrue())
		})
	})

	Describe("eviction", func() {
		It("writes a dirty write-back victim down before filling the new line", func() {
			lower := mem.NewMainMemory(16, 1)
			c := cache.NewCache(cache.Config{
				WordsPerBlock: 2,
				Ways:          1,
				TotalBlocks:   2,
				Scheme:        cache.WriteBack,
				Policy:        cache.Random,
				Latency:       1,
				Lower:         lower,
			})

			dirty := word.BlockOf(word.FromUint32(42), word.FromUint32(43))
			writeUntilDone(c, 0, dirty) // set 0, tag 0, dirty

			// addr 16 maps to the same set (direct-mapped, 1 way) with a
			// different tag, forcing eviction of addr 0's line.
			readUntilDone(c, 16, 2)

			var evicted word.Block
			for {
				var ok bool
				evicted, ok = lower.ReadBlock(0, 2)
				if ok {
					break
				}
			}
			Expect(evicted.At(0).Uint32()).To(Equal(uint32(42)))
			Expect(evicted.At(1).Uint32()).To(Equal(uint32(43)))
		})

		It("evicts the least recently used way under PreciseLRU", func() {
			lower := mem.NewMainMemory(16, 1)
			c := cache.NewCache(cache.Config{
				WordsPerBlock: 1,
				Ways:          2,
				TotalBlocks:   2,
				Scheme:        cache.WriteBack,
				Policy:        cache.PreciseLRU,
				Latency:       1,
				Lower:         lower,
			})

			// addr 32's line is written dirty first and never touched
			// again, so it becomes the least recently used line once
			// addr 0 is read and re-read into the other way.
			dirty := word.BlockOf(word.FromUint32(99))
			writeUntilDone(c, 32, dirty)
			readUntilDone(c, 0, 1)
			readUntilDone(c, 0, 1)

			// a third distinct address forces an eviction; it must take
			// the LRU line (addr 32's), writing it back first.
			readUntilDone(c, 64, 1)

			var evicted word.Block
			for {
				var ok bool
				evicted, ok = lower.ReadBlock(32, 1)
				if ok {
					break
				}
			}
			Expect(evicted.At(0).Uint32()).To(Equal(uint32(99)))
		})
	})

	Describe("write-through, no-write-allocate", func() {
		It("pushes every store straight to the lower memory without installing a line on a miss", func() {
			lower := mem.NewMainMemory(16, 1)
			c := cache.NewCache(cache.Config{
				WordsPerBlock: 2,
				Ways:          2,
				TotalBlocks:   4,
				Scheme:        cache.WriteThrough,
				Policy:        cache.Random,
				Latency:       1,
				Lower:         lower,
			})

			payload := word.BlockOf(word.FromUint32(5), word.FromUint32(6))
			writeUntilDone(c, 0, payload)

			var stored word.Block
			for {
				var ok bool
				stored, ok = lower.ReadBlock(0, 2)
				if ok {
					break
				}
			}
			Expect(stored.At(0).Uint32()).To(Equal(uint32(5)))
			Expect(stored.At(1).Uint32()).To(Equal(uint32(6)))
		})

		It("also writes through on a hit", func() {
			lower := mem.NewMainMemory(16, 1)
			c := cache.NewCache(cache.Config{
				WordsPerBlock: 2,
				Ways:          2,
				TotalBlocks:   4,
				Scheme:        cache.WriteThrough,
				Policy:        cache.Random,
				Latency:       1,
				Lower:         lower,
			})

			readUntilDone(c, 0, 2) // install the line via a read

			payload := word.BlockOf(word.FromUint32(1), word.FromUint32(2))
			writeUntilDone(c, 0, payload)

			var stored word.Block
			for {
				var ok bool
				stored, ok = lower.ReadBlock(0, 2)
				if ok {
					break
				}
			}
			Expect(stored.At(0).Uint32()).To(Equal(uint32(1)))
		})
	})

	Describe("misuse", func() {
		It("panics when a re-entered request changes its parameters", func() {
			c := cache.NewCache(cache.Config{
				WordsPerBlock: 2,
				Ways:          2,
				TotalBlocks:   4,
				Scheme:        cache.WriteBack,
				Policy:        cache.Random,
				Latency:       3,
				Lower:         mem.NewMainMemory(16, 1),
			})
			c.ReadBlock(0, 2)
			Expect(func() { c.ReadBlock(8, 2) }).To(Panic())
		})

		It("panics on a misaligned address", func() {
			c := cache.NewCache(cache.Config{
				WordsPerBlock: 2,
				Ways:          2,
				TotalBlocks:   4,
				Scheme:        cache.WriteBack,
				Policy:        cache.Random,
				Latency:       1,
				Lower:         mem.NewMainMemory(16, 1),
			})
			Expect(func() { c.ReadBlock(1, 1) }).To(Panic())
		})
	})
})
