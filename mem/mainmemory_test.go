package mem_test

import (
	"github.com/redyaung/jarvs/mem"
	"github.com/redyaung/jarvs/word"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("MainMemory", func() {
	var m *mem.MainMemory

	BeforeEach(func() {
		m = mem.NewMainMemory(12, 3)
	})

	It("is ready before any request", func() {
		Expect(m.IsReady()).To(BeTrue())
	})

	It("takes exactly latency cycles to complete a read", func() {
		_, ok := m.ReadBlock(0, 2)
		Expect(ok).To(BeFalse())
		Expect(m.IsReady()).To(BeFalse())

		_, ok = m.ReadBlock(0, 2)
		Expect(ok).To(BeFalse())

		block, ok := m.ReadBlock(0, 2)
		Expect(ok).To(BeTrue())
		Expect(block.Len()).To(Equal(2))
		Expect(m.IsReady()).To(BeTrue())
	})

	It("returns the words previously written", func() {
		payload := word.BlockOf(word.FromUint32(11), word.FromUint32(22))
		for !m.WriteBlock(32, payload) {
		}
		Expect(m.IsReady()).To(BeTrue())

		var block word.Block
		for {
			var ok bool
			block, ok = m.ReadBlock(32, 2)
			if ok {
				break
			}
		}
		Expect(block.At(0).Uint32()).To(Equal(uint32(11)))
		Expect(block.At(1).Uint32()).To(Equal(uint32(22)))
	})

	It("panics on a misaligned address", func() {
		Expect(func() { m.ReadBlock(1, 1) }).To(Panic())
	})

	It("panics when a re-entered request changes its parameters", func() {
		m.ReadBlock(0, 2)
		Expect(func() { m.ReadBlock(4, 2) }).To(Panic())
	})

	It("panics on out-of-range access", func() {
		Expect(func() { m.ReadBlock(4092, 4) }).To(Panic())
	})
})
