package proc_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/redyaung/jarvs/mem"
	"github.com/redyaung/jarvs/proc"
	"github.com/redyaung/jarvs/word"
)

func newProcessor(forwarding bool, latency int) *proc.Processor {
	return proc.New(proc.Config{
		InstructionWords:  64,
		ForwardingEnabled: forwarding,
		DataMemory:        mem.NewMainMemory(10, latency),
	})
}

func seedWord(m *mem.MainMemory, addr uint32, v int32) {
	for !m.WriteBlock(addr, word.BlockOf(word.FromInt32(v))) {
	}
}

func run(p *proc.Processor, cycles int) {
	for i := 0; i < cycles; i++ {
		p.ExecuteOneCycle()
	}
}

var _ = Describe("Processor", func() {
	It("computes an integer add exactly by the fifth cycle", func() {
		p := newProcessor(true, 1)
		p.LoadProgram([]word.Word{add(1, 2, 3)})
		p.IntRegs.Write(2, word.FromInt32(6))
		p.IntRegs.Write(3, word.FromInt32(7))

		run(p, 4)
		Expect(p.IntRegs.Read(1).Int32()).To(Equal(int32(0)), "write-back should not have happened yet")

		p.ExecuteOneCycle()
		Expect(p.Cycle()).To(Equal(5))
		Expect(p.IntRegs.Read(1).Int32()).To(Equal(int32(13)))
	})

	It("forwards load results into an immediately-dependent add", func() {
		mainMem := mem.NewMainMemory(10, 1)
		seedWord(mainMem, 0, 1)
		seedWord(mainMem, 4, 2)

		p := proc.New(proc.Config{InstructionWords: 64, ForwardingEnabled: true, DataMemory: mainMem})
		p.LoadProgram([]word.Word{
			lw(1, 0, 0),
			lw(2, 0, 4),
			add(3, 1, 2),
		})

		run(p, 12)

		Expect(p.IntRegs.Read(1).Int32()).To(Equal(int32(1)))
		Expect(p.IntRegs.Read(2).Int32()).To(Equal(int32(2)))
		Expect(p.IntRegs.Read(3).Int32()).To(Equal(int32(3)))
	})

	It("stalls exactly one cycle for a load immediately followed by its use, with forwarding", func() {
		mainMem := mem.NewMainMemory(10, 1)
		seedWord(mainMem, 0, 1)
		seedWord(mainMem, 4, 2)

		p := proc.New(proc.Config{InstructionWords: 64, ForwardingEnabled: true, DataMemory: mainMem})
		p.LoadProgram([]word.Word{
			lw(1, 0, 0),
			lw(2, 0, 4),
			add(3, 1, 2),
		})

		stallCycles := 0
		for i := 0; i < 10; i++ {
			p.ExecuteOneCycle()
			if p.StallThisCycle() {
				stallCycles++
			}
		}

		Expect(stallCycles).To(Equal(1))
	})

	It("stalls exactly two cycles per RAW hazard without forwarding", func() {
		p := newProcessor(false, 1)
		p.LoadProgram([]word.Word{
			addi(1, 0, 5),
			add(2, 1, 1),
		})

		stallCycles := 0
		for i := 0; i < 10; i++ {
			p.ExecuteOneCycle()
			if p.StallThisCycle() {
				stallCycles++
			}
		}

		Expect(stallCycles).To(Equal(2))
		Expect(p.IntRegs.Read(1).Int32()).To(Equal(int32(5)))
		Expect(p.IntRegs.Read(2).Int32()).To(Equal(int32(10)))
	})

	It("completes a latency-2 load pair and their sum within ten cycles", func() {
		mainMem := mem.NewMainMemory(10, 2)
		seedWord(mainMem, 0, 1)
		seedWord(mainMem, 4, 2)

		p := proc.New(proc.Config{InstructionWords: 64, ForwardingEnabled: true, DataMemory: mainMem})
		p.LoadProgram([]word.Word{
			lw(1, 0, 0),
			lw(2, 0, 4),
			add(3, 1, 2),
		})

		run(p, 10)

		Expect(p.IntRegs.Read(1).Int32()).To(Equal(int32(1)))
		Expect(p.IntRegs.Read(2).Int32()).To(Equal(int32(2)))
		Expect(p.IntRegs.Read(3).Int32()).To(Equal(int32(3)))
	})

	It("leaves every register and memory location unchanged under an all-NOP program", func() {
		mainMem := mem.NewMainMemory(10, 1)
		for addr := uint32(0); addr < 8*4; addr += 4 {
			seedWord(mainMem, addr, int32(addr)+1)
		}

		p := proc.New(proc.Config{InstructionWords: 64, ForwardingEnabled: true, DataMemory: mainMem})
		p.LoadProgram(make([]word.Word, 8)) // all-zero words: eight NOPs

		run(p, 40)

		for i := 0; i < 32; i++ {
			Expect(p.IntRegs.Read(i).Int32()).To(Equal(int32(0)), "register x%d should not have changed", i)
		}
		for addr := uint32(0); addr < 8*4; addr += 4 {
			block, ok := mainMem.ReadBlock(addr, 1)
			Expect(ok).To(BeTrue())
			Expect(block.At(0).Int32()).To(Equal(int32(addr) + 1))
		}
	})

	It("takes a branch and flushes exactly the one instruction fetched behind it", func() {
		p := newProcessor(true, 1)
		p.LoadProgram([]word.Word{
			beq(0, 0, 12), // always taken: skip the next two instructions
			addi(1, 0, 1),
			addi(2, 0, 2),
			addi(3, 0, 3),
		})

		run(p, 20)

		Expect(p.IntRegs.Read(1).Int32()).To(Equal(int32(0)))
		Expect(p.IntRegs.Read(2).Int32()).To(Equal(int32(0)))
		Expect(p.IntRegs.Read(3).Int32()).To(Equal(int32(3)))
	})

	It("sums three memory words into a fourth via a loop", func() {
		mainMem := mem.NewMainMemory(10, 1)
		seedWord(mainMem, 0, 1)
		seedWord(mainMem, 4, 2)
		seedWord(mainMem, 8, 3)

		p := proc.New(proc.Config{InstructionWords: 64, ForwardingEnabled: true, DataMemory: mainMem})

		// x1: byte offset into the three source words (0, 4, 8), x2:
		// running sum, x3: the loop bound (12), x4: scratch load
		// register. NOPs pad every register write that a branch or load
		// reads soon after, so that the ID-stage branch comparison (which
		// is not itself a forwarding target) never observes a stale
		// value.
		//    0:  addi x1, x0, 0
		//    4:  addi x2, x0, 0
		//    8:  addi x3, x0, 12
		//   12:  nop
		//   16:  nop
		//   20:  nop
		//   24:  blt  x1, x3, 8    -> loop body at 32
		//   28:  jal  x0, 36       -> done: jump to the store at 64
		//   32:  lw   x4, 0(x1)
		//   36:  add  x2, x2, x4
		//   40:  nop
		//   44:  addi x1, x1, 4
		//   48:  nop
		//   52:  nop
		//   56:  nop
		//   60:  jal  x0, -36      -> back to the loop check at 24
		//   64:  sw   x2, 12(x0)
		nop := word.Zero
		program := []word.Word{
			addi(1, 0, 0),
			addi(2, 0, 0),
			addi(3, 0, 12),
			nop,
			nop,
			nop,
			blt(1, 3, 8),
			jal(0, 36),
			lw(4, 1, 0),
			add(2, 2, 4),
			nop,
			addi(1, 1, 4),
			nop,
			nop,
			nop,
			jal(0, -36),
			sw(0, 2, 12),
		}
		p.LoadProgram(program)

		run(p, 150)

		block, ok := mainMem.ReadBlock(12, 1)
		Expect(ok).To(BeTrue())
		Expect(block.At(0).Int32()).To(Equal(int32(6)))
	})
})
