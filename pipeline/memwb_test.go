package pipeline_test

import (
	"github.com/redyaung/jarvs/dataflow"
	"github.com/redyaung/jarvs/pipeline"
	"github.com/redyaung/jarvs/units"
	"github.com/redyaung/jarvs/word"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("MemWb", func() {
	var (
		r           *pipeline.MemWb
		memReadData *dataflow.OutputSignal[word.Word]
		regWrite    *dataflow.OutputSignal[bool]
		rd          *dataflow.OutputSignal[units.Reg]
		flush       *dataflow.OutputSignal[bool]
	)

	BeforeEach(func() {
		r = pipeline.NewMemWb("mem_wb")
		memReadData = dataflow.NewOutputSignal[word.Word]()
		regWrite = dataflow.NewOutputSignal[bool]()
		rd = dataflow.NewOutputSignal[units.Reg]()
		flush = dataflow.NewOutputSignal[bool]()
		dataflow.Connect(memReadData, r.MemReadData.In)
		dataflow.Connect(regWrite, r.RegWrite.In)
		dataflow.Connect(rd, r.Rd.In)
		dataflow.Connect(flush, r.ShouldFlush)

		dataflow.Drive(flush, false)
	})

	It("promotes buffer to out across BufferInputs then Operate", func() {
		dataflow.Drive(memReadData, word.FromUint32(7))
		dataflow.Drive(regWrite, true)
		dataflow.Drive(rd, 2)

		r.BufferInputs()
		Expect(r.MemReadData.BufferOut.Value().Uint32()).To(Equal(uint32(7)))
		// out hasn't been promoted yet.
		Expect(r.MemReadData.Out.Value()).To(Equal(word.Zero))

		r.Operate()
		Expect(r.MemReadData.Out.Value().Uint32()).To(Equal(uint32(7)))
		Expect(r.RegWrite.Out.Value()).To(BeTrue())
		Expect(r.Rd.Out.Value()).To(Equal(2))
	})

	It("exposes the buffer's payload to forwarding before out is promoted", func() {
		dataflow.Drive(regWrite, true)
		dataflow.Drive(rd, 2)
		r.BufferInputs()

		// forwarding reads BufferOut during the priority phase, which
		// runs before this cycle's own Operate.
		Expect(r.RegWrite.BufferOut.Value()).To(BeTrue())
		Expect(r.Rd.BufferOut.Value()).To(Equal(2))
	})

	It("suppresses the write-back effect when the buffered flush was set", func() {
		dataflow.Drive(regWrite, true)
		dataflow.Drive(rd, 2)
		dataflow.Drive(flush, true)

		r.BufferInputs()
		r.Operate()

		Expect(r.RegWrite.Out.Value()).To(BeFalse())
		Expect(r.Rd.Out.Value()).To(Equal(2))
	})
})
