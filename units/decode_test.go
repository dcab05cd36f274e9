package units_test

import (
	"github.com/redyaung/jarvs/dataflow"
	"github.com/redyaung/jarvs/units"
	"github.com/redyaung/jarvs/word"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// encodeR packs an R-format instruction for testing.
func encodeR(opcode, rd, funct3, rs1, rs2, funct7 uint32) word.Word {
	raw := opcode | rd<<7 | funct3<<12 | rs1<<15 | rs2<<20 | funct7<<25
	return word.FromUint32(raw)
}

var _ = Describe("Decode", func() {
	It("extracts rs1, rs2, rd, funct3 and funct7", func() {
		d := units.NewDecode("decode")
		instr := dataflow.NewOutputSignal[word.Word]()
		dataflow.Connect(instr, d.Instruction)

		dataflow.Drive(instr, encodeR(units.OpcodeR, 1, 0x0, 2, 3, 0x20))

		Expect(d.Rd.Value()).To(Equal(1))
		Expect(d.Rs1.Value()).To(Equal(2))
		Expect(d.Rs2.Value()).To(Equal(3))
		Expect(d.Funct3.Value()).To(Equal(uint8(0x0)))
		Expect(d.Funct7.Value()).To(Equal(uint8(0x20)))
		Expect(d.Opcode.Value()).To(Equal(uint32(units.OpcodeR)))
	})

	It("never raises on an unrecognised opcode", func() {
		d := units.NewDecode("decode")
		instr := dataflow.NewOutputSignal[word.Word]()
		dataflow.Connect(instr, d.Instruction)

		Expect(func() {
			dataflow.Drive(instr, word.FromUint32(0x7F))
		}).NotTo(Panic())
	})
})
