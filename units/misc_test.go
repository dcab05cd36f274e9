package units_test

import (
	"github.com/redyaung/jarvs/dataflow"
	"github.com/redyaung/jarvs/regfile"
	"github.com/redyaung/jarvs/units"
	"github.com/redyaung/jarvs/word"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Mux2", func() {
	It("selects input0 when control is false, input1 otherwise", func() {
		m := units.NewMux2[word.Word]("mux")
		in0 := dataflow.NewOutputSignal[word.Word]()
		in1 := dataflow.NewOutputSignal[word.Word]()
		ctrl := dataflow.NewOutputSignal[bool]()
		dataflow.Connect(in0, m.Input0)
		dataflow.Connect(in1, m.Input1)
		dataflow.Connect(ctrl, m.Control)

		dataflow.Drive(in0, word.FromUint32(1))
		dataflow.Drive(in1, word.FromUint32(2))
		dataflow.Drive(ctrl, false)
		Expect(m.Output.Value().Uint32()).To(Equal(uint32(1)))

		dataflow.Drive(ctrl, true)
		Expect(m.Output.Value().Uint32()).To(Equal(uint32(2)))
	})
})

var _ = Describe("Gates", func() {
	It("AndGate computes logical AND", func() {
		g := units.NewAndGate("and")
		a := dataflow.NewOutputSignal[bool]()
		b := dataflow.NewOutputSignal[bool]()
		dataflow.Connect(a, g.In0)
		dataflow.Connect(b, g.In1)

		dataflow.Drive(a, true)
		dataflow.Drive(b, false)
		Expect(g.Output.Value()).To(BeFalse())

		dataflow.Drive(b, true)
		Expect(g.Output.Value()).To(BeTrue())
	})

	It("OrGate computes logical OR", func() {
		g := units.NewOrGate("or")
		a := dataflow.NewOutputSignal[bool]()
		b := dataflow.NewOutputSignal[bool]()
		dataflow.Connect(a, g.In0)
		dataflow.Connect(b, g.In1)

		dataflow.Drive(a, false)
		dataflow.Drive(b, false)
		Expect(g.Output.Value()).To(BeFalse())

		dataflow.Drive(a, true)
		Expect(g.Output.Value()).To(BeTrue())
	})
})

var _ = Describe("Adder", func() {
	It("sums two signed words", func() {
		add := units.NewAdder("adder")
		a := dataflow.NewOutputSignal[word.Word]()
		b := dataflow.NewOutputSignal[word.Word]()
		dataflow.Connect(a, add.Operand1)
		dataflow.Connect(b, add.Operand2)

		dataflow.Drive(a, word.FromInt32(-4))
		dataflow.Drive(b, word.FromInt32(10))
		Expect(add.Output.Value().Int32()).To(Equal(int32(6)))
	})
})

var _ = Describe("RegisterFileUnit", func() {
	It("writes then reads in the same Operate, observing x0's hardwired zero", func() {
		file := regfile.New(regfile.Integer)
		u := units.NewRegisterFileUnit("regs", file)

		r1 := dataflow.NewOutputSignal[units.Reg]()
		r2 := dataflow.NewOutputSignal[units.Reg]()
		we := dataflow.NewOutputSignal[bool]()
		wr := dataflow.NewOutputSignal[units.Reg]()
		wd := dataflow.NewOutputSignal[word.Word]()
		dataflow.Connect(r1, u.ReadReg1)
		dataflow.Connect(r2, u.ReadReg2)
		dataflow.Connect(we, u.WriteEnable)
		dataflow.Connect(wr, u.WriteReg)
		dataflow.Connect(wd, u.WriteData)

		dataflow.Drive(r1, 1)
		dataflow.Drive(r2, 0)
		dataflow.Drive(wr, 1)
		dataflow.Drive(wd, word.FromUint32(42))
		dataflow.Drive(we, true)

		Expect(u.ReadData1.Value().Uint32()).To(Equal(uint32(42)))
		Expect(u.ReadData2.Value()).To(Equal(word.Zero))
	})
})
