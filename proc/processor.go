// Package proc assembles every combinational unit, pipeline register,
// hazard detector and the forwarding unit from the sibling packages
// into the five-stage datapath described by the spec, and drives it
// one cycle at a time.
package proc

import (
	"github.com/redyaung/jarvs/dataflow"
	"github.com/redyaung/jarvs/forward"
	"github.com/redyaung/jarvs/hazard"
	"github.com/redyaung/jarvs/internal/rvlog"
	"github.com/redyaung/jarvs/mem"
	"github.com/redyaung/jarvs/pipeline"
	"github.com/redyaung/jarvs/regfile"
	"github.com/redyaung/jarvs/units"
	"github.com/redyaung/jarvs/word"
)

// Config bundles the construction parameters for a Processor.
type Config struct {
	// InstructionWords sizes the instruction memory, in 32-bit words.
	InstructionWords int
	// ForwardingEnabled selects the data-hazard detector's mode and
	// whether the forwarding unit participates in the priority phase
	// at all.
	ForwardingEnabled bool
	// DataMemory backs the MEM stage's loads and stores. It may be a
	// bare mem.MainMemory or a mem.cache.Cache stacked in front of one.
	DataMemory mem.TimedMemory
}

// Processor owns every unit in the datapath and advances the single
// logical clock. It is not safe for concurrent use; the simulator is
// single-threaded by design (spec §5).
type Processor struct {
	cycle int

	forwardingEnabled bool

	IntRegs   *regfile.File
	FloatRegs *regfile.File

	InstrMem *InstructionMemory
	DataMem  *DataMemoryAccess

	Issue *pipeline.InstructionIssueUnit
	IfId  *pipeline.IfId
	IdEx  *pipeline.IdEx
	ExMem *pipeline.ExMem
	MemWb *pipeline.MemWb

	decode      *units.Decode
	immGen      *units.ImmGen
	control     *units.Control
	aluControl  *units.AluControl
	alu         *units.ALU
	branchALU   *units.BranchALU
	regFileUnit *units.RegisterFileUnit

	pcPlus4Adder    *units.Adder
	branchTargetAdd *units.Adder
	baseMux         *units.Mux2[word.Word]
	aluSrcMux       *units.Mux2[word.Word]
	writeBackMux    *units.Mux2[word.Word]
	nextPCMux       *units.Mux2[word.Word]
	branchTakenGate *units.AndGate
	pcSrcGate       *units.OrGate
	freezeGate      *units.OrGate

	dataHazard *hazard.DataHazardDetector
	memHazard  *hazard.MemoryHazardDetector
	forwarder  *forward.Unit

	four *dataflow.OutputSignal[word.Word]
}

// New constructs a fully wired Processor. It panics on an invalid
// configuration (per spec §7, configuration errors are fatal at
// construction).
func New(cfg Config) *Processor {
	if cfg.DataMemory == nil {
		panic("proc: DataMemory must not be nil")
	}
	if cfg.InstructionWords <= 0 {
		panic("proc: InstructionWords must be positive")
	}

	p := &Processor{
		forwardingEnabled: cfg.ForwardingEnabled,
		IntRegs:           regfile.New(regfile.Integer),
		FloatRegs:         regfile.New(regfile.Float),
		InstrMem:          NewInstructionMemory("instr_mem", cfg.InstructionWords),
		DataMem:           NewDataMemoryAccess("data_mem", cfg.DataMemory),
		Issue:             pipeline.NewInstructionIssueUnit("issue"),
		IfId:              pipeline.NewIfId("if_id"),
		IdEx:              pipeline.NewIdEx("id_ex"),
		ExMem:             pipeline.NewExMem("ex_mem"),
		MemWb:             pipeline.NewMemWb("mem_wb"),
	}

	p.decode = units.NewDecode("decode")
	p.immGen = units.NewImmGen("imm_gen")
	p.branchALU = units.NewBranchALU("branch_alu")
	p.aluControl = units.NewAluControl("alu_control")
	p.alu = units.NewALU("alu")
	p.regFileUnit = units.NewRegisterFileUnit("reg_file", p.IntRegs)
	p.control = units.NewControl("control", p.IntRegs)

	p.pcPlus4Adder = units.NewAdder("pc_plus_4")
	p.branchTargetAdd = units.NewAdder("branch_target")
	p.baseMux = units.NewMux2[word.Word]("branch_base_mux")
	p.aluSrcMux = units.NewMux2[word.Word]("alu_src_mux")
	p.writeBackMux = units.NewMux2[word.Word]("write_back_mux")
	p.nextPCMux = units.NewMux2[word.Word]("next_pc_mux")
	p.branchTakenGate = units.NewAndGate("branch_taken_gate")
	p.pcSrcGate = units.NewOrGate("pc_src_gate")
	p.freezeGate = units.NewOrGate("freeze_gate")

	p.dataHazard = hazard.NewDataHazardDetector("data_hazard", cfg.ForwardingEnabled)
	p.memHazard = hazard.NewMemoryHazardDetector("mem_hazard")
	if cfg.ForwardingEnabled {
		p.forwarder = forward.NewUnit("forward", p.IdEx)
	}

	p.four = dataflow.NewOutputSignal[word.Word]()

	p.wire()
	dataflow.Drive(p.four, word.FromInt32(4))
	p.ExMem.ShouldFlush.Override(false)

	return p
}

func (p *Processor) wire() {
	c := dataflow.Connect[word.Word]
	cb := dataflow.Connect[bool]
	cr := dataflow.Connect[units.Reg]
	cu8 := dataflow.Connect[uint8]

	// Instruction fetch.
	c(p.Issue.PC, p.InstrMem.Address)
	c(p.Issue.PC, p.IfId.PC.In)
	c(p.InstrMem.Instruction, p.IfId.Instruction.In)
	c(p.Issue.PC, p.pcPlus4Adder.Operand1)
	c(p.four, p.pcPlus4Adder.Operand2)

	// Decode.
	c(p.IfId.Instruction.Out, p.decode.Instruction)
	c(p.IfId.Instruction.Out, p.immGen.Instruction)
	c(p.IfId.Instruction.Out, p.control.Instruction)
	cr(p.decode.Rd, p.control.Rd)
	c(p.pcPlus4Adder.Output, p.control.LinkAddr)

	cr(p.decode.Rs1, p.regFileUnit.ReadReg1)
	cr(p.decode.Rs2, p.regFileUnit.ReadReg2)
	cb(p.MemWb.RegWrite.Out, p.regFileUnit.WriteEnable)
	cr(p.MemWb.Rd.Out, p.regFileUnit.WriteReg)
	c(p.writeBackMux.Output, p.regFileUnit.WriteData)
	cb(p.MemWb.MemToReg.Out, p.writeBackMux.Control)
	c(p.MemWb.AluResult.Out, p.writeBackMux.Input0)
	c(p.MemWb.MemReadData.Out, p.writeBackMux.Input1)

	// Branch/jump target resolution, decided in ID.
	cu8(p.decode.Funct3, p.branchALU.Funct3)
	c(p.regFileUnit.ReadData1, p.branchALU.Operand1)
	c(p.regFileUnit.ReadData2, p.branchALU.Operand2)
	cb(p.control.Branch, p.branchTakenGate.In0)
	cb(p.branchALU.Taken, p.branchTakenGate.In1)
	cb(p.branchTakenGate.Output, p.pcSrcGate.In0)
	cb(p.control.IsJump, p.pcSrcGate.In1)

	cb(p.control.UseRegBase, p.baseMux.Control)
	c(p.IfId.PC.Out, p.baseMux.Input0)
	c(p.regFileUnit.ReadData1, p.baseMux.Input1)
	c(p.baseMux.Output, p.branchTargetAdd.Operand1)
	c(p.immGen.Imm, p.branchTargetAdd.Operand2)

	cb(p.pcSrcGate.Output, p.nextPCMux.Control)
	c(p.pcPlus4Adder.Output, p.nextPCMux.Input0)
	c(p.branchTargetAdd.Output, p.nextPCMux.Input1)
	c(p.nextPCMux.Output, p.Issue.NextPC)

	cb(p.pcSrcGate.Output, p.IfId.ShouldFlush)

	// ID/EX latch inputs.
	c(p.regFileUnit.ReadData1, p.IdEx.ReadData1.In)
	c(p.regFileUnit.ReadData2, p.IdEx.ReadData2.In)
	c(p.immGen.Imm, p.IdEx.Imm.In)
	cr(p.decode.Rs1, p.IdEx.Rs1.In)
	cr(p.decode.Rs2, p.IdEx.Rs2.In)
	cr(p.decode.Rd, p.IdEx.Rd.In)
	cu8(p.decode.Funct3, p.IdEx.Funct3.In)
	cu8(p.decode.Funct7, p.IdEx.Funct7.In)
	cb(p.control.AluSrc, p.IdEx.AluSrc.In)
	dataflow.Connect[units.AluOpSel](p.control.CtrlAluOp, p.IdEx.CtrlAluOp.In)
	cb(p.control.MemRead, p.IdEx.MemRead.In)
	cb(p.control.MemWrite, p.IdEx.MemWrite.In)
	cb(p.control.MemToReg, p.IdEx.MemToReg.In)
	cb(p.control.RegWrite, p.IdEx.RegWrite.In)

	// Execute.
	dataflow.Connect[units.AluOpSel](p.IdEx.CtrlAluOp.Out, p.aluControl.CtrlAluOp)
	cu8(p.IdEx.Funct3.Out, p.aluControl.Funct3)
	cu8(p.IdEx.Funct7.Out, p.aluControl.Funct7)
	dataflow.Connect[units.AluOp](p.aluControl.Op, p.alu.Op)
	c(p.IdEx.ReadData1.Out, p.alu.Operand1)
	cb(p.IdEx.AluSrc.Out, p.aluSrcMux.Control)
	c(p.IdEx.ReadData2.Out, p.aluSrcMux.Input0)
	c(p.IdEx.Imm.Out, p.aluSrcMux.Input1)
	c(p.aluSrcMux.Output, p.alu.Operand2)

	// EX/MEM latch inputs.
	c(p.alu.Output, p.ExMem.AluResult.In)
	c(p.IdEx.ReadData2.Out, p.ExMem.WriteData.In)
	cr(p.IdEx.Rd.Out, p.ExMem.Rd.In)
	cb(p.IdEx.MemRead.Out, p.ExMem.MemRead.In)
	cb(p.IdEx.MemWrite.Out, p.ExMem.MemWrite.In)
	cb(p.IdEx.MemToReg.Out, p.ExMem.MemToReg.In)
	cb(p.IdEx.RegWrite.Out, p.ExMem.RegWrite.In)

	// Memory access.
	cb(p.ExMem.MemRead.Out, p.DataMem.MemRead)
	cb(p.ExMem.MemWrite.Out, p.DataMem.MemWrite)
	c(p.ExMem.AluResult.Out, p.DataMem.Address)
	c(p.ExMem.WriteData.Out, p.DataMem.WriteData)

	// MEM/WB latch inputs.
	c(p.DataMem.ReadData, p.MemWb.MemReadData.In)
	c(p.ExMem.AluResult.Out, p.MemWb.AluResult.In)
	cr(p.ExMem.Rd.Out, p.MemWb.Rd.In)
	cb(p.ExMem.MemToReg.Out, p.MemWb.MemToReg.In)
	cb(p.ExMem.RegWrite.Out, p.MemWb.RegWrite.In)

	// Hazard detection.
	cr(p.decode.Rs1, p.dataHazard.Rs1)
	cr(p.decode.Rs2, p.dataHazard.Rs2)
	cb(p.IdEx.MemRead.Out, p.dataHazard.IdExMemRead)
	cb(p.IdEx.RegWrite.Out, p.dataHazard.IdExRegWrite)
	cr(p.IdEx.Rd.Out, p.dataHazard.IdExRd)
	cb(p.ExMem.RegWrite.Out, p.dataHazard.ExMemRegWrite)
	cr(p.ExMem.Rd.Out, p.dataHazard.ExMemRd)

	cb(p.DataMem.Ready, p.memHazard.IsDataMemoryReady)

	// Freeze/flush fan-out. Deviates from a literal reading of the
	// spec's §4.5 wording (which pairs the load-use stall with a
	// flush of IF/ID): given the declaration order mandated by §4.7 -
	// later stages latch before earlier ones so each stage reads the
	// pre-tick state of its upstream neighbour - flushing IF/ID cannot
	// stop the stalled instruction from being latched into ID/EX this
	// same cycle. Freezing IF/ID and flushing ID/EX is the version
	// that actually produces the one/two-cycle stall counts §8
	// requires, so that is what is wired here.
	cb(p.dataHazard.Stall, p.freezeGate.In0)
	cb(p.memHazard.Busy, p.freezeGate.In1)
	cb(p.freezeGate.Output, p.Issue.ShouldFreeze)
	cb(p.freezeGate.Output, p.IfId.ShouldFreeze)
	cb(p.memHazard.Busy, p.IdEx.ShouldFreeze)
	cb(p.dataHazard.Stall, p.IdEx.ShouldFlush)
	cb(p.memHazard.Busy, p.ExMem.ShouldFreeze)
	cb(p.memHazard.Busy, p.MemWb.ShouldFlush)

	// Forwarding.
	if p.forwarder != nil {
		cr(p.decode.Rs1, p.forwarder.Rs1)
		cr(p.decode.Rs2, p.forwarder.Rs2)
		cb(p.ExMem.RegWrite.Out, p.forwarder.ExMemRegWrite)
		cr(p.ExMem.Rd.Out, p.forwarder.ExMemRd)
		c(p.ExMem.AluResult.Out, p.forwarder.ExMemAluResult)
		cb(p.MemWb.RegWrite.BufferOut, p.forwarder.MemWbRegWrite)
		cr(p.MemWb.Rd.BufferOut, p.forwarder.MemWbRd)
		cb(p.MemWb.MemToReg.BufferOut, p.forwarder.MemWbMemToReg)
		c(p.MemWb.AluResult.BufferOut, p.forwarder.MemWbAluResult)
		c(p.MemWb.MemReadData.BufferOut, p.forwarder.MemWbMemReadData)
	}
}

// LoadProgram installs program into instruction memory starting at
// byte address 0 and resets the processor to its initial state.
func (p *Processor) LoadProgram(program []word.Word) {
	p.InstrMem.Load(program)
	p.Reset()
}

// Reset restores the pipeline registers, register file and cycle
// counter to their initial state, leaving the loaded program and data
// memory contents untouched. This backs the CLI's interactive "r"
// command (spec §6).
func (p *Processor) Reset() {
	p.cycle = 0
	*p.IntRegs = *regfile.New(regfile.Integer)
	*p.FloatRegs = *regfile.New(regfile.Float)

	dataflow.Drive(p.IfId.PC.Out, word.Zero)
	dataflow.Drive(p.IfId.Instruction.Out, word.Zero)

	dataflow.Drive(p.IdEx.ReadData1.Out, word.Zero)
	dataflow.Drive(p.IdEx.ReadData2.Out, word.Zero)
	dataflow.Drive(p.IdEx.Imm.Out, word.Zero)
	dataflow.Drive(p.IdEx.Rs1.Out, 0)
	dataflow.Drive(p.IdEx.Rs2.Out, 0)
	dataflow.Drive(p.IdEx.Rd.Out, 0)
	dataflow.Drive(p.IdEx.Funct3.Out, uint8(0))
	dataflow.Drive(p.IdEx.Funct7.Out, uint8(0))
	dataflow.Drive(p.IdEx.AluSrc.Out, false)
	dataflow.Drive(p.IdEx.CtrlAluOp.Out, units.AluOpSelMem)
	dataflow.Drive(p.IdEx.MemRead.Out, false)
	dataflow.Drive(p.IdEx.MemWrite.Out, false)
	dataflow.Drive(p.IdEx.MemToReg.Out, false)
	dataflow.Drive(p.IdEx.RegWrite.Out, false)

	dataflow.Drive(p.ExMem.AluResult.Out, word.Zero)
	dataflow.Drive(p.ExMem.WriteData.Out, word.Zero)
	dataflow.Drive(p.ExMem.Rd.Out, 0)
	dataflow.Drive(p.ExMem.MemRead.Out, false)
	dataflow.Drive(p.ExMem.MemWrite.Out, false)
	dataflow.Drive(p.ExMem.MemToReg.Out, false)
	dataflow.Drive(p.ExMem.RegWrite.Out, false)

	zeroBuffered(p.MemWb.MemReadData)
	zeroBuffered(p.MemWb.AluResult)
	zeroBuffered(p.MemWb.Rd)
	zeroBuffered(p.MemWb.MemToReg)
	zeroBuffered(p.MemWb.RegWrite)

	// Issue.Reset runs last: it drives PC, which fans out into
	// InstrMem.Address and re-fetches instruction 0 combinationally.
	p.Issue.Reset()
}

func zeroBuffered[T any](f *pipeline.BufferedField[T]) {
	var z T
	dataflow.Drive(f.BufferOut, z)
	dataflow.Drive(f.Out, z)
}

// Cycle reports the number of cycles executed so far.
func (p *Processor) Cycle() int {
	return p.cycle
}

// PC returns the current program counter.
func (p *Processor) PC() word.Word {
	return p.Issue.PC.Value()
}

// ExecuteOneCycle advances the processor by exactly one clock cycle,
// per spec §4.7. The buffered MEM/WB register needs its own two calls
// split across this ordering, not adjacent: operate() must promote the
// buffer captured by the *previous* tick's bufferInputs() - not the
// one about to be captured this tick - or MEM and WB collapse into a
// single cycle instead of two. Concretely:
//
//  1. increment the clock
//  2. step this cycle's data-memory access; its Ready/ReadData must be
//     current before the memory-hazard detector reads them
//  3. run the priority units: hazard detection, then forwarding (which
//     reads MEM/WB's buffer exactly as bufferInputs() left it at the
//     end of the previous tick - the "pre-latch" value the design
//     calls for)
//  4. promote MEM/WB's buffer to its out, performing this cycle's
//     write-back - before ID/EX latches, so a same-cycle write then
//     read of a register observes the new value
//  5. latch MEM/WB's buffer for next cycle's promotion, from EX/MEM's
//     pre-tick state and this cycle's fresh memory result
//  6. run the remaining clocked units in reverse pipeline order, so
//     each latches its upstream neighbour's pre-tick state; the issue
//     unit's next PC is captured before this step, because IF/ID
//     latching a new instruction recomputes it combinationally
func (p *Processor) ExecuteOneCycle() {
	p.cycle++

	p.DataMem.Operate()

	p.dataHazard.Operate()
	p.memHazard.Operate()

	if p.forwarder != nil {
		p.forwarder.Operate()
	}

	p.MemWb.Operate()
	p.MemWb.BufferInputs()

	nextPC := p.Issue.NextPC.Value()
	p.ExMem.Operate()
	p.IdEx.Operate()
	p.IfId.Operate()
	p.Issue.NextPC.Override(nextPC)
	p.Issue.Operate()

	if p.dataHazard.Stall.Value() {
		rvlog.Tracef("cycle %d: data hazard stall", p.cycle)
	}
	if p.memHazard.Busy.Value() {
		rvlog.Tracef("cycle %d: memory busy, pipeline frozen", p.cycle)
	}
}

// StallThisCycle reports whether the cycle just executed by
// ExecuteOneCycle held the pipeline back - either on a data hazard or
// on a busy data memory access.
func (p *Processor) StallThisCycle() bool {
	return p.dataHazard.Stall.Value() || p.memHazard.Busy.Value()
}
