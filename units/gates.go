package units

import "github.com/redyaung/jarvs/dataflow"

// AndGate drives Output with the bitwise AND of its two single-bit
// inputs.
type AndGate struct {
	dataflow.Named

	In0 *dataflow.InputSignal[bool]
	In1 *dataflow.InputSignal[bool]

	Output *dataflow.OutputSignal[bool]
}

// NewAndGate constructs an AndGate.
func NewAndGate(name string) *AndGate {
	g := &AndGate{Named: dataflow.NewNamed(name)}
	g.In0 = dataflow.NewInputSignal[bool](g)
	g.In1 = dataflow.NewInputSignal[bool](g)
	g.Output = dataflow.NewOutputSignal[bool]()
	return g
}

// NotifyInputChange recomputes the output immediately.
func (g *AndGate) NotifyInputChange() {
	g.Operate()
}

// Operate drives Output.
func (g *AndGate) Operate() {
	dataflow.Drive(g.Output, g.In0.Value() && g.In1.Value())
}

// OrGate drives Output with the logical OR of its two single-bit
// inputs.
type OrGate struct {
	dataflow.Named

	In0 *dataflow.InputSignal[bool]
	In1 *dataflow.InputSignal[bool]

	Output *dataflow.OutputSignal[bool]
}

// NewOrGate constructs an OrGate.
func NewOrGate(name string) *OrGate {
	g := &OrGate{Named: dataflow.NewNamed(name)}
	g.In0 = dataflow.NewInputSignal[bool](g)
	g.In1 = dataflow.NewInputSignal[bool](g)
	g.Output = dataflow.NewOutputSignal[bool]()
	return g
}

// NotifyInputChange recomputes the output immediately.
func (g *OrGate) NotifyInputChange() {
	g.Operate()
}

// Operate drives Output.
func (g *OrGate) Operate() {
	dataflow.Drive(g.Output, g.In0.Value() || g.In1.Value())
}
