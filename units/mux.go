package units

import "github.com/redyaung/jarvs/dataflow"

// Mux2 is a 2-way multiplexer: it drives Input0 when Control is false,
// Input1 otherwise.
type Mux2[T any] struct {
	dataflow.Named

	Input0  *dataflow.InputSignal[T]
	Input1  *dataflow.InputSignal[T]
	Control *dataflow.InputSignal[bool]

	Output *dataflow.OutputSignal[T]
}

// NewMux2 constructs a 2-way multiplexer.
func NewMux2[T any](name string) *Mux2[T] {
	m := &Mux2[T]{Named: dataflow.NewNamed(name)}
	m.Input0 = dataflow.NewInputSignal[T](m)
	m.Input1 = dataflow.NewInputSignal[T](m)
	m.Control = dataflow.NewInputSignal[bool](m)
	m.Output = dataflow.NewOutputSignal[T]()
	return m
}

// NotifyInputChange recomputes the selected output immediately.
func (m *Mux2[T]) NotifyInputChange() {
	m.Operate()
}

// Operate drives Output with whichever input Control selects.
func (m *Mux2[T]) Operate() {
	if m.Control.Value() {
		dataflow.Drive(m.Output, m.Input1.Value())
	} else {
		dataflow.Drive(m.Output, m.Input0.Value())
	}
}
