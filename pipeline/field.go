// Package pipeline implements the clocked latches between the five
// pipeline stages: IF/ID, ID/EX, EX/MEM and MEM/WB, plus the freezable
// program-counter register that drives instruction issue.
package pipeline

import "github.com/redyaung/jarvs/dataflow"

// Field pairs the in/out signals a pipeline register latches for a
// single value it carries between two stages. copyThrough implements
// the "otherwise, for each data output assign out = in" step of
// operate(); zero implements the flush-time override for fields that
// would otherwise propagate a destructive effect downstream.
type Field[T any] struct {
	In  *dataflow.InputSignal[T]
	Out *dataflow.OutputSignal[T]
}

func newField[T any](owner dataflow.Notifiable) *Field[T] {
	return &Field[T]{
		In:  dataflow.NewInputSignal[T](owner),
		Out: dataflow.NewOutputSignal[T](),
	}
}

func (f *Field[T]) copyThrough() {
	dataflow.Drive(f.Out, f.In.Value())
}

func (f *Field[T]) zero() {
	var z T
	dataflow.Drive(f.Out, z)
}

// BufferedField is Field's counterpart for MEM/WB, the one register
// with two latches chained in series. BufferOut is
// driven by bufferInputs() and is what the forwarding unit reads;
// Out is driven by promote() on the next tick and is what write-back
// reads.
type BufferedField[T any] struct {
	In        *dataflow.InputSignal[T]
	BufferOut *dataflow.OutputSignal[T]
	Out       *dataflow.OutputSignal[T]
}

func newBufferedField[T any](owner dataflow.Notifiable) *BufferedField[T] {
	return &BufferedField[T]{
		In:        dataflow.NewInputSignal[T](owner),
		BufferOut: dataflow.NewOutputSignal[T](),
		Out:       dataflow.NewOutputSignal[T](),
	}
}

func (f *BufferedField[T]) bufferInputs() {
	dataflow.Drive(f.BufferOut, f.In.Value())
}

func (f *BufferedField[T]) promote() {
	dataflow.Drive(f.Out, f.BufferOut.Value())
}

func (f *BufferedField[T]) zeroOut() {
	var z T
	dataflow.Drive(f.Out, z)
}
