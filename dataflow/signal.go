// Package dataflow implements the wiring primitives shared by every
// functional unit in the datapath: typed signals and the notification
// protocol that lets combinational logic react to upstream changes while
// clocked state only changes on a tick.
package dataflow

// Notifiable is implemented by anything an InputSignal can be wired to.
// Combinational units recompute their outputs synchronously from
// NotifyInputChange; clocked units leave it a no-op (embed NoOpNotify)
// and only change state when the processor calls Operate explicitly.
type Notifiable interface {
	NotifyInputChange()
}

// NoOpNotify is embedded by clocked units to satisfy Notifiable without
// reacting to input changes outside of a clock tick.
type NoOpNotify struct{}

// NotifyInputChange does nothing; see NoOpNotify.
func (NoOpNotify) NotifyInputChange() {}

// OutputSignal is the source end of a wire: it holds the current value
// and broadcasts changes to every connected InputSignal.
type OutputSignal[T any] struct {
	val         T
	subscribers []*InputSignal[T]
}

// NewOutputSignal returns an OutputSignal initialized to the zero value
// of T.
func NewOutputSignal[T any]() *OutputSignal[T] {
	return &OutputSignal[T]{}
}

// Value returns the signal's current value.
func (o *OutputSignal[T]) Value() T {
	return o.val
}

// InputSignal is the sink end of a wire: it holds the last value it was
// driven with and a back-reference to its owning unit so that drives can
// notify it. Each InputSignal is connected to at most one OutputSignal;
// Connect panics if that invariant is violated.
type InputSignal[T any] struct {
	val       T
	owner     Notifiable
	connected bool
}

// NewInputSignal returns an InputSignal owned by owner, which is
// notified whenever the signal is driven.
func NewInputSignal[T any](owner Notifiable) *InputSignal[T] {
	return &InputSignal[T]{owner: owner}
}

// Value returns the signal's last-driven value.
func (i *InputSignal[T]) Value() T {
	return i.val
}

// Override directly replaces the signal's value without going through
// its OutputSignal or notifying anyone. The forwarding unit is the
// only caller: it rewrites ID/EX's operand inputs during the priority
// phase so the EX stage reads the forwarded value when the clocked
// phase later copies in to out the same cycle.
func (i *InputSignal[T]) Override(v T) {
	i.val = v
}

// Connect wires out to in, appending in to out's subscriber list. A
// given InputSignal must not be the target of more than one Connect
// call; connections are established once at construction and never
// changed.
func Connect[T any](out *OutputSignal[T], in *InputSignal[T]) {
	if in.connected {
		panic("dataflow: input signal is already connected to an output")
	}
	in.connected = true
	out.subscribers = append(out.subscribers, in)
}

// Drive sets out's value and propagates it to every subscriber,
// notifying each subscriber's owner synchronously and depth-first. The
// only cycles permitted in the signal graph pass through clocked units,
// whose NotifyInputChange is a no-op, which is what guarantees this
// recursion terminates.
func Drive[T any](out *OutputSignal[T], v T) {
	out.val = v
	for _, in := range out.subscribers {
		in.val = v
		in.owner.NotifyInputChange()
	}
}
