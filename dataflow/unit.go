package dataflow

// Named is embedded by every concrete unit to provide Name().
type Named struct {
	name string
}

// NewNamed returns a Named with the given name.
func NewNamed(name string) Named {
	return Named{name: name}
}

// Name returns the unit's name, mostly useful for diagnostics.
func (n Named) Name() string {
	return n.name
}

// Combinational is a stateless function of its current inputs. Its
// NotifyInputChange implementation calls Operate immediately, so it
// recomputes every output the instant any input changes.
type Combinational interface {
	Notifiable
	Operate()
}

// Clocked is a unit whose state only changes when the processor ticks.
// NotifyInputChange is a no-op (satisfied by embedding NoOpNotify);
// Operate is called once per cycle by the processor, in declaration
// order, and is where the unit reads its current input signals and
// drives its outputs.
type Clocked interface {
	Notifiable
	Operate()
}

// BufferedClocked additionally exposes a pre-latch buffer stage.
// BufferInputs is called once per cycle, after the unit's own Operate
// and before the other pipeline registers' Operate, latching inputs
// into the buffer so that units reading the
// buffer (forwarding) see values unaffected by this cycle's downstream
// clocked mutation order.
type BufferedClocked interface {
	Clocked
	BufferInputs()
}
