package simplefsm

import "fmt"

// Event is anything that can be dispatched into a Machine. The payload is opaque to
// the engine; handlers type-assert it themselves.
type Event interface {
	fmt.Stringer
}

// Result is the outcome of Dispatch
type Result int

const (
	// Handled means a handler ran and the machine settled in its target state.
	Handled Result = 0
	// Unhandled means no handler matched; the current state is unchanged.
	Unhandled Result = -1
)

func (r Result) String() string {
	switch r {
	case Handled:
		return "handled"
	case Unhandled:
		return "unhandled"
	default:
		return fmt.Sprintf("Result(%d)", int(r))
	}
}
