package simplefsm

// TransitionFunc runs the owner action for an event and names the target state.
// It must not touch the machine; the machine moves to whatever it returns.
type TransitionFunc[O Owner, E Event] func(owner O, event E) ID[State[O, E]]

// EnterFunc runs on entry. Returning a different state redirects the transition;
// returning the entered state (or the zero ID) settles it.
type EnterFunc[O Owner, E Event] func(owner O) ID[State[O, E]]

// ExitFunc runs when a state is left.
type ExitFunc[O Owner] func(owner O)

// StateOption is a functional option for configuring a State
type StateOption func(*stateOptions)

type stateOptions struct {
	ignoreDefaults bool
	ignored        []ignoredKey
}

type ignoredKey struct {
	value int
	label string
}

// IgnoreDefaults makes the state skip the table's default handlers
func IgnoreDefaults() StateOption {
	return func(o *stateOptions) {
		o.ignoreDefaults = true
	}
}

// Ignoring marks events the state never handles, even when a handler is installed
// for them.
func Ignoring[E Event](keys ...ID[E]) StateOption {
	return func(o *stateOptions) {
		for _, k := range keys {
			o.ignored = append(o.ignored, ignoredKey{value: k.Value(), label: k.Label()})
		}
	}
}
