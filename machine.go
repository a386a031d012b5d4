package simplefsm

import (
	"fmt"
	"log/slog"
)

// Machine tracks the current state of one owner instance.
//
// A Machine is not safe for concurrent use; an owner processes one event at a time.
type Machine[O Owner, E Event] struct {
	table       *Table[O, E]
	current     *State[O, E]
	initialized bool

	logger     *slog.Logger
	chainLimit int
	observer   Observer
}

// MachineOption is a functional option for configuring a Machine
type MachineOption func(*machineOptions)

type machineOptions struct {
	logger     *slog.Logger
	chainLimit int
	observer   Observer
}

// WithLogger sets the logger for the machine
func WithLogger(logger *slog.Logger) MachineOption {
	return func(o *machineOptions) {
		o.logger = logger
	}
}

// WithChainLimit bounds how many enter steps a transition may take.
// A limit of zero or less removes the bound.
func WithChainLimit(n int) MachineOption {
	return func(o *machineOptions) {
		o.chainLimit = n
	}
}

// WithObserver sets an observer notified of dispatches and transitions
func WithObserver(obs Observer) MachineOption {
	return func(o *machineOptions) {
		o.observer = obs
	}
}

// New creates an uninitialized machine over table.
func New[O Owner, E Event](table *Table[O, E], opts ...MachineOption) *Machine[O, E] {
	o := machineOptions{
		logger:     Logger,
		chainLimit: DefaultChainLimit,
		observer:   nopObserver{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = Logger
	}
	if o.observer == nil {
		o.observer = nopObserver{}
	}
	return &Machine[O, E]{
		table:      table,
		logger:     o.logger,
		chainLimit: o.chainLimit,
		observer:   o.observer,
	}
}

// Table returns the shared table, which also holds the default handlers
func (m *Machine[O, E]) Table() *Table[O, E] { return m.table }

// CurrentState returns the current state, or nil before Initialize
func (m *Machine[O, E]) CurrentState() *State[O, E] { return m.current }

// Initialized reports whether Initialize has succeeded
func (m *Machine[O, E]) Initialized() bool { return m.initialized }

// Initialize enters the start state. It may succeed only once per machine; later
// calls log a warning and return ErrAlreadyInitialized without side effects.
func (m *Machine[O, E]) Initialize(owner O, start ID[State[O, E]]) error {
	if m.initialized {
		m.logger.Warn("wrong state machine initialization",
			"owner", owner.Name(), "state", m.current.id.Label())
		return fmt.Errorf("initialize %s: %w", owner.Name(), ErrAlreadyInitialized)
	}
	s, ok := m.table.Lookup(start)
	if !ok {
		return fmt.Errorf("initialize %s: %w: %s", owner.Name(), ErrUnknownState, start)
	}
	m.initialized = true
	steps := m.settle(owner, s)
	m.logger.Info("state machine initialized", "owner", owner.Name(), "state", m.current.id.Label())
	m.observer.Transitioned(owner.Name(), "", m.current.id.Label(), steps)
	return nil
}

// Dispatch delivers event to the current state.
//
// The current state's handler for key is used first; when the state has none and
// does not ignore defaults, the table's default handler is used. Without a handler
// the state is left unchanged and Unhandled is returned.
func (m *Machine[O, E]) Dispatch(owner O, event E, key ID[E]) Result {
	if !m.initialized {
		m.logger.Warn("event dispatched before initialization",
			"owner", owner.Name(), "event", event.String(), "error", ErrNotInitialized)
		m.observer.EventDispatched(owner.Name(), "", key.Label(), Unhandled)
		return Unhandled
	}

	from := m.current
	fn, ok := from.HandlerFor(key)
	if !ok && !from.ignoreDefaults {
		fn, ok = m.table.DefaultFor(key)
	}
	if !ok {
		m.logger.Warn("handler not found",
			"owner", owner.Name(), "event", event.String(), "state", from.id.Label())
		m.observer.EventDispatched(owner.Name(), from.id.Label(), key.Label(), Unhandled)
		return Unhandled
	}

	m.logger.Debug("handled event",
		"owner", owner.Name(), "event", event.String(), "state", from.id.Label())
	target := m.resolve(fn(owner, event))
	steps := m.settle(owner, target)

	if !from.id.Equal(m.current.id) {
		m.logger.Info("state changed",
			"owner", owner.Name(), "from", from.id.Label(), "to", m.current.id.Label())
	}
	m.observer.EventDispatched(owner.Name(), from.id.Label(), key.Label(), Handled)
	m.observer.Transitioned(owner.Name(), from.id.Label(), m.current.id.Label(), steps)
	return Handled
}

// settle moves into target and follows enter redirections until a state's enter
// hook returns that state. The first exit/enter pair always runs, so targeting the
// current state re-runs its hooks. It returns the number of enter calls.
func (m *Machine[O, E]) settle(owner O, target *State[O, E]) int {
	steps := 0
	for {
		if m.chainLimit > 0 && steps >= m.chainLimit {
			err := fmt.Errorf("%w: %s still redirecting to %s after %d steps",
				ErrChainLimit, m.current.id, target.id, steps)
			m.logger.Error("malformed transition chain", "owner", owner.Name(), "error", err)
			panic(err)
		}
		steps++
		if m.current != nil {
			m.current.Exit(owner)
		}
		m.current = target
		m.logger.Debug("entering state", "owner", owner.Name(), "state", target.id.Label())
		next := m.resolve(target.Enter(owner))
		if next.id.Equal(target.id) {
			return steps
		}
		target = next
	}
}

// resolve maps an identifier returned by a handler or hook onto the table.
// An identifier outside the table is an authoring bug.
func (m *Machine[O, E]) resolve(id ID[State[O, E]]) *State[O, E] {
	s, ok := m.table.Lookup(id)
	if !ok {
		panic(fmt.Errorf("%w: %s is not in table %q", ErrUnknownState, id, m.table.name))
	}
	return s
}
