package simplefsm

import (
	"errors"
	"fmt"
	"sort"
)

// Table holds the states and default handlers of one owner type. It is built once
// and then shared, read-only, by every Machine of that type.
type Table[O Owner, E Event] struct {
	name     string
	states   map[int]*State[O, E]
	order    []int
	defaults map[int]handler[O, E]
	errs     []error
}

// NewTable creates an empty table. Most callers go through Define instead.
func NewTable[O Owner, E Event](name string) *Table[O, E] {
	return &Table[O, E]{
		name:     name,
		states:   make(map[int]*State[O, E]),
		defaults: make(map[int]handler[O, E]),
	}
}

// Name returns the table name used in diagnostics
func (t *Table[O, E]) Name() string { return t.name }

// State declares a state and returns it for handler installation. Declaring an
// existing identifier returns the existing state and records an error.
func (t *Table[O, E]) State(id ID[State[O, E]], opts ...StateOption) *State[O, E] {
	if id.IsError() {
		t.errs = append(t.errs, fmt.Errorf("%w: state declared with %s", ErrInvalidID, id))
		return newState(id, opts...)
	}
	if s, ok := t.states[id.Value()]; ok {
		t.errs = append(t.errs, fmt.Errorf("%w: %s", ErrDuplicateState, id))
		return s
	}
	s := newState(id, opts...)
	t.states[id.Value()] = s
	t.order = append(t.order, id.Value())
	return s
}

// Default installs fn as the fallback handler for key. States that do not ignore
// defaults use it when they have no handler of their own.
func (t *Table[O, E]) Default(key ID[E], fn TransitionFunc[O, E]) *Table[O, E] {
	if key.IsError() {
		t.errs = append(t.errs, fmt.Errorf("%w: default handler for %s", ErrInvalidID, key))
		return t
	}
	t.defaults[key.Value()] = handler[O, E]{key: key, fn: fn}
	return t
}

// DefaultFor returns the default handler for key
func (t *Table[O, E]) DefaultFor(key ID[E]) (TransitionFunc[O, E], bool) {
	h, ok := t.defaults[key.Value()]
	if !ok {
		return nil, false
	}
	return h.fn, true
}

// Lookup resolves a state identifier
func (t *Table[O, E]) Lookup(id ID[State[O, E]]) (*State[O, E], bool) {
	s, ok := t.states[id.Value()]
	return s, ok
}

// States returns the states in declaration order
func (t *Table[O, E]) States() []*State[O, E] {
	out := make([]*State[O, E], 0, len(t.order))
	for _, v := range t.order {
		out = append(out, t.states[v])
	}
	return out
}

// Validate checks the table for authoring errors
func (t *Table[O, E]) Validate() error {
	errs := append([]error(nil), t.errs...)
	if len(t.states) == 0 {
		errs = append(errs, fmt.Errorf("table %q declares no states", t.name))
	}
	for _, v := range t.order {
		s := t.states[v]
		for k, h := range s.handlers {
			if h.fn == nil {
				errs = append(errs, fmt.Errorf("state %s: nil handler for %s", s.id, h.key))
			}
			if k < 0 {
				errs = append(errs, fmt.Errorf("%w: state %s handles %s", ErrInvalidID, s.id, h.key))
			}
		}
	}
	for _, h := range t.defaults {
		if h.fn == nil {
			errs = append(errs, fmt.Errorf("nil default handler for %s", h.key))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid table %q: %w", t.name, err)
	}
	return nil
}

// Description is a serializable snapshot of a table
type Description struct {
	Name     string             `json:"name" yaml:"name"`
	States   []StateDescription `json:"states" yaml:"states"`
	Defaults []string           `json:"defaults,omitempty" yaml:"defaults,omitempty"`
}

// StateDescription describes one state of a table
type StateDescription struct {
	Name           string   `json:"name" yaml:"name"`
	IgnoreDefaults bool     `json:"ignoreDefaults,omitempty" yaml:"ignore_defaults,omitempty"`
	Handles        []string `json:"handles,omitempty" yaml:"handles,omitempty"`
	Ignores        []string `json:"ignores,omitempty" yaml:"ignores,omitempty"`
}

// Describe returns a snapshot of the table's states and handled events.
// Handler targets are not listed since they are only known when a handler runs.
func (t *Table[O, E]) Describe() Description {
	d := Description{Name: t.name}
	for _, s := range t.States() {
		sd := StateDescription{
			Name:           s.id.Label(),
			IgnoreDefaults: s.ignoreDefaults,
			Ignores:        s.ignoredLabels(),
		}
		for _, k := range s.handledKeys() {
			sd.Handles = append(sd.Handles, k.Label())
		}
		if len(sd.Ignores) == 0 {
			sd.Ignores = nil
		}
		d.States = append(d.States, sd)
	}
	keys := make([]ID[E], 0, len(t.defaults))
	for _, h := range t.defaults {
		keys = append(keys, h.key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Value() < keys[j].Value() })
	for _, k := range keys {
		d.Defaults = append(d.Defaults, k.Label())
	}
	return d
}
