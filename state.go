package simplefsm

import "sort"

type handler[O Owner, E Event] struct {
	key ID[E]
	fn  TransitionFunc[O, E]
}

// State is one node of an owner type's transition graph. States are built once per
// owner type by a Table and shared by every machine using that table.
type State[O Owner, E Event] struct {
	id             ID[State[O, E]]
	ignoreDefaults bool
	handlers       map[int]handler[O, E]
	ignored        map[int]string
	onEnter        EnterFunc[O, E]
	onExit         ExitFunc[O]
}

func newState[O Owner, E Event](id ID[State[O, E]], opts ...StateOption) *State[O, E] {
	var o stateOptions
	for _, opt := range opts {
		opt(&o)
	}
	s := &State[O, E]{
		id:             id,
		ignoreDefaults: o.ignoreDefaults,
		handlers:       make(map[int]handler[O, E]),
		ignored:        make(map[int]string),
	}
	for _, k := range o.ignored {
		s.ignored[k.value] = k.label
	}
	return s
}

// ID returns the state identifier
func (s *State[O, E]) ID() ID[State[O, E]] { return s.id }

// IgnoresDefaults reports whether the default handlers are skipped for this state
func (s *State[O, E]) IgnoresDefaults() bool { return s.ignoreDefaults }

func (s *State[O, E]) String() string { return s.id.String() }

// On installs fn as the handler for key, replacing any previous one.
func (s *State[O, E]) On(key ID[E], fn TransitionFunc[O, E]) *State[O, E] {
	s.handlers[key.Value()] = handler[O, E]{key: key, fn: fn}
	return s
}

// Ignore adds keys to the ignore set.
func (s *State[O, E]) Ignore(keys ...ID[E]) *State[O, E] {
	for _, k := range keys {
		s.ignored[k.Value()] = k.Label()
	}
	return s
}

// OnEnter sets the entry hook
func (s *State[O, E]) OnEnter(fn EnterFunc[O, E]) *State[O, E] {
	s.onEnter = fn
	return s
}

// OnExit sets the exit hook
func (s *State[O, E]) OnExit(fn ExitFunc[O]) *State[O, E] {
	s.onExit = fn
	return s
}

// HandlerFor returns the handler for key. Ignored keys never have a handler.
func (s *State[O, E]) HandlerFor(key ID[E]) (TransitionFunc[O, E], bool) {
	if _, ok := s.ignored[key.Value()]; ok {
		return nil, false
	}
	h, ok := s.handlers[key.Value()]
	if !ok {
		return nil, false
	}
	return h.fn, true
}

// Enter runs the entry hook and returns the state the machine should settle in.
func (s *State[O, E]) Enter(owner O) ID[State[O, E]] {
	if s.onEnter == nil {
		return s.id
	}
	next := s.onEnter(owner)
	if next.IsError() {
		return s.id
	}
	return next
}

// Exit runs the exit hook
func (s *State[O, E]) Exit(owner O) {
	if s.onExit != nil {
		s.onExit(owner)
	}
}

// handledKeys returns the installed keys ordered by identifier value
func (s *State[O, E]) handledKeys() []ID[E] {
	keys := make([]ID[E], 0, len(s.handlers))
	for _, h := range s.handlers {
		keys = append(keys, h.key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Value() < keys[j].Value() })
	return keys
}

// ignoredLabels returns the ignore set's labels ordered by identifier value
func (s *State[O, E]) ignoredLabels() []string {
	vals := make([]int, 0, len(s.ignored))
	for v := range s.ignored {
		vals = append(vals, v)
	}
	sort.Ints(vals)
	labels := make([]string, len(vals))
	for i, v := range vals {
		labels[i] = s.ignored[v]
	}
	return labels
}
