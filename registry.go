package simplefsm

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
)

// registry caches one table per (owner, event) type pair
type registry struct {
	mu      sync.Mutex
	entries map[reflect.Type]*registryEntry
}

type registryEntry struct {
	once  sync.Once
	ready atomic.Bool
	table any
	err   error
}

var tables = &registry{entries: make(map[reflect.Type]*registryEntry)}

func (r *registry) entry(key reflect.Type, create bool) (*registryEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[key]
	if !ok && create {
		e = &registryEntry{}
		r.entries[key] = e
		ok = true
	}
	return e, ok
}

// Define returns the table for owner type O, building it with build on first use.
//
// The build runs at most once per process, even when several owners are created
// concurrently; every later call returns the same table and ignores its build
// argument. A table that fails Validate is an authoring bug and panics.
func Define[O Owner, E Event](name string, build func(*Table[O, E])) *Table[O, E] {
	e, _ := tables.entry(reflect.TypeOf((**Table[O, E])(nil)).Elem(), true)
	e.once.Do(func() {
		t := NewTable[O, E](name)
		build(t)
		if err := t.Validate(); err != nil {
			e.err = err
			return
		}
		e.table = t
		e.ready.Store(true)
	})
	if e.err != nil {
		panic(fmt.Errorf("define %s: %w", name, e.err))
	}
	return e.table.(*Table[O, E])
}

// Defined returns the table previously built by Define for O and E.
func Defined[O Owner, E Event]() (*Table[O, E], bool) {
	e, ok := tables.entry(reflect.TypeOf((**Table[O, E])(nil)).Elem(), false)
	if !ok || !e.ready.Load() {
		return nil, false
	}
	return e.table.(*Table[O, E]), true
}
