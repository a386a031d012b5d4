package simplefsm

import (
	"reflect"
	"sync"
	"sync/atomic"
)

const errorLabel = "ERROR_ID"

// ID is a process-wide unique identifier with a display label.
//
// K is the kind the identifier names. Every kind has its own counter, so event
// identifiers and state identifiers are numbered independently, each starting at 0.
// The zero value is the invalid sentinel and is equal to ErrorID.
type ID[K any] struct {
	seq   int // value + 1, so that the zero value is invalid
	label string
}

// counters maps a kind to its *atomic.Int64
var counters sync.Map

func counterFor[K any]() *atomic.Int64 {
	c, _ := counters.LoadOrStore(reflect.TypeOf((*K)(nil)).Elem(), new(atomic.Int64))
	return c.(*atomic.Int64)
}

// NewID mints the next identifier of kind K.
func NewID[K any](label string) ID[K] {
	n := counterFor[K]().Add(1)
	return ID[K]{seq: int(n), label: label}
}

// ErrorID returns the invalid identifier of kind K (value -1).
func ErrorID[K any]() ID[K] {
	return ID[K]{label: errorLabel}
}

// Issued reports how many identifiers of kind K have been minted
func Issued[K any]() int {
	return int(counterFor[K]().Load())
}

// Value returns the numeric identifier, or -1 for the invalid identifier.
func (id ID[K]) Value() int {
	return id.seq - 1
}

// Label returns the display label.
func (id ID[K]) Label() string {
	if id.seq == 0 && id.label == "" {
		return errorLabel
	}
	return id.label
}

// Equal compares numeric values only.
func (id ID[K]) Equal(other ID[K]) bool {
	return id.seq == other.seq
}

// IsError reports whether id is the invalid identifier.
func (id ID[K]) IsError() bool {
	return id.seq == 0
}

func (id ID[K]) String() string {
	return "{" + id.Label() + "}"
}
