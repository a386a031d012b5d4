// Package simplefsm is a small finite-state-machine engine.
//
// An owner type declares its states once, in a Table shared by all its instances:
// per-state handlers keyed by event identifier, enter/exit hooks and a set of
// default handlers used when a state has none of its own. Each owner instance keeps
// a Machine that dispatches events against the table.
package simplefsm

import (
	"errors"
	"log/slog"
)

// Owner is the object a Machine drives. Handlers and hooks receive it unchanged.
type Owner interface {
	// Name identifies the owner in diagnostics
	Name() string
}

// DefaultChainLimit bounds the number of enter steps a single transition may take
// before the machine gives up on the state graph.
const DefaultChainLimit = 16

var (
	// ErrAlreadyInitialized is returned by Initialize on a machine that has left the
	// uninitialized state.
	ErrAlreadyInitialized = errors.New("state machine already initialized")
	// ErrNotInitialized is reported when events arrive before Initialize.
	ErrNotInitialized = errors.New("state machine not initialized")
	// ErrUnknownState means a state identifier is not part of the table.
	ErrUnknownState = errors.New("unknown state")
	// ErrChainLimit means enter hooks kept redirecting past the chain limit.
	ErrChainLimit = errors.New("transition chain did not settle")
	// ErrInvalidID is recorded when a table is given the invalid identifier.
	ErrInvalidID = errors.New("invalid identifier")
	// ErrDuplicateState is recorded when a state identifier is declared twice.
	ErrDuplicateState = errors.New("duplicate state")
)

// Logger is the default logger used when none is provided
var Logger = slog.Default()
