package simplefsm

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

// Test owner
type recorder struct {
	name  string
	calls []string
}

func (r *recorder) Name() string { return r.name }

func (r *recorder) record(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recorder) reset() { r.calls = nil }

// Test event
type signal struct {
	key  ID[signal]
	note string
}

func (s signal) String() string { return s.key.String() }

type testState = State[*recorder, signal]
type testTable = Table[*recorder, signal]

// Test states
var (
	stateEmpty   = NewID[testState]("Empty")
	stateOpen    = NewID[testState]("Open")
	stateA       = NewID[testState]("A")
	stateB       = NewID[testState]("B")
	stateC       = NewID[testState]("C")
	stateUnknown = NewID[testState]("Unknown")
)

// Test events
var (
	evOpenClose = NewID[signal]("open_close")
	evGo        = NewID[signal]("go")
	evReset     = NewID[signal]("reset")
	evNoop      = NewID[signal]("noop")
)

func send(m *Machine[*recorder, signal], r *recorder, key ID[signal]) Result {
	return m.Dispatch(r, signal{key: key}, key)
}

// traced installs enter/exit hooks that record their calls on the owner
func traced(s *testState) *testState {
	return s.
		OnEnter(func(r *recorder) ID[testState] {
			r.record("enter %s", s.ID().Label())
			return s.ID()
		}).
		OnExit(func(r *recorder) {
			r.record("exit %s", s.ID().Label())
		})
}

func goTo(target ID[testState]) TransitionFunc[*recorder, signal] {
	return func(r *recorder, ev signal) ID[testState] {
		r.record("action %s", ev.key.Label())
		return target
	}
}

func playerTable() *testTable {
	t := NewTable[*recorder, signal]("player")
	traced(t.State(stateEmpty)).On(evOpenClose, goTo(stateOpen))
	traced(t.State(stateOpen)).On(evOpenClose, goTo(stateEmpty))
	return t
}

func TestBasicTransition(t *testing.T) {
	r := &recorder{name: "player"}
	m := New(playerTable())

	if err := m.Initialize(r, stateEmpty); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	if !m.CurrentState().ID().Equal(stateEmpty) {
		t.Fatalf("expected state %s, got %s", stateEmpty, m.CurrentState())
	}

	if res := send(m, r, evOpenClose); res != Handled {
		t.Fatalf("expected handled, got %s", res)
	}
	if !m.CurrentState().ID().Equal(stateOpen) {
		t.Errorf("expected state %s, got %s", stateOpen, m.CurrentState())
	}

	if res := send(m, r, evOpenClose); res != Handled {
		t.Fatalf("expected handled, got %s", res)
	}
	if !m.CurrentState().ID().Equal(stateEmpty) {
		t.Errorf("expected state %s, got %s", stateEmpty, m.CurrentState())
	}

	r.reset()
	if res := send(m, r, evGo); res != Unhandled {
		t.Errorf("expected unhandled, got %s", res)
	}
	if !m.CurrentState().ID().Equal(stateEmpty) {
		t.Errorf("unhandled event moved the machine to %s", m.CurrentState())
	}
	if len(r.calls) != 0 {
		t.Errorf("unhandled event ran hooks: %v", r.calls)
	}
}

func TestEntryExitOrder(t *testing.T) {
	r := &recorder{name: "player"}
	m := New(playerTable())

	if err := m.Initialize(r, stateEmpty); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	send(m, r, evOpenClose)

	want := []string{"enter Empty", "action open_close", "exit Empty", "enter Open"}
	if strings.Join(r.calls, ",") != strings.Join(want, ",") {
		t.Errorf("expected calls %v, got %v", want, r.calls)
	}
}

func TestSelfTransition(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tbl := NewTable[*recorder, signal]("self")
	traced(tbl.State(stateA)).On(evGo, goTo(stateA))

	r := &recorder{name: "self"}
	m := New(tbl, WithLogger(logger))
	if err := m.Initialize(r, stateA); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	r.reset()
	buf.Reset()

	if res := send(m, r, evGo); res != Handled {
		t.Fatalf("expected handled, got %s", res)
	}

	want := []string{"action go", "exit A", "enter A"}
	if strings.Join(r.calls, ",") != strings.Join(want, ",") {
		t.Errorf("expected calls %v, got %v", want, r.calls)
	}
	if strings.Contains(buf.String(), "state changed") {
		t.Errorf("self transition logged a state change:\n%s", buf.String())
	}
}

func TestStateChangedLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	r := &recorder{name: "player"}
	m := New(playerTable(), WithLogger(logger))
	if err := m.Initialize(r, stateEmpty); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	send(m, r, evOpenClose)

	out := buf.String()
	if !strings.Contains(out, "state changed") || !strings.Contains(out, "from=Empty") || !strings.Contains(out, "to=Open") {
		t.Errorf("expected state change line, got:\n%s", out)
	}
}

func TestDefaultHandlers(t *testing.T) {
	tests := []struct {
		name      string
		opts      []StateOption
		local     bool
		wantRes   Result
		wantState ID[testState]
		wantCalls []string
	}{
		{
			name:      "fallback used",
			wantRes:   Handled,
			wantState: stateB,
			wantCalls: []string{"default reset"},
		},
		{
			name:      "local handler wins",
			local:     true,
			wantRes:   Handled,
			wantState: stateC,
			wantCalls: []string{"action reset"},
		},
		{
			name:      "ignore defaults",
			opts:      []StateOption{IgnoreDefaults()},
			wantRes:   Unhandled,
			wantState: stateA,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := NewTable[*recorder, signal]("defaults")
			a := tbl.State(stateA, tt.opts...)
			if tt.local {
				a.On(evReset, goTo(stateC))
			}
			tbl.State(stateB)
			tbl.State(stateC)
			tbl.Default(evReset, func(r *recorder, ev signal) ID[testState] {
				r.record("default %s", ev.key.Label())
				return stateB
			})

			r := &recorder{name: "defaults"}
			m := New(tbl)
			if err := m.Initialize(r, stateA); err != nil {
				t.Fatalf("initialize failed: %v", err)
			}

			if res := send(m, r, evReset); res != tt.wantRes {
				t.Errorf("expected %s, got %s", tt.wantRes, res)
			}
			if !m.CurrentState().ID().Equal(tt.wantState) {
				t.Errorf("expected state %s, got %s", tt.wantState, m.CurrentState())
			}
			if strings.Join(r.calls, ",") != strings.Join(tt.wantCalls, ",") {
				t.Errorf("expected calls %v, got %v", tt.wantCalls, r.calls)
			}
		})
	}
}

func TestIgnoreSetPrecedence(t *testing.T) {
	t.Run("falls through to defaults", func(t *testing.T) {
		tbl := NewTable[*recorder, signal]("ignore")
		tbl.State(stateA, Ignoring(evGo)).On(evGo, goTo(stateC))
		tbl.State(stateB)
		tbl.State(stateC)
		tbl.Default(evGo, func(r *recorder, ev signal) ID[testState] { return stateB })

		r := &recorder{name: "ignore"}
		m := New(tbl)
		if err := m.Initialize(r, stateA); err != nil {
			t.Fatalf("initialize failed: %v", err)
		}
		if res := send(m, r, evGo); res != Handled {
			t.Fatalf("expected handled, got %s", res)
		}
		if !m.CurrentState().ID().Equal(stateB) {
			t.Errorf("expected default target %s, got %s", stateB, m.CurrentState())
		}
	})

	t.Run("unhandled without defaults", func(t *testing.T) {
		tbl := NewTable[*recorder, signal]("ignore")
		tbl.State(stateA).On(evGo, goTo(stateC)).Ignore(evGo, evNoop)
		tbl.State(stateC)

		r := &recorder{name: "ignore"}
		m := New(tbl)
		if err := m.Initialize(r, stateA); err != nil {
			t.Fatalf("initialize failed: %v", err)
		}
		if res := send(m, r, evGo); res != Unhandled {
			t.Errorf("expected unhandled, got %s", res)
		}
		if res := send(m, r, evNoop); res != Unhandled {
			t.Errorf("expected unhandled, got %s", res)
		}
		if !m.CurrentState().ID().Equal(stateA) {
			t.Errorf("expected state %s, got %s", stateA, m.CurrentState())
		}
	})
}

func TestInitializeTwice(t *testing.T) {
	r := &recorder{name: "player"}
	m := New(playerTable())

	if err := m.Initialize(r, stateEmpty); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	send(m, r, evOpenClose)
	r.reset()

	err := m.Initialize(r, stateEmpty)
	if !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("expected ErrAlreadyInitialized, got %v", err)
	}
	if !m.CurrentState().ID().Equal(stateOpen) {
		t.Errorf("second initialize moved the machine to %s", m.CurrentState())
	}
	if len(r.calls) != 0 {
		t.Errorf("second initialize ran hooks: %v", r.calls)
	}
}

func TestInitializeUnknownState(t *testing.T) {
	r := &recorder{name: "player"}
	m := New(playerTable())

	err := m.Initialize(r, stateUnknown)
	if !errors.Is(err, ErrUnknownState) {
		t.Fatalf("expected ErrUnknownState, got %v", err)
	}
	if m.Initialized() || m.CurrentState() != nil {
		t.Errorf("failed initialize left the machine initialized")
	}
	if err := m.Initialize(r, stateEmpty); err != nil {
		t.Errorf("initialize after failure: %v", err)
	}
}

func TestDispatchBeforeInitialize(t *testing.T) {
	r := &recorder{name: "player"}
	m := New(playerTable())

	if res := send(m, r, evOpenClose); res != Unhandled {
		t.Errorf("expected unhandled, got %s", res)
	}
	if m.CurrentState() != nil {
		t.Errorf("expected no current state, got %s", m.CurrentState())
	}
	if len(r.calls) != 0 {
		t.Errorf("dispatch before initialize ran hooks: %v", r.calls)
	}
}

func TestTransitionChain(t *testing.T) {
	tbl := NewTable[*recorder, signal]("chain")
	traced(tbl.State(stateA)).On(evGo, goTo(stateB))
	tbl.State(stateB).
		OnEnter(func(r *recorder) ID[testState] {
			r.record("enter B")
			return stateC
		}).
		OnExit(func(r *recorder) { r.record("exit B") })
	traced(tbl.State(stateC))

	r := &recorder{name: "chain"}
	m := New(tbl)
	if err := m.Initialize(r, stateA); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	r.reset()

	if res := send(m, r, evGo); res != Handled {
		t.Fatalf("expected handled, got %s", res)
	}

	want := []string{"action go", "exit A", "enter B", "exit B", "enter C"}
	if strings.Join(r.calls, ",") != strings.Join(want, ",") {
		t.Errorf("expected calls %v, got %v", want, r.calls)
	}
	if !m.CurrentState().ID().Equal(stateC) {
		t.Errorf("expected state %s, got %s", stateC, m.CurrentState())
	}
}

func TestInitializeFollowsRedirect(t *testing.T) {
	tbl := NewTable[*recorder, signal]("redirect")
	tbl.State(stateA).OnEnter(func(*recorder) ID[testState] { return stateB })
	traced(tbl.State(stateB))

	r := &recorder{name: "redirect"}
	m := New(tbl)
	if err := m.Initialize(r, stateA); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	if !m.CurrentState().ID().Equal(stateB) {
		t.Errorf("expected state %s, got %s", stateB, m.CurrentState())
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		build   func(*testTable)
		wantErr error
	}{
		{
			name:  "valid table",
			build: func(t *testTable) { t.State(stateA).On(evGo, goTo(stateA)) },
		},
		{
			name:  "no states",
			build: func(t *testTable) {},
		},
		{
			name: "duplicate state",
			build: func(t *testTable) {
				t.State(stateA)
				t.State(stateA)
			},
			wantErr: ErrDuplicateState,
		},
		{
			name:    "state without identifier",
			build:   func(t *testTable) { t.State(stateA); t.State(ErrorID[testState]()) },
			wantErr: ErrInvalidID,
		},
		{
			name:    "handler for invalid event",
			build:   func(t *testTable) { t.State(stateA).On(ErrorID[signal](), goTo(stateA)) },
			wantErr: ErrInvalidID,
		},
		{
			name:  "nil handler",
			build: func(t *testTable) { t.State(stateA).On(evGo, nil) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := NewTable[*recorder, signal](tt.name)
			tt.build(tbl)
			err := tbl.Validate()
			if tt.name == "valid table" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEventPayload(t *testing.T) {
	var received string

	tbl := NewTable[*recorder, signal]("payload")
	tbl.State(stateA).On(evGo, func(r *recorder, ev signal) ID[testState] {
		received = ev.note
		return stateB
	})
	tbl.State(stateB)

	r := &recorder{name: "payload"}
	m := New(tbl)
	if err := m.Initialize(r, stateA); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	m.Dispatch(r, signal{key: evGo, note: "test-data"}, evGo)

	if received != "test-data" {
		t.Errorf("expected payload 'test-data', got %q", received)
	}
}
