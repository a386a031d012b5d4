package player

import (
	"fmt"

	"github.com/librescoot/simplefsm"
)

// State is a player state
type State = simplefsm.State[*Player, Event]

// StateID identifies a player state
type StateID = simplefsm.ID[State]

// Player states
var (
	Stopped = simplefsm.NewID[State]("Stopped")
	Open    = simplefsm.NewID[State]("Open")
	Empty   = simplefsm.NewID[State]("Empty")
	Playing = simplefsm.NewID[State]("Playing")
	Paused  = simplefsm.NewID[State]("Paused")
)

type handler = simplefsm.TransitionFunc[*Player, Event]

// Table returns the transition table shared by all players, building it on first use.
func Table() *simplefsm.Table[*Player, Event] {
	return simplefsm.Define("Player", buildTable)
}

// then runs action and moves to target
func then(action func(*Player, Event), target StateID) handler {
	return func(p *Player, ev Event) StateID {
		action(p, ev)
		return target
	}
}

// announced adds enter/exit hooks that report the state change on the player output
func announced(s *State) *State {
	id := s.ID()
	return s.
		OnEnter(func(p *Player) StateID {
			fmt.Fprintf(p.out, "entering: %s\n", id.Label())
			return id
		}).
		OnExit(func(p *Player) {
			fmt.Fprintf(p.out, "leaving: %s\n", id.Label())
		})
}

func buildTable(t *simplefsm.Table[*Player, Event]) {
	announced(t.State(Stopped)).
		On(PlayID, then((*Player).startPlayback, Playing)).
		On(OpenCloseID, then((*Player).openDrawer, Open)).
		On(StopID, then((*Player).stoppedAgain, Stopped))

	announced(t.State(Open)).
		On(OpenCloseID, then((*Player).closeDrawer, Empty))

	announced(t.State(Empty)).
		On(OpenCloseID, then((*Player).openDrawer, Open)).
		On(CDDetectedID, then((*Player).storeCDInfo, Stopped))

	announced(t.State(Playing)).
		On(StopID, then((*Player).stopPlayback, Stopped)).
		On(PauseID, then((*Player).pausePlayback, Paused)).
		On(OpenCloseID, then((*Player).stopAndOpen, Open))

	announced(t.State(Paused)).
		On(EndPauseID, then((*Player).resumePlayback, Playing)).
		On(StopID, then((*Player).stopPlayback, Stopped)).
		On(OpenCloseID, then((*Player).stopAndOpen, Open))
}
