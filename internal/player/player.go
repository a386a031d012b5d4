// Package player is a CD player driven by a simplefsm machine.
package player

import (
	"fmt"
	"io"

	"github.com/librescoot/simplefsm"
)

// Player is a virtual CD player. Its actions print to the configured writer.
type Player struct {
	name string
	out  io.Writer
	sm   *simplefsm.Machine[*Player, Event]

	title string
}

// New creates a player; call Start before sending events.
func New(out io.Writer, opts ...simplefsm.MachineOption) *Player {
	p := &Player{name: "Player", out: out}
	p.sm = simplefsm.New(Table(), opts...)
	return p
}

// Name implements simplefsm.Owner
func (p *Player) Name() string { return p.name }

// Start enters the initial Empty state
func (p *Player) Start() error {
	return p.sm.Initialize(p, Empty)
}

// HandleMessage dispatches ev to the player's state machine
func (p *Player) HandleMessage(ev Event) simplefsm.Result {
	return p.sm.Dispatch(p, ev, ev.Key())
}

// State returns the current state, or the invalid identifier before Start
func (p *Player) State() StateID {
	if s := p.sm.CurrentState(); s != nil {
		return s.ID()
	}
	return simplefsm.ErrorID[State]()
}

// Title returns the title of the last detected disc
func (p *Player) Title() string { return p.title }

// Actions run from transition handlers

func (p *Player) startPlayback(ev Event)  { p.say(ev, "start_playback") }
func (p *Player) openDrawer(ev Event)     { p.say(ev, "open_drawer") }
func (p *Player) closeDrawer(ev Event)    { p.say(ev, "close_drawer") }
func (p *Player) stopPlayback(ev Event)   { p.say(ev, "stop_playback") }
func (p *Player) pausePlayback(ev Event)  { p.say(ev, "pause_playback") }
func (p *Player) resumePlayback(ev Event) { p.say(ev, "resume_playback") }
func (p *Player) stopAndOpen(ev Event)    { p.say(ev, "stop_and_open") }
func (p *Player) stoppedAgain(ev Event)   { p.say(ev, "stopped_again") }

func (p *Player) storeCDInfo(ev Event) {
	cd, ok := ev.(CDDetected)
	if !ok {
		p.say(ev, "store_cd_info, no disc information")
		return
	}
	p.title = cd.Title
	p.say(ev, "store_cd_info, "+cd.Title)
}

func (p *Player) say(ev Event, action string) {
	fmt.Fprintf(p.out, "%s  player::%s\n", ev, action)
}
