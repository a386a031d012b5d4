package player

import (
	"errors"
	"fmt"

	"github.com/librescoot/simplefsm"
)

// ErrUnknownEvent is returned by Parse for names no event uses
var ErrUnknownEvent = errors.New("unknown event")

// Event is a player control event
type Event interface {
	fmt.Stringer
	Key() simplefsm.ID[Event]
}

// EventID identifies an event kind
type EventID = simplefsm.ID[Event]

// Event kinds
var (
	PlayID         = simplefsm.NewID[Event]("play")
	EndPauseID     = simplefsm.NewID[Event]("end_pause")
	StopID         = simplefsm.NewID[Event]("stop")
	PauseID        = simplefsm.NewID[Event]("pause")
	OpenCloseID    = simplefsm.NewID[Event]("open_close")
	NextSongID     = simplefsm.NewID[Event]("NextSong")
	PreviousSongID = simplefsm.NewID[Event]("PreviousSong")
	CDDetectedID   = simplefsm.NewID[Event]("cd_detected")
)

// Signal is an event without payload
type Signal struct {
	id EventID
}

func (s Signal) Key() EventID   { return s.id }
func (s Signal) String() string { return s.id.String() }

// Payload-free events
var (
	Play         = Signal{PlayID}
	EndPause     = Signal{EndPauseID}
	Stop         = Signal{StopID}
	Pause        = Signal{PauseID}
	OpenClose    = Signal{OpenCloseID}
	NextSong     = Signal{NextSongID}
	PreviousSong = Signal{PreviousSongID}
)

// CDDetected reports the title of an inserted disc
type CDDetected struct {
	Title string
}

func (CDDetected) Key() EventID   { return CDDetectedID }
func (CDDetected) String() string { return CDDetectedID.String() }

// Events lists every event kind in declaration order
func Events() []EventID {
	return []EventID{PlayID, EndPauseID, StopID, PauseID, OpenCloseID, NextSongID, PreviousSongID, CDDetectedID}
}

// Parse builds an event from its label. title is only used by cd_detected.
func Parse(name, title string) (Event, error) {
	for _, id := range Events() {
		if id.Label() != name {
			continue
		}
		if id.Equal(CDDetectedID) {
			return CDDetected{Title: title}, nil
		}
		return Signal{id}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, name)
}
